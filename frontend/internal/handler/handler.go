package handler

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/pixora-dev/pixora/frontend/internal/apiclient"
	"github.com/pixora-dev/pixora/frontend/internal/authstate"
	"github.com/pixora-dev/pixora/frontend/internal/feed"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/frontend/internal/imaging"
	"github.com/pixora-dev/pixora/frontend/internal/markdown"
	"github.com/pixora-dev/pixora/shared/config"
)

type Handler struct {
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	APIClient     *apiclient.APIClient
	AuthStore     *authstate.Store
	Feeds         *feed.Registry
	Submissions   *imaging.Store
	Flashes       *flash.Flashes
	PostPolicy    imaging.Policy
	AvatarPolicy  imaging.Policy

	mu        sync.RWMutex
	templates map[string]*template.Template
}

// Deps are the collaborators a Handler needs besides configuration.
type Deps struct {
	TextProcessor *markdown.TextProcessor
	APIClient     *apiclient.APIClient
	AuthStore     *authstate.Store
	Feeds         *feed.Registry
	Submissions   *imaging.Store
	Flashes       *flash.Flashes
}

func New(templates map[string]*template.Template, publicCfg config.Public, deps Deps) *Handler {
	return &Handler{
		Public:        publicCfg,
		TextProcessor: deps.TextProcessor,
		APIClient:     deps.APIClient,
		AuthStore:     deps.AuthStore,
		Feeds:         deps.Feeds,
		Submissions:   deps.Submissions,
		Flashes:       deps.Flashes,
		PostPolicy:    imaging.FromConfig(imaging.PostPolicy, publicCfg.PostUpload, publicCfg.NormalizeTimeout),
		AvatarPolicy:  imaging.FromConfig(imaging.ProfilePicturePolicy, publicCfg.ProfilePictureUpload, publicCfg.NormalizeTimeout),
		templates:     templates,
	}
}

// SetTemplates swaps the parsed templates. Used by the development reloader.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.templates = templates
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	tmpl, ok := h.templates[name]
	return tmpl, ok
}

func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
