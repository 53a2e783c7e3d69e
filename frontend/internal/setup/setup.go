package setup

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pixora-dev/pixora/frontend/internal/apiclient"
	"github.com/pixora-dev/pixora/frontend/internal/authstate"
	"github.com/pixora-dev/pixora/frontend/internal/feed"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/frontend/internal/handler"
	"github.com/pixora-dev/pixora/frontend/internal/imaging"
	"github.com/pixora-dev/pixora/frontend/internal/markdown"
	"github.com/pixora-dev/pixora/frontend/web"
	"github.com/pixora-dev/pixora/shared/config"
	"github.com/pixora-dev/pixora/shared/logger"
)

const templateReloadInterval = 5 * time.Second

type Dependencies struct {
	Handler    *handler.Handler
	Public     config.Public
	APIClient  *apiclient.APIClient
	AuthStore  *authstate.Store
	Flashes    *flash.Flashes
	Static     fs.FS
	CancelFunc context.CancelFunc
}

// SetupDependencies builds the handler and everything it talks to.
// Templates come from TemplatesPath when set, otherwise from the binary.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())
	public := cfg.Public

	templatesFS := web.Templates()
	if public.TemplatesPath != "" {
		templatesFS = os.DirFS(public.TemplatesPath)
	}
	templates, err := web.LoadTemplates(templatesFS)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	mediaBase := public.MediaBase()
	apiClient := apiclient.New(public.APIOrigin, mediaBase, public.APITimeout)
	authStore := authstate.NewStore(public.MaxAuthEntries, public.AuthCacheTTL, public.AccessCookie)
	flashes := flash.New([]byte(cfg.SessionKey()), public.SecureCookies)

	h := handler.New(templates, public, handler.Deps{
		TextProcessor: markdown.New(),
		APIClient:     apiClient,
		AuthStore:     authStore,
		Feeds:         feed.NewRegistry(public.MaxFeedViews, public.FeedViewTTL, mediaBase, public.FeedFetchTimeout),
		Submissions:   imaging.NewStore(public.MaxSubmissions, public.SubmissionTTL),
		Flashes:       flashes,
	})

	if os.Getenv("ENV") == "development" && public.TemplatesPath != "" {
		startTemplateReloader(ctx, h, templatesFS)
	}

	return &Dependencies{
		Handler:    h,
		Public:     public,
		APIClient:  apiClient,
		AuthStore:  authStore,
		Flashes:    flashes,
		Static:     web.Static(),
		CancelFunc: cancel,
	}, nil
}

// startTemplateReloader re-parses templates from disk until ctx is done.
// A broken template keeps the previous set in place.
func startTemplateReloader(ctx context.Context, h *handler.Handler, fsys fs.FS) {
	ticker := time.NewTicker(templateReloadInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				templates, err := web.LoadTemplates(fsys)
				if err != nil {
					logger.Log.Warn("template reload failed", "error", err)
					continue
				}
				h.SetTemplates(templates)
			}
		}
	}()
	logger.Log.Info("template reloader started", "interval", templateReloadInterval)
}
