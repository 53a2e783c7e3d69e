package handler

import (
	"bytes"
	"fmt"
	"net/http"

	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/logger"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	h.renderTemplateStatus(w, r, name, http.StatusOK, data, errMsg)
}

func (h *Handler) renderTemplateStatus(w http.ResponseWriter, r *http.Request, name string, status int, data any, errMsg string) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Cookie")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPartial executes one named block of a page template set, for
// responses the page script splices into the document.
func (h *Handler) renderPartial(w http.ResponseWriter, page, block string, data any) {
	tmpl, ok := h.getTemplate(page)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", page), http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, block, data); err != nil {
		logger.Log.Error("error executing partial", "template", page, "block", block, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// renderPost transforms a domain.Post into a frontend-specific view model.
func (h *Handler) renderPost(post domain.Post) *frontend_domain.Post {
	rendered := &frontend_domain.Post{
		Post:     post,
		Caption:  h.TextProcessor.Render(post.Caption),
		Comments: make([]*frontend_domain.Comment, len(post.Comments)),
	}
	for i, c := range post.Comments {
		rendered.Comments[i] = &frontend_domain.Comment{
			Comment: c,
			Text:    h.TextProcessor.RenderInline(c.Text),
		}
	}
	return rendered
}

func (h *Handler) renderPosts(posts []domain.Post) []*frontend_domain.Post {
	rendered := make([]*frontend_domain.Post, len(posts))
	for i, p := range posts {
		rendered[i] = h.renderPost(p)
	}
	return rendered
}
