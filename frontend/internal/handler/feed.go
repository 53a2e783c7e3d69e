package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/frontend/internal/feed"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/utils"
)

// FeedGetHandler mounts a fresh feed view and loads its first page.
func (h *Handler) FeedGetHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Feeds.Mount(h.owner(r), h.session(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	c.LoadPage(r.Context(), 1, feed.Append)
	h.renderFeed(w, r, c)
}

// FeedViewGetHandler re-renders a mounted view, e.g. after a refresh or a
// comment. An expired view starts over.
func (h *Handler) FeedViewGetHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := h.feedView(w, r)
	if !ok {
		return
	}
	h.renderFeed(w, r, c)
}

func (h *Handler) renderFeed(w http.ResponseWriter, r *http.Request, c *feed.Controller) {
	view := c.Render()
	h.renderTemplate(w, r, "feed.html", frontend_domain.FeedPageData{
		ViewID:   view.ID,
		Posts:    h.renderPosts(view.State.Posts),
		Page:     view.State.Page,
		HasMore:  view.State.HasMore,
		Sentinel: view.Sentinel,
	})
}

// FeedMoreHandler is called by the page script when the sentinel scrolls
// into view. It answers with the appended posts, or 204 when the report was
// stale or a fetch is already running.
func (h *Handler) FeedMoreHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Feeds.Get(chi.URLParam(r, "view"), h.owner(r))
	if err != nil {
		http.Error(w, userMessage(err), http.StatusGone)
		return
	}
	c.Bind(h.session(r))

	posts, ok := c.OnScrollNearEnd(r.Context(), r.URL.Query().Get("sentinel"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Render blanks the sentinel once hasMore is false. After a failed fetch
	// it is re-armed on the advanced cursor, so the next scroll asks for the
	// following page.
	view := c.Render()
	common := h.initCommonTemplateData(w, r)
	h.renderPartial(w, "feed.html", "feed_chunk", frontend_domain.FeedChunkData{
		ViewID:   view.ID,
		Posts:    h.renderPosts(posts),
		Sentinel: view.Sentinel,
		Retry:    len(posts) == 0 && view.Sentinel != "",
		Common:   &common,
	})
}

// FeedRefreshHandler reloads the first page of a view. A refresh requested
// while a fetch runs is dropped.
func (h *Handler) FeedRefreshHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := h.feedView(w, r)
	if !ok {
		return
	}
	if !c.Refresh(r.Context()) {
		logger.Log.Debug("refresh skipped, fetch in flight", "view", c.ID)
	}
	http.Redirect(w, r, "/feed/"+c.ID, http.StatusSeeOther)
}

// FeedCommentHandler posts a comment from the feed. The feed itself is not
// changed; the comment shows up on the next refresh.
func (h *Handler) FeedCommentHandler(w http.ResponseWriter, r *http.Request) {
	asJSON := wantsJSON(r)
	c, err := h.Feeds.Get(chi.URLParam(r, "view"), h.owner(r))
	if err != nil {
		if asJSON {
			http.Error(w, userMessage(err), http.StatusGone)
			return
		}
		h.redirectWithFlash(w, r, "/feed", flash.KeyError, userMessage(err))
		return
	}
	c.Bind(h.session(r))

	postId, err := parseID(r, "post")
	if err != nil {
		if asJSON {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		h.fail(w, r, "/feed/"+c.ID, err)
		return
	}

	var text string
	if asJSON {
		var body api.CreateCommentRequest
		if err := utils.Decode(r.Body, &body); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		text = body.Text
	} else {
		text = r.FormValue("text")
	}

	err = c.SubmitComment(r.Context(), postId, text)
	target := fmt.Sprintf("/feed/%s#post-%d", c.ID, postId)
	if asJSON {
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]bool{"posted": strings.TrimSpace(text) != ""})
		return
	}
	if err != nil {
		h.fail(w, r, target, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	h.redirectWithFlash(w, r, target, flash.KeySuccess, "Comment posted")
}

// feedView finds the view named in the URL for this session and binds the
// request's cookies to it. A missing view redirects to a fresh feed.
func (h *Handler) feedView(w http.ResponseWriter, r *http.Request) (*feed.Controller, bool) {
	c, err := h.Feeds.Get(chi.URLParam(r, "view"), h.owner(r))
	if err != nil {
		http.Redirect(w, r, "/feed", http.StatusSeeOther)
		return nil, false
	}
	c.Bind(h.session(r))
	return c, true
}
