package handler

import (
	"context"
	"net/http"
	"strings"

	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/errors"
	"golang.org/x/sync/errgroup"
)

const msgUserNotFound = "User not found"

// FriendsGetHandler lists friends and pending requests. ?q= looks a user up
// by exact username.
func (h *Handler) FriendsGetHandler(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	data := frontend_domain.FriendsPageData{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Friends, err = session.Friends(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Incoming, err = session.FriendRequests(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Sent, err = session.SentRequests(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(w, r, err)
		return
	}

	var searchErr string
	if data.Query != "" {
		profile, err := session.SearchUser(r.Context(), data.Query)
		switch {
		case err == nil:
			data.Found = &profile
		case errors.StatusCode(err) == http.StatusNotFound:
			searchErr = msgUserNotFound
		case errors.StatusCode(err) == http.StatusUnauthorized:
			w.WriteHeader(http.StatusUnauthorized)
			return
		default:
			searchErr = userMessage(err)
		}
	}
	h.renderTemplateWithError(w, r, "friends.html", data, searchErr)
}

func (h *Handler) FriendRequestPostHandler(w http.ResponseWriter, r *http.Request) {
	target := backTo(r)
	username := strings.TrimSpace(r.FormValue("username"))
	if username == "" {
		h.redirectWithFlash(w, r, target, flash.KeyError, "Username is required")
		return
	}

	if _, err := h.session(r).SendFriendRequest(r.Context(), username); err != nil {
		h.fail(w, r, target, err)
		return
	}
	h.redirectWithFlash(w, r, target, flash.KeySuccess, "Friend request sent")
}

func (h *Handler) FriendAcceptHandler(w http.ResponseWriter, r *http.Request) {
	h.friendshipAction(w, r, "Friend request accepted", func(ctx context.Context, id domain.FriendshipId) error {
		return h.session(r).AcceptFriendRequest(ctx, id)
	})
}

func (h *Handler) FriendDeclineHandler(w http.ResponseWriter, r *http.Request) {
	h.friendshipAction(w, r, "Friend request declined", func(ctx context.Context, id domain.FriendshipId) error {
		return h.session(r).DeclineFriendRequest(ctx, id)
	})
}

func (h *Handler) FriendCancelHandler(w http.ResponseWriter, r *http.Request) {
	h.friendshipAction(w, r, "Friend request cancelled", func(ctx context.Context, id domain.FriendshipId) error {
		return h.session(r).CancelFriendRequest(ctx, id)
	})
}

func (h *Handler) FriendRemoveHandler(w http.ResponseWriter, r *http.Request) {
	h.friendshipAction(w, r, "Friend removed", func(ctx context.Context, id domain.FriendshipId) error {
		return h.session(r).RemoveFriend(ctx, id)
	})
}

func (h *Handler) friendshipAction(w http.ResponseWriter, r *http.Request, done string, action func(context.Context, domain.FriendshipId) error) {
	target := backTo(r)
	id, err := parseID(r, "friendship")
	if err != nil {
		h.fail(w, r, target, err)
		return
	}
	if err := action(r.Context(), id); err != nil {
		h.fail(w, r, target, err)
		return
	}
	h.redirectWithFlash(w, r, target, flash.KeySuccess, done)
}

// backTo is the local page a friendship form asked to return to.
func backTo(r *http.Request) string {
	next := r.FormValue("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`) {
		return next
	}
	return "/friends"
}
