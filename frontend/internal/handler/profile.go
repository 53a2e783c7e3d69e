package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pixora-dev/pixora/frontend/internal/apiclient"
	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/frontend/internal/middleware"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/logger"
	"golang.org/x/sync/errgroup"
)

// ProfileGetHandler shows the viewer's own profile and posts.
func (h *Handler) ProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	var (
		profile domain.Profile
		posts   []domain.Post
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		profile, err = session.MyProfile(ctx)
		return err
	})
	g.Go(func() (err error) {
		posts, err = session.MyPosts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "profile.html", frontend_domain.ProfilePageData{
		Profile: profile,
		Posts:   h.renderPosts(posts),
		IsOwn:   true,
	})
}

// UserProfileGetHandler shows someone else's profile together with the
// viewer's friendship state toward them.
func (h *Handler) UserProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if auth := middleware.GetAuthFromContext(r); auth.Authenticated && auth.Username == username {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	session := h.session(r)

	var (
		profile    domain.Profile
		posts      []domain.Post
		friendship *domain.Friendship
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		profile, err = session.Profile(ctx, username)
		return err
	})
	g.Go(func() (err error) {
		posts, err = session.UserPosts(ctx, username)
		return err
	})
	g.Go(func() error {
		friendship = h.friendshipWith(ctx, session, username)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "profile.html", frontend_domain.ProfilePageData{
		Profile:    profile,
		Posts:      h.renderPosts(posts),
		Friendship: friendship,
	})
}

// friendshipWith looks username up in the viewer's friends and pending
// requests. Lookup failures only hide the friendship controls.
func (h *Handler) friendshipWith(ctx context.Context, session *apiclient.Session, username string) *domain.Friendship {
	friends, err := session.Friends(ctx)
	if err != nil {
		logger.Log.Warn("friends lookup failed", "error", err)
		return nil
	}
	for i := range friends {
		if friends[i].Friend.Username == username {
			return &friends[i]
		}
	}

	sent, err := session.SentRequests(ctx)
	if err == nil {
		for i := range sent {
			if sent[i].Friend.Username == username {
				return &sent[i]
			}
		}
	}

	incoming, err := session.FriendRequests(ctx)
	if err == nil {
		for _, req := range incoming {
			if req.Requester.Username == username {
				return &domain.Friendship{
					Id:                req.Id,
					Friend:            req.Requester,
					Status:            domain.FriendshipPending,
					RequesterUsername: username,
					CreatedAt:         req.CreatedAt,
				}
			}
		}
	}
	return nil
}
