package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixora-dev/pixora/frontend/internal/handler"
	fmw "github.com/pixora-dev/pixora/frontend/internal/middleware"
	"github.com/pixora-dev/pixora/frontend/internal/setup"
	mw "github.com/pixora-dev/pixora/shared/middleware"
	"github.com/pixora-dev/pixora/shared/middleware/metrics"
	rl "github.com/pixora-dev/pixora/shared/middleware/ratelimiter"
	"github.com/pixora-dev/pixora/shared/validation"
)

const multipartOverhead = 1 << 20

// New wires every page and action of the frontend.
// Rate limiters set with Use limit all routes of that group combined.
func New(deps *setup.Dependencies) http.Handler {
	h := deps.Handler
	public := deps.Public
	auth := fmw.NewAuth(deps.AuthStore, deps.APIClient, deps.Flashes)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(fmw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(chimw.Compress(5, "text/html", "text/css", "application/javascript", "application/json"))
	r.Use(mw.SecurityHeadersWithCSP(public.SecureCookies, mw.ContentSecurityPolicy(public.MediaBase())))
	if len(public.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   public.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-CSRF-Token", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", handler.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(deps)))
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/favicon.svg", http.StatusMovedPermanently)
	})

	csrfConfig := fmw.CSRFConfig{
		SecureCookies:     public.SecureCookies,
		MaxMultipartBytes: validation.CalculateMaxRequestSize(maxUpload(public.PostUpload.MaxSizeBytes, public.ProfilePictureUpload.MaxSizeBytes), multipartOverhead),
	}

	r.Group(func(r chi.Router) {
		r.Use(fmw.GenerateCSRFToken(csrfConfig))
		r.Use(fmw.ValidateCSRFToken(csrfConfig))

		// Logged out pages
		r.Group(func(r chi.Router) {
			r.Use(auth.RedirectIfAuthenticated("/feed"))
			r.Get("/login", h.LoginGetHandler)
			r.Get("/register", h.RegisterGetHandler)

			r.With(
				mw.RateLimit(rl.FivePerMinute(), mw.GetFieldFromForm("username")),
				mw.RateLimit(rl.OnceInSecond(), mw.GetIP),
				mw.GlobalRateLimit(rl.Rps100()),
			).Post("/login", h.LoginPostHandler)
			r.With(
				mw.RateLimit(rl.New(1.0/60.0, 3, time.Hour), mw.GetIP),
				mw.GlobalRateLimit(rl.Rps100()),
			).Post("/register", h.RegisterPostHandler)
		})

		// Everything else needs a session
		r.Group(func(r chi.Router) {
			r.Use(auth.NeedAuth())

			r.Get("/", h.IndexHandler)
			r.Post("/logout", h.LogoutHandler)

			r.Get("/feed", h.FeedGetHandler)
			r.Get("/feed/{view}", h.FeedViewGetHandler)
			r.Get("/feed/{view}/more", h.FeedMoreHandler)
			r.Post("/feed/{view}/refresh", h.FeedRefreshHandler)
			r.Post("/feed/{view}/posts/{post}/comments", h.FeedCommentHandler)

			r.Get("/p/{post}", h.PostGetHandler)
			r.Post("/p/{post}/comments", h.PostCommentHandler)

			r.Get("/posts/new", h.NewPostGetHandler)
			r.Post("/posts/new/select", h.NewPostSelectHandler)
			r.Post("/posts/new/remove", h.NewPostRemoveHandler)
			r.With(mw.RateLimit(rl.OnceInSecond(), postOwner(h))).Post("/posts/new", h.NewPostSubmitHandler)

			r.Get("/profile", h.ProfileGetHandler)
			r.Get("/u/{username}", h.UserProfileGetHandler)

			r.Get("/settings", h.SettingsGetHandler)
			r.Post("/settings", h.SettingsPostHandler)
			r.Post("/settings/picture", h.SettingsPicturePostHandler)

			r.Get("/friends", h.FriendsGetHandler)
			r.Post("/friends/request", h.FriendRequestPostHandler)
			r.Post("/friends/{friendship}/accept", h.FriendAcceptHandler)
			r.Post("/friends/{friendship}/decline", h.FriendDeclineHandler)
			r.Post("/friends/{friendship}/cancel", h.FriendCancelHandler)
			r.Post("/friends/{friendship}/remove", h.FriendRemoveHandler)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Page not found", http.StatusNotFound)
	})

	return r
}

func staticHandler(deps *setup.Dependencies) http.Handler {
	files := http.FileServer(http.FS(deps.Static))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// postOwner limits post submissions per browser session.
func postOwner(h *handler.Handler) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		return h.AuthStore.Key(r.Cookies()), nil
	}
}

func maxUpload(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
