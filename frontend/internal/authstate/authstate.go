// Package authstate caches, per browser session, whether the backend
// considers the session logged in and as whom.
package authstate

import (
	"context"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/bluele/gcache"
	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/jwt"
	"github.com/pixora-dev/pixora/shared/logger"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// Context is what every view knows about the current user.
type Context struct {
	Authenticated bool
	Username      string
	CheckedAt     time.Time
}

// Checker performs the authoritative check against the backend.
type Checker interface {
	Authenticated(ctx context.Context) (api.AuthenticatedResponse, error)
	MyProfile(ctx context.Context) (domain.Profile, error)
}

const defaultCheckTimeout = 10 * time.Second

// Store answers Get from cache after the first check of a session. Only Set,
// Clear and Refresh change what it holds.
type Store struct {
	// CheckTimeout bounds a backend check shared by concurrent requests of
	// one session. It does not follow any single request's lifetime.
	CheckTimeout time.Duration

	cache        gcache.Cache
	group        singleflight.Group
	accessCookie string
	now          func() time.Time
}

func NewStore(size int, ttl time.Duration, accessCookie string) *Store {
	return &Store{
		CheckTimeout: defaultCheckTimeout,
		cache:        gcache.New(size).LRU().Expiration(ttl).Build(),
		accessCookie: accessCookie,
		now:          time.Now,
	}
}

// SessionKey identifies a browser session by a hash of its access cookie, so
// raw tokens never sit in memory as map keys. Empty when there is no cookie.
func SessionKey(cookies []*http.Cookie, accessCookie string) string {
	token := cookieValue(cookies, accessCookie)
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (s *Store) Key(cookies []*http.Cookie) string {
	return SessionKey(cookies, s.accessCookie)
}

// Get returns the session's context, asking the backend at most once per
// session while the entry lives. A missing or expired access token is
// unauthenticated without a network call.
func (s *Store) Get(ctx context.Context, cookies []*http.Cookie, checker Checker) (Context, error) {
	token := cookieValue(cookies, s.accessCookie)
	if token == "" {
		return Context{CheckedAt: s.now()}, nil
	}
	claims, err := jwt.Inspect(token)
	if err == nil && claims.Expired(s.now()) {
		return Context{CheckedAt: s.now()}, nil
	}

	key := s.Key(cookies)
	if v, err := s.cache.Get(key); err == nil {
		return v.(Context), nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.CheckTimeout)
		defer cancel()
		return s.check(checkCtx, key, claims, checker)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return Context{}, res.Err
		}
		return res.Val.(Context), nil
	case <-ctx.Done():
		return Context{}, ctx.Err()
	}
}

// Refresh drops the cached answer and asks the backend again.
func (s *Store) Refresh(ctx context.Context, cookies []*http.Cookie, checker Checker) (Context, error) {
	s.cache.Remove(s.Key(cookies))
	return s.Get(ctx, cookies, checker)
}

// Set records a session the frontend just logged in.
func (s *Store) Set(cookies []*http.Cookie, username string) {
	key := s.Key(cookies)
	if key == "" {
		return
	}
	auth := Context{Authenticated: true, Username: username, CheckedAt: s.now()}
	if err := s.cache.Set(key, auth); err != nil {
		logger.Log.Warn("failed to cache auth state", "error", err)
	}
}

// Clear forgets a session on logout.
func (s *Store) Clear(cookies []*http.Cookie) {
	if key := s.Key(cookies); key != "" {
		s.cache.Remove(key)
	}
}

func (s *Store) check(ctx context.Context, key string, claims *jwt.Claims, checker Checker) (Context, error) {
	resp, err := checker.Authenticated(ctx)
	if err != nil {
		return Context{}, err
	}

	auth := Context{Authenticated: resp.Authenticated, CheckedAt: s.now()}
	if auth.Authenticated {
		auth.Username = resp.Username
		if auth.Username == "" && claims != nil {
			auth.Username = claims.Username
		}
		if auth.Username == "" {
			profile, err := checker.MyProfile(ctx)
			if err != nil {
				return Context{}, err
			}
			auth.Username = profile.Username
		}
	}

	if err := s.cache.Set(key, auth); err != nil {
		logger.Log.Warn("failed to cache auth state", "error", err)
	}
	return auth, nil
}
