package feed

import (
	stderrors "errors"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
	"github.com/pixora-dev/pixora/shared/logger"
)

var ErrViewNotFound = stderrors.New("feed view expired")

// Registry holds the mounted feed views. A view that is not touched for ttl,
// or that falls off the LRU end, is unmounted. Every Get restarts the ttl.
type Registry struct {
	cache        gcache.Cache
	mediaBase    string
	fetchTimeout time.Duration
}

func NewRegistry(size int, ttl time.Duration, mediaBase string, fetchTimeout time.Duration) *Registry {
	cache := gcache.New(size).
		LRU().
		Expiration(ttl).
		EvictedFunc(func(key, value interface{}) {
			if c, ok := value.(*Controller); ok {
				c.Unmount()
			}
			logger.Log.Debug("feed view unmounted", "view", key)
		}).
		Build()
	return &Registry{cache: cache, mediaBase: mediaBase, fetchTimeout: fetchTimeout}
}

// Mount creates an empty view owned by owner.
func (r *Registry) Mount(owner string, backend Backend) (*Controller, error) {
	c := NewController(owner, backend, r.mediaBase, r.fetchTimeout)
	c.ID = uuid.NewString()
	if err := r.cache.Set(c.ID, c); err != nil {
		c.Unmount()
		return nil, err
	}
	return c, nil
}

// Get returns the view only to the session that mounted it.
func (r *Registry) Get(id, owner string) (*Controller, error) {
	v, err := r.cache.Get(id)
	if err != nil {
		if err == gcache.KeyNotFoundError {
			return nil, ErrViewNotFound
		}
		return nil, err
	}
	c, ok := v.(*Controller)
	if !ok || c.Owner != owner {
		return nil, ErrViewNotFound
	}
	if err := r.cache.Set(id, c); err != nil {
		logger.Log.Warn("failed to extend feed view lifetime", "view", id, "error", err)
	}
	return c, nil
}

func (r *Registry) Unmount(id string) {
	r.cache.Remove(id)
}

func (r *Registry) Len() int {
	return r.cache.Len(true)
}
