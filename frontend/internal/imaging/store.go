package imaging

import (
	stderrors "errors"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
	"github.com/pixora-dev/pixora/shared/logger"
)

var ErrSubmissionNotFound = stderrors.New("upload expired or not found, please select the image again")

// Store keeps pending submissions between the select and post requests.
// Entries expire after ttl; the least recently used go first when full.
type Store struct {
	cache gcache.Cache
	ttl   time.Duration
}

func NewStore(size int, ttl time.Duration) *Store {
	cache := gcache.New(size).
		LRU().
		Expiration(ttl).
		EvictedFunc(func(key, value interface{}) {
			logger.Log.Debug("pending upload discarded", "submission", key)
		}).
		Build()
	return &Store{cache: cache, ttl: ttl}
}

// Put assigns sub a fresh id and stores it.
func (s *Store) Put(sub *Submission) (string, error) {
	sub.ID = uuid.NewString()
	if err := s.cache.Set(sub.ID, sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

// Get returns the submission only to the session that created it.
func (s *Store) Get(id, owner string) (*Submission, error) {
	v, err := s.cache.Get(id)
	if err != nil {
		if err == gcache.KeyNotFoundError {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	sub, ok := v.(*Submission)
	if !ok || sub.Owner != owner {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *Store) Remove(id string) {
	s.cache.Remove(id)
}

func (s *Store) Len() int {
	return s.cache.Len(true)
}
