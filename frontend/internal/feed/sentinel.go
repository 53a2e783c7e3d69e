package feed

import (
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"
	"github.com/pixora-dev/pixora/shared/domain"
)

// Sentinel is the marker rendered after the last post. The browser reports it
// back by token when it scrolls into view. At most one is attached at a time.
type Sentinel struct {
	key   string
	token string
}

// TailKey identifies what the sentinel is attached to. Any change in the tail
// post, cursor, loading flag or hasMore produces a different key.
func TailKey(tail domain.PostId, page int, loading, hasMore bool) string {
	return fmt.Sprintf("%d:%d:%t:%t", tail, page, loading, hasMore)
}

// Attach detaches the current sentinel, if any, and attaches a new one to key.
func (s *Sentinel) Attach(key string) string {
	s.Detach()
	s.key = key
	s.token = uuid.NewString()
	return s.token
}

func (s *Sentinel) Detach() {
	s.key = ""
	s.token = ""
}

func (s *Sentinel) Attached() bool {
	return s.token != ""
}

func (s *Sentinel) Key() string {
	return s.key
}

func (s *Sentinel) Token() string {
	return s.token
}

// Matches reports whether token belongs to the attached sentinel.
func (s *Sentinel) Matches(token string) bool {
	if s.token == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.token), []byte(token)) == 1
}
