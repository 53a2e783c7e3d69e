// Package feed holds the server-side state of each open feed view: the posts
// loaded so far, the page cursor and the fetch gate that keeps pages in order.
package feed

import "github.com/pixora-dev/pixora/shared/domain"

type Mode int

const (
	Append Mode = iota
	Refresh
)

func (m Mode) String() string {
	if m == Refresh {
		return "refresh"
	}
	return "append"
}

// State is one view's feed. Loading and Refreshing are never both true; while
// either is set no other fetch may start.
type State struct {
	Posts      []domain.Post
	Page       int
	HasMore    bool
	Loading    bool
	Refreshing bool
}

func (s State) InFlight() bool {
	return s.Loading || s.Refreshing
}

// View is what a template needs to render the feed: a copy of the state plus
// the token of the currently attached sentinel, empty when none is attached.
type View struct {
	ID       string
	State    State
	Sentinel string
}
