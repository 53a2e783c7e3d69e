package feed

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/middleware/metrics"
)

const defaultFetchTimeout = 10 * time.Second

// Backend is the part of the API a feed view talks to.
type Backend interface {
	FeedPage(ctx context.Context, page int) (api.FeedResponse, error)
	CreateComment(ctx context.Context, postId domain.PostId, text string) (domain.Comment, error)
}

// Controller owns the feed state of one mounted view.
type Controller struct {
	ID           string
	Owner        string
	MediaBase    string
	FetchTimeout time.Duration

	// ctx lives as long as the view; Unmount cancels it and every fetch
	// derived from it.
	ctx    context.Context
	cancel context.CancelFunc

	log *slog.Logger

	mu       sync.Mutex
	backend  Backend
	state    State
	sentinel Sentinel
}

func NewController(owner string, backend Backend, mediaBase string, fetchTimeout time.Duration) *Controller {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		Owner:        owner,
		MediaBase:    mediaBase,
		FetchTimeout: fetchTimeout,
		ctx:          ctx,
		cancel:       cancel,
		log:          logger.Component("feed"),
		backend:      backend,
		state:        State{Page: 1, HasMore: true},
	}
}

// Bind swaps the backend used for later calls. Each request binds the
// session cookies it arrived with.
func (c *Controller) Bind(backend Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backend = backend
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	s := c.state
	s.Posts = append([]domain.Post(nil), c.state.Posts...)
	return s
}

// LoadPage fetches page and merges it according to mode. It returns false
// without doing anything when a fetch is already in flight. Fetch failures
// are logged and leave the loaded posts untouched.
func (c *Controller) LoadPage(ctx context.Context, page int, mode Mode) bool {
	c.mu.Lock()
	if !c.begin(mode) {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	c.run(ctx, page, mode)
	return true
}

// Refresh reloads the first page and replaces everything loaded so far.
func (c *Controller) Refresh(ctx context.Context) bool {
	return c.LoadPage(ctx, 1, Refresh)
}

// OnScrollNearEnd handles the browser reporting that the sentinel identified
// by token became visible. It returns the posts the resulting fetch appended,
// and false when the report was ignored.
func (c *Controller) OnScrollNearEnd(ctx context.Context, token string) ([]domain.Post, bool) {
	c.mu.Lock()
	if c.state.InFlight() || !c.state.HasMore || !c.sentinel.Matches(token) {
		c.mu.Unlock()
		return nil, false
	}
	// A fired sentinel is spent; Render attaches the next one.
	c.sentinel.Detach()
	next := c.state.Page + 1
	c.state.Page = next
	c.begin(Append)
	before := len(c.state.Posts)
	c.mu.Unlock()

	c.run(ctx, next, Append)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.state.Posts) < before {
		// a refresh replaced the feed meanwhile
		return nil, true
	}
	return append([]domain.Post(nil), c.state.Posts[before:]...), true
}

// begin takes the fetch gate. c.mu must be held.
func (c *Controller) begin(mode Mode) bool {
	if c.state.InFlight() {
		return false
	}
	if mode == Refresh {
		c.state.Refreshing = true
	} else {
		c.state.Loading = true
	}
	return true
}

// run performs a fetch whose gate is already taken and always releases it.
func (c *Controller) run(ctx context.Context, page int, mode Mode) {
	c.mu.Lock()
	backend := c.backend
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(c.ctx, c.FetchTimeout)
	defer cancel()
	// The request going away cancels the fetch as well.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := backend.FeedPage(fetchCtx, page)
	metrics.ObserveFeedFetch(mode.String(), err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	c.state.Refreshing = false

	if err != nil {
		c.log.Error("failed to load feed page", "view", c.ID, "page", page, "mode", mode.String(), "error", err)
		return
	}

	posts := api.PostsToDomain(resp.Posts, c.MediaBase)
	switch mode {
	case Refresh:
		c.state.Posts = posts
		c.state.Page = 1
	default:
		c.state.Posts = append(c.state.Posts, posts...)
	}
	c.state.HasMore = resp.HasMore
}

// Render returns the state to display and re-arms the sentinel on the current
// tail. The previous sentinel is detached whenever the tail key changed.
func (c *Controller) Render() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.HasMore || len(c.state.Posts) == 0 {
		c.sentinel.Detach()
	} else {
		tail := c.state.Posts[len(c.state.Posts)-1].Id
		key := TailKey(tail, c.state.Page, c.state.Loading, c.state.HasMore)
		if !c.sentinel.Attached() || c.sentinel.Key() != key {
			c.sentinel.Attach(key)
		}
	}

	return View{ID: c.ID, State: c.snapshot(), Sentinel: c.sentinel.Token()}
}

// SubmitComment posts text on postId. Blank text sends nothing. The feed is
// not updated locally; callers refresh if they want the comment shown.
func (c *Controller) SubmitComment(ctx context.Context, postId domain.PostId, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	backend := c.backend
	c.mu.Unlock()

	commentCtx, cancel := context.WithTimeout(c.ctx, c.FetchTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	_, err := backend.CreateComment(commentCtx, postId, text)
	return err
}

// Unmount cancels in-flight fetches and detaches the sentinel.
func (c *Controller) Unmount() {
	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sentinel.Detach()
}
