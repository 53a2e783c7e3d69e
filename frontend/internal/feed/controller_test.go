package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pixora-dev/pixora/shared/api"
	"github.com/pixora-dev/pixora/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend serves canned pages. When block is set, FeedPage waits on it
// after signalling started.
type mockBackend struct {
	mu         sync.Mutex
	pages      map[int]api.FeedResponse
	errs       map[int]error
	calls      []int
	comments   []string
	commentErr error

	started chan int
	block   chan struct{}
}

func newMockBackend() *mockBackend {
	return &mockBackend{pages: map[int]api.FeedResponse{}, errs: map[int]error{}}
}

func (m *mockBackend) FeedPage(ctx context.Context, page int) (api.FeedResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, page)
	resp, err := m.pages[page], m.errs[page]
	started, block := m.started, m.block
	m.mu.Unlock()

	if started != nil {
		started <- page
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return api.FeedResponse{}, ctx.Err()
		}
	}
	return resp, err
}

func (m *mockBackend) CreateComment(ctx context.Context, postId domain.PostId, text string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, fmt.Sprintf("%d:%s", postId, text))
	return domain.Comment{Text: text}, m.commentErr
}

func (m *mockBackend) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func makePosts(from, n int) []api.PostResponse {
	posts := make([]api.PostResponse, n)
	for i := range posts {
		posts[i] = api.PostResponse{Id: int64(from + i), Username: "alice", ImagePath: fmt.Sprintf("%d.jpg", from+i)}
	}
	return posts
}

func ids(posts []domain.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.Id
	}
	return out
}

func TestScrollScenario_TenThenThree(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 10), HasMore: true}
	backend.pages[2] = api.FeedResponse{Posts: makePosts(11, 3), HasMore: false}
	ctx := context.Background()

	c := NewController("owner", backend, "/media/", time.Second)
	require.True(t, c.LoadPage(ctx, 1, Append))

	view := c.Render()
	require.Len(t, view.State.Posts, 10)
	assert.Equal(t, "/media/1.jpg", view.State.Posts[0].ImageURL)
	require.NotEmpty(t, view.Sentinel)

	added, ok := c.OnScrollNearEnd(ctx, view.Sentinel)
	require.True(t, ok)
	assert.Equal(t, []int64{11, 12, 13}, ids(added))

	view = c.Render()
	assert.Len(t, view.State.Posts, 13)
	assert.Equal(t, 2, view.State.Page)
	assert.False(t, view.State.HasMore)
	assert.Empty(t, view.Sentinel, "no sentinel once the feed is exhausted")

	for i := 0; i < 3; i++ {
		_, ok := c.OnScrollNearEnd(ctx, "anything")
		assert.False(t, ok)
	}
	assert.Equal(t, []int{1, 2}, backend.calls)
}

func TestLoadPage_ConcurrentCallsFetchOnce(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 2), HasMore: true}
	backend.started = make(chan int, 1)
	backend.block = make(chan struct{})

	c := NewController("owner", backend, "/media/", time.Second)

	done := make(chan bool)
	go func() { done <- c.LoadPage(context.Background(), 1, Append) }()
	<-backend.started

	assert.True(t, c.Snapshot().Loading)
	assert.False(t, c.LoadPage(context.Background(), 1, Append))
	assert.False(t, c.Refresh(context.Background()), "refresh is gated by a running load too")

	close(backend.block)
	assert.True(t, <-done)

	assert.Equal(t, 1, backend.callCount())
	state := c.Snapshot()
	assert.Len(t, state.Posts, 2)
	assert.False(t, state.Loading)
	assert.False(t, state.Refreshing)
}

func TestRefresh_ReplacesAndResetsCursor(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 10), HasMore: true}
	backend.pages[2] = api.FeedResponse{Posts: makePosts(11, 10), HasMore: true}
	ctx := context.Background()

	c := NewController("owner", backend, "/media/", time.Second)
	c.LoadPage(ctx, 1, Append)
	_, ok := c.OnScrollNearEnd(ctx, c.Render().Sentinel)
	require.True(t, ok)
	require.Equal(t, 2, c.Snapshot().Page)

	backend.pages[1] = api.FeedResponse{Posts: makePosts(100, 4), HasMore: true}
	require.True(t, c.Refresh(ctx))

	state := c.Snapshot()
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, []int64{100, 101, 102, 103}, ids(state.Posts))
}

func TestHasMoreFalseIsPermanentUntilRefresh(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 3), HasMore: false}
	ctx := context.Background()

	c := NewController("owner", backend, "/media/", time.Second)
	c.LoadPage(ctx, 1, Append)
	view := c.Render()
	assert.Empty(t, view.Sentinel)

	_, ok := c.OnScrollNearEnd(ctx, view.Sentinel)
	assert.False(t, ok)
	assert.Equal(t, 1, backend.callCount())

	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 10), HasMore: true}
	c.Refresh(ctx)
	view = c.Render()
	assert.True(t, view.State.HasMore)
	assert.NotEmpty(t, view.Sentinel)
}

func TestLoadPage_ErrorKeepsPostsAndClearsFlags(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 10), HasMore: true}
	backend.errs[2] = fmt.Errorf("backend returned status 500")
	ctx := context.Background()

	c := NewController("owner", backend, "/media/", time.Second)
	c.LoadPage(ctx, 1, Append)

	added, ok := c.OnScrollNearEnd(ctx, c.Render().Sentinel)
	assert.True(t, ok)
	assert.Empty(t, added)

	state := c.Snapshot()
	assert.Len(t, state.Posts, 10)
	assert.False(t, state.Loading)
	assert.False(t, state.Refreshing)
	assert.True(t, state.HasMore)
	assert.Equal(t, []int{1, 2}, backend.calls, "no retry")
}

func TestLoadPage_TimeoutClearsFlags(t *testing.T) {
	backend := newMockBackend()
	backend.block = make(chan struct{})
	defer close(backend.block)

	c := NewController("owner", backend, "/media/", 20*time.Millisecond)
	require.True(t, c.LoadPage(context.Background(), 1, Append))

	state := c.Snapshot()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Posts)
}

func TestUnmount_CancelsInFlightFetch(t *testing.T) {
	backend := newMockBackend()
	backend.started = make(chan int, 1)
	backend.block = make(chan struct{})
	defer close(backend.block)

	c := NewController("owner", backend, "/media/", time.Minute)
	done := make(chan struct{})
	go func() {
		c.LoadPage(context.Background(), 1, Refresh)
		close(done)
	}()
	<-backend.started

	c.Unmount()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fetch not cancelled by unmount")
	}
	assert.False(t, c.Snapshot().Refreshing)
}

func TestSentinel_StaleTokenIgnored(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 10), HasMore: true}
	backend.pages[2] = api.FeedResponse{Posts: makePosts(11, 10), HasMore: true}
	ctx := context.Background()

	c := NewController("owner", backend, "/media/", time.Second)
	c.LoadPage(ctx, 1, Append)
	first := c.Render().Sentinel

	_, ok := c.OnScrollNearEnd(ctx, first)
	require.True(t, ok)

	// the same sentinel firing again must not load page 3
	_, ok = c.OnScrollNearEnd(ctx, first)
	assert.False(t, ok)

	second := c.Render().Sentinel
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, backend.callCount())
}

func TestRender_KeepsSentinelWhileTailUnchanged(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 10), HasMore: true}

	c := NewController("owner", backend, "/media/", time.Second)
	c.LoadPage(context.Background(), 1, Append)

	assert.Equal(t, c.Render().Sentinel, c.Render().Sentinel)
}

func TestSubmitComment(t *testing.T) {
	backend := newMockBackend()
	backend.pages[1] = api.FeedResponse{Posts: makePosts(1, 1), HasMore: false}
	ctx := context.Background()

	c := NewController("owner", backend, "/media/", time.Second)
	c.LoadPage(ctx, 1, Append)

	require.NoError(t, c.SubmitComment(ctx, 1, "   \n\t"))
	assert.Empty(t, backend.comments, "blank comment sends nothing")

	require.NoError(t, c.SubmitComment(ctx, 1, "  nice  "))
	assert.Equal(t, []string{"1:nice"}, backend.comments)
	assert.Empty(t, c.Snapshot().Posts[0].Comments, "no optimistic update")

	backend.commentErr = fmt.Errorf("Comment text is required")
	assert.EqualError(t, c.SubmitComment(ctx, 1, "again"), "Comment text is required")
}

func TestTailKey(t *testing.T) {
	assert.NotEqual(t, TailKey(10, 1, false, true), TailKey(10, 2, false, true))
	assert.NotEqual(t, TailKey(10, 1, false, true), TailKey(11, 1, false, true))
	assert.NotEqual(t, TailKey(10, 1, false, true), TailKey(10, 1, true, true))
	assert.Equal(t, TailKey(10, 1, false, true), TailKey(10, 1, false, true))
}
