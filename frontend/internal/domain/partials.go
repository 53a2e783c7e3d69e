package frontend_domain

// PostData is the typed data for the "post" template partial.
type PostData struct {
	Post   *Post
	ViewID string // feed view the comment form posts back to; empty outside the feed
	Common *CommonTemplateData
}

// FeedChunkData is what /feed/{view}/more renders: the appended posts and
// the next sentinel. Retry marks a chunk whose fetch brought nothing while
// more pages remain; the script waits before observing it.
type FeedChunkData struct {
	ViewID   string
	Posts    []*Post
	Sentinel string
	Retry    bool
	Common   *CommonTemplateData
}
