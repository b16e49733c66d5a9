package elastic

import (
	"context"
	"fmt"
	"time"
)

// Scroller drains an index page by page through the scroll protocol.
// At most one page of documents is held in memory at a time.
type Scroller struct {
	client    Client
	index     string
	size      int
	keepAlive time.Duration

	scrollID string
	opened   bool
	done     bool
}

// NewScroller creates a scroller for a full scan of the given index.
func NewScroller(client Client, index string, size int, keepAlive time.Duration) *Scroller {
	return &Scroller{
		client:    client,
		index:     index,
		size:      size,
		keepAlive: keepAlive,
	}
}

// Index returns the index this scroller scans.
func (s *Scroller) Index() string {
	return s.index
}

// Next returns the next batch of hits. It returns (nil, nil) once the
// index is exhausted.
func (s *Scroller) Next(ctx context.Context) ([]Hit, error) {
	if s.done {
		return nil, nil
	}

	var (
		page *Page
		err  error
	)
	if !s.opened {
		page, err = s.client.OpenScroll(ctx, s.index, s.size, s.keepAlive)
		s.opened = true
	} else {
		page, err = s.client.ContinueScroll(ctx, s.scrollID, s.keepAlive)
	}
	if err != nil {
		s.done = true
		return nil, fmt.Errorf("scan of %q failed: %w", s.index, err)
	}

	if page.ScrollID != "" {
		s.scrollID = page.ScrollID
	}
	if len(page.Hits) == 0 {
		s.done = true
		return nil, nil
	}
	return page.Hits, nil
}

// Close releases the server-side scroll context. Safe to call multiple
// times and before the scan is exhausted.
func (s *Scroller) Close(ctx context.Context) error {
	if s.scrollID == "" {
		return nil
	}
	id := s.scrollID
	s.scrollID = ""
	s.done = true
	return s.client.ClearScroll(ctx, id)
}
