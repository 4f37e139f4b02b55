package feeds

import (
	"context"
	"time"

	"github.com/killallgit/podfeed/internal/models"
	"github.com/mmcdole/gofeed"
)

// CacheStore persists raw feed bytes on disk, keyed by feed URL
type CacheStore interface {
	// ResolvePath returns the cache file for url inside dir, creating dir
	// when it does not exist
	ResolvePath(url, dir string) (string, error)

	// IsFresh reports whether path exists and is younger than maxAge
	IsFresh(path string, maxAge time.Duration) bool

	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// FeedTransport performs the network fetch of a feed
type FeedTransport interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

// FeedParser turns raw feed bytes into a structured feed
type FeedParser interface {
	Parse(data []byte) (*gofeed.Feed, error)
}

// FeedService is the public entry point for loading podcasts
type FeedService interface {
	LoadFeed(ctx context.Context, url string, opts ...LoadOption) (*models.Podcast, error)
}
