package feeds

import (
	"context"
	"time"

	log "github.com/go-pkgz/lgr"
)

// Source tells where the raw feed bytes came from
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
)

// RawFeed holds unparsed feed bytes
type RawFeed struct {
	Data   []byte
	Source Source
}

// LoadOptions controls a single Load call. A zero CacheMaxAge disables the
// cache entirely for that call.
type LoadOptions struct {
	Timeout     time.Duration
	CacheMaxAge time.Duration
	CacheDir    string
}

// CacheEnabled reports whether this call may use the disk cache
func (o LoadOptions) CacheEnabled() bool {
	return o.CacheMaxAge > 0
}

// Loader decides between the disk cache and the network
type Loader struct {
	transport FeedTransport
	cache     CacheStore
}

// NewLoader creates a loader; cache may be nil when caching is never used
func NewLoader(transport FeedTransport, cache CacheStore) *Loader {
	return &Loader{
		transport: transport,
		cache:     cache,
	}
}

// Load returns the raw bytes for url, from the cache when a fresh copy exists
// and from the network otherwise. Network results are written back to the
// cache, but a failed write does not fail the load.
func (l *Loader) Load(ctx context.Context, url string, opts LoadOptions) (*RawFeed, error) {
	if !opts.CacheEnabled() || l.cache == nil {
		data, err := l.transport.Fetch(ctx, url, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return &RawFeed{Data: data, Source: SourceNetwork}, nil
	}

	path, err := l.cache.ResolvePath(url, opts.CacheDir)
	if err != nil {
		return nil, err
	}

	if l.cache.IsFresh(path, opts.CacheMaxAge) {
		data, err := l.cache.Read(path)
		if err == nil {
			log.Printf("[DEBUG] cache hit for %s (%s)", url, path)
			return &RawFeed{Data: data, Source: SourceCache}, nil
		}
		log.Printf("[WARN] cache read failed for %s, fetching instead: %v", url, err)
	}

	data, err := l.transport.Fetch(ctx, url, opts.Timeout)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Write(path, data); err != nil {
		log.Printf("[WARN] failed to cache feed %s at %s: %v", url, path, err)
	} else {
		log.Printf("[DEBUG] cached %d bytes for %s at %s", len(data), url, path)
	}

	return &RawFeed{Data: data, Source: SourceNetwork}, nil
}
