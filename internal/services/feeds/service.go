package feeds

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/killallgit/podfeed/internal/models"
)

// Service runs the load pipeline: raw bytes, parse, map, assemble. It keeps
// no state between calls and is safe for concurrent use.
type Service struct {
	loader          *Loader
	parser          FeedParser
	defaultTimeout  time.Duration
	defaultCacheDir string
}

// Ensure Service implements FeedService interface
var _ FeedService = (*Service)(nil)

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithDefaultTimeout sets the timeout used when a call does not pass one
func WithDefaultTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.defaultTimeout = timeout
		}
	}
}

// WithDefaultCacheDir sets the cache directory used when a call enables
// caching without naming a directory
func WithDefaultCacheDir(dir string) ServiceOption {
	return func(s *Service) {
		if dir != "" {
			s.defaultCacheDir = dir
		}
	}
}

// NewService creates a new feed service with optional configuration
func NewService(transport FeedTransport, cache CacheStore, parser FeedParser, opts ...ServiceOption) *Service {
	if parser == nil {
		parser = NewGofeedParser()
	}

	s := &Service{
		loader:          NewLoader(transport, cache),
		parser:          parser,
		defaultTimeout:  DefaultTimeout,
		defaultCacheDir: filepath.Join(os.TempDir(), "podfeed"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoadOption adjusts a single LoadFeed call
type LoadOption func(*LoadOptions)

// WithTimeout sets the network timeout for this call
func WithTimeout(timeout time.Duration) LoadOption {
	return func(o *LoadOptions) {
		o.Timeout = timeout
	}
}

// WithCache enables the disk cache for this call. An empty dir means the
// service's default cache directory.
func WithCache(maxAge time.Duration, dir string) LoadOption {
	return func(o *LoadOptions) {
		o.CacheMaxAge = maxAge
		o.CacheDir = dir
	}
}

// Result is a loaded podcast together with where its bytes came from
type Result struct {
	Podcast *models.Podcast
	Source  Source
}

// LoadFeed loads, parses and converts the feed at feedURL
func (s *Service) LoadFeed(ctx context.Context, feedURL string, opts ...LoadOption) (*models.Podcast, error) {
	result, err := s.Load(ctx, feedURL, opts...)
	if err != nil {
		return nil, err
	}
	return result.Podcast, nil
}

// Load is LoadFeed that also reports the source of the bytes
func (s *Service) Load(ctx context.Context, feedURL string, opts ...LoadOption) (*Result, error) {
	if err := validateFeedURL(feedURL); err != nil {
		return nil, err
	}

	options := LoadOptions{Timeout: s.defaultTimeout}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Timeout <= 0 {
		options.Timeout = s.defaultTimeout
	}
	if options.CacheEnabled() && options.CacheDir == "" {
		options.CacheDir = s.defaultCacheDir
	}

	raw, err := s.loader.Load(ctx, feedURL, options)
	if err != nil {
		// Remote failures are routine; anything else is local trouble
		if IsTransportError(err) {
			log.Printf("[WARN] loading feed %s failed: %v", feedURL, err)
		} else {
			log.Printf("[ERROR] loading feed %s failed: %v", feedURL, err)
		}
		return nil, err
	}

	feed, err := s.parser.Parse(raw.Data)
	if err != nil {
		return nil, &ParseError{URL: feedURL, Err: err}
	}

	episodes := MapItems(feed.Items, ChannelAuthor(feed))
	podcast := Assemble(feedURL, feed, episodes)

	log.Printf("[INFO] loaded feed %s from %s: %q with %d episodes", feedURL, raw.Source, podcast.Title, len(podcast.Episodes))

	return &Result{Podcast: podcast, Source: raw.Source}, nil
}

func validateFeedURL(feedURL string) error {
	if feedURL == "" {
		return NewValidationError("url", "feed URL is required")
	}

	u, err := url.Parse(feedURL)
	if err != nil {
		return NewValidationError("url", fmt.Sprintf("invalid feed URL: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidationError("url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return NewValidationError("url", "feed URL has no host")
	}

	return nil
}
