package feeds

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const serviceFeedURL = "https://acme.example/feed.xml"

type stubParser struct {
	err error
}

func (p stubParser) Parse([]byte) (*gofeed.Feed, error) {
	return nil, p.err
}

func TestService_LoadFeed_MapsFixture(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, DefaultTimeout).Return([]byte(testFeedXML), nil)

	service := NewService(transport, nil, nil)
	podcast, err := service.LoadFeed(context.Background(), serviceFeedURL)

	require.NoError(t, err)
	require.NotNil(t, podcast)

	assert.Equal(t, serviceFeedURL, podcast.URL)
	assert.Equal(t, "Acme Show", podcast.Title)
	assert.Equal(t, "All about Acme", podcast.Description)
	assert.Equal(t, strPtr("https://acme.example"), podcast.Link)
	assert.Equal(t, strPtr("https://acme.example/art.jpg"), podcast.Image)
	assert.Equal(t, strPtr("Acme Radio"), podcast.Copyright)

	require.Len(t, podcast.Episodes, 3)

	first := podcast.Episodes[0]
	assert.Equal(t, "ep-1", first.GUID)
	assert.Equal(t, "Episode 1", first.Title)
	assert.Equal(t, "First", first.Description)
	assert.Equal(t, "https://acme.example/1", first.Link)
	require.NotNil(t, first.PublishedAt)
	assert.True(t, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC).Equal(*first.PublishedAt))
	assert.Equal(t, strPtr("01:02:03"), first.DurationText)
	assert.Equal(t, strPtr("https://acme.example/1.mp3"), first.MediaURL)
	require.NotNil(t, first.Season)
	assert.Equal(t, 2, *first.Season)
	require.NotNil(t, first.EpisodeNumber)
	assert.Equal(t, 7, *first.EpisodeNumber)
	assert.Equal(t, strPtr("Acme Radio"), first.Author)

	second := podcast.Episodes[1]
	assert.Equal(t, "ep-2", second.GUID)
	assert.Nil(t, second.PublishedAt, "unparsable dates are absent")
	assert.Equal(t, strPtr("Guest Host"), second.Author)

	third := podcast.Episodes[2]
	assert.Equal(t, "ep-3", third.GUID)
	assert.Nil(t, third.DurationText)
	assert.Nil(t, third.Season)
	assert.Nil(t, third.EpisodeNumber)
	assert.Equal(t, strPtr("Acme Radio"), third.Author)

	transport.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestService_LoadFeed_WithoutCacheNeverTouchesDisk(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, 5*time.Second).Return([]byte(testFeedXML), nil)
	cache := new(MockCacheStore)

	service := NewService(transport, cache, nil)

	for i := 0; i < 3; i++ {
		_, err := service.LoadFeed(context.Background(), serviceFeedURL, WithTimeout(5*time.Second))
		require.NoError(t, err)
	}

	transport.AssertNumberOfCalls(t, "Fetch", 3)
	cache.AssertNotCalled(t, "ResolvePath", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "IsFresh", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestService_LoadFeed_CacheHitMatchesNetwork(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, DefaultTimeout).Return([]byte(testFeedXML), nil)

	fs := afero.NewMemMapFs()
	service := NewService(transport, NewFileCache(fs), nil, WithDefaultCacheDir("/cache"))

	direct, err := service.LoadFeed(context.Background(), serviceFeedURL)
	require.NoError(t, err)

	// First cached call populates the file, second is served from disk
	_, err = service.Load(context.Background(), serviceFeedURL, WithCache(time.Hour, ""))
	require.NoError(t, err)
	transport.AssertNumberOfCalls(t, "Fetch", 2)

	cached, err := service.Load(context.Background(), serviceFeedURL, WithCache(time.Hour, ""))
	require.NoError(t, err)
	assert.Equal(t, SourceCache, cached.Source)
	transport.AssertNumberOfCalls(t, "Fetch", 2)

	assert.Equal(t, direct, cached.Podcast)

	exists, err := afero.Exists(fs, "/cache/acme.example_feed.xml")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestService_LoadFeed_ExplicitCacheDir(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, DefaultTimeout).Return([]byte(testFeedXML), nil)

	fs := afero.NewMemMapFs()
	service := NewService(transport, NewFileCache(fs), nil, WithDefaultCacheDir("/default"))

	_, err := service.LoadFeed(context.Background(), serviceFeedURL, WithCache(time.Minute, "/elsewhere"))
	require.NoError(t, err)

	exists, _ := afero.Exists(fs, "/elsewhere/acme.example_feed.xml")
	assert.True(t, exists)
	exists, _ = afero.DirExists(fs, "/default")
	assert.False(t, exists)
}

func TestService_LoadFeed_TimeoutPropagates(t *testing.T) {
	timeoutErr := &TimeoutError{URL: serviceFeedURL, Stage: StageConnect, Message: "dial tcp: i/o timeout"}

	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, 2*time.Second).Return(nil, timeoutErr)

	podcast, err := NewService(transport, nil, nil).LoadFeed(context.Background(), serviceFeedURL, WithTimeout(2*time.Second))

	assert.Nil(t, podcast)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))

	var got *TimeoutError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, StageConnect, got.Stage)
	assert.Equal(t, "dial tcp: i/o timeout", got.Message)
}

func TestService_LoadFeed_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"request failed", &RequestFailedError{URL: serviceFeedURL, StatusCode: 404, Message: "404 Not Found"}, ErrRequestFailed},
		{"cancelled", &CancelledError{URL: serviceFeedURL, Message: "context canceled"}, ErrCancelled},
		{"timeout", &TimeoutError{URL: serviceFeedURL, Stage: StageReceive, Message: "deadline"}, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			transport.On("Fetch", mock.Anything, serviceFeedURL, mock.Anything).Return(nil, tt.err)

			podcast, err := NewService(transport, nil, nil).LoadFeed(context.Background(), serviceFeedURL)

			assert.Nil(t, podcast)
			assert.True(t, errors.Is(err, tt.target))
			assert.True(t, IsTransportError(err))
		})
	}
}

func TestService_LoadFeed_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "example.com/feed"},
		{"ftp scheme", "ftp://example.com/feed"},
		{"no host", "https:///feed"},
		{"garbage", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)

			podcast, err := NewService(transport, nil, nil).LoadFeed(context.Background(), tt.url)

			assert.Nil(t, podcast)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			transport.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_LoadFeed_ParseError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, mock.Anything).Return([]byte("this is not xml"), nil)

	podcast, err := NewService(transport, nil, nil).LoadFeed(context.Background(), serviceFeedURL)

	assert.Nil(t, podcast)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, IsTransportError(err))
}

func TestService_LoadFeed_CustomParser(t *testing.T) {
	parseErr := errors.New("boom")
	transport := new(MockTransport)
	transport.On("Fetch", mock.Anything, serviceFeedURL, mock.Anything).Return([]byte("<rss/>"), nil)

	_, err := NewService(transport, nil, stubParser{err: parseErr}).LoadFeed(context.Background(), serviceFeedURL)

	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, parseErr))
}

func TestService_LoadFeed_CacheDirectoryError(t *testing.T) {
	transport := new(MockTransport)
	cache := NewFileCache(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	podcast, err := NewService(transport, cache, nil).LoadFeed(context.Background(), serviceFeedURL, WithCache(time.Hour, "/cache"))

	assert.Nil(t, podcast)
	assert.True(t, errors.Is(err, ErrCacheDirectory))
	transport.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.Setup(log.Out(&buf), log.Err(io.Discard))
	t.Cleanup(func() { log.Setup() })
	return &buf
}

func TestService_LoadFeed_FailureLogLevel(t *testing.T) {
	t.Run("transport failure warns", func(t *testing.T) {
		buf := captureLog(t)
		transport := new(MockTransport)
		transport.On("Fetch", mock.Anything, serviceFeedURL, mock.Anything).
			Return(nil, &RequestFailedError{URL: serviceFeedURL, StatusCode: 503, Message: "503 Service Unavailable"})

		_, err := NewService(transport, nil, nil).LoadFeed(context.Background(), serviceFeedURL)

		require.Error(t, err)
		assert.True(t, IsTransportError(err))
		assert.Contains(t, buf.String(), "WARN")
		assert.NotContains(t, buf.String(), "ERROR")
	})

	t.Run("cache directory failure is an error", func(t *testing.T) {
		buf := captureLog(t)
		cache := NewFileCache(afero.NewReadOnlyFs(afero.NewMemMapFs()))

		_, err := NewService(new(MockTransport), cache, nil).LoadFeed(context.Background(), serviceFeedURL, WithCache(time.Hour, "/cache"))

		require.Error(t, err)
		assert.False(t, IsTransportError(err))
		assert.Contains(t, buf.String(), "ERROR")
	})
}

func TestService_LoadFeed_EndToEndHTTP(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	service := NewService(NewHTTPTransport(), NewFileCache(fs), nil, WithDefaultCacheDir("/cache"))

	for i := 0; i < 3; i++ {
		podcast, err := service.LoadFeed(context.Background(), server.URL+"/feed.xml", WithCache(time.Hour, ""))
		require.NoError(t, err)
		assert.Equal(t, "Acme Show", podcast.Title)
		assert.Len(t, podcast.Episodes, 3)
	}

	assert.Equal(t, int32(1), hits.Load(), "later loads should be served from the cache")
}
