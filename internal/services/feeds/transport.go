package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"
)

const (
	// UserAgent is sent with every feed request so feed hosts can identify us
	UserAgent = "podfeed/1.0 (+https://github.com/killallgit/podfeed)"

	// DefaultTimeout applies when a caller passes no timeout
	DefaultTimeout = 20 * time.Second

	// DefaultMaxFeedSize caps the response body
	DefaultMaxFeedSize int64 = 20 * 1024 * 1024

	acceptHeader = "application/rss+xml, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.8"
)

// HTTPTransport fetches feeds over HTTP and classifies failures into the
// TimeoutError / RequestFailedError / CancelledError taxonomy
type HTTPTransport struct {
	client  *http.Client
	maxSize int64
}

// Ensure HTTPTransport implements FeedTransport interface
var _ FeedTransport = (*HTTPTransport)(nil)

// TransportOption is a functional option for configuring the transport
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithMaxFeedSize sets the largest accepted response body in bytes
func WithMaxFeedSize(size int64) TransportOption {
	return func(t *HTTPTransport) {
		if size > 0 {
			t.maxSize = size
		}
	}
}

// NewHTTPTransport creates a new feed transport
func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		// Per-request timeouts come from the context, not the client
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		maxSize: DefaultMaxFeedSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fetch downloads the feed at url, giving up after timeout
func (t *HTTPTransport) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The last phase reached names the stage of a timeout
	var phase atomic.Value
	phase.Store(StageConnect)
	trace := &httptrace.ClientTrace{
		GotConn:      func(httptrace.GotConnInfo) { phase.Store(StageSend) },
		WroteRequest: func(httptrace.WroteRequestInfo) { phase.Store(StageReceive) },
	}
	reqCtx = httptrace.WithClientTrace(reqCtx, trace)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TimeoutError{URL: url, Stage: StageUnclassified, Message: err.Error(), Err: err}
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, url, err, phase.Load().(TimeoutStage))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &RequestFailedError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	if resp.ContentLength > t.maxSize {
		return nil, &RequestFailedError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("feed too large: %d bytes (max %d)", resp.ContentLength, t.maxSize),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxSize+1))
	if err != nil {
		return nil, classifyTransportError(ctx, url, err, StageReceive)
	}
	if int64(len(body)) > t.maxSize {
		return nil, &RequestFailedError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("feed too large: more than %d bytes", t.maxSize),
		}
	}

	return body, nil
}

// classifyTransportError maps a client error onto the feed error taxonomy.
// parent is the caller's context, so its cancellation can be told apart from
// our own request timeout. stage is the request phase the failure happened in.
func classifyTransportError(parent context.Context, url string, err error, stage TimeoutStage) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return &CancelledError{URL: url, Message: err.Error(), Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{URL: url, Stage: stage, Message: err.Error(), Err: err}
	}

	return &TimeoutError{URL: url, Stage: StageUnclassified, Message: err.Error(), Err: err}
}
