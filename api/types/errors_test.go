package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/internal/services/feeds"
	"github.com/killallgit/podfeed/internal/services/podcasts"
	apperrors "github.com/killallgit/podfeed/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFeedError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   apperrors.ErrorCode
		wantStatus int
	}{
		{
			name:       "timeout",
			err:        &feeds.TimeoutError{URL: "u", Stage: feeds.StageConnect, Message: "dial"},
			wantCode:   apperrors.ErrCodeFeedTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "upstream status",
			err:        &feeds.RequestFailedError{URL: "u", StatusCode: 404, Message: "404 Not Found"},
			wantCode:   apperrors.ErrCodeFeedRequestFailed,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "cancelled",
			err:        &feeds.CancelledError{URL: "u", Message: "context canceled", Err: context.Canceled},
			wantCode:   apperrors.ErrCodeFeedCancelled,
			wantStatus: apperrors.StatusClientClosedRequest,
		},
		{
			name:       "parse",
			err:        &feeds.ParseError{URL: "u", Err: errors.New("bad xml")},
			wantCode:   apperrors.ErrCodeFeedParse,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "cache directory",
			err:        &feeds.CacheDirectoryError{Dir: "/cache", Err: errors.New("read-only")},
			wantCode:   apperrors.ErrCodeCacheDirectory,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "validation",
			err:        feeds.NewValidationError("url", "feed URL is required"),
			wantCode:   apperrors.ErrCodeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found wrapped",
			err:        fmt.Errorf("lookup: %w", podcasts.NotFoundError{FeedURL: "u"}),
			wantCode:   apperrors.ErrCodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "app error passes through",
			err:        apperrors.RateLimitError("feeds", "2/s"),
			wantCode:   apperrors.ErrCodeAPIRateLimit,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "database failure",
			err:        fmt.Errorf("storing podcast u: %w", apperrors.DatabaseError("creating podcast", errors.New("disk I/O error"))),
			wantCode:   apperrors.ErrCodeDatabaseQuery,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantCode:   apperrors.ErrCodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromFeedError(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.GetHTTPCode())
		})
	}
}

func TestFromFeedError_Details(t *testing.T) {
	timeout := FromFeedError(&feeds.TimeoutError{Stage: feeds.StageReceive})
	assert.Equal(t, "receive", timeout.Details["stage"])

	failed := FromFeedError(&feeds.RequestFailedError{StatusCode: 503, Message: "503 Service Unavailable"})
	assert.Equal(t, 503, failed.Details["upstream_status"])
}

func TestSendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil)

	SendError(c, &feeds.TimeoutError{URL: "u", Stage: feeds.StageSend, Message: "write"})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusError, body.Status)
	assert.Equal(t, string(apperrors.ErrCodeFeedTimeout), body.Error)
	assert.Contains(t, body.Message, "send")
}

func TestLoadOptionsFromStrings(t *testing.T) {
	tests := []struct {
		name        string
		timeout     string
		maxAge      string
		defaultAge  time.Duration
		wantOpts    int
		wantErr     bool
		wantTimeout time.Duration
		wantMaxAge  time.Duration
	}{
		{name: "nothing set", wantOpts: 0},
		{name: "timeout only", timeout: "5s", wantOpts: 1, wantTimeout: 5 * time.Second},
		{name: "cache from request", maxAge: "1h", wantOpts: 1, wantMaxAge: time.Hour},
		{name: "cache from default", defaultAge: 10 * time.Minute, wantOpts: 1, wantMaxAge: 10 * time.Minute},
		{name: "request disables default", maxAge: "0s", defaultAge: time.Hour, wantOpts: 0},
		{name: "bad timeout", timeout: "soon", wantErr: true},
		{name: "negative timeout", timeout: "-1s", wantErr: true},
		{name: "bad max age", maxAge: "forever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := LoadOptionsFromStrings(tt.timeout, tt.maxAge, tt.defaultAge, "/cache")
			if tt.wantErr {
				assert.True(t, errors.Is(err, feeds.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Len(t, opts, tt.wantOpts)

			var applied feeds.LoadOptions
			for _, opt := range opts {
				opt(&applied)
			}
			assert.Equal(t, tt.wantTimeout, applied.Timeout)
			assert.Equal(t, tt.wantMaxAge, applied.CacheMaxAge)
		})
	}
}
