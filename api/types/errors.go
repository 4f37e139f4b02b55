package types

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"
	"github.com/killallgit/podfeed/internal/services/feeds"
	"github.com/killallgit/podfeed/internal/services/podcasts"
	apperrors "github.com/killallgit/podfeed/pkg/errors"
)

// FromFeedError maps a service error to an AppError carrying the HTTP status
func FromFeedError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validation feeds.ValidationError
	if errors.As(err, &validation) {
		return apperrors.ValidationError(validation.Field, validation.Message)
	}

	var timeoutErr *feeds.TimeoutError
	if errors.As(err, &timeoutErr) {
		return apperrors.Wrap(err, apperrors.ErrCodeFeedTimeout, fmt.Sprintf("feed request timed out during %s", timeoutErr.Stage)).
			WithDetail("stage", string(timeoutErr.Stage))
	}

	var requestErr *feeds.RequestFailedError
	if errors.As(err, &requestErr) {
		appErr := apperrors.Wrap(err, apperrors.ErrCodeFeedRequestFailed, "feed request failed: "+requestErr.Message)
		if requestErr.StatusCode != 0 {
			appErr.WithDetail("upstream_status", requestErr.StatusCode)
		}
		return appErr
	}

	switch {
	case errors.Is(err, feeds.ErrCancelled):
		return apperrors.Wrap(err, apperrors.ErrCodeFeedCancelled, "feed request cancelled")
	case errors.Is(err, feeds.ErrParse):
		return apperrors.Wrap(err, apperrors.ErrCodeFeedParse, "feed could not be parsed")
	case errors.Is(err, feeds.ErrCacheDirectory):
		return apperrors.Wrap(err, apperrors.ErrCodeCacheDirectory, "feed cache is unavailable")
	case errors.Is(err, feeds.ErrInvalidInput):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, err.Error())
	case errors.Is(err, podcasts.ErrNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "podcast not found")
	}

	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "internal server error")
}

// SendError writes err as a JSON error response with the mapped status
func SendError(c *gin.Context, err error) {
	appErr := FromFeedError(err)
	status := appErr.GetHTTPCode()

	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		log.Printf("[DEBUG] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, ErrorResponse{
		Status:  StatusError,
		Message: appErr.Message,
		Error:   string(appErr.Code),
		Details: appErr.Details,
	})
}
