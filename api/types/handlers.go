package types

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/internal/services/feeds"
)

// Handler utility functions to reduce duplication across handlers

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// RequireQuery returns the query parameter or sends a 400 when it is empty
func RequireQuery(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		SendBadRequest(c, "query parameter '"+name+"' is required")
		return "", false
	}
	return value, true
}

// ParseIntQuery reads an integer query parameter, falling back to def when
// it is absent or malformed
func ParseIntQuery(c *gin.Context, name string, def int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return value
}

// LoadOptionsFromStrings converts the timeout and cache max age inputs of a
// request into load options. An empty cacheMaxAge falls back to
// defaultMaxAge, which may itself be zero to leave caching off.
func LoadOptionsFromStrings(timeout, cacheMaxAge string, defaultMaxAge time.Duration, cacheDir string) ([]feeds.LoadOption, error) {
	var opts []feeds.LoadOption

	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return nil, feeds.NewValidationError("timeout", "must be a positive duration such as 20s")
		}
		opts = append(opts, feeds.WithTimeout(d))
	}

	maxAge := defaultMaxAge
	if cacheMaxAge != "" {
		d, err := time.ParseDuration(cacheMaxAge)
		if err != nil {
			return nil, feeds.NewValidationError("cache_max_age", "must be a duration such as 1h")
		}
		maxAge = d
	}
	if maxAge > 0 {
		opts = append(opts, feeds.WithCache(maxAge, cacheDir))
	}

	return opts, nil
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Message: message})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
