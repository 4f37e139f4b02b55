package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/killallgit/podfeed/api/types"
	apperrors "github.com/killallgit/podfeed/pkg/errors"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiters keeps one limiter per client IP and drops idle ones in the
// background until Stop is called
type RateLimiters struct {
	clients  sync.Map
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	start    sync.Once
}

// NewRateLimiters creates an empty limiter store
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		idleTTL: 10 * time.Minute,
		stop:    make(chan struct{}),
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (r *RateLimiters) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *RateLimiters) get(key string, rps float64, burst int) *clientLimiter {
	value, _ := r.clients.LoadOrStore(key, &clientLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	})
	cl := value.(*clientLimiter)
	cl.lastSeen.Store(time.Now().UnixNano())
	return cl
}

func (r *RateLimiters) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle(time.Now())
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiters) evictIdle(now time.Time) {
	r.clients.Range(func(key, value any) bool {
		cl := value.(*clientLimiter)
		if now.Sub(time.Unix(0, cl.lastSeen.Load())) > r.idleTTL {
			r.clients.Delete(key)
		}
		return true
	})
}

// CORS allows the configured origins; "*" allows any
func CORS(origins ...string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", "Authorization", RequestIDHeader}, ", "))
		c.Header("Access-Control-Expose-Headers", strings.Join([]string{RequestIDHeader, "X-Feed-Source"}, ", "))
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Request body too large",
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestID propagates the caller's X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// PerClientRateLimit limits each client IP to rps requests per second with
// the given burst
func PerClientRateLimit(limiters *RateLimiters, rps float64, burst int) gin.HandlerFunc {
	limiters.start.Do(func() {
		go limiters.cleanup(5 * time.Minute)
	})

	return func(c *gin.Context) {
		cl := limiters.get(c.ClientIP()+"|"+c.FullPath(), rps, burst)

		if !cl.limiter.Allow() {
			appErr := apperrors.RateLimitError(c.FullPath(), fmt.Sprintf("%g/s", rps))
			c.AbortWithStatusJSON(appErr.GetHTTPCode(), types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Rate limit exceeded. Please slow down your requests.",
				Error:   string(appErr.Code),
			})
			return
		}
		c.Next()
	}
}
