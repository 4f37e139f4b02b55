package types

import (
	"time"

	"github.com/killallgit/podfeed/internal/models"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PodcastResponse wraps a single loaded or stored podcast
type PodcastResponse struct {
	BaseResponse
	Source  string          `json:"source,omitempty"` // "network" or "cache" for live loads
	Podcast *models.Podcast `json:"podcast"`
}

// PodcastSummary is a stored podcast without its episodes
type PodcastSummary struct {
	FeedURL       string    `json:"feedUrl"`
	Title         string    `json:"title"`
	Link          *string   `json:"link"`
	Image         *string   `json:"image"`
	EpisodeCount  int       `json:"episodeCount"`
	LastFetchedAt time.Time `json:"lastFetchedAt"`
}

// PodcastsResponse for stored podcast lists
type PodcastsResponse struct {
	BaseResponse
	Podcasts []PodcastSummary `json:"podcasts"`
	Count    int              `json:"count"` // Number of results in this response
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`   // Error code
	Details any    `json:"details,omitempty"` // Additional error details
}

// NewPodcastSummary builds the list view of a stored record
func NewPodcastSummary(r models.PodcastRecord) PodcastSummary {
	return PodcastSummary{
		FeedURL:       r.FeedURL,
		Title:         r.Title,
		Link:          r.Link,
		Image:         r.Image,
		EpisodeCount:  r.EpisodeCount,
		LastFetchedAt: r.LastFetchedAt,
	}
}
