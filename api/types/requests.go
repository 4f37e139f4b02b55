package types

// ImportPodcastRequest asks the server to load a feed and store it
type ImportPodcastRequest struct {
	URL         string `json:"url" binding:"required" example:"https://feeds.example.com/show.xml"`
	CacheMaxAge string `json:"cache_max_age,omitempty" example:"1h"` // Go duration, empty uses the configured cache.max_age
	Timeout     string `json:"timeout,omitempty" example:"20s"`
}
