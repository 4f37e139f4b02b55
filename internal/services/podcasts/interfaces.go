package podcasts

import (
	"context"

	"github.com/killallgit/podfeed/internal/models"
	"github.com/killallgit/podfeed/internal/services/feeds"
)

// PodcastRepository defines the data access interface for stored podcasts
type PodcastRepository interface {
	// SavePodcast inserts or replaces the stored snapshot for podcast.URL
	SavePodcast(ctx context.Context, podcast *models.Podcast) (*models.PodcastRecord, error)

	GetPodcastByURL(ctx context.Context, feedURL string) (*models.PodcastRecord, error)
	ListPodcasts(ctx context.Context, page, limit int) ([]models.PodcastRecord, int64, error)
	DeletePodcastByURL(ctx context.Context, feedURL string) error
}

// PodcastService defines the library operations exposed to the API and CLI
type PodcastService interface {
	// Import loads the feed and stores the result
	Import(ctx context.Context, feedURL string, opts ...feeds.LoadOption) (*models.Podcast, error)

	Get(ctx context.Context, feedURL string) (*models.Podcast, error)
	List(ctx context.Context, page, limit int) ([]models.PodcastRecord, int64, error)
	Delete(ctx context.Context, feedURL string) error
}
