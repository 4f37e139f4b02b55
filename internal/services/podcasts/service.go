package podcasts

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"
	"github.com/killallgit/podfeed/internal/models"
	"github.com/killallgit/podfeed/internal/services/feeds"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repository PodcastRepository
	feeds      feeds.FeedService
}

// Ensure Service implements PodcastService interface
var _ PodcastService = (*Service)(nil)

func NewService(repository PodcastRepository, feedService feeds.FeedService) *Service {
	return &Service{
		repository: repository,
		feeds:      feedService,
	}
}

// Import loads feedURL through the feed service and stores a snapshot of it.
// Load errors are returned unchanged so callers can still match the feed
// error kinds.
func (s *Service) Import(ctx context.Context, feedURL string, opts ...feeds.LoadOption) (*models.Podcast, error) {
	podcast, err := s.feeds.LoadFeed(ctx, feedURL, opts...)
	if err != nil {
		return nil, err
	}

	record, err := s.repository.SavePodcast(ctx, podcast)
	if err != nil {
		return nil, fmt.Errorf("storing podcast %s: %w", feedURL, err)
	}

	log.Printf("[INFO] stored podcast %s (id=%d) with %d episodes", feedURL, record.ID, record.EpisodeCount)
	return podcast, nil
}

func (s *Service) Get(ctx context.Context, feedURL string) (*models.Podcast, error) {
	record, err := s.repository.GetPodcastByURL(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return record.ToPodcast(), nil
}

// List clamps page and limit to sane values before querying
func (s *Service) List(ctx context.Context, page, limit int) ([]models.PodcastRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repository.ListPodcasts(ctx, page, limit)
}

func (s *Service) Delete(ctx context.Context, feedURL string) error {
	if err := s.repository.DeletePodcastByURL(ctx, feedURL); err != nil {
		return err
	}
	log.Printf("[DEBUG] deleted stored podcast %s", feedURL)
	return nil
}
