package types

import (
	"context"

	"github.com/killallgit/podfeed/internal/database"
	"github.com/killallgit/podfeed/internal/services/feeds"
	"github.com/killallgit/podfeed/internal/services/podcasts"
	"github.com/killallgit/podfeed/pkg/config"
)

// FeedLoader loads a feed and reports where its bytes came from
type FeedLoader interface {
	Load(ctx context.Context, url string, opts ...feeds.LoadOption) (*feeds.Result, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB             *database.DB
	Config         *config.Config
	FeedLoader     FeedLoader
	PodcastService podcasts.PodcastService
}
