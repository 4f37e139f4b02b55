package feeds

import (
	"github.com/killallgit/podfeed/internal/models"
	"github.com/mmcdole/gofeed"
)

// ChannelAuthor returns the feed's author, falling back to the iTunes
// channel author
func ChannelAuthor(feed *gofeed.Feed) *string {
	if author := personName(feed.Author); author != nil {
		return author
	}
	if feed.ITunesExt != nil {
		return optionalString(feed.ITunesExt.Author)
	}
	return nil
}

// Assemble builds the podcast from channel metadata and already mapped
// episodes
func Assemble(url string, feed *gofeed.Feed, episodes []models.Episode) *models.Podcast {
	copyright := ChannelAuthor(feed)
	if copyright == nil {
		copyright = optionalString(feed.Copyright)
	}

	if episodes == nil {
		episodes = []models.Episode{}
	}

	return &models.Podcast{
		URL:         url,
		Link:        optionalString(feed.Link),
		Title:       feed.Title,
		Description: feed.Description,
		Image:       feedImage(feed),
		Copyright:   copyright,
		Episodes:    episodes,
	}
}

func feedImage(feed *gofeed.Feed) *string {
	if feed.Image != nil {
		if u := optionalString(feed.Image.URL); u != nil {
			return u
		}
	}
	if feed.ITunesExt != nil {
		return optionalString(feed.ITunesExt.Image)
	}
	return nil
}
