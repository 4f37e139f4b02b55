package feeds

import (
	"strconv"
	"strings"

	"github.com/killallgit/podfeed/internal/models"
	"github.com/mmcdole/gofeed"
)

// MapItems converts feed items to episodes in feed order. Items are mapped
// independently; a malformed field only clears that field.
func MapItems(items []*gofeed.Item, channelAuthor *string) []models.Episode {
	episodes := make([]models.Episode, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		episodes = append(episodes, MapItem(item, channelAuthor))
	}
	return episodes
}

// MapItem converts a single feed item
func MapItem(item *gofeed.Item, channelAuthor *string) models.Episode {
	episode := models.Episode{
		GUID:        item.GUID,
		Title:       item.Title,
		Description: item.Description,
		Link:        item.Link,
		Author:      itemAuthor(item, channelAuthor),
		MediaURL:    mediaURL(item),
	}

	if item.PublishedParsed != nil {
		published := *item.PublishedParsed
		episode.PublishedAt = &published
	}

	// Extension fields stay nil when the item has no iTunes block at all
	if ext := item.ITunesExt; ext != nil {
		episode.DurationText = optionalString(ext.Duration)
		episode.Season = optionalInt(ext.Season)
		episode.EpisodeNumber = optionalInt(ext.Episode)
	}

	if episode.GUID == "" {
		switch {
		case episode.MediaURL != nil:
			episode.GUID = *episode.MediaURL
		default:
			episode.GUID = item.Link
		}
	}

	return episode
}

// itemAuthor walks the author fallback chain: item author, item iTunes
// author, channel author
func itemAuthor(item *gofeed.Item, channelAuthor *string) *string {
	if author := personName(item.Author); author != nil {
		return author
	}
	if item.ITunesExt != nil {
		if author := optionalString(item.ITunesExt.Author); author != nil {
			return author
		}
	}
	return channelAuthor
}

func mediaURL(item *gofeed.Item) *string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if u := optionalString(enclosure.URL); u != nil {
			return u
		}
	}
	return nil
}

func personName(p *gofeed.Person) *string {
	if p == nil {
		return nil
	}
	if name := optionalString(p.Name); name != nil {
		return name
	}
	return optionalString(p.Email)
}

// optionalString returns nil for blank strings and the value unchanged otherwise
func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
