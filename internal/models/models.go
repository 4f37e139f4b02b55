package models

import (
	"time"

	"gorm.io/gorm"
)

// PodcastRecord is a stored snapshot of a loaded podcast
type PodcastRecord struct {
	gorm.Model
	FeedURL       string          `json:"feed_url" gorm:"uniqueIndex;not null"`
	Link          *string         `json:"link"`
	Title         string          `json:"title"`
	Description   string          `json:"description" gorm:"type:text"`
	Image         *string         `json:"image"`
	Copyright     *string         `json:"copyright"`
	EpisodeCount  int             `json:"episode_count" gorm:"default:0"`
	LastFetchedAt time.Time       `json:"last_fetched_at"`
	Episodes      []EpisodeRecord `json:"episodes,omitempty" gorm:"foreignKey:PodcastRecordID;constraint:OnDelete:CASCADE"`
}

// EpisodeRecord is a stored episode belonging to a PodcastRecord
type EpisodeRecord struct {
	gorm.Model
	PodcastRecordID uint   `json:"podcast_id" gorm:"not null;index"`
	Position        int    `json:"position" gorm:"not null"` // index within the feed
	GUID            string `json:"guid" gorm:"index"`
	Title           string `json:"title"`
	Description     string `json:"description" gorm:"type:text"`
	Link            string `json:"link"`

	PublishedAt   *time.Time `json:"published_at"`
	Author        *string    `json:"author"`
	DurationText  *string    `json:"duration"`
	MediaURL      *string    `json:"media_url"`
	Season        *int       `json:"season"`
	EpisodeNumber *int       `json:"episode_number"`
}

// NewPodcastRecord converts a loaded podcast into its stored form
func NewPodcastRecord(p *Podcast) *PodcastRecord {
	record := &PodcastRecord{
		FeedURL:      p.URL,
		Link:         p.Link,
		Title:        p.Title,
		Description:  p.Description,
		Image:        p.Image,
		Copyright:    p.Copyright,
		EpisodeCount: len(p.Episodes),
		Episodes:     make([]EpisodeRecord, 0, len(p.Episodes)),
	}

	for i, e := range p.Episodes {
		record.Episodes = append(record.Episodes, EpisodeRecord{
			Position:      i,
			GUID:          e.GUID,
			Title:         e.Title,
			Description:   e.Description,
			Link:          e.Link,
			PublishedAt:   e.PublishedAt,
			Author:        e.Author,
			DurationText:  e.DurationText,
			MediaURL:      e.MediaURL,
			Season:        e.Season,
			EpisodeNumber: e.EpisodeNumber,
		})
	}

	return record
}

// ToPodcast rebuilds the podcast value. Episodes are expected to be
// ordered by Position already.
func (r *PodcastRecord) ToPodcast() *Podcast {
	podcast := &Podcast{
		URL:         r.FeedURL,
		Link:        r.Link,
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Copyright:   r.Copyright,
		Episodes:    make([]Episode, 0, len(r.Episodes)),
	}

	for _, e := range r.Episodes {
		podcast.Episodes = append(podcast.Episodes, Episode{
			GUID:          e.GUID,
			Title:         e.Title,
			Description:   e.Description,
			Link:          e.Link,
			PublishedAt:   e.PublishedAt,
			Author:        e.Author,
			DurationText:  e.DurationText,
			MediaURL:      e.MediaURL,
			Season:        e.Season,
			EpisodeNumber: e.EpisodeNumber,
		})
	}

	return podcast
}
