package models

import "time"

// Podcast is the result of loading a single RSS feed. It is built once per
// successful load and not modified afterwards.
type Podcast struct {
	URL         string    `json:"url" example:"https://feeds.example.com/show.xml"`
	Link        *string   `json:"link,omitempty" example:"https://example.com"`
	Title       string    `json:"title" example:"The Tech Show"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty" example:"https://example.com/art.jpg"`
	Copyright   *string   `json:"copyright,omitempty" example:"Acme Radio"`
	Episodes    []Episode `json:"episodes"`
}

// Episode is a single feed item. Nil pointer fields were absent (or
// unusable) in the source feed.
type Episode struct {
	GUID          string     `json:"guid"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Link          string     `json:"link"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Author        *string    `json:"author,omitempty"`
	DurationText  *string    `json:"duration,omitempty" example:"01:02:03"`
	MediaURL      *string    `json:"media_url,omitempty"`
	Season        *int       `json:"season,omitempty"`
	EpisodeNumber *int       `json:"episode_number,omitempty"`
}
