package models

import "time"

type ChannelStatistics struct {
	ViewCount             int64 `json:"view_count"`
	SubscriberCount       int64 `json:"subscriber_count"`
	HiddenSubscriberCount bool  `json:"hidden_subscriber_count"`
	VideoCount            int64 `json:"video_count"`
}

// Channel is a snapshot of a channel as returned by the Data API.
// It is re-fetched on every analysis and never mutated afterwards.
type Channel struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	CustomURL         string            `json:"custom_url,omitempty"`
	Country           string            `json:"country,omitempty"`
	PublishedAt       time.Time         `json:"published_at"`
	ThumbnailURL      string            `json:"thumbnail_url,omitempty"`
	UploadsPlaylistID string            `json:"uploads_playlist_id"`
	Statistics        ChannelStatistics `json:"statistics"`
}
