package models

import "time"

type ContentType string

const (
	ContentShort ContentType = "short"
	ContentVideo ContentType = "video"
	ContentLive  ContentType = "live"
)

type Video struct {
	ID                   string    `json:"id"`
	ChannelID            string    `json:"channel_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	ChannelTitle         string    `json:"channel_title"`
	PublishedAt          time.Time `json:"published_at"`
	Duration             string    `json:"duration"`
	Tags                 []string  `json:"tags,omitempty"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	CommentCount         int64     `json:"comment_count"`
	ThumbnailURL         string    `json:"thumbnail_url,omitempty"`
	LiveBroadcastContent string    `json:"live_broadcast_content,omitempty"`
	// LiveStreamed is set when the API reported liveStreamingDetails for the video.
	LiveStreamed bool   `json:"live_streamed,omitempty"`
	URL          string `json:"url"`
}

// AlgorithmicMetrics are the per-video ratios shown in the decoding matrix.
type AlgorithmicMetrics struct {
	WatchTimeTotal    float64 `json:"watch_time_total"`
	RetentionRelative float64 `json:"retention_relative"`
	CTR               float64 `json:"ctr"`
	Satisfaction      float64 `json:"satisfaction"`
	Velocity          float64 `json:"velocity"`
	EngagementRatio   float64 `json:"engagement_ratio"`
}

type VideoMetricsRow struct {
	Video   *Video              `json:"video"`
	Metrics *AlgorithmicMetrics `json:"metrics,omitempty"`
	Error   string              `json:"error,omitempty"`
}
