package models

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
)

// VideoSnapshot captures the target video when an action is implemented.
type VideoSnapshot struct {
	Title             string `json:"title"`
	TagsCount         int    `json:"tags_count"`
	DescriptionLength int    `json:"description_length"`
}

type TrackedAction struct {
	ID                 string             `json:"id"`
	ChannelID          string             `json:"channel_id"`
	VideoID            string             `json:"video_id,omitempty"`
	VideoSnapshot      *VideoSnapshot     `json:"video_snapshot,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Title              string             `json:"title"`
	ImplementedAt      time.Time          `json:"implemented_at"`
	InitialStats       ChannelStatistics  `json:"initial_stats"`
	LastVerifiedAt     *time.Time         `json:"last_verified_at,omitempty"`
}

type Impact struct {
	ViewGrowth int64 `json:"view_growth"`
	SubGrowth  int64 `json:"sub_growth"`
	DaysSince  int   `json:"days_since"`
}
