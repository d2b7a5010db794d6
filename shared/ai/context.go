package ai

import (
	"fmt"

	"channel-coach/internal/models"
)

// Context is the structured data the assistant answers about. It is one of
// ChannelContext, ComparisonContext or VideoContext.
type Context interface {
	kind() string
	channelTitle() string
}

type ChannelContext struct {
	ChannelTitle string                   `json:"channel_title"`
	Statistics   models.ChannelStatistics `json:"statistics"`
	Score        int                      `json:"score"`
	Strengths    []string                 `json:"strengths,omitempty"`
	Weaknesses   []string                 `json:"weaknesses,omitempty"`
	Insights     []string                 `json:"insights,omitempty"`
}

type ComparisonContext struct {
	ChannelTitle string         `json:"channel_title"`
	TitleA       string         `json:"title_a"`
	TitleB       string         `json:"title_b"`
	WinnerID     string         `json:"winner_id"`
	Verdict      string         `json:"verdict"`
	ScoreA       int            `json:"score_a"`
	ScoreB       int            `json:"score_b"`
	Delta        string         `json:"delta"`
	Dimensions   map[string]any `json:"dimensions,omitempty"`
}

type VideoContext struct {
	ChannelTitle string                     `json:"channel_title"`
	Title        string                     `json:"title"`
	ContentType  models.ContentType         `json:"content_type"`
	Views        int64                      `json:"views"`
	Likes        int64                      `json:"likes"`
	Comments     int64                      `json:"comments"`
	Metrics      *models.AlgorithmicMetrics `json:"metrics,omitempty"`
}

func (ChannelContext) kind() string    { return "channel" }
func (ComparisonContext) kind() string { return "comparison" }
func (VideoContext) kind() string      { return "video" }

func (c ChannelContext) channelTitle() string    { return c.ChannelTitle }
func (c ComparisonContext) channelTitle() string { return c.ChannelTitle }
func (c VideoContext) channelTitle() string      { return c.ChannelTitle }

// NewChannelContext summarizes a channel analysis for the assistant.
func NewChannelContext(channel *models.Channel, result models.AnalysisResult, insights []models.Insight) ChannelContext {
	c := ChannelContext{
		ChannelTitle: channel.Title,
		Statistics:   channel.Statistics,
		Score:        result.Score,
		Strengths:    result.Strengths,
		Weaknesses:   result.Weaknesses,
	}
	for _, in := range insights {
		c.Insights = append(c.Insights, in.Title)
	}
	return c
}

// NewComparisonContext summarizes an expert report for the assistant.
func NewComparisonContext(channelTitle string, a, b *models.Video, report models.ExpertReport) ComparisonContext {
	return ComparisonContext{
		ChannelTitle: channelTitle,
		TitleA:       a.Title,
		TitleB:       b.Title,
		WinnerID:     report.WinnerID,
		Verdict:      report.Verdict,
		ScoreA:       report.ScoreA,
		ScoreB:       report.ScoreB,
		Delta:        fmt.Sprintf("%d pts", report.ScoreA-report.ScoreB),
		Dimensions: map[string]any{
			"title":      report.Dimensions.Title,
			"thumbnail":  report.Dimensions.Thumbnail,
			"engagement": report.Dimensions.Engagement,
			"retention":  report.Dimensions.Retention,
		},
	}
}
