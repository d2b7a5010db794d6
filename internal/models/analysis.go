package models

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Category string

const (
	CategorySEO        Category = "SEO"
	CategoryContent    Category = "Content"
	CategoryEngagement Category = "Engagement"
)

// ActionPoint is a recommendation. ID is stable across analyses so the
// tracker can correlate implemented actions with later runs.
type ActionPoint struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	VideoID     string   `json:"video_id,omitempty"`
}

type AnalysisResult struct {
	Score        int           `json:"score"` // 0-100
	Strengths    []string      `json:"strengths"`
	Weaknesses   []string      `json:"weaknesses"`
	ActionPoints []ActionPoint `json:"action_points"`
}

type InsightType string

const (
	InsightStrength    InsightType = "strength"
	InsightWeakness    InsightType = "weakness"
	InsightOpportunity InsightType = "opportunity"
)

type InsightPriority string

const (
	InsightHigh   InsightPriority = "high"
	InsightMedium InsightPriority = "medium"
	InsightLow    InsightPriority = "low"
)

type Insight struct {
	Type        InsightType     `json:"type"`
	ContentType ContentType     `json:"content_type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metric      string          `json:"metric,omitempty"`
	Suggestion  string          `json:"suggestion"`
	Priority    InsightPriority `json:"priority"`
}

// ChannelReport bundles everything the dashboard shows for a channel.
type ChannelReport struct {
	Channel  *Channel       `json:"channel"`
	Analysis AnalysisResult `json:"analysis"`
	Insights []Insight      `json:"insights"`
	Videos   []*Video       `json:"videos"`
}
