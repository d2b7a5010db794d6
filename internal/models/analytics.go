package models

// VideoAnalytics is the lifetime analytics report of a single video.
// ClickThroughRate is zero when the API did not report it.
type VideoAnalytics struct {
	VideoID                 string  `json:"video_id"`
	Views                   float64 `json:"views"`
	EstimatedMinutesWatched float64 `json:"estimated_minutes_watched"`
	AverageViewDuration     float64 `json:"average_view_duration"`
	ClickThroughRate        float64 `json:"click_through_rate"`
	Likes                   float64 `json:"likes"`
	Comments                float64 `json:"comments"`
}

type DailyMetric struct {
	Date                    string  `json:"date"`
	Views                   float64 `json:"views"`
	EstimatedMinutesWatched float64 `json:"estimated_minutes_watched"`
	AverageViewDuration     float64 `json:"average_view_duration"`
	SubscribersGained       float64 `json:"subscribers_gained"`
	ClickThroughRate        float64 `json:"click_through_rate"`
}

type Demographic struct {
	AgeGroup         string  `json:"age_group"`
	Gender           string  `json:"gender"`
	ViewerPercentage float64 `json:"viewer_percentage"`
}

type TrafficSource struct {
	Source string  `json:"source"`
	Views  float64 `json:"views"`
}

// PrivateChannelData covers the trailing 30 day window of a channel the viewer owns.
type PrivateChannelData struct {
	DailyMetrics      []DailyMetric   `json:"daily_metrics"`
	Demographics      []Demographic   `json:"demographics"`
	TopTrafficSources []TrafficSource `json:"top_traffic_sources"`
}
