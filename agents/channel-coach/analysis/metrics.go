package analysis

import (
	"math"

	"channel-coach/internal/models"
)

// CalculateAlgorithmicMetrics derives the decoding-matrix ratios for one video.
// CTR is passed through as reported; the Analytics API does not expose
// impression based CTR per video.
func CalculateAlgorithmicMetrics(video *models.Video, analytics *models.VideoAnalytics) models.AlgorithmicMetrics {
	durationSec := float64(ParseDurationSeconds(video.Duration))
	hoursSincePublish := math.Max(1, now().Sub(video.PublishedAt).Hours())
	views := math.Max(analytics.Views, 1)

	var retention float64
	if durationSec > 0 {
		retention = analytics.AverageViewDuration / durationSec * 100
	}

	return models.AlgorithmicMetrics{
		WatchTimeTotal:    analytics.EstimatedMinutesWatched,
		RetentionRelative: retention,
		CTR:               analytics.ClickThroughRate,
		Satisfaction:      analytics.Likes / views * 100,
		Velocity:          analytics.Views / hoursSincePublish,
		EngagementRatio:   (analytics.Likes + analytics.Comments) / views * 100,
	}
}
