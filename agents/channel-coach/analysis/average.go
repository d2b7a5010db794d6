package analysis

import (
	"math"
	"strings"

	"channel-coach/internal/models"
)

const (
	AverageVideoID = "AVG_VIDEO"
	AverageShortID = "AVG_SHORT"

	// AverageMarker appears in every synthetic title so the title
	// heuristics can leave averages out of the contest.
	AverageMarker = "Promedio"

	averagePrefix = "AVG"
)

// Averages holds the synthetic per-segment comparators; nil when a segment is empty.
type Averages struct {
	Video *models.Video `json:"video,omitempty"`
	Short *models.Video `json:"short,omitempty"`
}

func IsSyntheticAverage(v *models.Video) bool {
	return v != nil && strings.HasPrefix(v.ID, averagePrefix)
}

// BuildAverages turns each segment into a pseudo-video carrying its mean public counts.
func BuildAverages(videos []*models.Video) Averages {
	segments := Segment(videos)
	return Averages{
		Video: averageOf(segments.Video, "📊 "+AverageMarker+" (Videos)", AverageVideoID),
		Short: averageOf(segments.Short, "📱 "+AverageMarker+" (Shorts)", AverageShortID),
	}
}

// Lookup returns the average with the given id.
func (a Averages) Lookup(id string) *models.Video {
	switch id {
	case AverageVideoID:
		return a.Video
	case AverageShortID:
		return a.Short
	}
	return nil
}

func averageOf(list []*models.Video, title, id string) *models.Video {
	if len(list) == 0 {
		return nil
	}

	var views, likes, comments int64
	for _, v := range list {
		views += v.ViewCount
		likes += v.LikeCount
		comments += v.CommentCount
	}
	n := float64(len(list))

	return &models.Video{
		ID:           id,
		Title:        title,
		Description:  "Rendimiento medio calculado.",
		ChannelTitle: "Tu Canal",
		PublishedAt:  now(),
		Duration:     "PT0M0S",
		ViewCount:    int64(math.Round(float64(views) / n)),
		LikeCount:    int64(math.Round(float64(likes) / n)),
		CommentCount: int64(math.Round(float64(comments) / n)),
	}
}

// SyntheticAnalytics derives analytics for an average pseudo-video from the
// channel's trailing daily report. It returns nil without channel data.
func SyntheticAnalytics(avg *models.Video, channel *models.PrivateChannelData) *models.VideoAnalytics {
	if avg == nil || channel == nil {
		return nil
	}

	var avd, ctr float64
	if n := len(channel.DailyMetrics); n > 0 {
		for _, d := range channel.DailyMetrics {
			avd += d.AverageViewDuration
			ctr += d.ClickThroughRate
		}
		avd /= float64(n)
		ctr /= float64(n)
	}

	return &models.VideoAnalytics{
		VideoID:             avg.ID,
		Views:               float64(avg.ViewCount),
		Likes:               float64(avg.LikeCount),
		Comments:            float64(avg.CommentCount),
		AverageViewDuration: avd,
		ClickThroughRate:    ctr,
	}
}
