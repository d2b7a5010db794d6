package analysis

import (
	"testing"

	"channel-coach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAverages(t *testing.T) {
	pinClock(t)

	videos := []*models.Video{
		{ID: "v1", Duration: "PT10M", ViewCount: 100, LikeCount: 10, CommentCount: 1},
		{ID: "v2", Duration: "PT12M", ViewCount: 201, LikeCount: 20, CommentCount: 2},
		{ID: "s1", Duration: "PT20S", ViewCount: 5000, LikeCount: 300, CommentCount: 3},
	}

	avgs := BuildAverages(videos)

	require.NotNil(t, avgs.Video)
	assert.Equal(t, AverageVideoID, avgs.Video.ID)
	assert.Contains(t, avgs.Video.Title, AverageMarker)
	assert.Equal(t, int64(151), avgs.Video.ViewCount)
	assert.Equal(t, int64(15), avgs.Video.LikeCount)
	assert.Equal(t, int64(2), avgs.Video.CommentCount)
	assert.True(t, IsSyntheticAverage(avgs.Video))

	require.NotNil(t, avgs.Short)
	assert.Equal(t, int64(5000), avgs.Short.ViewCount)
	assert.Same(t, avgs.Short, avgs.Lookup(AverageShortID))
	assert.Nil(t, avgs.Lookup("v1"))

	assert.Nil(t, BuildAverages(videos[:2]).Short)
	assert.False(t, IsSyntheticAverage(videos[0]))
}

func TestSyntheticAnalytics(t *testing.T) {
	avg := &models.Video{ID: AverageVideoID, ViewCount: 100, LikeCount: 5, CommentCount: 1}
	channel := &models.PrivateChannelData{
		DailyMetrics: []models.DailyMetric{
			{AverageViewDuration: 100, ClickThroughRate: 2},
			{AverageViewDuration: 200, ClickThroughRate: 4},
		},
	}

	stats := SyntheticAnalytics(avg, channel)
	require.NotNil(t, stats)
	assert.Equal(t, 150.0, stats.AverageViewDuration)
	assert.Equal(t, 3.0, stats.ClickThroughRate)
	assert.Equal(t, 100.0, stats.Views)

	assert.Nil(t, SyntheticAnalytics(avg, nil))

	empty := SyntheticAnalytics(avg, &models.PrivateChannelData{})
	require.NotNil(t, empty)
	assert.Zero(t, empty.AverageViewDuration)
}
