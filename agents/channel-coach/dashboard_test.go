package channelcoach

import (
	"context"
	"errors"
	"testing"

	"channel-coach/agents/channel-coach/analysis"
	"channel-coach/agents/channel-coach/youtube"
	"channel-coach/internal/models"
	"channel-coach/shared/cache"
	"channel-coach/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(data *fakeData, an *fakeAnalytics) *Dashboard {
	return NewDashboard(data, an, nil, nil, 10)
}

func TestAnalyze(t *testing.T) {
	d := newTestDashboard(newFakeData(4), newFakeAnalytics())

	report, err := d.Analyze(context.Background(), "UC123")
	require.NoError(t, err)

	assert.Equal(t, "Canal de Prueba", report.Channel.Title)
	assert.Len(t, report.Videos, 4)
	assert.Contains(t, report.Analysis.Strengths, "Constancia de subida")
	assert.Contains(t, report.Analysis.Strengths, "Buen uso de etiquetas (SEO)")
	assert.LessOrEqual(t, len(report.Insights), 5)
}

func TestAnalyze_CachesChannelData(t *testing.T) {
	data := newFakeData(3)
	store := cache.New(config.CacheConfig{Enabled: true, SizeMB: 1, TTLSeconds: 60})
	d := NewDashboard(data, newFakeAnalytics(), store, nil, 10)

	_, err := d.Analyze(context.Background(), "UC123")
	require.NoError(t, err)
	second, err := d.Analyze(context.Background(), "UC123")
	require.NoError(t, err)

	assert.Equal(t, 1, data.channelCalls)
	assert.Len(t, second.Videos, 3)
}

func TestAnalyze_ChannelNotFound(t *testing.T) {
	d := newTestDashboard(newFakeData(1), newFakeAnalytics())

	_, err := d.Analyze(context.Background(), "UCmissing")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestChannelAnalytics_ResolvesHandle(t *testing.T) {
	an := newFakeAnalytics()
	d := newTestDashboard(newFakeData(1), an)

	data, err := d.ChannelAnalytics(context.Background(), "tok", "@prueba")
	require.NoError(t, err)
	assert.Len(t, data.DailyMetrics, 2)
}

func TestMatrix_LimitsToFiveVideos(t *testing.T) {
	an := newFakeAnalytics()
	for _, id := range []string{"vid0", "vid1", "vid2", "vid3", "vid4"} {
		an.stats[id] = &models.VideoAnalytics{VideoID: id, Views: 1000, AverageViewDuration: 300, Likes: 40, Comments: 10}
	}
	d := newTestDashboard(newFakeData(8), an)

	m, err := d.Matrix(context.Background(), "tok", "UC123")
	require.NoError(t, err)

	require.Len(t, m.Rows, 5)
	assert.False(t, m.AuthExpired)
	for _, row := range m.Rows {
		require.NotNil(t, row.Metrics, row.Video.ID)
		assert.InDelta(t, 50, row.Metrics.RetentionRelative, 0.001)
	}
}

func TestMatrix_StopsAfterAuthExpired(t *testing.T) {
	an := newFakeAnalytics()
	an.stats["vid0"] = &models.VideoAnalytics{Views: 10}
	an.errs["vid1"] = youtube.ErrUnauthenticated
	d := newTestDashboard(newFakeData(6), an)

	m, err := d.Matrix(context.Background(), "expired", "UC123")
	require.NoError(t, err)

	assert.True(t, m.AuthExpired)
	assert.Equal(t, 2, an.calls())
	require.Len(t, m.Rows, 5)
	assert.NotNil(t, m.Rows[0].Metrics)
	assert.NotEmpty(t, m.Rows[1].Error)
	for _, row := range m.Rows[2:] {
		assert.Nil(t, row.Metrics)
		assert.Empty(t, row.Error)
		assert.NotNil(t, row.Video)
	}
}

func TestMatrix_ErrorRowDoesNotStopBatch(t *testing.T) {
	an := newFakeAnalytics()
	an.errs["vid1"] = &youtube.APIError{StatusCode: 500, Message: "backend"}
	d := newTestDashboard(newFakeData(3), an)

	m, err := d.Matrix(context.Background(), "tok", "UC123")
	require.NoError(t, err)

	assert.False(t, m.AuthExpired)
	assert.Equal(t, 3, an.calls())
	assert.Contains(t, m.Rows[1].Error, "backend")
	assert.Equal(t, "sin datos de analytics", m.Rows[0].Error)
}

func TestCompare_AgainstAverage(t *testing.T) {
	an := newFakeAnalytics()
	an.stats["vid0"] = &models.VideoAnalytics{VideoID: "vid0", Views: 1000, AverageViewDuration: 240, ClickThroughRate: 8}
	d := newTestDashboard(newFakeData(4), an)

	cmp, err := d.Compare(context.Background(), "tok", "UC123", "vid0", analysis.AverageVideoID)
	require.NoError(t, err)

	assert.Equal(t, analysis.AverageVideoID, cmp.VideoB.ID)
	assert.Equal(t, 100, cmp.Report.ScoreA+cmp.Report.ScoreB)
	assert.Empty(t, cmp.Report.Recommendations)
	assert.Equal(t, models.SideA, cmp.Report.Dimensions.Retention.Winner)
	assert.Equal(t, []string{"vid0"}, an.videoCalls)
}

func TestCompare_WithoutTokenSkipsAnalytics(t *testing.T) {
	an := newFakeAnalytics()
	d := newTestDashboard(newFakeData(3), an)

	cmp, err := d.Compare(context.Background(), "", "UC123", "vid0", "vid2")
	require.NoError(t, err)

	assert.Equal(t, 0, an.calls())
	assert.Equal(t, models.SideTie, cmp.Report.Dimensions.Retention.Winner)
}

func TestCompare_UnauthenticatedFails(t *testing.T) {
	an := newFakeAnalytics()
	an.errs["vid1"] = youtube.ErrUnauthenticated
	d := newTestDashboard(newFakeData(3), an)

	_, err := d.Compare(context.Background(), "expired", "UC123", "vid0", "vid1")
	assert.ErrorIs(t, err, youtube.ErrUnauthenticated)
}

func TestCompare_APIErrorDegradesToPublicCounts(t *testing.T) {
	an := newFakeAnalytics()
	an.errs["vid1"] = &youtube.APIError{StatusCode: 403, Message: "forbidden"}
	an.stats["vid0"] = &models.VideoAnalytics{AverageViewDuration: 100}
	d := newTestDashboard(newFakeData(3), an)

	cmp, err := d.Compare(context.Background(), "tok", "UC123", "vid0", "vid1")
	require.NoError(t, err)
	assert.Equal(t, models.SideTie, cmp.Report.Dimensions.Retention.Winner)
}

func TestCompare_VideoOutsideRecentUploads(t *testing.T) {
	data := newFakeData(2)
	data.extra["old"] = &models.Video{ID: "old", Title: "Un video antiguo del canal", Duration: "PT5M", PublishedAt: testNow.AddDate(-1, 0, 0), ViewCount: 900}
	d := newTestDashboard(data, newFakeAnalytics())

	cmp, err := d.Compare(context.Background(), "", "UC123", "old", "vid0")
	require.NoError(t, err)
	assert.Equal(t, "old", cmp.VideoA.ID)

	_, err = d.Compare(context.Background(), "", "UC123", "gone", "vid0")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	data.videoErr = errors.New("quota")
	_, err = d.Compare(context.Background(), "", "UC123", "other", "vid0")
	assert.ErrorContains(t, err, "quota")
}

func TestVideoDetail(t *testing.T) {
	an := newFakeAnalytics()
	an.stats["vid1"] = &models.VideoAnalytics{Views: 2000, AverageViewDuration: 150, Likes: 100, Comments: 20}
	d := newTestDashboard(newFakeData(3), an)

	ch, v, metrics, err := d.VideoDetail(context.Background(), "", "UC123", "vid1")
	require.NoError(t, err)
	assert.Equal(t, "UC123", ch.ID)
	assert.Equal(t, "vid1", v.ID)
	assert.Nil(t, metrics)

	_, _, metrics, err = d.VideoDetail(context.Background(), "tok", "UC123", "vid1")
	require.NoError(t, err)
	require.NotNil(t, metrics)
	assert.InDelta(t, 25, metrics.RetentionRelative, 0.001)
	assert.InDelta(t, 6, metrics.EngagementRatio, 0.001)
}
