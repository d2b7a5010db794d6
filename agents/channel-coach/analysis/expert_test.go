package analysis

import (
	"testing"
	"time"

	"channel-coach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comparableVideo(id, title string) *models.Video {
	return &models.Video{
		ID:           id,
		Title:        title,
		PublishedAt:  fixedNow.Add(-10 * 24 * time.Hour),
		Duration:     "PT10M",
		Tags:         []string{"go", "golang", "tutorial"},
		ViewCount:    1000,
		LikeCount:    50,
		CommentCount: 10,
	}
}

func TestGenerateExpertReport_ThumbnailByCTR(t *testing.T) {
	pinClock(t)

	a, b := comparableVideo("A1", "Same title"), comparableVideo("B1", "Same title")
	statsA := &models.VideoAnalytics{ClickThroughRate: 5.0, AverageViewDuration: 100}
	statsB := &models.VideoAnalytics{ClickThroughRate: 2.0, AverageViewDuration: 100}

	report := GenerateExpertReport(a, b, statsA, statsB)

	assert.Equal(t, models.SideA, report.Dimensions.Thumbnail.Winner)
	assert.Contains(t, report.Dimensions.Thumbnail.Reason, "5.0%")
	// thumbnail 30 + half of retention, engagement and title
	assert.Equal(t, 30+20+10+5, report.ScoreA)
	assert.Equal(t, 20+10+5, report.ScoreB)
	assert.Equal(t, "A1", report.WinnerID)
	assert.Contains(t, report.Verdict, "65 pts vs 35 pts")
}

func TestGenerateExpertReport_DecisiveDimensionsSumTo100(t *testing.T) {
	pinClock(t)

	a := comparableVideo("A1", "Why 7 habits matter?")
	a.LikeCount, a.CommentCount = 200, 50
	b := comparableVideo("B1", "A much longer title without any hooks that keeps going and going")
	b.ViewCount = 100
	b.LikeCount, b.CommentCount = 5, 0

	statsA := &models.VideoAnalytics{ClickThroughRate: 3, AverageViewDuration: 100}
	statsB := &models.VideoAnalytics{ClickThroughRate: 6, AverageViewDuration: 300}

	report := GenerateExpertReport(a, b, statsA, statsB)
	d := report.Dimensions

	require.NotEqual(t, models.SideTie, d.Title.Winner)
	require.NotEqual(t, models.SideTie, d.Thumbnail.Winner)
	require.NotEqual(t, models.SideTie, d.Engagement.Winner)
	require.NotEqual(t, models.SideTie, d.Retention.Winner)
	assert.Equal(t, 100, report.ScoreA+report.ScoreB)
	assert.Equal(t, 30, report.ScoreA)
	assert.Equal(t, 70, report.ScoreB)
	assert.Equal(t, "B1", report.WinnerID)
	assert.Contains(t, report.Recommendations, "El ganador tiene menos engagement relativo. Intenta mejorar los 'Call-to-Action' (pedir likes/comentarios) en futuros videos de este tipo.")
	assert.Contains(t, report.Recommendations[0], "Aunque B ganó, el título de A")
}

func TestGenerateExpertReport_MissingAnalytics(t *testing.T) {
	pinClock(t)

	a, b := comparableVideo("A1", "Same"), comparableVideo("B1", "Same")
	report := GenerateExpertReport(a, b, nil, nil)

	assert.Equal(t, models.SideTie, report.Dimensions.Retention.Winner)
	assert.Contains(t, report.Dimensions.Retention.Reason, "Faltan datos")
	assert.Equal(t, models.SideTie, report.Dimensions.Thumbnail.Winner)
	assert.Equal(t, 50, report.ScoreA)
	assert.Equal(t, 50, report.ScoreB)
	assert.Equal(t, models.TieID, report.WinnerID)
	assert.Contains(t, report.Verdict, "empate")

	report = GenerateExpertReport(a, b, &models.VideoAnalytics{AverageViewDuration: 500}, nil)
	assert.Equal(t, models.SideTie, report.Dimensions.Retention.Winner)
}

func TestGenerateExpertReport_VelocityFallback(t *testing.T) {
	pinClock(t)

	a, b := comparableVideo("A1", "Same"), comparableVideo("B1", "Same")
	a.ViewCount = 1300

	// 30% faster and CTR missing on one side
	report := GenerateExpertReport(a, b, &models.VideoAnalytics{ClickThroughRate: 9}, &models.VideoAnalytics{})
	assert.Equal(t, models.SideA, report.Dimensions.Thumbnail.Winner)
	assert.Equal(t, 8, report.Dimensions.Thumbnail.Score)

	a.ViewCount = 1100
	report = GenerateExpertReport(a, b, nil, nil)
	assert.Equal(t, models.SideTie, report.Dimensions.Thumbnail.Winner)
}

func TestGenerateExpertReport_AverageTitlesAlwaysTie(t *testing.T) {
	pinClock(t)

	titles := [][2]string{
		{"📊 Promedio (Videos)", "📱 Promedio (Shorts)"},
		{"Promedio!", "Top 10 tricks?"},
		{"Top 10 tricks?", "Promedio"},
	}
	for _, tt := range titles {
		report := GenerateExpertReport(comparableVideo("A1", tt[0]), comparableVideo("B1", tt[1]), nil, nil)
		assert.Equal(t, models.SideTie, report.Dimensions.Title.Winner, tt)
		assert.Equal(t, 0, report.Dimensions.Title.Score)
	}
}

func TestGenerateExpertReport_NoRecommendationsAgainstAverages(t *testing.T) {
	pinClock(t)

	a := comparableVideo("A1", "Real video")
	a.Tags = []string{"unrelated"}
	avg := BuildAverages([]*models.Video{comparableVideo("X", "x"), comparableVideo("Y", "y")}).Video
	require.NotNil(t, avg)

	report := GenerateExpertReport(a, avg, nil, nil)
	assert.Empty(t, report.Recommendations)
}

func TestGenerateExpertReport_TagStandardization(t *testing.T) {
	pinClock(t)

	a, b := comparableVideo("A1", "Same"), comparableVideo("B1", "Same")
	b.Tags = []string{"GO", "cooking"}

	report := GenerateExpertReport(a, b, nil, nil)
	assert.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "tags muy diferentes")

	b.Tags = []string{"GO", "Golang"}
	report = GenerateExpertReport(a, b, nil, nil)
	assert.Empty(t, report.Recommendations)
}

func TestAnalyzeTitles(t *testing.T) {
	tests := []struct {
		a, b   string
		winner models.Side
		score  int
	}{
		{"Why Go?", "Go", models.SideA, 8},
		{"Go", "Top 5 Go tips!", models.SideB, 10},
		{"Go", "Rust", models.SideTie, 5},
	}
	for _, tt := range tests {
		d := analyzeTitles(tt.a, tt.b)
		assert.Equal(t, tt.winner, d.Winner, tt.a+" vs "+tt.b)
		assert.Equal(t, tt.score, d.Score)
	}
}

func TestSharedTags(t *testing.T) {
	assert.Equal(t, 0, sharedTags(nil, []string{"a"}))
	assert.Equal(t, 2, sharedTags([]string{"Go", "API", "x"}, []string{"go", "api", "API"}))
}
