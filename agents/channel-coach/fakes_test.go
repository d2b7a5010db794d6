package channelcoach

import (
	"context"
	"fmt"
	"sync"
	"time"

	"channel-coach/internal/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeData struct {
	mu           sync.Mutex
	channel      *models.Channel
	videos       []*models.Video
	extra        map[string]*models.Video
	channelCalls int
	videoErr     error
}

func newFakeData(videoCount int) *fakeData {
	f := &fakeData{
		channel: &models.Channel{
			ID:                "UC123",
			Title:             "Canal de Prueba",
			UploadsPlaylistID: "UU123",
			Statistics:        models.ChannelStatistics{ViewCount: 100000, SubscriberCount: 2000, VideoCount: int64(videoCount)},
		},
		extra: map[string]*models.Video{},
	}
	for i := 0; i < videoCount; i++ {
		f.videos = append(f.videos, &models.Video{
			ID:           fmt.Sprintf("vid%d", i),
			ChannelID:    "UC123",
			Title:        fmt.Sprintf("Cómo mejorar tu canal en 2025, parte %d", i),
			PublishedAt:  testNow.Add(-time.Duration(i*5*24) * time.Hour),
			Duration:     "PT10M",
			Tags:         []string{"youtube", "crecimiento", "tutorial", "canal", "seo", "consejos"},
			ViewCount:    int64(1000 * (i + 1)),
			LikeCount:    int64(50 * (i + 1)),
			CommentCount: int64(10 * (i + 1)),
		})
	}
	return f
}

func (f *fakeData) GetChannel(_ context.Context, identifier string) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelCalls++
	if identifier != f.channel.ID && identifier != "@prueba" {
		return nil, nil
	}
	return f.channel, nil
}

func (f *fakeData) GetRecentVideos(_ context.Context, _ string, limit int64) ([]*models.Video, error) {
	if int64(len(f.videos)) > limit {
		return f.videos[:limit], nil
	}
	return f.videos, nil
}

func (f *fakeData) GetVideo(_ context.Context, videoID string) (*models.Video, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	for _, v := range f.videos {
		if v.ID == videoID {
			return v, nil
		}
	}
	return f.extra[videoID], nil
}

type fakeAnalytics struct {
	mu         sync.Mutex
	stats      map[string]*models.VideoAnalytics
	errs       map[string]error
	channel    *models.PrivateChannelData
	channelErr error
	videoCalls []string
}

func newFakeAnalytics() *fakeAnalytics {
	return &fakeAnalytics{
		stats: map[string]*models.VideoAnalytics{},
		errs:  map[string]error{},
		channel: &models.PrivateChannelData{
			DailyMetrics: []models.DailyMetric{
				{Date: "2025-05-30", Views: 300, AverageViewDuration: 120, ClickThroughRate: 4},
				{Date: "2025-05-31", Views: 500, AverageViewDuration: 180, ClickThroughRate: 6},
			},
		},
	}
}

func (f *fakeAnalytics) GetChannelAnalytics(_ context.Context, _, _ string) (*models.PrivateChannelData, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return f.channel, nil
}

func (f *fakeAnalytics) GetVideoAnalytics(_ context.Context, _, videoID string) (*models.VideoAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videoCalls = append(f.videoCalls, videoID)
	if err := f.errs[videoID]; err != nil {
		return nil, err
	}
	return f.stats[videoID], nil
}

func (f *fakeAnalytics) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.videoCalls)
}
