package channelcoach

import (
	"context"
	"errors"
	"fmt"

	"channel-coach/agents/channel-coach/analysis"
	"channel-coach/agents/channel-coach/youtube"
	"channel-coach/internal/models"
	"channel-coach/shared/cache"
	"channel-coach/shared/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const matrixSize = 5

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrVideoNotFound   = errors.New("video not found")
)

// DataSource reads public channel and video records.
type DataSource interface {
	GetChannel(ctx context.Context, identifier string) (*models.Channel, error)
	GetRecentVideos(ctx context.Context, playlistID string, limit int64) ([]*models.Video, error)
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
}

// AnalyticsSource reads private reports with the viewer's access token.
type AnalyticsSource interface {
	GetChannelAnalytics(ctx context.Context, accessToken, channelID string) (*models.PrivateChannelData, error)
	GetVideoAnalytics(ctx context.Context, accessToken, videoID string) (*models.VideoAnalytics, error)
}

// Dashboard fetches channel data and runs it through the analysis engine.
type Dashboard struct {
	data         DataSource
	analytics    AnalyticsSource
	cache        cache.Store
	limiter      *rate.Limiter
	recentVideos int64
}

func NewDashboard(data DataSource, analytics AnalyticsSource, store cache.Store, limiter *rate.Limiter, recentVideos int) *Dashboard {
	if store == nil {
		store = cache.New(config.CacheConfig{})
	}
	return &Dashboard{
		data:         data,
		analytics:    analytics,
		cache:        store,
		limiter:      limiter,
		recentVideos: int64(recentVideos),
	}
}

// channelData is the cached unit: a channel and its recent uploads.
type channelData struct {
	Channel *models.Channel `json:"channel"`
	Videos  []*models.Video `json:"videos"`
}

func (d *Dashboard) load(ctx context.Context, identifier string) (*channelData, error) {
	key := "channel:" + identifier

	var cached channelData
	if cache.GetJSON(d.cache, key, &cached) && cached.Channel != nil {
		return &cached, nil
	}

	channel, err := d.data.GetChannel(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", identifier, err)
	}
	if channel == nil {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, identifier)
	}

	videos := []*models.Video{}
	if channel.UploadsPlaylistID != "" {
		videos, err = d.data.GetRecentVideos(ctx, channel.UploadsPlaylistID, d.recentVideos)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent videos for %s: %w", channel.ID, err)
		}
	}

	result := &channelData{Channel: channel, Videos: videos}
	cache.SetJSON(d.cache, key, result)
	return result, nil
}

// Analyze scores the channel and derives its insights.
func (d *Dashboard) Analyze(ctx context.Context, identifier string) (*models.ChannelReport, error) {
	data, err := d.load(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return &models.ChannelReport{
		Channel:  data.Channel,
		Analysis: analysis.AnalyzeChannel(data.Channel, data.Videos),
		Insights: analysis.GenerateAdvancedInsights(data.Videos),
		Videos:   data.Videos,
	}, nil
}

// ChannelAnalytics loads the trailing 30 day private report for the channel.
func (d *Dashboard) ChannelAnalytics(ctx context.Context, accessToken, identifier string) (*models.PrivateChannelData, error) {
	data, err := d.load(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return d.analytics.GetChannelAnalytics(ctx, accessToken, data.Channel.ID)
}

// Matrix is the per-video decoding matrix.
type Matrix struct {
	Rows        []models.VideoMetricsRow `json:"rows"`
	AuthExpired bool                     `json:"authExpired"`
}

// Matrix computes algorithmic metrics for the most recent videos. After an
// expired token the remaining videos are listed without metrics.
func (d *Dashboard) Matrix(ctx context.Context, accessToken, identifier string) (*Matrix, error) {
	data, err := d.load(ctx, identifier)
	if err != nil {
		return nil, err
	}

	videos := data.Videos
	if len(videos) > matrixSize {
		videos = videos[:matrixSize]
	}

	tasks := make([]youtube.Task[*models.VideoAnalytics], len(videos))
	for i, v := range videos {
		id := v.ID
		tasks[i] = func(ctx context.Context) (*models.VideoAnalytics, error) {
			return d.analytics.GetVideoAnalytics(ctx, accessToken, id)
		}
	}

	outcomes, err := youtube.RunBatch(ctx, d.limiter, tasks)
	if err != nil {
		return nil, err
	}

	m := &Matrix{Rows: make([]models.VideoMetricsRow, len(videos)), AuthExpired: youtube.AuthExpired(outcomes)}
	for i, v := range videos {
		m.Rows[i].Video = v
		if i >= len(outcomes) {
			continue
		}

		o := outcomes[i]
		switch {
		case o.Kind == youtube.OutcomeOK && o.Value != nil:
			metrics := analysis.CalculateAlgorithmicMetrics(v, o.Value)
			m.Rows[i].Metrics = &metrics
		case o.Kind == youtube.OutcomeOK:
			m.Rows[i].Error = "sin datos de analytics"
		default:
			log.Warn().Err(o.Err).Str("video", v.ID).Msgf("Matrix row %s", o.Kind)
			m.Rows[i].Error = o.Err.Error()
		}
	}

	return m, nil
}

// Comparison is an expert report with the two records it compared.
type Comparison struct {
	VideoA *models.Video       `json:"video_a"`
	VideoB *models.Video       `json:"video_b"`
	Report models.ExpertReport `json:"report"`
}

// Compare builds an expert report for videos a and b of the channel. b may
// name a segment average (AVG_VIDEO, AVG_SHORT). Without an access token the
// comparison uses public counts only.
func (d *Dashboard) Compare(ctx context.Context, accessToken, identifier, idA, idB string) (*Comparison, error) {
	data, err := d.load(ctx, identifier)
	if err != nil {
		return nil, err
	}

	averages := analysis.BuildAverages(data.Videos)
	videoA, err := d.resolveVideo(ctx, data, averages, idA)
	if err != nil {
		return nil, err
	}
	videoB, err := d.resolveVideo(ctx, data, averages, idB)
	if err != nil {
		return nil, err
	}

	var statsA, statsB *models.VideoAnalytics
	if accessToken != "" {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			statsA, err = d.videoAnalytics(gctx, accessToken, data.Channel.ID, videoA)
			return err
		})
		g.Go(func() error {
			var err error
			statsB, err = d.videoAnalytics(gctx, accessToken, data.Channel.ID, videoB)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &Comparison{
		VideoA: videoA,
		VideoB: videoB,
		Report: analysis.GenerateExpertReport(videoA, videoB, statsA, statsB),
	}, nil
}

// Channel returns the (possibly cached) channel record.
func (d *Dashboard) Channel(ctx context.Context, identifier string) (*models.Channel, error) {
	data, err := d.load(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return data.Channel, nil
}

// VideoDetail returns a single record, preferring the cached recent uploads.
// Metrics are only computed when an access token is given.
func (d *Dashboard) VideoDetail(ctx context.Context, accessToken, identifier, videoID string) (*models.Channel, *models.Video, *models.AlgorithmicMetrics, error) {
	data, err := d.load(ctx, identifier)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := d.resolveVideo(ctx, data, analysis.Averages{}, videoID)
	if err != nil {
		return nil, nil, nil, err
	}
	if accessToken == "" {
		return data.Channel, v, nil, nil
	}

	stats, err := d.videoAnalytics(ctx, accessToken, data.Channel.ID, v)
	if err != nil {
		return nil, nil, nil, err
	}
	if stats == nil {
		return data.Channel, v, nil, nil
	}
	metrics := analysis.CalculateAlgorithmicMetrics(v, stats)
	return data.Channel, v, &metrics, nil
}

// LookupVideo fetches the current record of a video, bypassing the cache.
func (d *Dashboard) LookupVideo(ctx context.Context, videoID string) (*models.Video, error) {
	return d.data.GetVideo(ctx, videoID)
}

func (d *Dashboard) resolveVideo(ctx context.Context, data *channelData, averages analysis.Averages, id string) (*models.Video, error) {
	if avg := averages.Lookup(id); avg != nil {
		return avg, nil
	}
	for _, v := range data.Videos {
		if v.ID == id {
			return v, nil
		}
	}

	v, err := d.data.GetVideo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get video %s: %w", id, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	return v, nil
}

// videoAnalytics fetches the private report for v. Upstream failures other
// than an expired token degrade to a public-only comparison.
func (d *Dashboard) videoAnalytics(ctx context.Context, accessToken, channelID string, v *models.Video) (*models.VideoAnalytics, error) {
	if analysis.IsSyntheticAverage(v) {
		channelData, err := d.analytics.GetChannelAnalytics(ctx, accessToken, channelID)
		if err != nil {
			return nil, d.degrade(err, v.ID)
		}
		return analysis.SyntheticAnalytics(v, channelData), nil
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	stats, err := d.analytics.GetVideoAnalytics(ctx, accessToken, v.ID)
	if err != nil {
		return nil, d.degrade(err, v.ID)
	}
	return stats, nil
}

func (d *Dashboard) degrade(err error, videoID string) error {
	if errors.Is(err, youtube.ErrUnauthenticated) {
		return err
	}
	log.Warn().Err(err).Str("video", videoID).Msg("Analytics unavailable, comparing public counts only")
	return nil
}
