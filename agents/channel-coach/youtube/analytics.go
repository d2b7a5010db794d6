package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"channel-coach/internal/models"
	"channel-coach/shared/monitoring"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/youtubeanalytics/v2"
)

const (
	channelWindow = 30 * 24 * time.Hour
	lifetimeStart = "2000-01-01"
	dateLayout    = "2006-01-02"
)

var trafficSourceLabels = map[string]string{
	"NO_LINK_OTHER": "Directo / Desconocido",
	"yt_search":     "Búsqueda de YouTube",
	"related_video": "Videos sugeridos",
	"yt_channel":    "Página del canal",
	"ext_URL":       "Externo",
	"playlist":      "Listas de reproducción",
	"notification":  "Notificaciones",
}

// AnalyticsClient queries the Analytics API on behalf of whoever owns the
// bearer token passed with each call.
type AnalyticsClient struct {
	httpClient *http.Client
	endpoint   string
	metrics    monitoring.Metrics
	now        func() time.Time
}

func NewAnalyticsClient(metrics monitoring.Metrics) *AnalyticsClient {
	if metrics == nil {
		metrics = monitoring.NoopMetrics{}
	}
	return &AnalyticsClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		metrics:    metrics,
		now:        time.Now,
	}
}

func (a *AnalyticsClient) service(ctx context.Context, accessToken string) (*youtubeanalytics.Service, error) {
	base := context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	httpClient := oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if a.endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.endpoint))
	}
	return youtubeanalytics.NewService(ctx, opts...)
}

func channelIDs(channelID string) string {
	if channelID == "" {
		return "channel==MINE"
	}
	return "channel==" + channelID
}

// GetChannelAnalytics loads the trailing 30 day report: daily metrics,
// audience demographics and the top five traffic sources.
func (a *AnalyticsClient) GetChannelAnalytics(ctx context.Context, accessToken, channelID string) (*models.PrivateChannelData, error) {
	svc, err := a.service(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %w", err)
	}

	end := a.now()
	endDate := end.Format(dateLayout)
	startDate := end.Add(-channelWindow).Format(dateLayout)
	ids := channelIDs(channelID)

	var daily, demo, traffic *youtubeanalytics.QueryResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := svc.Reports.Query().
			Ids(ids).StartDate(startDate).EndDate(endDate).
			Metrics("views,estimatedMinutesWatched,averageViewDuration,subscribersGained,annotationClickThroughRate").
			Dimensions("day").
			Sort("day").
			Context(gctx).Do()
		err = wrapAPIError("failed to query daily metrics", err, true)
		a.metrics.IncAPICalls("reports.daily", outcomeOf(err))
		if err != nil {
			return err
		}
		daily = resp
		return nil
	})

	g.Go(func() error {
		resp, err := svc.Reports.Query().
			Ids(ids).StartDate(startDate).EndDate(endDate).
			Metrics("viewerPercentage").
			Dimensions("ageGroup,gender").
			Sort("-viewerPercentage").
			Context(gctx).Do()
		err = wrapAPIError("failed to query demographics", err, true)
		a.metrics.IncAPICalls("reports.demographics", outcomeOf(err))
		if err != nil {
			return err
		}
		demo = resp
		return nil
	})

	g.Go(func() error {
		resp, err := svc.Reports.Query().
			Ids(ids).StartDate(startDate).EndDate(endDate).
			Metrics("views").
			Dimensions("insightTrafficSourceType").
			Sort("-views").
			MaxResults(5).
			Context(gctx).Do()
		err = wrapAPIError("failed to query traffic sources", err, true)
		a.metrics.IncAPICalls("reports.traffic", outcomeOf(err))
		if err != nil {
			return err
		}
		traffic = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PrivateChannelData{
		DailyMetrics:      mapDailyMetrics(daily.Rows),
		Demographics:      mapDemographics(demo.Rows),
		TopTrafficSources: mapTrafficSources(traffic.Rows),
	}, nil
}

// GetVideoAnalytics loads the lifetime report of one video. It returns nil
// when the API has no rows for it.
func (a *AnalyticsClient) GetVideoAnalytics(ctx context.Context, accessToken, videoID string) (*models.VideoAnalytics, error) {
	svc, err := a.service(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %w", err)
	}

	resp, err := svc.Reports.Query().
		Ids("channel==MINE").
		Filters("video==" + videoID).
		StartDate(lifetimeStart).
		EndDate(a.now().Format(dateLayout)).
		Metrics("views,estimatedMinutesWatched,averageViewDuration,annotationClickThroughRate,likes,comments").
		Context(ctx).Do()
	err = wrapAPIError("failed to query video analytics", err, true)
	a.metrics.IncAPICalls("reports.video", outcomeOf(err))
	if err != nil {
		return nil, err
	}

	if len(resp.Rows) == 0 {
		return nil, nil
	}

	row := resp.Rows[0]
	return &models.VideoAnalytics{
		VideoID:                 videoID,
		Views:                   cellFloat(row, 0),
		EstimatedMinutesWatched: cellFloat(row, 1),
		AverageViewDuration:     cellFloat(row, 2),
		ClickThroughRate:        cellFloat(row, 3),
		Likes:                   cellFloat(row, 4),
		Comments:                cellFloat(row, 5),
	}, nil
}

func mapDailyMetrics(rows [][]interface{}) []models.DailyMetric {
	out := make([]models.DailyMetric, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DailyMetric{
			Date:                    cellString(row, 0),
			Views:                   cellFloat(row, 1),
			EstimatedMinutesWatched: cellFloat(row, 2),
			AverageViewDuration:     cellFloat(row, 3),
			SubscribersGained:       cellFloat(row, 4),
			ClickThroughRate:        cellFloat(row, 5),
		})
	}
	return out
}

func mapDemographics(rows [][]interface{}) []models.Demographic {
	out := make([]models.Demographic, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Demographic{
			AgeGroup:         cellString(row, 0),
			Gender:           cellString(row, 1),
			ViewerPercentage: cellFloat(row, 2),
		})
	}
	return out
}

func mapTrafficSources(rows [][]interface{}) []models.TrafficSource {
	out := make([]models.TrafficSource, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.TrafficSource{
			Source: formatTrafficSource(cellString(row, 0)),
			Views:  cellFloat(row, 1),
		})
	}
	return out
}

func formatTrafficSource(source string) string {
	if label, ok := trafficSourceLabels[source]; ok {
		return label
	}
	return source
}

// cellFloat reads a numeric report cell; missing or non-numeric cells are 0.
func cellFloat(row []interface{}, i int) float64 {
	if i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}
