package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"channel-coach/internal/models"
	"channel-coach/shared/monitoring"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrUnauthenticated means the viewer's access token was rejected and a new
// sign-in is required.
var ErrUnauthenticated = errors.New("youtube: unauthenticated")

// APIError is a non-2xx answer from a YouTube API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube api error %d: %s", e.StatusCode, e.Message)
}

// wrapAPIError converts googleapi errors into *APIError. With authSensitive a
// 401 becomes ErrUnauthenticated instead.
func wrapAPIError(op string, err error, authSensitive bool) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if authSensitive && gerr.Code == 401 {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	msg := gerr.Message
	if msg == "" {
		msg = strings.TrimSpace(gerr.Body)
	}
	return fmt.Errorf("%s: %w", op, &APIError{StatusCode: gerr.Code, Message: msg})
}

func outcomeOf(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.As(err, &apiErr):
		return "api_error"
	default:
		return "error"
	}
}

// Client reads public channel and video records from the Data API.
type Client struct {
	service *youtube.Service
	metrics monitoring.Metrics
}

// NewClient builds a Data API client. Pass option.WithAPIKey for public reads
// or option.WithTokenSource for the channel owner.
func NewClient(ctx context.Context, metrics monitoring.Metrics, opts ...option.ClientOption) (*Client, error) {
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	if metrics == nil {
		metrics = monitoring.NoopMetrics{}
	}
	return &Client{service: service, metrics: metrics}, nil
}

// GetChannel resolves "@handle" identifiers by handle and anything else by
// channel id. It returns nil when no channel matches.
func (c *Client) GetChannel(ctx context.Context, identifier string) (*models.Channel, error) {
	if decoded, err := url.PathUnescape(identifier); err == nil {
		identifier = decoded
	}
	identifier = strings.TrimSpace(identifier)

	call := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).Context(ctx)
	if strings.HasPrefix(identifier, "@") {
		call = call.ForHandle(identifier)
	} else {
		call = call.Id(identifier)
	}

	resp, err := call.Do()
	err = wrapAPIError("failed to get channel", err, false)
	c.metrics.IncAPICalls("channels.list", outcomeOf(err))
	if err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		log.Warn().Str("identifier", identifier).Msg("No channel found")
		return nil, nil
	}

	return channelFromAPI(resp.Items[0]), nil
}

// GetRecentVideos returns up to limit uploads of a playlist, most recent first.
func (c *Client) GetRecentVideos(ctx context.Context, playlistID string, limit int64) ([]*models.Video, error) {
	resp, err := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(limit).
		Context(ctx).
		Do()
	err = wrapAPIError("failed to get playlist items", err, false)
	c.metrics.IncAPICalls("playlistItems.list", outcomeOf(err))
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range resp.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	if len(ids) == 0 {
		return []*models.Video{}, nil
	}

	return c.getVideos(ctx, ids)
}

// GetVideo fetches the current record of one video, nil when it is gone.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	videos, err := c.getVideos(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, nil
	}
	return videos[0], nil
}

// getVideos loads full records, keeping the order of ids.
func (c *Client) getVideos(ctx context.Context, ids []string) ([]*models.Video, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails", "liveStreamingDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	err = wrapAPIError("failed to get videos", err, false)
	c.metrics.IncAPICalls("videos.list", outcomeOf(err))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Video, len(resp.Items))
	for _, item := range resp.Items {
		byID[item.Id] = videoFromAPI(item)
	}

	videos := make([]*models.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func channelFromAPI(item *youtube.Channel) *models.Channel {
	ch := &models.Channel{ID: item.Id}

	if s := item.Snippet; s != nil {
		ch.Title = s.Title
		ch.Description = s.Description
		ch.CustomURL = s.CustomUrl
		ch.Country = s.Country
		ch.PublishedAt = parseTime(s.PublishedAt)
		ch.ThumbnailURL = bestThumbnail(s.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		ch.Statistics = models.ChannelStatistics{
			ViewCount:             int64(st.ViewCount),
			SubscriberCount:       int64(st.SubscriberCount),
			HiddenSubscriberCount: st.HiddenSubscriberCount,
			VideoCount:            int64(st.VideoCount),
		}
	}
	if cd := item.ContentDetails; cd != nil && cd.RelatedPlaylists != nil {
		ch.UploadsPlaylistID = cd.RelatedPlaylists.Uploads
	}
	return ch
}

func videoFromAPI(item *youtube.Video) *models.Video {
	v := &models.Video{
		ID:           item.Id,
		URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id),
		LiveStreamed: item.LiveStreamingDetails != nil,
	}

	if s := item.Snippet; s != nil {
		v.ChannelID = s.ChannelId
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelTitle = s.ChannelTitle
		v.PublishedAt = parseTime(s.PublishedAt)
		v.Tags = s.Tags
		v.ThumbnailURL = bestThumbnail(s.Thumbnails)
		v.LiveBroadcastContent = s.LiveBroadcastContent
	}
	if cd := item.ContentDetails; cd != nil {
		v.Duration = cd.Duration
	}
	if st := item.Statistics; st != nil {
		v.ViewCount = int64(st.ViewCount)
		v.LikeCount = int64(st.LikeCount)
		v.CommentCount = int64(st.CommentCount)
	}
	return v
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
