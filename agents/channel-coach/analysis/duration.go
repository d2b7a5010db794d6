package analysis

import (
	"regexp"
	"strconv"
	"time"

	"channel-coach/internal/models"
)

// now is swapped in tests to pin "hours since publish" style metrics.
var now = time.Now

// ISO 8601 duration as emitted by the Data API ("PT1M30S", "PT45S", "P1DT2H").
var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDurationSeconds converts an encoded duration into seconds.
// Anything it cannot parse is worth 0.
func ParseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := durationPattern.FindStringSubmatch(duration)
	if matches == nil {
		return 0
	}

	var totalSeconds int
	for i, unit := range []int{86400, 3600, 60, 1} {
		part := matches[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		totalSeconds += n * unit
	}

	return totalSeconds
}

// ClassifyContent decides whether a video is a short, a live broadcast or a
// regular upload. Shorts win over live evidence since a sub-minute stream
// replay is indistinguishable from a short for ranking purposes.
func ClassifyContent(video *models.Video) models.ContentType {
	seconds := ParseDurationSeconds(video.Duration)
	if seconds > 0 && seconds <= 60 {
		return models.ContentShort
	}

	switch video.LiveBroadcastContent {
	case "live", "upcoming":
		return models.ContentLive
	}
	if video.LiveStreamed {
		return models.ContentLive
	}

	return models.ContentVideo
}

// Segments groups videos by content type, keeping the input order.
type Segments struct {
	Short []*models.Video
	Video []*models.Video
	Live  []*models.Video
}

func Segment(videos []*models.Video) Segments {
	var s Segments
	for _, v := range videos {
		switch ClassifyContent(v) {
		case models.ContentShort:
			s.Short = append(s.Short, v)
		case models.ContentLive:
			s.Live = append(s.Live, v)
		default:
			s.Video = append(s.Video, v)
		}
	}
	return s
}
