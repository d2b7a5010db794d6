package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"channel-coach/internal/models"

	"github.com/rs/zerolog/log"
)

// Tracker records which recommendations the user implemented and measures
// the channel's growth since. State is read once from the repository and
// written back on every mutation.
type Tracker struct {
	repo    Repository
	actions []models.TrackedAction
	mu      sync.Mutex
	now     func() time.Time
}

// TrackRequest describes an "implement" click. VideoID and Snapshot are
// optional; without a snapshot the action can never be verified automatically.
type TrackRequest struct {
	ActionID     string
	ChannelID    string
	Title        string
	CurrentStats models.ChannelStatistics
	VideoID      string
	Snapshot     *models.VideoSnapshot
}

// New creates a tracker backed by repo, loading the persisted list.
func New(repo Repository) (*Tracker, error) {
	actions, err := repo.Load()
	if errors.Is(err, ErrCorrupt) {
		// A corrupt store must not lock the user out; start over.
		log.Warn().Err(err).Msg("Failed to parse tracker data, starting empty")
		actions = nil
	} else if err != nil {
		return nil, err
	}

	return &Tracker{
		repo:    repo,
		actions: actions,
		now:     time.Now,
	}, nil
}

// Track records an implemented action. It reports false when the
// (action, video) pair is already tracked.
func (t *Tracker) Track(req TrackRequest) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(req.ActionID, req.VideoID) >= 0 {
		return false, nil
	}

	action := models.TrackedAction{
		ID:                 req.ActionID,
		ChannelID:          req.ChannelID,
		VideoID:            req.VideoID,
		VerificationStatus: models.VerificationPending,
		Title:              req.Title,
		ImplementedAt:      t.now(),
		InitialStats:       req.CurrentStats,
	}
	if req.Snapshot != nil {
		snap := *req.Snapshot
		action.VideoSnapshot = &snap
	}

	next := append(t.copyActions(), action)
	if err := t.save(next); err != nil {
		return false, err
	}
	return true, nil
}

// Untrack removes the entry for the (action, video) pair.
func (t *Tracker) Untrack(actionID, videoID string) error {
	return t.removeWhere(func(a models.TrackedAction) bool {
		return a.ID == actionID && a.VideoID == videoID
	})
}

// UntrackAll removes every entry with the action id, whatever video it targets.
func (t *Tracker) UntrackAll(actionID string) error {
	return t.removeWhere(func(a models.TrackedAction) bool {
		return a.ID == actionID
	})
}

// Impact compares current channel statistics with the baseline captured
// when the action was first tracked. It returns nil for unknown actions.
func (t *Tracker) Impact(actionID string, current models.ChannelStatistics) *models.Impact {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, a := range t.actions {
		if a.ID != actionID {
			continue
		}
		return &models.Impact{
			ViewGrowth: current.ViewCount - a.InitialStats.ViewCount,
			SubGrowth:  current.SubscriberCount - a.InitialStats.SubscriberCount,
			DaysSince:  int(t.now().Sub(a.ImplementedAt) / (24 * time.Hour)),
		}
	}
	return nil
}

// UpdateVerification stores the outcome of a verification check.
func (t *Tracker) UpdateVerification(actionID, videoID string, status models.VerificationStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(actionID, videoID)
	if i < 0 {
		return fmt.Errorf("action %s is not tracked", actionID)
	}

	next := t.copyActions()
	stamp := t.now()
	next[i].VerificationStatus = status
	next[i].LastVerifiedAt = &stamp
	return t.save(next)
}

// Actions returns a copy of the entries tracked for channelID, or all of
// them when channelID is empty.
func (t *Tracker) Actions(channelID string) []models.TrackedAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := []models.TrackedAction{}
	for _, a := range t.actions {
		if channelID == "" || a.ChannelID == channelID {
			out = append(out, a)
		}
	}
	return out
}

// VideoLookup fetches the current record of a video, nil when it no longer exists.
type VideoLookup func(ctx context.Context, videoID string) (*models.Video, error)

// VerificationSummary counts the outcomes of a verification run.
type VerificationSummary struct {
	Checked  int
	Verified int
	Failed   int
	Errors   int
}

// Verify inspects every pending action that targets a video and persists
// definitive outcomes. Lookup failures are counted and skipped.
func (t *Tracker) Verify(ctx context.Context, lookup VideoLookup) (VerificationSummary, error) {
	var summary VerificationSummary

	for _, action := range t.Actions("") {
		if action.VerificationStatus != models.VerificationPending || action.VideoID == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		video, err := lookup(ctx, action.VideoID)
		if err != nil {
			log.Warn().Err(err).Str("action", action.ID).Str("video", action.VideoID).Msg("Failed to fetch video for verification")
			summary.Errors++
			continue
		}
		if video == nil {
			continue
		}

		summary.Checked++
		result := InspectAction(action, video)
		switch result.Status {
		case models.VerificationVerified:
			summary.Verified++
		case models.VerificationFailed:
			summary.Failed++
		default:
			continue
		}

		if err := t.UpdateVerification(action.ID, action.VideoID, result.Status); err != nil {
			return summary, fmt.Errorf("failed to store verification for %s: %w", action.ID, err)
		}
		log.Info().Str("action", action.ID).Str("video", action.VideoID).Msgf("Verification %s: %s", result.Status, result.Message)
	}

	return summary, nil
}

func (t *Tracker) removeWhere(match func(models.TrackedAction) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]models.TrackedAction, 0, len(t.actions))
	for _, a := range t.actions {
		if !match(a) {
			next = append(next, a)
		}
	}
	if len(next) == len(t.actions) {
		return nil
	}
	return t.save(next)
}

func (t *Tracker) indexOf(actionID, videoID string) int {
	for i, a := range t.actions {
		if a.ID == actionID && a.VideoID == videoID {
			return i
		}
	}
	return -1
}

func (t *Tracker) copyActions() []models.TrackedAction {
	out := make([]models.TrackedAction, len(t.actions), len(t.actions)+1)
	copy(out, t.actions)
	return out
}

// save persists next and only then makes it the in-memory state.
func (t *Tracker) save(next []models.TrackedAction) error {
	if err := t.repo.Save(next); err != nil {
		return err
	}
	t.actions = next
	return nil
}
