package tracker

import (
	"errors"
	"fmt"

	"channel-coach/internal/models"
	"channel-coach/shared/storage"

	json "github.com/goccy/go-json"
)

// StorageKey is the single key the whole tracked-action list lives under.
const StorageKey = "yt_coach_tracker"

// ErrCorrupt is returned by Load when the stored document cannot be decoded.
var ErrCorrupt = errors.New("corrupt tracker data")

// Repository loads and saves the full list of tracked actions.
type Repository interface {
	Load() ([]models.TrackedAction, error)
	Save(actions []models.TrackedAction) error
}

type storeRepository struct {
	kv storage.KV
}

// NewStoreRepository serializes tracked actions as one JSON array in kv.
func NewStoreRepository(kv storage.KV) Repository {
	return &storeRepository{kv: kv}
}

func (r *storeRepository) Load() ([]models.TrackedAction, error) {
	raw, ok, err := r.kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked actions: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var actions []models.TrackedAction
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return actions, nil
}

func (r *storeRepository) Save(actions []models.TrackedAction) error {
	if actions == nil {
		actions = []models.TrackedAction{}
	}
	raw, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("failed to encode tracked actions: %w", err)
	}
	if err := r.kv.Set(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write tracked actions: %w", err)
	}
	return nil
}
