package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"social-calendar-api/core/cache"
	"social-calendar-api/core/constants"
	"social-calendar-api/modules/availability/entity"

	"github.com/google/uuid"
)

// PreferenceRepository stores each user's suggested-hours preset as a plain string key.
type PreferenceRepository interface {
	// GetPreset returns "" when nothing is stored.
	GetPreset(ctx context.Context, userID uuid.UUID) (string, error)
	SavePreset(ctx context.Context, userID uuid.UUID, preset entity.SuggestedHoursPreset) error
}

type preferenceRepository struct {
	cache cache.Cache
}

func NewPreferenceRepository(c cache.Cache) PreferenceRepository {
	return &preferenceRepository{cache: c}
}

func (r *preferenceRepository) GetPreset(ctx context.Context, userID uuid.UUID) (string, error) {
	val, err := r.cache.Get(ctx, fmt.Sprintf(constants.RedisKeySuggestedHoursPreset, userID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", nil
	}
	return val, err
}

// SavePreset stores without expiry; the preset is a durable preference.
func (r *preferenceRepository) SavePreset(ctx context.Context, userID uuid.UUID, preset entity.SuggestedHoursPreset) error {
	return r.cache.Set(ctx, fmt.Sprintf(constants.RedisKeySuggestedHoursPreset, userID), string(preset), 0)
}

// SnapshotRepository holds the latest published schedule per requester.
type SnapshotRepository interface {
	// SaveLatest stores snapshot unless one with an equal or higher version is
	// already stored, and reports whether it was written.
	SaveLatest(ctx context.Context, userID uuid.UUID, version uint64, snapshot any) (bool, error)
	// GetLatest decodes the stored snapshot into dest and reports whether one existed.
	GetLatest(ctx context.Context, userID uuid.UUID, dest any) (bool, error)
}

type snapshotRepository struct {
	cache cache.Cache
}

func NewSnapshotRepository(c cache.Cache) SnapshotRepository {
	return &snapshotRepository{cache: c}
}

func (r *snapshotRepository) SaveLatest(ctx context.Context, userID uuid.UUID, version uint64, snapshot any) (bool, error) {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("marshal snapshot: %w", err)
	}
	return r.cache.SetIfNewer(ctx, fmt.Sprintf(constants.RedisKeyLatestSchedule, userID), version, string(b), constants.LatestScheduleTTL)
}

func (r *snapshotRepository) GetLatest(ctx context.Context, userID uuid.UUID, dest any) (bool, error) {
	val, err := r.cache.GetVersioned(ctx, fmt.Sprintf(constants.RedisKeyLatestSchedule, userID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return true, nil
}
