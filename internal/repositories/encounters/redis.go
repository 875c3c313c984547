package encounters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

const (
	encounterKeyPrefix = "encounter:"
	regionKeyPrefix    = "region:"
	regionKeySuffix    = ":encounters"

	defaultTTL = 7 * 24 * time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	// KeyPrefix namespaces every key, e.g. "skirmish" -> "skirmish:encounter:<id>"
	KeyPrefix string
	TTL       time.Duration
}

type redisRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed encounter repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix != "" {
		prefix += ":"
	}

	return &redisRepository{
		client: cfg.Client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *redisRepository) encounterKey(id string) string {
	return r.prefix + encounterKeyPrefix + id
}

func (r *redisRepository) regionKey(regionID string) string {
	return r.prefix + regionKeyPrefix + regionID + regionKeySuffix
}

// Create stores a new encounter, failing if the id is taken
func (r *redisRepository) Create(ctx context.Context, enc *encounter.Encounter) error {
	if enc == nil || enc.ID == "" {
		return apperrors.InvalidArgument("encounter with an id is required")
	}

	data, err := json.Marshal(enc)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize encounter")
	}

	created, err := r.client.SetNX(ctx, r.encounterKey(enc.ID), data, r.ttl).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to create encounter")
	}
	if !created {
		return apperrors.AlreadyExistsf("encounter with ID %s already exists", enc.ID)
	}

	if enc.RegionID != "" {
		if err := r.client.RPush(ctx, r.regionKey(enc.RegionID), enc.ID).Err(); err != nil {
			return apperrors.Wrap(err, "failed to index encounter")
		}
	}

	return nil
}

// Get retrieves an encounter by ID and rebuilds its runtime state
func (r *redisRepository) Get(ctx context.Context, id string) (*encounter.Encounter, error) {
	data, err := r.client.Get(ctx, r.encounterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFoundf("encounter not found: %s", id)
		}
		return nil, apperrors.Wrap(err, "failed to get encounter")
	}

	var enc encounter.Encounter
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, apperrors.Wrap(err, "failed to deserialize encounter")
	}
	enc.Restore()

	return &enc, nil
}

// Update replaces an existing encounter
func (r *redisRepository) Update(ctx context.Context, enc *encounter.Encounter) error {
	if enc == nil || enc.ID == "" {
		return apperrors.InvalidArgument("encounter with an id is required")
	}

	data, err := json.Marshal(enc)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize encounter")
	}

	updated, err := r.client.SetXX(ctx, r.encounterKey(enc.ID), data, r.ttl).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to update encounter")
	}
	if !updated {
		return apperrors.NotFoundf("encounter not found: %s", enc.ID)
	}

	return nil
}

// Delete removes an encounter and its region index entry
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	enc, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.encounterKey(id))
	if enc.RegionID != "" {
		pipe.LRem(ctx, r.regionKey(enc.RegionID), 0, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to delete encounter")
	}

	return nil
}

// ListByRegion retrieves all encounters for a region in creation order.
// Index entries whose encounter has expired are skipped.
func (r *redisRepository) ListByRegion(ctx context.Context, regionID string) ([]*encounter.Encounter, error) {
	ids, err := r.client.LRange(ctx, r.regionKey(regionID), 0, -1).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list region encounters")
	}

	out := make([]*encounter.Encounter, 0, len(ids))
	for _, id := range ids {
		enc, err := r.Get(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, enc)
	}

	return out, nil
}

// GetActiveByRegion retrieves the active encounter for a region, or nil
func (r *redisRepository) GetActiveByRegion(ctx context.Context, regionID string) (*encounter.Encounter, error) {
	list, err := r.ListByRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	return firstActive(list), nil
}
