package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"routesafe-service/internal/domain"
)

// Redis-backed cache for routed leg results, for deployments where a
// shared in-memory cache is preferred over per-instance SQLite files.
// Entries expire so stale bridge data eventually ages out.
type RedisLegCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisLegCache(client *redis.Client, ttl time.Duration) *RedisLegCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLegCache{Client: client, TTL: ttl}
}

type redisLegEntry struct {
	DistanceMeters       float64  `json:"distance_meters"`
	DurationSeconds      float64  `json:"duration_seconds"`
	HasConflict          bool     `json:"has_conflict"`
	NearHeightLimit      bool     `json:"near_height_limit"`
	NearestBridgeHeightM *float64 `json:"nearest_bridge_height_m,omitempty"`
	Note                 string   `json:"note,omitempty"`
	MapURL               string   `json:"map_url,omitempty"`
	AltDistanceMeters    *float64 `json:"alt_distance_meters,omitempty"`
	AltDurationSeconds   *float64 `json:"alt_duration_seconds,omitempty"`
	AltMapURL            *string  `json:"alt_map_url,omitempty"`
}

func legKey(start, end string, vehicleHeightMeters float64) string {
	return fmt.Sprintf("leg:%s|%s|%d", start, end, heightKey(vehicleHeightMeters))
}

// Fetch a cached leg for one origin/destination pair at a vehicle height.
func (r *RedisLegCache) Get(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
) (domain.Leg, bool, error) {
	if r.Client == nil {
		return domain.Leg{}, false, errors.New("leg cache: redis client is nil")
	}

	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return domain.Leg{}, false, errors.New("get leg cache: origin and destination must not be empty")
	}

	raw, err := r.Client.Get(ctx, legKey(start, end, vehicleHeightMeters)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Leg{}, false, nil
	}
	if err != nil {
		return domain.Leg{}, false, fmt.Errorf("get leg cache: %w", err)
	}

	var entry redisLegEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.Leg{}, false, fmt.Errorf("get leg cache: decode entry: %w", err)
	}

	leg := domain.Leg{
		Start:           start,
		End:             end,
		DistanceMeters:  entry.DistanceMeters,
		DurationSeconds: entry.DurationSeconds,
		Risk: domain.BridgeRisk{
			HasConflict:          entry.HasConflict,
			NearHeightLimit:      entry.NearHeightLimit,
			NearestBridgeHeightM: entry.NearestBridgeHeightM,
			Note:                 entry.Note,
		},
		MapURL: entry.MapURL,
	}
	if entry.AltMapURL != nil {
		alt := &domain.AlternativeRoute{MapURL: *entry.AltMapURL}
		if entry.AltDistanceMeters != nil {
			alt.DistanceMeters = *entry.AltDistanceMeters
		}
		if entry.AltDurationSeconds != nil {
			alt.DurationSeconds = *entry.AltDurationSeconds
		}
		leg.Alternative = alt
	}

	return leg, true, nil
}

// Store a routed leg result.
func (r *RedisLegCache) Put(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
	leg domain.Leg,
) error {
	if r.Client == nil {
		return errors.New("leg cache: redis client is nil")
	}

	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return errors.New("insert leg cache: origin and destination must not be empty")
	}

	entry := redisLegEntry{
		DistanceMeters:       leg.DistanceMeters,
		DurationSeconds:      leg.DurationSeconds,
		HasConflict:          leg.Risk.HasConflict,
		NearHeightLimit:      leg.Risk.NearHeightLimit,
		NearestBridgeHeightM: leg.Risk.NearestBridgeHeightM,
		Note:                 leg.Risk.Note,
		MapURL:               leg.MapURL,
	}
	if leg.Alternative != nil {
		entry.AltDistanceMeters = &leg.Alternative.DistanceMeters
		entry.AltDurationSeconds = &leg.Alternative.DurationSeconds
		entry.AltMapURL = &leg.Alternative.MapURL
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("insert leg cache: encode entry: %w", err)
	}

	if err := r.Client.Set(ctx, legKey(start, end, vehicleHeightMeters), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert leg cache %q -> %q: %w", start, end, err)
	}

	return nil
}
