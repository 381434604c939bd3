package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"routesafe-service/internal/domain"
	"routesafe-service/internal/platform/obs"
)

// SQLLegCache is a Postgres-backed cache for routed leg results,
// for deployments that share one cache across service instances.
type SQLLegCache struct {
	DB *sql.DB
}

func NewSQLLegCache(db *sql.DB) *SQLLegCache {
	return &SQLLegCache{DB: db}
}

// Fetch a cached leg for one origin/destination pair at a vehicle height.
func (s *SQLLegCache) Get(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
) (_ domain.Leg, _ bool, err error) {
	defer obs.Time(ctx, "leg.cache.Get")(&err)

	if s.DB == nil {
		return domain.Leg{}, false, errors.New("leg cache: db is nil")
	}

	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return domain.Leg{}, false, errors.New("get leg cache: origin and destination must not be empty")
	}

	q := `
	SELECT
        distance_meters,
        duration_seconds,
        has_conflict,
        near_height_limit,
        nearest_bridge_height_m,
        note,
        map_url,
        alt_distance_meters,
        alt_duration_seconds,
        alt_map_url
    FROM leg_cache
    WHERE origin = $1
        AND destination = $2
        AND height_mm = $3;
	`

	row := s.DB.QueryRowContext(ctx, q, start, end, heightKey(vehicleHeightMeters))

	var (
		leg           domain.Leg
		conflict      int
		nearLimit     int
		nearestHeight sql.NullFloat64
		altDistance   sql.NullFloat64
		altDuration   sql.NullFloat64
		altMapURL     sql.NullString
	)

	scanErr := row.Scan(
		&leg.DistanceMeters,
		&leg.DurationSeconds,
		&conflict,
		&nearLimit,
		&nearestHeight,
		&leg.Risk.Note,
		&leg.MapURL,
		&altDistance,
		&altDuration,
		&altMapURL,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return domain.Leg{}, false, nil
	}
	if scanErr != nil {
		return domain.Leg{}, false, fmt.Errorf("get leg cache: scan row: %w", scanErr)
	}

	leg.Start = start
	leg.End = end
	leg.Risk.HasConflict = conflict != 0
	leg.Risk.NearHeightLimit = nearLimit != 0
	if nearestHeight.Valid {
		h := nearestHeight.Float64
		leg.Risk.NearestBridgeHeightM = &h
	}
	if altMapURL.Valid {
		leg.Alternative = &domain.AlternativeRoute{
			DistanceMeters:  altDistance.Float64,
			DurationSeconds: altDuration.Float64,
			MapURL:          altMapURL.String,
		}
	}

	return leg, true, nil
}

// Store a routed leg result.
func (s *SQLLegCache) Put(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
	leg domain.Leg,
) (err error) {
	defer obs.Time(ctx, "leg.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return errors.New("insert leg cache: origin and destination must not be empty")
	}

	var nearestHeight sql.NullFloat64
	if leg.Risk.NearestBridgeHeightM != nil {
		nearestHeight = sql.NullFloat64{Float64: *leg.Risk.NearestBridgeHeightM, Valid: true}
	}

	var altDistance, altDuration sql.NullFloat64
	var altMapURL sql.NullString
	if leg.Alternative != nil {
		altDistance = sql.NullFloat64{Float64: leg.Alternative.DistanceMeters, Valid: true}
		altDuration = sql.NullFloat64{Float64: leg.Alternative.DurationSeconds, Valid: true}
		altMapURL = sql.NullString{String: leg.Alternative.MapURL, Valid: true}
	}

	q := `
	INSERT INTO leg_cache (
        origin,
        destination,
        height_mm,
        distance_meters,
        duration_seconds,
        has_conflict,
        near_height_limit,
        nearest_bridge_height_m,
        note,
        map_url,
        alt_distance_meters,
        alt_duration_seconds,
        alt_map_url
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (origin, destination, height_mm) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		has_conflict = EXCLUDED.has_conflict,
		near_height_limit = EXCLUDED.near_height_limit,
		nearest_bridge_height_m = EXCLUDED.nearest_bridge_height_m,
		note = EXCLUDED.note,
		map_url = EXCLUDED.map_url,
		alt_distance_meters = EXCLUDED.alt_distance_meters,
		alt_duration_seconds = EXCLUDED.alt_duration_seconds,
		alt_map_url = EXCLUDED.alt_map_url;
	`

	if _, err := s.DB.ExecContext(ctx, q,
		start,
		end,
		heightKey(vehicleHeightMeters),
		leg.DistanceMeters,
		leg.DurationSeconds,
		boolToInt(leg.Risk.HasConflict),
		boolToInt(leg.Risk.NearHeightLimit),
		nearestHeight,
		leg.Risk.Note,
		leg.MapURL,
		altDistance,
		altDuration,
		altMapURL,
	); err != nil {
		return fmt.Errorf("insert leg cache %q -> %q: %w", start, end, err)
	}

	return nil
}
