package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"routesafe-service/internal/domain"
)

// SQLite backed cache for routed leg results.
// Keys are expected to be consistent (e.g., already normalized)
// by the caller.
type SqliteLegCache struct {
	DB *sql.DB
}

func NewSqliteLegCache(db *sql.DB) *SqliteLegCache {
	return &SqliteLegCache{DB: db}
}

// Fetch a cached leg for one origin/destination pair at a vehicle height.
func (s *SqliteLegCache) Get(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
) (domain.Leg, bool, error) {
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
    WHERE origin = ?
        AND destination = ?
        AND height_mm = ?;
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

	err := row.Scan(
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
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Leg{}, false, nil
	}
	if err != nil {
		return domain.Leg{}, false, fmt.Errorf("get leg cache: scan row: %w", err)
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
func (s *SqliteLegCache) Put(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
	leg domain.Leg,
) error {
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
	INSERT OR REPLACE INTO leg_cache (
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
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	_, err := s.DB.ExecContext(ctx, q,
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
	)
	if err != nil {
		return fmt.Errorf("insert leg cache %q -> %q: %w", start, end, err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
