package ports

import (
	"context"

	"routesafe-service/internal/domain"
)

// Port: a boundary for caching routed leg results.
// Keys are expected to be consistent (e.g., already normalized) by the
// caller; vehicle height participates in the key because bridge risk
// depends on it.
type LegCache interface {
	// Retrieve a cached leg. The second return reports a cache hit.
	Get(ctx context.Context, start, end string, vehicleHeightMeters float64) (domain.Leg, bool, error)
	// Store a routed leg result.
	Put(ctx context.Context, start, end string, vehicleHeightMeters float64, leg domain.Leg) error
}
