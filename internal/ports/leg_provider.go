package ports

import (
	"context"

	"routesafe-service/internal/domain"
)

// Contract for planning one directed leg against the routing backend.
type LegProvider interface {
	// Return the routed leg between two stops for the given vehicle height.
	// Distance and duration are canonical SI units (meters, seconds).
	PlanLeg(ctx context.Context, start, end string, vehicleHeightMeters float64) (domain.Leg, error)
}
