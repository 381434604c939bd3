package ports

import (
	"context"
	"errors"

	"routesafe-service/internal/domain"
)

// Returned by an AggregatePlanner whose backend does not expose a
// whole-chain planning endpoint. Callers fall back to per-leg requests.
var ErrAggregateUnsupported = errors.New("aggregate planning not supported by backend")

// Optional extension of LegProvider that submits the whole stop chain
// as one backend call.
type AggregatePlanner interface {
	LegProvider
	// Return all legs of the request's stop chain in drop order.
	PlanLegs(ctx context.Context, req domain.RouteRequest) ([]domain.Leg, error)
}
