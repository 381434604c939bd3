package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"routesafe-service/internal/domain"
	"routesafe-service/internal/ports"
)

// Planner turns an ordered stop list into a RoutePlan by driving the
// routing backend, one call per leg or one aggregate call for the whole
// chain depending on backend capability.
//
// Every submission gets a monotonically increasing generation so a slow
// in-flight plan can never overwrite the result of a newer one.
type Planner struct {
	provider ports.LegProvider
	gen      atomic.Uint64
}

func NewPlanner(provider ports.LegProvider) (*Planner, error) {
	if provider == nil {
		return nil, errors.New("planner: leg provider must be non-nil")
	}
	return &Planner{provider: provider}, nil
}

// CurrentGeneration reports the generation of the newest submission.
func (p *Planner) CurrentGeneration() uint64 { return p.gen.Load() }

// PlanRoute converts the request's stop chain
// (depot, stops[0], ..., stops[n-1]) into n routed legs, in drop order.
//
// Legs are requested strictly in sequence: leg i+1 is not requested until
// leg i resolves, and the first failure aborts the whole plan. A failed
// leg never yields a partial plan; a truncated route would misrepresent
// itself as complete. The request is read-only input and is not mutated.
func (p *Planner) PlanRoute(ctx context.Context, req domain.RouteRequest) (*domain.RoutePlan, error) {
	if req.Depot == "" {
		return nil, errors.New("plan route: depot must be non-empty")
	}
	if len(req.Stops) == 0 {
		return nil, errors.New("plan route: stop list must be non-empty")
	}
	if h := req.VehicleHeightMeters; h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil, errors.New("plan route: vehicle height must be a positive finite number")
	}

	generation := p.gen.Add(1)

	legs, err := p.fetchLegs(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := &domain.RoutePlan{
		Generation: generation,
		Legs:       legs,
	}
	for _, l := range legs {
		plan.TotalDistanceMeters += l.DistanceMeters
		plan.TotalDurationSeconds += l.DurationSeconds
	}

	return plan, nil
}

func (p *Planner) fetchLegs(ctx context.Context, req domain.RouteRequest) ([]domain.Leg, error) {
	// Prefer one whole-chain call when the backend supports it.
	if ap, ok := p.provider.(ports.AggregatePlanner); ok {
		legs, err := ap.PlanLegs(ctx, req)
		if err == nil {
			return legs, nil
		}
		if !errors.Is(err, ports.ErrAggregateUnsupported) {
			return nil, fmt.Errorf("plan route: aggregate request: %w", err)
		}
	}

	chain := make([]string, 0, 1+len(req.Stops))
	chain = append(chain, req.Depot)
	chain = append(chain, req.Stops...)

	legs := make([]domain.Leg, 0, len(chain)-1)
	for i := 0; i < len(chain)-1; i++ {
		leg, err := p.provider.PlanLeg(ctx, chain[i], chain[i+1], req.VehicleHeightMeters)
		if err != nil {
			// Fail fast: already-fetched legs are discarded with the plan.
			return nil, fmt.Errorf("plan route: leg %d %q -> %q: %w", i+1, chain[i], chain[i+1], err)
		}
		leg.Sequence = i + 1
		legs = append(legs, leg)
	}

	return legs, nil
}
