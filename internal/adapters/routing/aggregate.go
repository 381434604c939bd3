package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"routesafe-service/internal/domain"
	"routesafe-service/internal/platform/obs"
	"routesafe-service/internal/ports"
)

type planRequest struct {
	DepotPostcode     string   `json:"depot_postcode"`
	DeliveryPostcodes []string `json:"delivery_postcodes"`
	VehicleHeightM    float64  `json:"vehicle_height_m"`
}

type planResponse struct {
	TotalDistanceKM  *float64     `json:"total_distance_km"`
	TotalDurationMin *float64     `json:"total_duration_min"`
	Legs             []legPayload `json:"legs"`
}

// PlanLegs submits the whole stop chain as one backend call and returns
// the legs in drop order. Backends without an aggregate endpoint yield
// ports.ErrAggregateUnsupported so callers can fall back to per-leg mode.
func (c *Client) PlanLegs(
	ctx context.Context,
	req domain.RouteRequest,
) (_ []domain.Leg, err error) {
	defer obs.Time(ctx, "routing.PlanLegs")(&err)

	depot := c.normalize(req.Depot)
	if depot == "" {
		return nil, errors.New("plan legs: depot must be non-empty")
	}
	if len(req.Stops) == 0 {
		return nil, errors.New("plan legs: stop list must be non-empty")
	}
	if h := req.VehicleHeightMeters; h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil, errors.New("plan legs: vehicle height must be a positive finite number")
	}

	primary, supported := c.currentPlanPath()
	if !supported {
		return nil, ports.ErrAggregateUnsupported
	}

	stops := make([]string, 0, len(req.Stops))
	for _, s := range req.Stops {
		stops = append(stops, c.normalize(s))
	}

	payload, err := json.Marshal(planRequest{
		DepotPostcode:     depot,
		DeliveryPostcodes: stops,
		VehicleHeightM:    req.VehicleHeightMeters,
	})
	if err != nil {
		return nil, fmt.Errorf("plan legs: marshal request: %w", err)
	}

	body, err := c.postWithPathProbe(ctx, primary, planPathLegacy, payload, c.setPlanPath)
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.Status == http.StatusNotFound {
			c.markPlanUnsupported()
			return nil, ports.ErrAggregateUnsupported
		}
		return nil, err
	}

	var decoded planResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &MalformedResponseError{Reason: "plan body is not valid JSON"}
	}
	if len(decoded.Legs) != len(req.Stops) {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("expected %d legs, backend returned %d", len(req.Stops), len(decoded.Legs)),
		}
	}

	// Chain pairs supply fallback labels when the backend omits from/to.
	chain := append([]string{depot}, stops...)

	legs := make([]domain.Leg, 0, len(decoded.Legs))
	for i, p := range decoded.Legs {
		leg := normalizeLeg(p, chain[i], chain[i+1], req.VehicleHeightMeters)
		leg.Sequence = i + 1
		legs = append(legs, leg)
	}

	return legs, nil
}
