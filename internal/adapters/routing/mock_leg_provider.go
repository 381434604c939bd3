package routing

import (
	"context"
	"fmt"

	"routesafe-service/internal/domain"
)

type MockLeg struct {
	From, To string
	Meters   float64
	Seconds  float64
	Risk     domain.BridgeRisk
	MapURL   string
	Err      error
}

// MockLegProvider serves scripted legs keyed by "from|to" for tests.
type MockLegProvider struct {
	m     map[string]MockLeg
	Calls []string
}

func NewMockLegProvider(legs []MockLeg) *MockLegProvider {
	m := make(map[string]MockLeg, len(legs))
	for _, l := range legs {
		m[l.From+"|"+l.To] = l
	}
	return &MockLegProvider{m: m}
}

func (p *MockLegProvider) PlanLeg(ctx context.Context, start, end string, vehicleHeightMeters float64) (domain.Leg, error) {
	p.Calls = append(p.Calls, start+"|"+end)

	l, ok := p.m[start+"|"+end]
	if !ok {
		return domain.Leg{}, fmt.Errorf("missing leg %q -> %q", start, end)
	}
	if l.Err != nil {
		return domain.Leg{}, l.Err
	}

	return domain.Leg{
		Start:           start,
		End:             end,
		DistanceMeters:  l.Meters,
		DurationSeconds: l.Seconds,
		Risk:            l.Risk,
		MapURL:          l.MapURL,
	}, nil
}
