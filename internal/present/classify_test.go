package present

import (
	"testing"

	"routesafe-service/internal/domain"
)

func TestClassifyIsPureFunctionOfRiskFlags(t *testing.T) {
	cases := []struct {
		conflict  bool
		nearLimit bool
		want      Severity
	}{
		{true, false, SeverityUnsafe},
		// A conflict wins even if a malformed upstream set both flags.
		{true, true, SeverityUnsafe},
		{false, true, SeverityWarning},
		{false, false, SeveritySafe},
	}

	for _, c := range cases {
		leg := domain.Leg{Risk: domain.BridgeRisk{HasConflict: c.conflict, NearHeightLimit: c.nearLimit}}
		if got := Classify(leg); got != c.want {
			t.Errorf("Classify(conflict=%v, near=%v) = %v, want %v", c.conflict, c.nearLimit, got, c.want)
		}
	}
}

func TestPlanSeverityIsMostSevereLeg(t *testing.T) {
	safe := domain.Leg{}
	warning := domain.Leg{Risk: domain.BridgeRisk{NearHeightLimit: true}}
	unsafe := domain.Leg{Risk: domain.BridgeRisk{HasConflict: true}}

	cases := []struct {
		name string
		legs []domain.Leg
		want Severity
	}{
		{"all safe", []domain.Leg{safe, safe}, SeveritySafe},
		{"one warning", []domain.Leg{safe, warning, safe}, SeverityWarning},
		{"unsafe beats warning", []domain.Leg{warning, unsafe, safe}, SeverityUnsafe},
		{"empty plan", nil, SeveritySafe},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := &domain.RoutePlan{Legs: c.legs}
			if got := PlanSeverity(plan); got != c.want {
				t.Errorf("PlanSeverity = %v, want %v", got, c.want)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	if SeveritySafe.String() != "safe" || SeverityWarning.String() != "warning" || SeverityUnsafe.String() != "unsafe" {
		t.Errorf("unexpected severity labels: %v %v %v", SeveritySafe, SeverityWarning, SeverityUnsafe)
	}
}
