package present

import "routesafe-service/internal/domain"

// Safety state of a leg or plan. Ordering matters: higher values are
// more severe, so the plan-level state is the numeric maximum.
type Severity int

const (
	SeveritySafe Severity = iota
	SeverityWarning
	SeverityUnsafe
)

func (s Severity) String() string {
	switch s {
	case SeverityUnsafe:
		return "unsafe"
	case SeverityWarning:
		return "warning"
	default:
		return "safe"
	}
}

// Classify maps a leg's bridge risk onto a safety state.
// A conflict always wins over a near-limit flag.
func Classify(leg domain.Leg) Severity {
	switch {
	case leg.Risk.HasConflict:
		return SeverityUnsafe
	case leg.Risk.NearHeightLimit:
		return SeverityWarning
	default:
		return SeveritySafe
	}
}

// PlanSeverity is the most severe classification among all legs,
// used for the top-level banner.
func PlanSeverity(plan *domain.RoutePlan) Severity {
	severity := SeveritySafe
	for _, leg := range plan.Legs {
		if s := Classify(leg); s > severity {
			severity = s
		}
	}
	return severity
}
