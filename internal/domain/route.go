package domain

// Clearance margin below which a leg is flagged "near height limit"
// even when no hard conflict exists.
const ClearanceBufferMeters = 0.25

// Normalized planning input: a depot, an ordered list of delivery stops
// and a validated vehicle height. The stop order is the delivery sequence.
type RouteRequest struct {
	Depot               string
	Stops               []string
	VehicleHeightMeters float64
}

// Classification of a leg's low-bridge safety.
// HasConflict and NearHeightLimit are mutually exclusive; a conflict
// always wins over a near-limit flag.
type BridgeRisk struct {
	HasConflict          bool
	NearHeightLimit      bool
	NearestBridgeHeightM *float64
	Note                 string
}

// One directed hop between two consecutive stops.
// Distances and durations are always canonical SI units (meters, seconds),
// regardless of which backend response shape produced them.
type Leg struct {
	Sequence        int
	Start           string
	End             string
	DistanceMeters  float64
	DurationSeconds float64
	Risk            BridgeRisk
	MapURL          string
	Alternative     *AlternativeRoute
}

// Unverified alternative routing suggestion for a leg whose direct
// path conflicts with a low bridge.
type AlternativeRoute struct {
	DistanceMeters  float64
	DurationSeconds float64
	MapURL          string
}

// Represents the planned route for a single submission.
// A RoutePlan is the output of one orchestration pass: the ordered
// sequence of legs plus aggregate distance and duration metrics.
// It is immutable planning data, constructed fresh per submission and
// discarded on the next one.
type RoutePlan struct {
	Generation           uint64
	Legs                 []Leg
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
}
