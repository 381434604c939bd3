package routing

import (
	"strings"

	"routesafe-service/internal/domain"
)

// legPayload is the superset of every leg shape the backend variants emit.
// Older deployments return flat km/min fields with a coarse bridge_risk
// label; the current RouteSafe backend nests route_summary/bridge_summary;
// one intermediate revision returns raw flags plus a low_bridges array.
// Absent fields stay nil so resolution can tell "missing" from zero.
type legPayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Start     string `json:"start"`
	End       string `json:"end"`
	StartUsed string `json:"start_used"`
	EndUsed   string `json:"end_used"`

	DistanceM   *float64 `json:"distance_m"`
	DistanceKM  *float64 `json:"distance_km"`
	DurationS   *float64 `json:"duration_s"`
	DurationMin *float64 `json:"duration_min"`

	RouteSummary *struct {
		DistanceM *float64 `json:"distance_m"`
		DurationS *float64 `json:"duration_s"`
	} `json:"route_summary"`

	HasConflict     *bool              `json:"has_conflict"`
	NearHeightLimit *bool              `json:"near_height_limit"`
	BridgeRisk      string             `json:"bridge_risk"`
	LowBridges      []lowBridgePayload `json:"low_bridges"`
	BridgeSummary   *bridgeSummary     `json:"bridge_summary"`

	GoogleMapsURL      string              `json:"google_maps_url"`
	AlternativeMapsURL string              `json:"alternative_maps_url"`
	Alternative        *alternativePayload `json:"alternative"`
}

type lowBridgePayload struct {
	HeightM *float64 `json:"height_m"`
}

type bridgeSummary struct {
	HasConflict     bool   `json:"has_conflict"`
	NearHeightLimit bool   `json:"near_height_limit"`
	RiskLevel       string `json:"risk_level"`
	RiskMessage     string `json:"risk_message"`
	NearestBridge   *struct {
		HeightM *float64 `json:"height_m"`
	} `json:"nearest_bridge"`
}

type alternativePayload struct {
	DistanceM     *float64 `json:"distance_m"`
	DistanceKM    *float64 `json:"distance_km"`
	DurationS     *float64 `json:"duration_s"`
	DurationMin   *float64 `json:"duration_min"`
	GoogleMapsURL string   `json:"google_maps_url"`
}

// normalizeLeg maps one backend leg payload, whichever shape it arrived in,
// onto the canonical Leg: meters, seconds, mutually exclusive risk flags.
// Missing numeric fields default to zero; missing risk fields default to
// "no conflict, not near limit".
func normalizeLeg(p legPayload, start, end string, vehicleHeightMeters float64) domain.Leg {
	leg := domain.Leg{
		Start:           firstNonEmpty(p.StartUsed, p.From, p.Start, start),
		End:             firstNonEmpty(p.EndUsed, p.To, p.End, end),
		DistanceMeters:  resolveDistance(p),
		DurationSeconds: resolveDuration(p),
		Risk:            resolveRisk(p, vehicleHeightMeters),
		MapURL:          p.GoogleMapsURL,
		Alternative:     resolveAlternative(p),
	}
	return leg
}

func resolveDistance(p legPayload) float64 {
	switch {
	case p.DistanceM != nil:
		return *p.DistanceM
	case p.DistanceKM != nil:
		return *p.DistanceKM * 1000
	case p.RouteSummary != nil && p.RouteSummary.DistanceM != nil:
		return *p.RouteSummary.DistanceM
	}
	return 0
}

func resolveDuration(p legPayload) float64 {
	switch {
	case p.DurationS != nil:
		return *p.DurationS
	case p.DurationMin != nil:
		return *p.DurationMin * 60
	case p.RouteSummary != nil && p.RouteSummary.DurationS != nil:
		return *p.RouteSummary.DurationS
	}
	return 0
}

// resolveRisk picks the most explicit risk encoding present:
// bridge_summary > raw flags > bridge_risk label > low_bridges heights.
func resolveRisk(p legPayload, vehicleHeightMeters float64) domain.BridgeRisk {
	var risk domain.BridgeRisk

	switch {
	case p.BridgeSummary != nil:
		risk.HasConflict = p.BridgeSummary.HasConflict
		risk.NearHeightLimit = p.BridgeSummary.NearHeightLimit
		risk.Note = p.BridgeSummary.RiskMessage
		if nb := p.BridgeSummary.NearestBridge; nb != nil && nb.HeightM != nil {
			h := *nb.HeightM
			risk.NearestBridgeHeightM = &h
		}

	case p.HasConflict != nil || p.NearHeightLimit != nil:
		if p.HasConflict != nil {
			risk.HasConflict = *p.HasConflict
		}
		if p.NearHeightLimit != nil {
			risk.NearHeightLimit = *p.NearHeightLimit
		}
		risk.NearestBridgeHeightM = lowestBridge(p.LowBridges)

	case p.BridgeRisk != "":
		switch strings.ToLower(p.BridgeRisk) {
		case "high":
			risk.HasConflict = true
		case "medium":
			risk.NearHeightLimit = true
		}
		risk.NearestBridgeHeightM = lowestBridge(p.LowBridges)

	case len(p.LowBridges) > 0:
		lowest := lowestBridge(p.LowBridges)
		risk.NearestBridgeHeightM = lowest
		if lowest != nil {
			clearance := *lowest - vehicleHeightMeters
			if clearance < 0 {
				risk.HasConflict = true
			} else if clearance < domain.ClearanceBufferMeters {
				risk.NearHeightLimit = true
			}
		}
	}

	// A conflict always wins; the flags are mutually exclusive.
	if risk.HasConflict {
		risk.NearHeightLimit = false
	}

	return risk
}

func lowestBridge(bridges []lowBridgePayload) *float64 {
	var lowest *float64
	for _, b := range bridges {
		if b.HeightM == nil {
			continue
		}
		if lowest == nil || *b.HeightM < *lowest {
			h := *b.HeightM
			lowest = &h
		}
	}
	return lowest
}

func resolveAlternative(p legPayload) *domain.AlternativeRoute {
	if p.Alternative != nil {
		alt := &domain.AlternativeRoute{MapURL: p.Alternative.GoogleMapsURL}
		switch {
		case p.Alternative.DistanceM != nil:
			alt.DistanceMeters = *p.Alternative.DistanceM
		case p.Alternative.DistanceKM != nil:
			alt.DistanceMeters = *p.Alternative.DistanceKM * 1000
		}
		switch {
		case p.Alternative.DurationS != nil:
			alt.DurationSeconds = *p.Alternative.DurationS
		case p.Alternative.DurationMin != nil:
			alt.DurationSeconds = *p.Alternative.DurationMin * 60
		}
		return alt
	}

	if p.AlternativeMapsURL != "" {
		return &domain.AlternativeRoute{MapURL: p.AlternativeMapsURL}
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
