package services

import (
	"math"
	"strconv"
	"strings"

	"routesafe-service/internal/domain"
)

// Machine-readable reason for rejecting form input.
type ValidationReason string

const (
	ReasonMissingDepot  ValidationReason = "missing_depot"
	ReasonMissingStops  ValidationReason = "missing_stops"
	ReasonMissingField  ValidationReason = "missing_field"
	ReasonInvalidHeight ValidationReason = "invalid_height"
)

// Bad or missing form input. Reported to the caller before any
// backend call is made.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NormalizeInput parses raw form text into a validated RouteRequest.
// It is a pure function of its three inputs: no network, no side effects.
//
// The stop list splits on line breaks and commas, entries are trimmed,
// blanks are dropped and the original order is preserved. Depot and stop
// values that look like UK postcodes are rewritten to canonical form.
func NormalizeInput(depotRaw, stopsRaw, heightRaw string) (domain.RouteRequest, error) {
	depot := strings.TrimSpace(depotRaw)
	if depot == "" {
		return domain.RouteRequest{}, &ValidationError{
			Reason:  ReasonMissingDepot,
			Message: "depot postcode is required",
		}
	}

	stops := splitStops(stopsRaw)
	if len(stops) == 0 {
		return domain.RouteRequest{}, &ValidationError{
			Reason:  ReasonMissingStops,
			Message: "at least one delivery postcode is required",
		}
	}

	heightText := strings.TrimSpace(heightRaw)
	if heightText == "" {
		return domain.RouteRequest{}, &ValidationError{
			Reason:  ReasonMissingField,
			Message: "vehicle height is required",
		}
	}

	// ParseFloat also accepts "NaN" and "Inf" spellings; neither is a
	// usable vehicle height and NaN would slip past the <= 0 check.
	height, err := strconv.ParseFloat(heightText, 64)
	if err != nil || math.IsNaN(height) || math.IsInf(height, 0) {
		return domain.RouteRequest{}, &ValidationError{
			Reason:  ReasonInvalidHeight,
			Message: "vehicle height must be a number",
		}
	}
	if height <= 0 {
		return domain.RouteRequest{}, &ValidationError{
			Reason:  ReasonInvalidHeight,
			Message: "vehicle height must be greater than zero",
		}
	}

	return domain.RouteRequest{
		Depot:               domain.NormalizeUKPostcode(depot),
		Stops:               stops,
		VehicleHeightMeters: height,
	}, nil
}

func splitStops(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})

	stops := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		stops = append(stops, domain.NormalizeUKPostcode(f))
	}
	return stops
}
