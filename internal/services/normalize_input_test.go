package services

import (
	"errors"
	"testing"
)

func TestNormalizeInputHappyPath(t *testing.T) {
	req, err := NormalizeInput("ls27 0lf", "WF3 1AB\nm31 4qn", "4.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Depot != "LS27 0LF" {
		t.Errorf("depot = %q, want %q", req.Depot, "LS27 0LF")
	}
	if len(req.Stops) != 2 || req.Stops[0] != "WF3 1AB" || req.Stops[1] != "M31 4QN" {
		t.Errorf("stops = %v, want [WF3 1AB M31 4QN]", req.Stops)
	}
	if req.VehicleHeightMeters != 4.5 {
		t.Errorf("height = %v, want 4.5", req.VehicleHeightMeters)
	}
}

func TestNormalizeInputStopSplitting(t *testing.T) {
	// Blank lines, trailing whitespace and comma separators; relative
	// order of non-blank entries must survive.
	raw := "  WF3 1AB  \n\n\nLS12 2AB, HD1 3AB\r\n   \nBD4 4AB\n"

	req, err := NormalizeInput("LS27 0LF", raw, "3.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"WF3 1AB", "LS12 2AB", "HD1 3AB", "BD4 4AB"}
	if len(req.Stops) != len(want) {
		t.Fatalf("stops = %v, want %v", req.Stops, want)
	}
	for i := range want {
		if req.Stops[i] != want[i] {
			t.Errorf("stops[%d] = %q, want %q", i, req.Stops[i], want[i])
		}
	}
}

func TestNormalizeInputValidation(t *testing.T) {
	cases := []struct {
		name   string
		depot  string
		stops  string
		height string
		want   ValidationReason
	}{
		{"empty depot", "", "WF3 1AB", "4.5", ReasonMissingDepot},
		{"whitespace depot", "   ", "WF3 1AB", "4.5", ReasonMissingDepot},
		{"empty stops", "LS27 0LF", "", "4.5", ReasonMissingStops},
		{"blank stops", "LS27 0LF", " \n , \n ", "4.5", ReasonMissingStops},
		{"missing height", "LS27 0LF", "WF3 1AB", "", ReasonMissingField},
		{"non-numeric height", "LS27 0LF", "WF3 1AB", "tall", ReasonInvalidHeight},
		{"zero height", "LS27 0LF", "WF3 1AB", "0", ReasonInvalidHeight},
		{"negative height", "LS27 0LF", "WF3 1AB", "-3", ReasonInvalidHeight},
		// ParseFloat accepts these spellings; they must not reach the backend.
		{"NaN height", "LS27 0LF", "WF3 1AB", "NaN", ReasonInvalidHeight},
		{"positive infinity", "LS27 0LF", "WF3 1AB", "+Inf", ReasonInvalidHeight},
		{"negative infinity", "LS27 0LF", "WF3 1AB", "-Inf", ReasonInvalidHeight},
		{"spelled-out infinity", "LS27 0LF", "WF3 1AB", "Infinity", ReasonInvalidHeight},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NormalizeInput(c.depot, c.stops, c.height)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Reason != c.want {
				t.Errorf("reason = %q, want %q", ve.Reason, c.want)
			}
		})
	}
}
