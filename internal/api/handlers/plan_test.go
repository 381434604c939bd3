package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routesafe-service/internal/adapters/routing"
	"routesafe-service/internal/api/dto"
	"routesafe-service/internal/domain"
	"routesafe-service/internal/present"
	"routesafe-service/internal/services"
)

func newPlanHandler(t *testing.T, legs []routing.MockLeg) (*PlanHandler, *routing.MockLegProvider) {
	t.Helper()

	provider := routing.NewMockLegProvider(legs)
	planner, err := services.NewPlanner(provider)
	require.NoError(t, err)

	return &PlanHandler{Planner: planner, Renderer: present.NewRenderer()}, provider
}

func postPlan(t *testing.T, h *PlanHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)
	return rec
}

func TestPlanHandlerSafeSingleLeg(t *testing.T) {
	h, _ := newPlanHandler(t, []routing.MockLeg{
		{From: "LS27 0LF", To: "WF3 1AB", Meters: 10000, Seconds: 900},
	})

	rec := postPlan(t, h, `{"depot":"ls27 0lf","stops":"wf3 1ab","vehicle_height":"4.5"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "safe", res.Severity)
	require.Len(t, res.Legs, 1)
	assert.Equal(t, "LS27 0LF", res.Legs[0].Start)
	assert.Equal(t, "WF3 1AB", res.Legs[0].End)
	require.Len(t, res.Legs[0].Cards, 1)
	assert.True(t, res.Legs[0].Cards[0].MapActionEnabled)
	assert.Equal(t, 10000.0, res.TotalDistanceMeters)
}

func TestPlanHandlerValidationErrors(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantReason string
	}{
		{"missing depot", `{"depot":"","stops":"WF3 1AB","vehicle_height":"4.5"}`, "missing_depot"},
		{"missing stops", `{"depot":"LS27 0LF","stops":"","vehicle_height":"4.5"}`, "missing_stops"},
		{"missing height", `{"depot":"LS27 0LF","stops":"WF3 1AB","vehicle_height":""}`, "missing_field"},
		{"zero height", `{"depot":"LS27 0LF","stops":"WF3 1AB","vehicle_height":"0"}`, "invalid_height"},
		{"negative height", `{"depot":"LS27 0LF","stops":"WF3 1AB","vehicle_height":"-3"}`, "invalid_height"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, provider := newPlanHandler(t, nil)

			rec := postPlan(t, h, c.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var res map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, c.wantReason, res["reason"])

			// Validation failures must never reach the backend.
			assert.Empty(t, provider.Calls)
		})
	}
}

func TestPlanHandlerFailedLegYieldsNoLegs(t *testing.T) {
	h, provider := newPlanHandler(t, []routing.MockLeg{
		{From: "LS27 0LF", To: "WF3 1AB", Meters: 10000, Seconds: 900},
		{From: "WF3 1AB", To: "M31 4QN", Err: &routing.HTTPError{Status: 500, Detail: "routing engine down"}},
	})

	rec := postPlan(t, h, `{"depot":"LS27 0LF","stops":"WF3 1AB\nM31 4QN","vehicle_height":"4.5"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res["error"], "routing engine down")

	// Sequential fail-fast: leg 2 failed, so only two backend calls.
	assert.Len(t, provider.Calls, 2)
}

func TestPlanHandlerUnsafeLegCards(t *testing.T) {
	bridge := 4.1
	h, _ := newPlanHandler(t, []routing.MockLeg{
		{
			From: "LS27 0LF", To: "WF3 1AB",
			Meters: 10000, Seconds: 900,
			Risk: domain.BridgeRisk{HasConflict: true, NearestBridgeHeightM: &bridge},
		},
	})

	rec := postPlan(t, h, `{"depot":"LS27 0LF","stops":"WF3 1AB","vehicle_height":"4.5"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "unsafe", res.Severity)
	require.Len(t, res.Legs, 1)
	require.NotEmpty(t, res.Legs[0].Cards)

	primary := res.Legs[0].Cards[0]
	assert.Equal(t, "primary", primary.Kind)
	assert.False(t, primary.MapActionEnabled)
	assert.Empty(t, primary.MapURL)
}

func TestPlanHandlerRejectsBadRequests(t *testing.T) {
	h, _ := newPlanHandler(t, nil)

	rec := postPlan(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postPlan(t, h, `{"depot":"A","stops":"B","vehicle_height":"4.5","extra":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	getRec := httptest.NewRecorder()
	h.Plan(getRec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, getRec.Code)
}
