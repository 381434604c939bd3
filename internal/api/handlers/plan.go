package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"routesafe-service/internal/adapters/routing"
	"routesafe-service/internal/api/dto"
	"routesafe-service/internal/present"
	"routesafe-service/internal/services"
)

type PlanHandler struct {
	Planner  *services.Planner
	Renderer *present.Renderer
}

// Plan runs the full submission flow: normalize raw form input, drive
// the routing backend leg by leg, classify and render the result.
// A failed leg aborts the whole plan; partial routes are never returned.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	routeReq, err := services.NormalizeInput(req.Depot, req.Stops, req.VehicleHeight)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, r, http.StatusBadRequest, map[string]string{
				"error":  ve.Message,
				"reason": string(ve.Reason),
			})
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.Planner.PlanRoute(r.Context(), routeReq)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}

	view, err := h.Renderer.Render(plan)
	if err != nil {
		if errors.Is(err, present.ErrStalePlan) {
			writeError(w, r, http.StatusConflict, "superseded by a newer submission")
			return
		}
		log.Printf("render failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(view))
}

// writeBackendError maps the routing error taxonomy onto HTTP statuses:
// backend rejections and unreadable bodies are upstream failures (502),
// unreachable backends are gateway timeouts (504).
func writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	var he *routing.HTTPError
	if errors.As(err, &he) {
		writeError(w, r, http.StatusBadGateway, he.Error())
		return
	}

	var me *routing.MalformedResponseError
	if errors.As(err, &me) {
		writeError(w, r, http.StatusBadGateway, "routing backend returned an unreadable response, try again")
		return
	}

	var ne *routing.NetworkError
	if errors.As(err, &ne) {
		writeError(w, r, http.StatusGatewayTimeout, "routing backend is unreachable")
		return
	}

	log.Printf("plan route failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func toPlanResponse(view *present.PlanView) dto.PlanResponse {
	res := dto.PlanResponse{
		Severity:             view.Severity,
		Banner:               view.Banner,
		TotalDistanceMeters:  view.TotalDistanceMeters,
		TotalDurationSeconds: view.TotalDurationSeconds,
		Legs:                 make([]dto.LegResponse, 0, len(view.Legs)),
	}

	for _, leg := range view.Legs {
		cards := make([]dto.CardResponse, 0, len(leg.Cards))
		for _, c := range leg.Cards {
			cards = append(cards, dto.CardResponse{
				Kind:             c.Kind,
				Title:            c.Title,
				Message:          c.Message,
				DistanceMeters:   c.DistanceMeters,
				DurationSeconds:  c.DurationSeconds,
				MapURL:           c.MapURL,
				MapActionEnabled: c.MapActionEnabled,
			})
		}

		res.Legs = append(res.Legs, dto.LegResponse{
			Sequence: leg.Sequence,
			Start:    leg.Start,
			End:      leg.End,
			Status:   leg.Status,
			Cards:    cards,
		})
	}

	return res
}
