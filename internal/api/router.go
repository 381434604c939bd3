package api

import (
	"net/http"

	"routesafe-service/internal/api/handlers"
	"routesafe-service/internal/ports"
	"routesafe-service/internal/present"
	"routesafe-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	planner *services.Planner,
	renderer *present.Renderer,
	extractor ports.PostcodeExtractor,
) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Planner:  planner,
		Renderer: renderer,
	}
	ocrHandler := &handlers.OCRHandler{Extractor: extractor}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/plan", planHandler.Plan)
	mux.HandleFunc("/api/ocr", ocrHandler.Extract)

	return requestIDMiddleware(loggingMiddleware(mux))
}
