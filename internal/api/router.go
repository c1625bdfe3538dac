package api

import (
	"manifest-route-service/internal/api/dto"
	"manifest-route-service/internal/api/handlers"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner handlers.RoutePlanner, pipeline dto.PipelineInfo) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Pipeline: pipeline}
	routeHandler := &handlers.RouteHandler{Planner: planner}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/routes", routeHandler.Plan)

	return requestIDMiddleware(loggingMiddleware(mux))
}
