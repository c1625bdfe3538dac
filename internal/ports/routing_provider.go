package ports

import (
	"context"
	"errors"
	"manifest-route-service/internal/domain"
)

// The routing service answered but produced no usable route.
var ErrNoRoute = errors.New("routing: no route")

// Distance and travel duration of one leg between consecutive coordinates.
type LegMetrics struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Road route through an ordered coordinate list.
// Legs are in input order, one per consecutive coordinate pair.
type RouteResponse struct {
	Geometry        string
	DistanceMeters  float64
	DurationSeconds float64
	Legs            []LegMetrics
}

// Contract for retrieving a real road path through ordered coordinates.
type RoutingProvider interface {
	Route(ctx context.Context, coords []domain.Coordinates) (RouteResponse, error)
}
