package ports

import (
	"context"
	"errors"
	"manifest-route-service/internal/domain"
)

var (
	// The provider answered but had no match for the query.
	ErrNoResults = errors.New("geocoder: no results")
	// The provider did not answer within the request deadline.
	ErrTimeout = errors.New("provider timeout")
)

// Contract for resolving a complete free-text query to coordinates.
type Geocoder interface {
	// Geocode issues exactly one provider request for query.
	Geocode(ctx context.Context, query string) (domain.GeocodeResult, error)
}
