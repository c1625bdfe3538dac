package routing

import (
	"context"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/ports"
	"sync"
)

// MockRoutingProvider returns a canned response (or error) and records requests.
type MockRoutingProvider struct {
	mu       sync.Mutex
	response ports.RouteResponse
	err      error
	requests [][]domain.Coordinates
}

func NewMockRoutingProvider(resp ports.RouteResponse, err error) *MockRoutingProvider {
	return &MockRoutingProvider{response: resp, err: err}
}

func (p *MockRoutingProvider) Requests() [][]domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]domain.Coordinates(nil), p.requests...)
}

func (p *MockRoutingProvider) Route(ctx context.Context, coords []domain.Coordinates) (ports.RouteResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, append([]domain.Coordinates(nil), coords...))
	if p.err != nil {
		return ports.RouteResponse{}, p.err
	}
	return p.response, nil
}
