package geocode

import (
	"context"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/ports"
	"sync"
)

// MockGeocoder answers from a fixed query table and records every call.
type MockGeocoder struct {
	mu      sync.Mutex
	results map[string]domain.GeocodeResult
	errs    map[string]error
	calls   []string
}

func NewMockGeocoder(coords map[string]domain.Coordinates) *MockGeocoder {
	m := &MockGeocoder{
		results: make(map[string]domain.GeocodeResult, len(coords)),
		errs:    map[string]error{},
	}
	for q, c := range coords {
		m.results[q] = domain.GeocodeResult{Query: q, Lat: c.Lat, Lon: c.Lon}
	}
	return m
}

// SetDetails attaches provider address details to a known query.
func (m *MockGeocoder) SetDetails(query string, details map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.results[query]
	r.Details = details
	m.results[query] = r
}

// FailWith makes query fail with err.
func (m *MockGeocoder) FailWith(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[query] = err
}

func (m *MockGeocoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (domain.GeocodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, query)
	if err, ok := m.errs[query]; ok {
		return domain.GeocodeResult{}, err
	}
	r, ok := m.results[query]
	if !ok {
		return domain.GeocodeResult{}, ports.ErrNoResults
	}
	return r, nil
}
