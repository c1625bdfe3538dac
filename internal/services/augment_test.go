package services

import (
	"context"
	"errors"
	"manifest-route-service/internal/adapters/routing"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/ports"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAugmentUsesRoutingService(t *testing.T) {
	provider := routing.NewMockRoutingProvider(ports.RouteResponse{
		Geometry:        `{"type":"LineString","coordinates":[]}`,
		DistanceMeters:  3500,
		DurationSeconds: 420,
		Legs: []ports.LegMetrics{
			{DistanceMeters: 1500, DurationSeconds: 200},
			{DistanceMeters: 2000, DurationSeconds: 220},
		},
	}, nil)
	a := NewPathAugmenter(provider, 0)

	stops := []domain.ResolvedStop{stopAt(0, "start", 0), stopAt(3, "b", 1), stopAt(1, "a", 2)}
	got := a.Augment(context.Background(), stops)

	want := domain.PathAugmentation{
		Geometry:        `{"type":"LineString","coordinates":[]}`,
		TotalDistanceKm: 3.5,
		TotalDurationS:  420,
		Legs: []domain.RouteLeg{
			{FromID: 0, ToID: 3, DistanceKm: 1.5, DurationS: 200},
			{FromID: 3, ToID: 1, DistanceKm: 2, DurationS: 220},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Augment mismatch (-want +got):\n%s", diff)
	}

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, []domain.Coordinates{coordsAt(0), coordsAt(1), coordsAt(2)}, reqs[0])
}

func TestAugmentFallbackEquivalence(t *testing.T) {
	stops := []domain.ResolvedStop{stopAt(0, "start", 0), stopAt(1, "a", 3), stopAt(2, "b", 1)}

	for name, provider := range map[string]ports.RoutingProvider{
		"error":        routing.NewMockRoutingProvider(ports.RouteResponse{}, errors.New("connection refused")),
		"no route":     routing.NewMockRoutingProvider(ports.RouteResponse{}, ports.ErrNoRoute),
		"leg mismatch": routing.NewMockRoutingProvider(ports.RouteResponse{Legs: []ports.LegMetrics{{}}}, nil),
		"no provider":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			got := NewPathAugmenter(provider, DefaultFallbackSpeedKmh).Augment(context.Background(), stops)

			sum := 0.0
			for i := 0; i+1 < len(stops); i++ {
				sum += domain.HaversineKm(stops[i].Coordinates(), stops[i+1].Coordinates())
			}

			assert.True(t, got.Fallback)
			assert.Empty(t, got.Geometry)
			assert.InDelta(t, sum, got.TotalDistanceKm, 1e-9)
			assert.InDelta(t, 5.0, got.TotalDistanceKm, 1e-6)
			assert.InDelta(t, got.TotalDistanceKm/30*3600, got.TotalDurationS, 1e-9)
			require.Len(t, got.Legs, 2)
			assert.Equal(t, 1, got.Legs[0].ToID)
			assert.InDelta(t, 2.0, got.Legs[1].DistanceKm, 1e-6)
		})
	}
}

func TestAugmentNeedsTwoStops(t *testing.T) {
	provider := routing.NewMockRoutingProvider(ports.RouteResponse{}, nil)
	a := NewPathAugmenter(provider, 30)

	for _, stops := range [][]domain.ResolvedStop{nil, {stopAt(1, "a", 1)}} {
		got := a.Augment(context.Background(), stops)
		assert.Zero(t, got.TotalDistanceKm)
		assert.Zero(t, got.TotalDurationS)
		assert.Empty(t, got.Geometry)
		assert.Empty(t, got.Legs)
		assert.False(t, got.Fallback)
	}
	assert.Empty(t, provider.Requests())
}
