package services

import (
	"context"
	"fmt"
	"log"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"manifest-route-service/internal/ports"
)

const DefaultFallbackSpeedKmh = 30.0

// PathAugmenter attaches real road distance, duration and geometry to a sequence.
// When the routing service is unavailable it estimates them from great-circle
// distances at a constant speed.
type PathAugmenter struct {
	provider ports.RoutingProvider
	speedKmh float64
}

func NewPathAugmenter(provider ports.RoutingProvider, fallbackSpeedKmh float64) *PathAugmenter {
	if fallbackSpeedKmh <= 0 {
		fallbackSpeedKmh = DefaultFallbackSpeedKmh
	}
	return &PathAugmenter{provider: provider, speedKmh: fallbackSpeedKmh}
}

// Augment never fails: routing service errors trigger the fallback estimate.
// Fewer than two stops yield zero statistics and no geometry.
func (a *PathAugmenter) Augment(ctx context.Context, stops []domain.ResolvedStop) domain.PathAugmentation {
	if len(stops) < 2 {
		return domain.PathAugmentation{Legs: []domain.RouteLeg{}}
	}

	if a.provider != nil {
		aug, err := a.route(ctx, stops)
		if err == nil {
			return aug
		}
		log.Printf("req_id=%s routing service unavailable, using straight-line estimate: %v", obs.RequestID(ctx), err)
	}

	return a.fallback(stops)
}

func (a *PathAugmenter) route(ctx context.Context, stops []domain.ResolvedStop) (_ domain.PathAugmentation, err error) {
	defer obs.Time(ctx, "routing.Route")(&err)

	coords := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		coords = append(coords, s.Coordinates())
	}

	resp, err := a.provider.Route(ctx, coords)
	if err != nil {
		return domain.PathAugmentation{}, fmt.Errorf("augment: %w", err)
	}

	if len(resp.Legs) != len(stops)-1 {
		return domain.PathAugmentation{}, fmt.Errorf(
			"augment: routing returned %d legs for %d stops: %w",
			len(resp.Legs), len(stops), ports.ErrNoRoute,
		)
	}

	legs := make([]domain.RouteLeg, 0, len(resp.Legs))
	for i, l := range resp.Legs {
		legs = append(legs, domain.RouteLeg{
			FromID:     stops[i].ID,
			ToID:       stops[i+1].ID,
			DistanceKm: l.DistanceMeters / 1000.0,
			DurationS:  l.DurationSeconds,
		})
	}

	return domain.PathAugmentation{
		Geometry:        resp.Geometry,
		TotalDistanceKm: resp.DistanceMeters / 1000.0,
		TotalDurationS:  resp.DurationSeconds,
		Legs:            legs,
	}, nil
}

func (a *PathAugmenter) fallback(stops []domain.ResolvedStop) domain.PathAugmentation {
	legs := make([]domain.RouteLeg, 0, len(stops)-1)
	total := 0.0
	for i := 0; i+1 < len(stops); i++ {
		km := domain.HaversineKm(stops[i].Coordinates(), stops[i+1].Coordinates())
		total += km
		legs = append(legs, domain.RouteLeg{
			FromID:     stops[i].ID,
			ToID:       stops[i+1].ID,
			DistanceKm: km,
			DurationS:  km / a.speedKmh * 3600,
		})
	}

	return domain.PathAugmentation{
		TotalDistanceKm: total,
		TotalDurationS:  total / a.speedKmh * 3600,
		Legs:            legs,
		Fallback:        true,
	}
}
