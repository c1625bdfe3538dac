package services

import (
	"manifest-route-service/internal/domain"
	"math"
)

// SequenceOptions configures the greedy sequencer.
type SequenceOptions struct {
	// Stops further than this from the start are dropped. Zero disables the filter.
	MaxDistanceKm float64
	// Append a closing stop at the start's coordinates.
	RoundTrip bool
	Strategy  domain.Strategy
}

// Sequence orders stops with a greedy nearest-neighbor heuristic.
//
// Each step moves to the pending stop with the minimum great-circle distance
// from the current position. Under StrategyFurthest with a start, the stop
// furthest from the start is visited first and the route works back from there.
// Pending stops are scanned in input order and the first stop at the minimum
// distance wins, so equal inputs always produce equal sequences.
//
// The distance filter and round trip only apply when start is non-nil. The
// function never fails: filtering out every stop yields just the start.
// It does not attempt global route optimization (e.g., VRP solvers).
func Sequence(stops []domain.ResolvedStop, start *domain.ResolvedStop, opts SequenceOptions) []domain.ResolvedStop {
	pending := make([]domain.ResolvedStop, len(stops))
	copy(pending, stops)

	route := make([]domain.ResolvedStop, 0, len(stops)+2)

	var current domain.ResolvedStop
	switch {
	case start != nil:
		current = *start
		route = append(route, current)

		if opts.MaxDistanceKm > 0 {
			pending = withinRadius(pending, *start, opts.MaxDistanceKm)
		}
	case len(pending) > 0:
		current = pending[0]
		pending = pending[1:]
		route = append(route, current)
	default:
		return route
	}

	if opts.Strategy == domain.StrategyFurthest && start != nil && len(pending) > 0 {
		idx := furthestFrom(pending, *start)
		current = pending[idx]
		pending = removeAt(pending, idx)
		route = append(route, current)
	}

	for len(pending) > 0 {
		idx := nearestTo(pending, current)
		current = pending[idx]
		pending = removeAt(pending, idx)
		route = append(route, current)
	}

	if opts.RoundTrip && start != nil {
		back := *start
		back.ID = domain.ReturnStopID
		back.ReturnToOrigin = true
		route = append(route, back)
	}

	return route
}

// FilteredOut returns the stops of before whose ids are absent from after,
// preserving the order of before.
func FilteredOut(before, after []domain.ResolvedStop) []domain.ResolvedStop {
	kept := make(map[int]struct{}, len(after))
	for _, s := range after {
		kept[s.ID] = struct{}{}
	}

	out := []domain.ResolvedStop{}
	for _, s := range before {
		if _, ok := kept[s.ID]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func withinRadius(stops []domain.ResolvedStop, origin domain.ResolvedStop, maxKm float64) []domain.ResolvedStop {
	out := make([]domain.ResolvedStop, 0, len(stops))
	for _, s := range stops {
		if domain.HaversineKm(origin.Coordinates(), s.Coordinates()) <= maxKm {
			out = append(out, s)
		}
	}
	return out
}

func nearestTo(stops []domain.ResolvedStop, from domain.ResolvedStop) int {
	best := -1
	minDist := math.Inf(1)
	for i, s := range stops {
		// Strict comparison keeps the first stop found at the minimum.
		if d := domain.HaversineKm(from.Coordinates(), s.Coordinates()); d < minDist {
			minDist = d
			best = i
		}
	}
	if best < 0 {
		// Only reachable with NaN coordinates; fall back to input order.
		return 0
	}
	return best
}

func furthestFrom(stops []domain.ResolvedStop, from domain.ResolvedStop) int {
	best := 0
	maxDist := -1.0
	for i, s := range stops {
		if d := domain.HaversineKm(from.Coordinates(), s.Coordinates()); d > maxDist {
			maxDist = d
			best = i
		}
	}
	return best
}

func removeAt(stops []domain.ResolvedStop, i int) []domain.ResolvedStop {
	out := make([]domain.ResolvedStop, 0, len(stops)-1)
	out = append(out, stops[:i]...)
	return append(out, stops[i+1:]...)
}
