package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"strings"
)

// ErrInvalidRequest marks caller-facing validation failures. They reject the
// whole request before any stage runs and are never retried.
var ErrInvalidRequest = errors.New("invalid request")

const startLabel = "Depot / Start"

type PlanRouteRequest struct {
	Document      domain.Document
	StartAddress  string
	MaxDistanceKm float64
	RoundTrip     bool
	Strategy      domain.Strategy
	// Explicit region bias; when empty it is derived from the start address.
	RegionBias string
	// Called after each distinct address is geocoded.
	OnGeocodeProgress func(done, total int)
}

// RoutePlanner runs extraction, geocoding, sequencing and path augmentation
// for one manifest. Stages run sequentially; only geocoding and routing do I/O.
type RoutePlanner struct {
	Extractor         *Extractor
	Resolver          *GeocodeResolver
	Augmenter         *PathAugmenter
	DefaultRegionBias string
}

func NewRoutePlanner(resolver *GeocodeResolver, augmenter *PathAugmenter, defaultBias string) *RoutePlanner {
	return &RoutePlanner{
		Extractor:         NewExtractor(),
		Resolver:          resolver,
		Augmenter:         augmenter,
		DefaultRegionBias: defaultBias,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func (req PlanRouteRequest) validate() error {
	if req.MaxDistanceKm < 0 {
		return invalid("max distance must be positive")
	}
	if req.MaxDistanceKm > 0 && strings.TrimSpace(req.StartAddress) == "" {
		return invalid("start address is required when using a max distance filter")
	}
	switch req.Strategy {
	case "", domain.StrategyNearest, domain.StrategyFurthest:
	default:
		return invalid("unknown strategy %q", req.Strategy)
	}
	return nil
}

// Plan returns a best-effort route plus every stop that could not be routed.
// Only validation failures (wrapping ErrInvalidRequest) and context
// cancellation abort the run.
func (p *RoutePlanner) Plan(ctx context.Context, req PlanRouteRequest) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "plan.route")(&err)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	raw := p.Extractor.Extract(req.Document)
	if len(raw) == 0 {
		return nil, fmt.Errorf("plan route: %w", invalid("no addresses found in document"))
	}
	log.Printf("req_id=%s extracted kind=%s stops=%d", obs.RequestID(ctx), req.Document.Kind, len(raw))

	var start *domain.ResolvedStop
	bias := strings.TrimSpace(req.RegionBias)
	derivedBias := p.DefaultRegionBias

	if addr := strings.TrimSpace(req.StartAddress); addr != "" {
		res, err := p.Resolver.Resolve(ctx, addr, "")
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("plan route: %w", invalid("could not geocode start address: %s", addr))
		}
		if err != nil {
			return nil, fmt.Errorf("plan route: geocode start: %w", err)
		}

		start = &domain.ResolvedStop{
			ID:         domain.StartStopID,
			Label:      startLabel,
			RawAddress: addr,
			Lat:        res.Lat,
			Lon:        res.Lon,
		}
		if b := domain.RegionBias(res.Details); b != "" {
			derivedBias = b
			log.Printf("req_id=%s detected region bias=%q", obs.RequestID(ctx), b)
		}
	}
	if bias == "" {
		bias = derivedBias
	}

	batch, err := p.Resolver.ResolveAll(ctx, raw, bias, req.OnGeocodeProgress)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyNearest
	}
	ordered := Sequence(batch.Resolved, start, SequenceOptions{
		MaxDistanceKm: req.MaxDistanceKm,
		RoundTrip:     req.RoundTrip,
		Strategy:      strategy,
	})

	skipped := batch.Skipped
	for _, s := range FilteredOut(batch.Resolved, ordered) {
		skipped = append(skipped, domain.SkippedStop{
			Label:      s.Label,
			RawAddress: s.RawAddress,
			Reason:     fmt.Sprintf("%s (%g km)", domain.ReasonExceedsMaxDistance, req.MaxDistanceKm),
		})
	}

	aug := p.Augmenter.Augment(ctx, ordered)

	stops := make([]domain.RouteStop, 0, len(ordered))
	for i, s := range ordered {
		rs := domain.RouteStop{ResolvedStop: s, Leg: domain.RouteLeg{FromID: s.ID, ToID: s.ID}}
		// Leg i ends at stop i+1; the first stop keeps a zero leg.
		if i > 0 && i-1 < len(aug.Legs) {
			rs.Leg = aug.Legs[i-1]
		}
		stops = append(stops, rs)
	}

	return &domain.RouteResult{
		Stops:           stops,
		Skipped:         skipped,
		TotalDistanceKm: aug.TotalDistanceKm,
		TotalDurationS:  aug.TotalDurationS,
		Geometry:        aug.Geometry,
		RegionBias:      bias,
		Fallback:        aug.Fallback,
	}, nil
}
