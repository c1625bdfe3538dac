package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"manifest-route-service/internal/ports"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound is returned when every rewrite attempt for an address failed.
var ErrNotFound = errors.New("geocode: address not found")

// GeocodeResolver resolves free-text addresses through a cascade of query
// rewrites, a persistent cache and a rate-limited provider.
//
// Attempts for one address run strictly in sequence and stop at the first
// success. The limiter enforces the provider's minimum request interval across
// every call made through this resolver, so one resolver should be shared by
// all pipeline runs against the same provider.
type GeocodeResolver struct {
	geocoder ports.Geocoder
	store    ports.GeocodeStore
	locale   Locale
	limiter  *rate.Limiter
}

// NewGeocodeResolver builds a resolver. A minInterval <= 0 disables the rate floor.
func NewGeocodeResolver(
	geocoder ports.Geocoder,
	store ports.GeocodeStore,
	locale Locale,
	minInterval time.Duration,
) *GeocodeResolver {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &GeocodeResolver{
		geocoder: geocoder,
		store:    store,
		locale:   locale,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// CacheKey returns the normalized original address used as the cache key.
func (r *GeocodeResolver) CacheKey(address string) string {
	return r.locale.Normalize(address)
}

// Resolve geocodes one address. It returns ErrNotFound when the cascade is exhausted;
// provider failures on individual attempts are logged and never returned.
func (r *GeocodeResolver) Resolve(ctx context.Context, address, bias string) (domain.GeocodeResult, error) {
	key := r.CacheKey(address)
	if key == "" {
		return domain.GeocodeResult{}, fmt.Errorf("resolve %q: %w", address, ErrNotFound)
	}

	if r.store != nil {
		entry, ok, err := r.store.Get(ctx, key)
		if err != nil {
			log.Printf("req_id=%s geocode cache read failed key=%q err=%v", obs.RequestID(ctx), key, err)
		} else if ok {
			return entry.Result(), nil
		}
	}

	attempts := r.locale.Attempts(key, bias)
	for _, query := range attempts {
		if err := r.limiter.Wait(ctx); err != nil {
			return domain.GeocodeResult{}, fmt.Errorf("resolve %q: wait for rate limit: %w", address, err)
		}

		res, err := r.geocode(ctx, query)
		switch {
		case err == nil:
			r.remember(ctx, key, res)
			return res, nil
		case ctx.Err() != nil:
			return domain.GeocodeResult{}, fmt.Errorf("resolve %q: %w", address, ctx.Err())
		case errors.Is(err, ports.ErrNoResults):
			continue
		case errors.Is(err, ports.ErrTimeout):
			log.Printf("req_id=%s geocode timeout query=%q", obs.RequestID(ctx), query)
			continue
		default:
			log.Printf("req_id=%s geocode error query=%q err=%v", obs.RequestID(ctx), query, err)
			continue
		}
	}

	log.Printf("req_id=%s could not geocode address=%q attempts=%d", obs.RequestID(ctx), address, len(attempts))
	return domain.GeocodeResult{}, fmt.Errorf("resolve %q: %w", address, ErrNotFound)
}

func (r *GeocodeResolver) geocode(ctx context.Context, query string) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "geocode.provider")(&err)

	res, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		return domain.GeocodeResult{}, err
	}
	res.Query = query
	return res, nil
}

// remember persists a fresh result and flushes it right away; a failed write
// only costs a repeated provider call on a later run.
func (r *GeocodeResolver) remember(ctx context.Context, key string, res domain.GeocodeResult) {
	if r.store == nil {
		return
	}

	if err := r.store.Put(ctx, key, domain.NewGeocodeCacheEntry(res)); err != nil {
		log.Printf("req_id=%s geocode cache write failed key=%q err=%v", obs.RequestID(ctx), key, err)
		return
	}
	if err := r.store.Flush(ctx); err != nil {
		log.Printf("req_id=%s geocode cache flush failed err=%v", obs.RequestID(ctx), err)
	}
}

// GeocodeBatch is the outcome of resolving a whole manifest.
type GeocodeBatch struct {
	Resolved []domain.ResolvedStop
	Skipped  []domain.SkippedStop
}

// ResolveAll geocodes each distinct address once and projects the result back
// onto every stop sharing it. Stop ids are 1-based extraction positions.
// progress, when non-nil, is called after each distinct address.
func (r *GeocodeResolver) ResolveAll(
	ctx context.Context,
	stops []domain.RawStop,
	bias string,
	progress func(done, total int),
) (_ GeocodeBatch, err error) {
	defer obs.Time(ctx, "geocode.ResolveAll")(&err)

	keys := make([]string, len(stops))
	distinct := make([]string, 0, len(stops))
	firstAddress := make(map[string]string, len(stops))
	for i, s := range stops {
		key := r.CacheKey(s.RawAddress)
		keys[i] = key
		if key == "" {
			continue
		}
		if _, ok := firstAddress[key]; ok {
			continue
		}
		firstAddress[key] = s.RawAddress
		distinct = append(distinct, key)
	}

	results := make(map[string]domain.GeocodeResult, len(distinct))
	for i, key := range distinct {
		res, err := r.Resolve(ctx, firstAddress[key], bias)
		switch {
		case err == nil:
			results[key] = res
		case errors.Is(err, ErrNotFound):
		default:
			return GeocodeBatch{}, fmt.Errorf("resolve all: %w", err)
		}

		if progress != nil {
			progress(i+1, len(distinct))
		}
	}

	batch := GeocodeBatch{
		Resolved: make([]domain.ResolvedStop, 0, len(stops)),
		Skipped:  []domain.SkippedStop{},
	}
	for i, s := range stops {
		res, ok := results[keys[i]]
		if !ok {
			batch.Skipped = append(batch.Skipped, domain.SkippedStop{
				Label:      s.Label,
				RawAddress: s.RawAddress,
				Reason:     domain.ReasonNotFound,
			})
			continue
		}

		batch.Resolved = append(batch.Resolved, domain.ResolvedStop{
			ID:         i + 1,
			Label:      s.Label,
			RawAddress: strings.TrimSpace(s.RawAddress),
			Lat:        res.Lat,
			Lon:        res.Lon,
		})
	}

	log.Printf(
		"req_id=%s geocoded stops=%d distinct=%d resolved=%d skipped=%d",
		obs.RequestID(ctx), len(stops), len(distinct), len(batch.Resolved), len(batch.Skipped),
	)

	return batch, nil
}
