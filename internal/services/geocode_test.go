package services

import (
	"context"
	"errors"
	"manifest-route-service/internal/adapters/cache"
	"manifest-route-service/internal/adapters/geocode"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{ puts int }

func (s *brokenStore) Get(context.Context, string) (domain.GeocodeCacheEntry, bool, error) {
	return domain.GeocodeCacheEntry{}, false, errors.New("disk on fire")
}

func (s *brokenStore) Put(context.Context, string, domain.GeocodeCacheEntry) error {
	s.puts++
	return errors.New("disk on fire")
}

func (s *brokenStore) Flush(context.Context) error { return nil }

func TestResolveStopsAtFirstSuccess(t *testing.T) {
	g := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Main 100, Argentina": {Lat: -34.6, Lon: -58.4},
		"Main 100":            {Lat: 1, Lon: 1},
	})
	store := cache.NewMemoryGeocodeStore()
	r := NewGeocodeResolver(g, store, testLocale(), 0)

	res, err := r.Resolve(context.Background(), "  Main   100 ", "Springfield")
	require.NoError(t, err)

	assert.Equal(t, -34.6, res.Lat)
	assert.Equal(t, "Main 100, Argentina", res.Query)
	assert.Equal(t, []string{"Main 100, Springfield", "Main 100, Argentina"}, g.Calls())

	entry, ok, err := store.Get(context.Background(), "Main 100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Main 100, Argentina", entry.NormalizedQuery)
}

func TestResolveCacheHitIsIdempotent(t *testing.T) {
	g := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Main 100, Argentina": {Lat: -34.6, Lon: -58.4},
	})
	r := NewGeocodeResolver(g, cache.NewMemoryGeocodeStore(), testLocale(), 0)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Main 100", "")
	require.NoError(t, err)
	calls := len(g.Calls())

	second, err := r.Resolve(ctx, "Main  100", "")
	require.NoError(t, err)

	assert.Equal(t, first.Lat, second.Lat)
	assert.Equal(t, first.Lon, second.Lon)
	assert.Len(t, g.Calls(), calls, "cache hit must not reach the provider")
}

func TestResolveContinuesPastProviderFailures(t *testing.T) {
	g := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Main 100": {Lat: 2, Lon: 3},
	})
	g.FailWith("Main 100, Springfield", ports.ErrTimeout)
	g.FailWith("Main 100, Argentina", errors.New("502 bad gateway"))

	r := NewGeocodeResolver(g, nil, testLocale(), 0)
	res, err := r.Resolve(context.Background(), "Main 100", "Springfield")
	require.NoError(t, err)

	assert.Equal(t, domain.Coordinates{Lat: 2, Lon: 3}, res.Coordinates())
	assert.Len(t, g.Calls(), 3)
}

func TestResolveNotFound(t *testing.T) {
	g := geocode.NewMockGeocoder(nil)
	r := NewGeocodeResolver(g, cache.NewMemoryGeocodeStore(), testLocale(), 0)

	_, err := r.Resolve(context.Background(), "Nowhere 1", "Springfield")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"Nowhere 1, Springfield", "Nowhere 1, Argentina", "Nowhere 1"}, g.Calls())

	_, err = r.Resolve(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveCancelledContext(t *testing.T) {
	g := geocode.NewMockGeocoder(nil)
	r := NewGeocodeResolver(g, nil, testLocale(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "Main 100", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Empty(t, g.Calls())
}

func TestResolveSurvivesBrokenStore(t *testing.T) {
	g := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Main 100, Argentina": {Lat: -34.6, Lon: -58.4},
	})
	store := &brokenStore{}
	r := NewGeocodeResolver(g, store, testLocale(), 0)

	res, err := r.Resolve(context.Background(), "Main 100", "")
	require.NoError(t, err)
	assert.Equal(t, -34.6, res.Lat)
	assert.Equal(t, 1, store.puts)
}

func TestResolveRespectsMinInterval(t *testing.T) {
	g := geocode.NewMockGeocoder(nil)
	r := NewGeocodeResolver(g, nil, testLocale(), 30*time.Millisecond)

	begin := time.Now()
	_, err := r.Resolve(context.Background(), "Nowhere 1", "Springfield")
	require.ErrorIs(t, err, ErrNotFound)

	// Three attempts: the first is immediate, the next two wait for the limiter.
	assert.GreaterOrEqual(t, time.Since(begin), 55*time.Millisecond)
}

func TestResolveAllDeduplicatesAndAccountsForEveryStop(t *testing.T) {
	g := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Main 100, Argentina": {Lat: -34.6, Lon: -58.4},
		"Main 200, Argentina": {Lat: -34.7, Lon: -58.5},
	})
	r := NewGeocodeResolver(g, cache.NewMemoryGeocodeStore(), testLocale(), 0)

	raw := []domain.RawStop{
		{Label: "A", RawAddress: "Main 100"},
		{Label: "B", RawAddress: "Nowhere 1"},
		{Label: "C", RawAddress: " Main   100"},
		{Label: "D", RawAddress: "Main 200"},
	}

	var progress [][2]int
	batch, err := r.ResolveAll(context.Background(), raw, "", func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, len(raw), len(batch.Resolved)+len(batch.Skipped))
	assert.Equal(t, []int{1, 3, 4}, ids(batch.Resolved))
	assert.Equal(t, batch.Resolved[0].Lat, batch.Resolved[1].Lat)
	assert.Equal(t, "Main   100", batch.Resolved[1].RawAddress)

	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, domain.SkippedStop{Label: "B", RawAddress: "Nowhere 1", Reason: domain.ReasonNotFound}, batch.Skipped[0])

	// "Main 100" is geocoded once despite appearing twice.
	n := 0
	for _, c := range g.Calls() {
		if c == "Main 100, Argentina" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
}

func TestResolveKeepsMinIntervalWhenProviderThrottles(t *testing.T) {
	const minInterval = 500 * time.Millisecond

	var (
		mu   sync.Mutex
		seen []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, time.Now())
		first := len(seen) == 1
		mu.Unlock()

		if first {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "-34.6", "lon": "-58.4", "address": {"country": "Argentina"}}]`))
	}))
	defer srv.Close()

	g, err := geocode.NewNominatimGeocoder(srv.URL, "manifest-route-test", time.Second)
	require.NoError(t, err)
	r := NewGeocodeResolver(g, nil, testLocale(), minInterval)

	res, err := r.Resolve(context.Background(), "Main 100", "Springfield")
	require.NoError(t, err)
	assert.Equal(t, "Main 100, Argentina", res.Query)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	// Allow for scheduling jitter between the limiter and the server clock.
	assert.GreaterOrEqual(t, seen[1].Sub(seen[0]), minInterval-50*time.Millisecond)
}
