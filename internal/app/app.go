// Package app is the composition root: it turns a Config into a wired
// RoutePlanner backed by concrete adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"manifest-route-service/internal/adapters/cache"
	"manifest-route-service/internal/adapters/geocode"
	"manifest-route-service/internal/adapters/routing"
	"manifest-route-service/internal/config"
	"manifest-route-service/internal/platform/db"
	"manifest-route-service/internal/ports"
	"manifest-route-service/internal/services"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// App holds the wired pipeline and the resources it owns.
type App struct {
	Planner *services.RoutePlanner
	Store   ports.GeocodeStore

	closers []func() error
}

// Close releases every resource opened by Build.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build wires the geocode cache, providers and planner selected by cfg.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	a := &App{Store: store, closers: []func() error{closeStore}}

	geocoder, err := newGeocoder(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build app: %w", err)
	}

	router, err := newRouter(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build app: %w", err)
	}

	resolver := services.NewGeocodeResolver(geocoder, store, Locale(), cfg.GeocodeMinInterval)
	augmenter := services.NewPathAugmenter(router, cfg.FallbackSpeedKmh)
	a.Planner = services.NewRoutePlanner(resolver, augmenter, cfg.DefaultRegionBias)

	log.Printf(
		"pipeline ready cache=%s geocoder=%s router=%s min_interval=%s",
		cfg.CacheBackend, cfg.Geocoder, cfg.Router, cfg.GeocodeMinInterval,
	)

	return a, nil
}

// Locale is the address normalization and rewrite cascade the pipeline runs with.
// Cache keys written by any tool must go through its Normalize.
func Locale() services.Locale {
	return services.ArgentinaLocale()
}

// OpenStore opens the geocode cache backend named by cfg.CacheBackend.
// SQL backends get their schema created on open.
func OpenStore(ctx context.Context, cfg config.Config) (ports.GeocodeStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CacheBackend {
	case "memory":
		return cache.NewMemoryGeocodeStore(), noop, nil

	case "file":
		return cache.NewFileGeocodeStore(cfg.CachePath), noop, nil

	case "sqlite", "postgres":
		conn, err := OpenSQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return cache.NewSQLGeocodeStore(conn), conn.Close, nil

	case "redis":
		client, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisGeocodeStore(client), client.Close, nil
	}

	return nil, nil, fmt.Errorf("open store: unknown cache backend %q", cfg.CacheBackend)
}

// OpenSQL connects to the SQL database for the sqlite or postgres backend.
func OpenSQL(cfg config.Config) (*sqlx.DB, error) {
	switch cfg.CacheBackend {
	case "sqlite":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("open sql: create dir %q: %w", dir, err)
			}
		}
		return db.Open("sqlite", cfg.DBPath)
	case "postgres":
		return db.Open("pgx", cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("open sql: cache backend %q is not SQL", cfg.CacheBackend)
}

func newGeocoder(cfg config.Config) (ports.Geocoder, error) {
	switch cfg.Geocoder {
	case "ors":
		return geocode.NewORSGeocoder(cfg.ORSAPIKey, cfg.ORSURL, cfg.GeocodeTimeout)
	case "nominatim":
		return geocode.NewNominatimGeocoder(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocodeTimeout)
	}
	return nil, fmt.Errorf("unknown geocoder %q", cfg.Geocoder)
}

func newRouter(cfg config.Config) (ports.RoutingProvider, error) {
	switch cfg.Router {
	case "ors":
		return routing.NewORSRoutingProvider(cfg.ORSAPIKey, cfg.ORSURL, cfg.RoutingProfile, cfg.RouteTimeout)
	case "osrm":
		return routing.NewOSRMRoutingProvider(cfg.OSRMURL, cfg.RoutingProfile, cfg.RouteTimeout), nil
	}
	return nil, fmt.Errorf("unknown router %q", cfg.Router)
}
