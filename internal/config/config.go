// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting needed to wire the planning pipeline.
type Config struct {
	Port string

	CacheBackend string
	CachePath    string
	DBPath       string
	DatabaseURL  string
	RedisURL     string

	Geocoder           string
	NominatimURL       string
	NominatimUserAgent string
	GeocodeMinInterval time.Duration
	GeocodeTimeout     time.Duration

	ORSAPIKey string
	ORSURL    string

	Router         string
	OSRMURL        string
	RouteTimeout   time.Duration
	RoutingProfile string

	DefaultRegionBias string
	FallbackSpeedKmh  float64
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Config{
		Port:               Get("PORT", "8080"),
		CacheBackend:       strings.ToLower(Get("CACHE_BACKEND", "file")),
		CachePath:          Get("CACHE_PATH", "data/geocode_cache.json"),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           Get("REDIS_URL", "redis://localhost:6379/0"),
		Geocoder:           strings.ToLower(Get("GEOCODER", "nominatim")),
		NominatimURL:       Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: Get("NOMINATIM_USER_AGENT", "manifest-route-service/1.0"),
		ORSAPIKey:          os.Getenv("ORS_API_KEY"),
		ORSURL:             Get("ORS_URL", "https://api.openrouteservice.org"),
		Router:             strings.ToLower(Get("ROUTER", "osrm")),
		OSRMURL:            Get("OSRM_URL", "http://router.project-osrm.org"),
		RoutingProfile:     Get("ROUTING_PROFILE", "driving"),
		DefaultRegionBias:  Get("DEFAULT_REGION_BIAS", "Argentina"),
	}

	var err error
	if cfg.GeocodeMinInterval, err = GetDuration("GEOCODE_MIN_INTERVAL", 1100*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.GeocodeTimeout, err = GetDuration("GEOCODE_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RouteTimeout, err = GetDuration("ROUTE_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FallbackSpeedKmh, err = GetFloat("FALLBACK_SPEED_KMH", 30); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects combinations that cannot be wired.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case "memory", "file", "sqlite", "redis":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required for CACHE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	switch c.Geocoder {
	case "nominatim":
		if strings.TrimSpace(c.NominatimUserAgent) == "" {
			return fmt.Errorf("config: NOMINATIM_USER_AGENT is required")
		}
	case "ors":
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			return fmt.Errorf("config: ORS_API_KEY is required for GEOCODER=ors")
		}
	default:
		return fmt.Errorf("config: unknown GEOCODER %q", c.Geocoder)
	}

	switch c.Router {
	case "osrm":
	case "ors":
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			return fmt.Errorf("config: ORS_API_KEY is required for ROUTER=ors")
		}
	default:
		return fmt.Errorf("config: unknown ROUTER %q", c.Router)
	}

	if c.FallbackSpeedKmh <= 0 {
		return fmt.Errorf("config: FALLBACK_SPEED_KMH must be positive")
	}

	return nil
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return d, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return f, nil
}
