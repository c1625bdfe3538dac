package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQLGeocodeStore is a SQL-backed cache mapping normalized addresses to coordinates.
// It works against SQLite ("sqlite") and Postgres ("pgx"); placeholders are
// rebound per driver and both dialects accept the ON CONFLICT upsert.
type SQLGeocodeStore struct {
	DB *sqlx.DB
}

func NewSQLGeocodeStore(db *sqlx.DB) *SQLGeocodeStore {
	return &SQLGeocodeStore{DB: db}
}

type geocodeRow struct {
	Address string  `db:"address"`
	Query   string  `db:"query"`
	Lat     float64 `db:"lat"`
	Lon     float64 `db:"lon"`
	Details string  `db:"details"`
}

func (s *SQLGeocodeStore) Get(ctx context.Context, key string) (_ domain.GeocodeCacheEntry, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.GeocodeCacheEntry{}, false, errors.New("geocode cache: db is nil")
	}

	q := s.DB.Rebind(`
	SELECT address, query, lat, lon, details
	FROM geocode_cache
	WHERE address = ?;
	`)

	var row geocodeRow
	if err := s.DB.GetContext(ctx, &row, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GeocodeCacheEntry{}, false, nil
		}
		return domain.GeocodeCacheEntry{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	entry := domain.GeocodeCacheEntry{
		NormalizedQuery: row.Query,
		Latitude:        row.Lat,
		Longitude:       row.Lon,
	}
	if row.Details != "" {
		if err := json.Unmarshal([]byte(row.Details), &entry.RawProviderFields); err != nil {
			return domain.GeocodeCacheEntry{}, false, fmt.Errorf("get geocode cache: decode details for %q: %w", key, err)
		}
	}

	return entry, true, nil
}

func (s *SQLGeocodeStore) Put(ctx context.Context, key string, entry domain.GeocodeCacheEntry) (err error) {
	defer obs.Time(ctx, "geocode.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert geocode cache: empty address key")
	}

	details := ""
	if len(entry.RawProviderFields) > 0 {
		b, err := json.Marshal(entry.RawProviderFields)
		if err != nil {
			return fmt.Errorf("insert geocode cache: encode details: %w", err)
		}
		details = string(b)
	}

	q := s.DB.Rebind(`
	INSERT INTO geocode_cache (address, query, lat, lon, details)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET query = excluded.query,
		lat = excluded.lat,
		lon = excluded.lon,
		details = excluded.details;
	`)

	if _, err := s.DB.ExecContext(ctx, q, key, entry.NormalizedQuery, entry.Latitude, entry.Longitude, details); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", key, err)
	}

	return nil
}

// Flush is a no-op: every Put is committed on its own.
func (s *SQLGeocodeStore) Flush(context.Context) error { return nil }
