package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/ports"
	"os"
	"sort"
	"strings"
)

// ImportEntries seeds store from a flat-file cache (the FileGeocodeStore format).
// Keys are passed through normalize so they match the keys the resolver looks up;
// when several file keys normalize to one, the first in sorted order is kept.
// A nil normalize stores keys as written. It returns the number of entries written.
func ImportEntries(
	ctx context.Context,
	store ports.GeocodeStore,
	jsonPath string,
	normalize func(string) string,
) (int, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("import geocode cache: read %q: %w", jsonPath, err)
	}

	var data map[string]domain.GeocodeCacheEntry
	if err := json.Unmarshal(b, &data); err != nil {
		return 0, fmt.Errorf("import geocode cache: parse json: %w", err)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := 0
	written := make(map[string]bool, len(keys))
	for _, raw := range keys {
		k := raw
		if normalize != nil {
			k = normalize(raw)
		}
		if strings.TrimSpace(k) == "" {
			return n, fmt.Errorf("import geocode cache: empty address key %q", raw)
		}
		if written[k] {
			continue
		}
		e := data[raw]
		if e.Latitude < -90 || e.Latitude > 90 || e.Longitude < -180 || e.Longitude > 180 {
			return n, fmt.Errorf("import geocode cache: %q has out-of-range coordinates", k)
		}
		if err := store.Put(ctx, k, e); err != nil {
			return n, fmt.Errorf("import geocode cache: %w", err)
		}
		written[k] = true
		n++
	}

	if err := store.Flush(ctx); err != nil {
		return n, fmt.Errorf("import geocode cache: flush: %w", err)
	}
	return n, nil
}
