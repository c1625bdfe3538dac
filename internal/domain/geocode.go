package domain

import "strings"

// Outcome of a single successful geocoding request.
type GeocodeResult struct {
	Query   string
	Lat     float64
	Lon     float64
	Details map[string]string
}

func (r GeocodeResult) Coordinates() Coordinates {
	return Coordinates{Lon: r.Lon, Lat: r.Lat}
}

// Persisted geocoding outcome, keyed by the normalized original address.
// Entries are never invalidated automatically.
type GeocodeCacheEntry struct {
	NormalizedQuery   string            `json:"normalized_query"`
	Latitude          float64           `json:"latitude"`
	Longitude         float64           `json:"longitude"`
	RawProviderFields map[string]string `json:"raw_provider_fields,omitempty"`
}

func (e GeocodeCacheEntry) Result() GeocodeResult {
	return GeocodeResult{
		Query:   e.NormalizedQuery,
		Lat:     e.Latitude,
		Lon:     e.Longitude,
		Details: e.RawProviderFields,
	}
}

func NewGeocodeCacheEntry(r GeocodeResult) GeocodeCacheEntry {
	return GeocodeCacheEntry{
		NormalizedQuery:   r.Query,
		Latitude:          r.Lat,
		Longitude:         r.Lon,
		RawProviderFields: r.Details,
	}
}

// RegionBias builds a "city, state, country" hint from provider address details.
// Missing components are omitted; an empty string means no usable context.
func RegionBias(details map[string]string) string {
	components := make([]string, 0, 3)

	if city := strings.TrimSpace(details["city"]); city != "" {
		components = append(components, city)
	} else if town := strings.TrimSpace(details["town"]); town != "" {
		components = append(components, town)
	}

	for _, key := range []string{"state", "country"} {
		if v := strings.TrimSpace(details[key]); v != "" {
			components = append(components, v)
		}
	}

	return strings.Join(components, ", ")
}
