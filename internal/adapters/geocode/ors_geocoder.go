package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/httpx"
	"manifest-route-service/internal/ports"
	"net/http"
	"strings"
	"time"
)

const DefaultORSURL = "https://api.openrouteservice.org"

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label    string `json:"label"`
			Locality string `json:"locality"`
			Region   string `json:"region"`
			Country  string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder resolves queries with OpenRouteService (/geocode/search).
// It sends one request per call and never retries.
type ORSGeocoder struct {
	client  *httpx.Client
	baseURL string
}

func NewORSGeocoder(apiKey, baseURL string, timeout time.Duration) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSURL
	}

	return &ORSGeocoder{
		client:  httpx.New(timeout, 1, map[string]string{"Authorization": apiKey}),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, query string) (domain.GeocodeResult, error) {
	endpoint := o.baseURL + "/geocode/search"

	req, err := o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("ORS geocode %q: %w", query, err)
	}
	q := req.URL.Query()
	q.Set("text", query)
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := o.client.Do(req)
	if err != nil {
		if httpx.IsTimeout(err) {
			return domain.GeocodeResult{}, fmt.Errorf("ORS geocode %q: %w", query, ports.ErrTimeout)
		}
		return domain.GeocodeResult{}, fmt.Errorf("ORS geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded orsGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.GeocodeResult{}, fmt.Errorf("ORS geocode %q: %w", query, ports.ErrNoResults)
	}

	f := decoded.Features[0]
	coords := f.Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeocodeResult{}, fmt.Errorf("invalid coordinate format for %q", query)
	}

	details := map[string]string{}
	for k, v := range map[string]string{
		"city":         f.Properties.Locality,
		"state":        f.Properties.Region,
		"country":      f.Properties.Country,
		"display_name": f.Properties.Label,
	} {
		if v != "" {
			details[k] = v
		}
	}

	return domain.GeocodeResult{
		Query:   query,
		Lon:     coords[0],
		Lat:     coords[1],
		Details: details,
	}, nil
}
