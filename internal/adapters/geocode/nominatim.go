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
	"strconv"
	"strings"
	"time"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type nominatimPlace struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// NominatimGeocoder implements Geocoder against an OpenStreetMap Nominatim instance.
//
// Nominatim's usage policy requires an identifying User-Agent and at most one
// request per second. Each Geocode call is a single request: the caller owns
// both the rate floor and the retry cascade.
type NominatimGeocoder struct {
	client  *httpx.Client
	baseURL string
}

func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration) (*NominatimGeocoder, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	client := httpx.New(timeout, 1, map[string]string{"User-Agent": userAgent})
	return &NominatimGeocoder{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (n *NominatimGeocoder) Geocode(ctx context.Context, query string) (domain.GeocodeResult, error) {
	endpoint := n.baseURL + "/search"

	req, err := n.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: %w", query, err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := n.client.Do(req)
	if err != nil {
		if httpx.IsTimeout(err) {
			return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: %w", query, ports.ErrTimeout)
		}
		return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: %w", query, err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		if httpx.IsTimeout(err) {
			return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: %w", query, ports.ErrTimeout)
		}
		return domain.GeocodeResult{}, fmt.Errorf("decode nominatim response: %w", err)
	}

	if len(places) == 0 {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: %w", query, ports.ErrNoResults)
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: invalid lat %q: %w", query, p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim %q: invalid lon %q: %w", query, p.Lon, err)
	}

	details := make(map[string]string, len(p.Address)+1)
	for k, v := range p.Address {
		details[k] = v
	}
	if p.DisplayName != "" {
		details["display_name"] = p.DisplayName
	}

	return domain.GeocodeResult{
		Query:   query,
		Lat:     lat,
		Lon:     lon,
		Details: details,
	}, nil
}
