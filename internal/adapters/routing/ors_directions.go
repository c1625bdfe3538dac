package routing

import (
	"bytes"
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

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry   json.RawMessage `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSRoutingProvider requests routes from the OpenRouteService directions endpoint.
type ORSRoutingProvider struct {
	client  *httpx.Client
	baseURL string
	profile string
}

func NewORSRoutingProvider(apiKey, baseURL, profile string, timeout time.Duration) (*ORSRoutingProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSURL
	}
	if profile == "" || profile == "driving" {
		profile = "driving-car"
	}

	return &ORSRoutingProvider{
		client:  httpx.New(timeout, 4, map[string]string{"Authorization": apiKey}),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}, nil
}

func (o *ORSRoutingProvider) Route(ctx context.Context, coords []domain.Coordinates) (ports.RouteResponse, error) {
	if len(coords) < 2 {
		return ports.RouteResponse{}, fmt.Errorf("ORS route: need at least 2 coordinates, got %d", len(coords))
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(coords))
	for _, c := range coords {
		locations = append(locations, c.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: locations})
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.client.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		if httpx.IsTimeout(err) {
			return ports.RouteResponse{}, fmt.Errorf("ORS route: %w", ports.ErrTimeout)
		}
		return ports.RouteResponse{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteResponse{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.RouteResponse{}, fmt.Errorf("ORS route: %w", ports.ErrNoRoute)
	}

	f := dr.Features[0]
	legs := make([]ports.LegMetrics, 0, len(f.Properties.Segments))
	for _, s := range f.Properties.Segments {
		legs = append(legs, ports.LegMetrics{DistanceMeters: s.Distance, DurationSeconds: s.Duration})
	}

	return ports.RouteResponse{
		Geometry:        string(f.Geometry),
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
		Legs:            legs,
	}, nil
}
