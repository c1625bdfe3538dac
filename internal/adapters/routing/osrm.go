package routing

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

const DefaultOSRMURL = "https://router.project-osrm.org"

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry json.RawMessage `json:"geometry"`
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Legs     []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// OSRMRoutingProvider requests a full-overview GeoJSON route from an OSRM server.
type OSRMRoutingProvider struct {
	client  *httpx.Client
	baseURL string
	profile string
}

func NewOSRMRoutingProvider(baseURL, profile string, timeout time.Duration) *OSRMRoutingProvider {
	if baseURL == "" {
		baseURL = DefaultOSRMURL
	}
	if profile == "" {
		profile = "driving"
	}

	return &OSRMRoutingProvider{
		client:  httpx.New(timeout, 3, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}
}

// coordinatePath renders "lon,lat;lon,lat;..." as OSRM expects in the URL path.
func coordinatePath(coords []domain.Coordinates) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts,
			strconv.FormatFloat(c.Lon, 'f', 6, 64)+","+strconv.FormatFloat(c.Lat, 'f', 6, 64),
		)
	}
	return strings.Join(parts, ";")
}

func (o *OSRMRoutingProvider) Route(ctx context.Context, coords []domain.Coordinates) (ports.RouteResponse, error) {
	if len(coords) < 2 {
		return ports.RouteResponse{}, fmt.Errorf("OSRM route: need at least 2 coordinates, got %d", len(coords))
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, coordinatePath(coords))

	resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && strings.Contains(se.Body, "NoRoute") {
			return ports.RouteResponse{}, fmt.Errorf("OSRM route: %w", ports.ErrNoRoute)
		}
		if httpx.IsTimeout(err) {
			return ports.RouteResponse{}, fmt.Errorf("OSRM route: %w", ports.ErrTimeout)
		}
		return ports.RouteResponse{}, fmt.Errorf("OSRM route: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResponse{}, fmt.Errorf("decode OSRM response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return ports.RouteResponse{}, fmt.Errorf("OSRM route code=%q %s: %w", decoded.Code, decoded.Message, ports.ErrNoRoute)
	}

	r := decoded.Routes[0]
	legs := make([]ports.LegMetrics, 0, len(r.Legs))
	for _, l := range r.Legs {
		legs = append(legs, ports.LegMetrics{DistanceMeters: l.Distance, DurationSeconds: l.Duration})
	}

	return ports.RouteResponse{
		Geometry:        string(r.Geometry),
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Legs:            legs,
	}, nil
}
