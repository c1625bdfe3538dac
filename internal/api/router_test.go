package api

import (
	"bytes"
	"context"
	"encoding/json"
	"manifest-route-service/internal/adapters/cache"
	"manifest-route-service/internal/adapters/geocode"
	"manifest-route-service/internal/adapters/routing"
	"manifest-route-service/internal/api/dto"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"manifest-route-service/internal/ports"
	"manifest-route-service/internal/services"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idRecorder struct{ ids []string }

func (p *idRecorder) Plan(ctx context.Context, _ services.PlanRouteRequest) (*domain.RouteResult, error) {
	p.ids = append(p.ids, obs.RequestID(ctx))
	return &domain.RouteResult{}, nil
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewRouter(&idRecorder{}, dto.PipelineInfo{CacheBackend: "memory", Geocoder: "nominatim", Router: "osrm"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, dto.HealthResponse{
		Status:   "ok",
		Pipeline: dto.PipelineInfo{CacheBackend: "memory", Geocoder: "nominatim", Router: "osrm"},
	}, body)
}

func TestRequestIDPropagates(t *testing.T) {
	planner := &idRecorder{}
	h := NewRouter(planner, dto.PipelineInfo{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "m.txt")
	require.NoError(t, err)
	fw.Write([]byte("Acme - Main 100"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/routes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, []string{"abc-123"}, planner.ids)
}

func TestPlanRouteEndToEnd(t *testing.T) {
	g := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Depot 1, Argentina":  {Lat: -34.60, Lon: -58.40},
		"Main 100, Argentina": {Lat: -34.61, Lon: -58.40},
		"Main 200, Argentina": {Lat: -34.70, Lon: -58.40},
	})
	locale := services.Locale{Rules: []services.RewriteRule{services.CountryRule("Argentina")}}
	resolver := services.NewGeocodeResolver(g, cache.NewMemoryGeocodeStore(), locale, 0)
	router := routing.NewMockRoutingProvider(ports.RouteResponse{}, ports.ErrNoRoute)
	planner := services.NewRoutePlanner(resolver, services.NewPathAugmenter(router, 30), "")

	srv := httptest.NewServer(NewRouter(planner, dto.PipelineInfo{}))
	defer srv.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "manifest.txt")
	require.NoError(t, err)
	fw.Write([]byte("Far - Main 200\nNear - Main 100\nLost - Atlantis 1\n"))
	require.NoError(t, mw.WriteField("start_address", "Depot 1"))
	require.NoError(t, mw.WriteField("round_trip", "true"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/routes", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res dto.RouteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

	labels := make([]string, 0, len(res.Stops))
	for _, s := range res.Stops {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"Depot / Start", "Near", "Far", "Depot / Start"}, labels)
	assert.True(t, res.Stops[3].ReturnToOrigin)
	assert.True(t, res.Estimated)
	assert.Empty(t, res.Geometry)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Atlantis 1", res.Skipped[0].Address)
}
