package main

import (
	"bytes"
	"manifest-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRoute(t *testing.T) {
	res := &domain.RouteResult{
		Stops: []domain.RouteStop{
			{ResolvedStop: domain.ResolvedStop{ID: 0, Label: "Depot / Start", RawAddress: "Depot 1", Lat: -34.6, Lon: -58.4}},
			{
				ResolvedStop: domain.ResolvedStop{ID: 2, Label: "Acme", RawAddress: "Main 100", Lat: -34.61, Lon: -58.41},
				Leg:          domain.RouteLeg{FromID: 0, ToID: 2, DistanceKm: 1.5, DurationS: 180},
			},
		},
		Skipped:         []domain.SkippedStop{{Label: "Lost", RawAddress: "Atlantis 1", Reason: "not found"}},
		TotalDistanceKm: 1.5,
		TotalDurationS:  180,
		RegionBias:      "Buenos Aires, Argentina",
		Fallback:        true,
	}

	var buf bytes.Buffer
	require.NoError(t, printRoute(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "Depot / Start")
	assert.Contains(t, out, "Main 100")
	assert.Contains(t, out, "1.50")
	assert.Contains(t, out, "Total: 1.50 km, 3 min (straight-line estimate)")
	assert.Contains(t, out, "Region bias: Buenos Aires, Argentina")
	assert.Contains(t, out, "Lost: Atlantis 1 (not found)")
}

func TestPlanCommandFlags(t *testing.T) {
	f := planCmd.Flags()
	for _, name := range []string{"start", "max-distance", "start-row", "address-col", "round-trip", "strategy", "region-bias", "json"} {
		assert.NotNil(t, f.Lookup(name), "flag %q", name)
	}

	names := map[string]bool{}
	for _, c := range cacheCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["init"])
	assert.True(t, names["import"])
}
