package services

import (
	"manifest-route-service/internal/domain"
	"math"
)

// degPerKm is the latitude change of one kilometre along a meridian.
var degPerKm = 180 / (math.Pi * domain.EarthRadiusKm)

func stopAt(id int, label string, kmNorth float64) domain.ResolvedStop {
	return domain.ResolvedStop{ID: id, Label: label, RawAddress: label, Lat: kmNorth * degPerKm, Lon: 0}
}

func coordsAt(kmNorth float64) domain.Coordinates {
	return domain.Coordinates{Lat: kmNorth * degPerKm, Lon: 0}
}

func testLocale() Locale {
	return Locale{
		Rules: []RewriteRule{
			BiasRule(),
			CountryRule("Argentina"),
			BareRule(),
		},
	}
}

func ids(stops []domain.ResolvedStop) []int {
	out := make([]int, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.ID)
	}
	return out
}
