package domain

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	buenosAires := Coordinates{Lon: -58.3816, Lat: -34.6037}
	montevideo := Coordinates{Lon: -56.1645, Lat: -34.9011}

	got := HaversineKm(buenosAires, montevideo)
	if math.Abs(got-205.2) > 0.5 {
		t.Fatalf("distance = %.2f km, want ~205.2 km", got)
	}

	if d := HaversineKm(buenosAires, buenosAires); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}

	if a, b := HaversineKm(buenosAires, montevideo), HaversineKm(montevideo, buenosAires); math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"":          StrategyNearest,
		"nearest":   StrategyNearest,
		" Furthest": StrategyFurthest,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		if err != nil {
			t.Fatalf("ParseStrategy(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseStrategy("random"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestRegionBias(t *testing.T) {
	got := RegionBias(map[string]string{
		"town":    "Ramos Mejía",
		"state":   "Buenos Aires",
		"country": "Argentina",
	})
	if got != "Ramos Mejía, Buenos Aires, Argentina" {
		t.Fatalf("bias = %q", got)
	}

	got = RegionBias(map[string]string{"city": "Rosario", "town": "ignored", "country": "Argentina"})
	if got != "Rosario, Argentina" {
		t.Fatalf("bias = %q", got)
	}

	if got := RegionBias(nil); got != "" {
		t.Fatalf("bias from nil details = %q, want empty", got)
	}
}

func TestGeocodeCacheEntryRoundTrip(t *testing.T) {
	r := GeocodeResult{Query: "Avenida Gaona 2759, Argentina", Lat: -34.61, Lon: -58.47, Details: map[string]string{"city": "Buenos Aires"}}

	back := NewGeocodeCacheEntry(r).Result()
	if back.Query != r.Query || back.Lat != r.Lat || back.Lon != r.Lon || back.Details["city"] != "Buenos Aires" {
		t.Fatalf("entry round trip = %+v, want %+v", back, r)
	}
}
