package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFoldText(t *testing.T) {
	assert.Equal(t, "ciudad autonoma", FoldText("  Ciudad AUTÓNOMA "))
	assert.Equal(t, "san martin", FoldText("San Martín"))
}

func TestArgentinaNormalize(t *testing.T) {
	l := ArgentinaLocale()

	tests := []struct {
		in   string
		want string
	}{
		{in: "  Av.   Corrientes  1234 ", want: "Avenida Corrientes 1234"},
		{in: "AV Cabildo 2000", want: "Avenida Cabildo 2000"},
		{in: "Corrientes 1234", want: "Avenida Corrientes 1234"},
		{in: "San Martin 500", want: "Avenida San Martín 500"},
		{in: "Gral. Paz 100", want: "General Paz 100"},
		{in: "Gaona 2759, CABA", want: "Gaona 2759, Ciudad Autónoma de Buenos Aires"},
		{in: "Gaona 2759 C.A.B.A.", want: "Gaona 2759 Ciudad Autónoma de Buenos Aires"},
		{in: "Caballito 12 CABALLITO", want: "Caballito 12 CABALLITO"},
		{in: "Gaona 2759", want: "Gaona 2759"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestArgentinaAttempts(t *testing.T) {
	l := ArgentinaLocale()

	got := l.Attempts("Gaona 2759", "Buenos Aires, Argentina")
	want := []string{
		"Gaona 2759, Buenos Aires, Argentina",
		"Gaona 2759, Ciudad Autónoma de Buenos Aires, Argentina",
		"Gaona 2759, Argentina",
		"Calle Gaona 2759, Ciudad Autónoma de Buenos Aires",
		"Gaona 2759",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestArgentinaAttemptsCanonicalBias(t *testing.T) {
	got := ArgentinaLocale().Attempts("Gaona 2759", "Ciudad Autónoma de Buenos Aires, Argentina")

	// The canonical city name stands in for the raw bias.
	want := []string{
		"Gaona 2759, Ciudad Autónoma de Buenos Aires",
		"Gaona 2759, Ciudad Autónoma de Buenos Aires, Argentina",
		"Gaona 2759, Argentina",
		"Calle Gaona 2759, Ciudad Autónoma de Buenos Aires",
		"Gaona 2759",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestArgentinaAttemptsSanMartin(t *testing.T) {
	got := ArgentinaLocale().Attempts("Avenida San Martín 500", "")

	assert.Contains(t, got, "Avenida San Martín 500, General San Martín, Buenos Aires")
	assert.Contains(t, got, "Avenida San Martín 500, Villa Devoto, Buenos Aires")
	assert.Equal(t, "Avenida San Martín 500", got[len(got)-1])
}

func TestAttemptsSkipsBiasAlreadyMentioned(t *testing.T) {
	got := testLocale().Attempts("Main 100, Springfield", "springfield")
	assert.Equal(t, []string{"Main 100, Springfield, Argentina", "Main 100, Springfield"}, got)
}

func TestAttemptsDeduplicatesAndDropsEmpty(t *testing.T) {
	l := Locale{Rules: []RewriteRule{
		BareRule(),
		{Name: "empty", Rewrite: func(string, string) string { return "  " }},
		CountryRule("Argentina"),
		BareRule(),
	}}

	assert.Equal(t, []string{"Gaona 2759, Argentina"}, l.Attempts("Gaona 2759, Argentina", ""))
}
