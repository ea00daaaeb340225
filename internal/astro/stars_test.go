package astro

import (
	"math"
	"testing"
	"time"
)

func TestDefaultStarCatalog(t *testing.T) {
	cat := DefaultStarCatalog()
	if len(cat.Stars) < 50 {
		t.Fatalf("expected at least 50 stars, got %d", len(cat.Stars))
	}
	for _, s := range cat.Stars {
		if s.Arabic == "" {
			t.Errorf("%s has no Arabic name", s.Name)
		}
		if s.RAdeg < 0 || s.RAdeg >= 360 || s.DecDeg < -90 || s.DecDeg > 90 {
			t.Errorf("%s out of range: RA=%v Dec=%v", s.Name, s.RAdeg, s.DecDeg)
		}
	}
}

func TestStarLookup(t *testing.T) {
	cat := DefaultStarCatalog()
	tests := []struct {
		query string
		want  string
	}{
		{"Sirius", "Sirius"},
		{"suhayl", "Canopus"},
		{"Qalb al-Asad", "Regulus"},
		{"al-Jady", "Polaris"},
	}
	for _, tt := range tests {
		s, ok := cat.Lookup(tt.query)
		if !ok || s.Name != tt.want {
			t.Errorf("Lookup(%q) = %v, %v; want %s", tt.query, s.Name, ok, tt.want)
		}
	}
	if _, ok := cat.Lookup("Krypton"); ok {
		t.Error("unknown star should not be found")
	}
}

func TestAboveHorizon(t *testing.T) {
	cat := DefaultStarCatalog()
	at := time.Date(2024, 1, 25, 22, 0, 0, 0, time.UTC)
	visible := cat.AboveHorizon(Dakar, at)
	if len(visible) == 0 {
		t.Fatal("no stars above the horizon at night")
	}
	for i, v := range visible {
		if v.ElDeg <= 0 {
			t.Errorf("%s below horizon: %v", v.Name, v.ElDeg)
		}
		if i > 0 && v.Mag < visible[i-1].Mag {
			t.Errorf("%s (%.2f) listed after fainter %s", v.Name, v.Mag, visible[i-1].Name)
		}
	}

	// The pole star sits at roughly the observer's latitude.
	var polaris *VisibleStar
	for i := range visible {
		if visible[i].Name == "Polaris" {
			polaris = &visible[i]
		}
	}
	if polaris == nil {
		t.Fatal("Polaris should be visible from Dakar")
	}
	if math.Abs(polaris.ElDeg-Dakar.Latitude) > 1.5 {
		t.Errorf("Polaris elevation = %.2f, want about %.2f", polaris.ElDeg, Dakar.Latitude)
	}

	// From the south pole the pole star never rises.
	south := GeoCoordinate{Latitude: -89, Longitude: 0}
	for _, v := range cat.AboveHorizon(south, at) {
		if v.Name == "Polaris" {
			t.Error("Polaris visible from the south pole")
		}
	}
}
