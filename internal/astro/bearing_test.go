package astro

import (
	"errors"
	"math"
	"testing"
)

func TestComputeBearing(t *testing.T) {
	tests := []struct {
		name     string
		observer GeoCoordinate
		target   GeoCoordinate
		want     Bearing
	}{
		{"dakar to mecca", Dakar, Mecca, 74},
		{"due east on the equator", GeoCoordinate{0, 0}, GeoCoordinate{0, 90}, 90},
		{"due west on the equator", GeoCoordinate{0, 0}, GeoCoordinate{0, -90}, 270},
		{"due north", GeoCoordinate{0, 0}, GeoCoordinate{10, 0}, 0},
		{"due south", GeoCoordinate{10, 0}, GeoCoordinate{0, 0}, 180},
		{"rounds up to north", GeoCoordinate{0, 0}, GeoCoordinate{60, -0.5}, 0},
		{"same point", Mecca, Mecca, 0},
		{"antimeridian written both ways", GeoCoordinate{10, 180}, GeoCoordinate{10, -180}, 0},
		{"north pole at two longitudes", GeoCoordinate{90, 0}, GeoCoordinate{90, 50}, 0},
		{"south pole at two longitudes", GeoCoordinate{-90, -120}, GeoCoordinate{-90, 30}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBearing(tt.observer, tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ComputeBearing() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeBearingRange(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 20 {
			obs := GeoCoordinate{Latitude: lat, Longitude: lon}
			got, err := ComputeBearing(obs, Mecca)
			if err != nil {
				t.Fatalf("%v: %v", obs, err)
			}
			if got < 0 || got >= 360 {
				t.Errorf("%v: bearing %d outside [0, 360)", obs, got)
			}
		}
	}
}

func TestComputeBearingInvalid(t *testing.T) {
	bad := []GeoCoordinate{
		{Latitude: 91, Longitude: 0},
		{Latitude: 0, Longitude: -181},
		{Latitude: math.NaN(), Longitude: 0},
	}
	for _, c := range bad {
		if _, err := ComputeBearing(c, Mecca); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("observer %v: err = %v, want ErrInvalidInput", c, err)
		}
		if _, err := ComputeBearing(Dakar, c); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("target %v: err = %v, want ErrInvalidInput", c, err)
		}
	}
}

func TestBearingCardinal(t *testing.T) {
	tests := []struct {
		b    Bearing
		want string
	}{
		{0, "N"},
		{74, "ENE"},
		{90, "E"},
		{180, "S"},
		{260, "W"},
		{350, "N"},
	}
	for _, tt := range tests {
		if got := tt.b.Cardinal(); got != tt.want {
			t.Errorf("Bearing(%d).Cardinal() = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestGreatCircleDistanceKm(t *testing.T) {
	// Dakar to Mecca is roughly 6,070 km.
	if d := GreatCircleDistanceKm(Dakar, Mecca); d < 6000 || d > 6150 {
		t.Errorf("Dakar to Mecca = %.0f km", d)
	}
	if d := GreatCircleDistanceKm(Mecca, Mecca); d != 0 {
		t.Errorf("distance to self = %v", d)
	}
}
