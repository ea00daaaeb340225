package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewGeoCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"dakar", 14.6937, -17.4441, false},
		{"north pole", 90, 0, false},
		{"antimeridian", 0, -180, false},
		{"latitude too high", 90.0001, 0, true},
		{"latitude too low", -91, 0, true},
		{"longitude too high", 0, 180.5, true},
		{"nan latitude", math.NaN(), 0, true},
		{"infinite longitude", 0, math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewGeoCoordinate(tt.lat, tt.lon)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Latitude != tt.lat || c.Longitude != tt.lon {
				t.Errorf("coordinate was altered: %+v", c)
			}
		})
	}
}

func TestGeoCoordinateString(t *testing.T) {
	if got, want := Dakar.String(), "14.6937°N, 17.4441°W"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := (GeoCoordinate{Latitude: -33.5, Longitude: 151.25}).String(), "33.5000°S, 151.2500°E"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseTimestamp(t *testing.T) {
	gmt1 := time.FixedZone("GMT+1", 3600)

	got, err := ParseTimestamp("2024-03-20T12:30:00Z", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 20, 12, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("RFC 3339: got %v, want %v", got, want)
	}

	got, err = ParseTimestamp("2024-03-20", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("bare date: got %v, want %v", got, want)
	}

	got, err = ParseTimestamp(" 2024-03-20 ", gmt1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Location() != gmt1 || got.Hour() != 0 {
		t.Errorf("bare date in zone: got %v", got)
	}

	for _, bad := range []string{"", "yesterday", "2024-13-01", "20/03/2024"} {
		if _, err := ParseTimestamp(bad, nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseTimestamp(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}
