package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunPositionAtSeasons(t *testing.T) {
	tests := []struct {
		name   string
		at     time.Time
		wantRA float64
		wantDe float64
	}{
		{"march equinox", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 0, 0},
		{"june solstice", time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC), 90, 23.44},
		{"september equinox", time.Date(2024, 9, 22, 12, 44, 0, 0, time.UTC), 180, 0},
		{"december solstice", time.Date(2024, 12, 21, 9, 21, 0, 0, time.UTC), 270, -23.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := SunPosition(tt.at)
			if d := math.Abs(normalizeAngle360(ra-tt.wantRA+180) - 180); d > 0.1 {
				t.Errorf("RA = %.3f°, want %.0f°", ra, tt.wantRA)
			}
			if math.Abs(dec-tt.wantDe) > 0.05 {
				t.Errorf("Dec = %.3f°, want %.2f°", dec, tt.wantDe)
			}
		})
	}
}

func TestSunPositionMatchesSeasons(t *testing.T) {
	// The learnmeeus season instants and the low-precision series agree on
	// where the Sun is.
	for _, ev := range Seasons(2025) {
		ra, _ := SunPosition(ev.At)
		want := float64(ev.Kind) * 90
		if d := math.Abs(normalizeAngle360(ra-want+180) - 180); d > 0.1 {
			t.Errorf("%v: RA = %.3f°, want %.0f°", ev.Kind, ra, want)
		}
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b GeoCoordinate
		want float64
		tol  float64
	}{
		{"same point", Mecca, Mecca, 0, 1e-9},
		{"quarter of the equator", GeoCoordinate{0, 0}, GeoCoordinate{0, 90}, 90, 1e-6},
		{"pole to pole", GeoCoordinate{90, 0}, GeoCoordinate{-90, 0}, 180, 1e-6},
		{"antimeridian", GeoCoordinate{10, 180}, GeoCoordinate{10, -180}, 0, 1e-9},
		{"dakar to mecca", Dakar, Mecca, 54.6, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.a.Longitude, tt.a.Latitude, tt.b.Longitude, tt.b.Latitude)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("AngularSeparation() = %.6f°, want %.6f°", got, tt.want)
			}
		})
	}
}

func TestSunAltitudeAtComputedEvents(t *testing.T) {
	dakar, err := time.LoadLocation("Africa/Dakar")
	if err != nil {
		dakar = time.UTC
	}
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, dakar)
	st, err := ComputeSunTimes(date, Dakar)
	if err != nil {
		t.Fatalf("ComputeSunTimes: %v", err)
	}

	noon, ok := st.SolarNoon.Time()
	if !ok {
		t.Fatal("solar noon unavailable")
	}
	_, dec := SunPosition(noon)
	culmination := 90 - math.Abs(Dakar.Latitude-dec)
	if alt := SunAltitude(noon, Dakar); math.Abs(alt-culmination) > 0.3 {
		t.Errorf("altitude at solar noon = %.2f°, want %.2f°", alt, culmination)
	}
	for _, off := range []time.Duration{-20 * time.Minute, 20 * time.Minute} {
		if SunAltitude(noon.Add(off), Dakar) >= SunAltitude(noon, Dakar) {
			t.Errorf("Sun higher at noon%+v than at solar noon", off)
		}
	}

	tests := []struct {
		name string
		m    Moment
		want float64
	}{
		{"sunrise", st.Sunrise, AltitudeSunrise},
		{"sunset", st.Sunset, AltitudeSunrise},
		{"dawn", st.Dawn, AltitudeCivil},
		{"dusk", st.Dusk, AltitudeCivil},
		{"night end", st.NightEnd, AltitudeAstronomic},
		{"golden hour", st.GoldenHour, AltitudeGoldenHour},
	}
	for _, tt := range tests {
		at, ok := tt.m.Time()
		if !ok {
			t.Errorf("%s unavailable", tt.name)
			continue
		}
		if alt := SunAltitude(at, Dakar); math.Abs(alt-tt.want) > 0.6 {
			t.Errorf("altitude at %s = %.2f°, want %.2f°", tt.name, alt, tt.want)
		}
	}
}

func TestSunAltitudeAtPrayers(t *testing.T) {
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	ps, err := ComputePrayerSchedule(date, Dakar)
	if err != nil {
		t.Fatalf("ComputePrayerSchedule: %v", err)
	}
	fajr, _ := ps.Fajr.Time()
	maghrib, _ := ps.Maghrib.Time()
	dhuhr, _ := ps.Dhuhr.Time()

	if alt := SunAltitude(fajr, Dakar); alt < AltitudeCivil || alt > AltitudeSunrise {
		t.Errorf("Sun at fajr = %.2f°, want between civil dawn and sunrise", alt)
	}
	if alt := SunAltitude(maghrib, Dakar); alt > AltitudeSunrise {
		t.Errorf("Sun at maghrib = %.2f°, want below the horizon", alt)
	}
	if alt := SunAltitude(dhuhr, Dakar); alt < 80 {
		t.Errorf("Sun at dhuhr = %.2f°, want near the zenith in June", alt)
	}
}
