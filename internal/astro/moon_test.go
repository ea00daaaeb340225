package astro

import (
	"math"
	"testing"
	"time"
)

func TestClassifyMoonPhase(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		want       PhaseLabel
		minPercent int
		maxPercent int
	}{
		{"new moon 2024-01-11", time.Date(2024, 1, 11, 11, 57, 0, 0, time.UTC), NewMoon, 0, 1},
		{"waxing crescent", time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC), FirstCrescent, 8, 18},
		{"first quarter 2024-01-18", time.Date(2024, 1, 18, 3, 53, 0, 0, time.UTC), FirstQuarter, 48, 52},
		{"full moon 2024-01-25", time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC), FullMoon, 99, 100},
		{"waning gibbous", time.Date(2024, 1, 29, 12, 0, 0, 0, time.UTC), WaningGibbous, 82, 93},
		{"last quarter 2024-02-02", time.Date(2024, 2, 2, 23, 18, 0, 0, time.UTC), LastQuarter, 48, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, pct := ClassifyMoonPhase(tt.time)
			if label != tt.want {
				t.Errorf("label = %v, want %v", label, tt.want)
			}
			if pct < tt.minPercent || pct > tt.maxPercent {
				t.Errorf("percent = %d, want in [%d, %d]", pct, tt.minPercent, tt.maxPercent)
			}
		})
	}
}

func TestClassifyPhaseFractionThresholds(t *testing.T) {
	tests := []struct {
		phase float64
		want  PhaseLabel
	}{
		{0, NewMoon},
		{0.0299, NewMoon},
		{0.03, FirstCrescent},
		{0.2199, FirstCrescent},
		{0.22, FirstQuarter},
		{0.28, WaxingGibbous},
		{0.47, FullMoon},
		{0.5, FullMoon},
		{0.53, WaningGibbous},
		{0.72, LastQuarter},
		{0.78, LastCrescent},
		{0.9699, LastCrescent},
		{0.97, NewMoon},
		{0.99999, NewMoon},
	}
	for _, tt := range tests {
		if got := ClassifyPhaseFraction(tt.phase); got != tt.want {
			t.Errorf("ClassifyPhaseFraction(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestMoonIlluminationRanges(t *testing.T) {
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*60; i++ {
		at := start.Add(time.Duration(i) * 37 * time.Minute)
		m := MoonIlluminationAt(at)
		if m.PhaseFraction < 0 || m.PhaseFraction >= 1 {
			t.Fatalf("%v: phase %v outside [0, 1)", at, m.PhaseFraction)
		}
		if m.IlluminatedFraction < 0 || m.IlluminatedFraction > 1 {
			t.Fatalf("%v: illuminated %v outside [0, 1]", at, m.IlluminatedFraction)
		}
		label, pct := ClassifyMoonPhase(at)
		if pct != int(math.Round(m.IlluminatedFraction*100)) {
			t.Fatalf("%v: percent %d disagrees with fraction %v", at, pct, m.IlluminatedFraction)
		}
		if label != ClassifyPhaseFraction(m.PhaseFraction) {
			t.Fatalf("%v: label %v disagrees with phase %v", at, label, m.PhaseFraction)
		}
	}
}

func TestMoonIlluminationDeterministic(t *testing.T) {
	at := time.Date(2024, 5, 5, 5, 5, 5, 5, time.UTC)
	a, b := MoonIlluminationAt(at), MoonIlluminationAt(at)
	if a != b {
		t.Errorf("repeated calls differ: %+v vs %+v", a, b)
	}
	// Same instant expressed in another zone.
	if c := MoonIlluminationAt(at.In(time.FixedZone("X", -5*3600))); c != a {
		t.Errorf("zone changed the result: %+v vs %+v", c, a)
	}
}

func TestMoonIlluminationWaxing(t *testing.T) {
	fq := MoonIlluminationAt(time.Date(2024, 1, 18, 3, 53, 0, 0, time.UTC))
	if !fq.Waxing() {
		t.Error("first quarter should be waxing")
	}
	if age := fq.AgeDays(); age < 7 || age > 8 {
		t.Errorf("first quarter age = %.2f days", age)
	}
}

func TestMoonPositionRange(t *testing.T) {
	for d := 0; d < 60; d++ {
		pos := MoonPosition(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d))
		if pos.RangeKm < 355000 || pos.RangeKm > 407500 {
			t.Errorf("day %d: distance %.0f km out of range", d, pos.RangeKm)
		}
		if math.Abs(pos.DecDeg) > 29 {
			t.Errorf("day %d: declination %.2f out of range", d, pos.DecDeg)
		}
	}
}

func TestPhaseLabelText(t *testing.T) {
	b, err := FullMoon.MarshalText()
	if err != nil || string(b) != "Full Moon" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
	if got := PhaseLabel(42).String(); got != "Unknown" {
		t.Errorf("out of range label = %q", got)
	}
}

func TestMoonEclipticPositionMeeusExample(t *testing.T) {
	// Meeus example 47.a: 1992 April 12, 0h TD.
	T := julianCenturies(2448724.5)
	if lon := moonEclipticLongitude(T); math.Abs(lon-133.162655) > 0.05 {
		t.Errorf("longitude = %.4f, want 133.1627", lon)
	}
	if lat := moonEclipticLatitude(T); math.Abs(lat-(-3.229126)) > 0.05 {
		t.Errorf("latitude = %.4f, want -3.2291", lat)
	}
}
