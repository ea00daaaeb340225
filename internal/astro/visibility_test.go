package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

// sineSamples fabricates a body that peaks at amplitude+offset at noon.
func sineSamples(amplitude, offset float64) []ElevationSample {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []ElevationSample
	for m := 0; m <= 24*60; m += 10 {
		frac := float64(m) / (24 * 60)
		el := offset - amplitude*math.Cos(2*math.Pi*frac)
		out = append(out, ElevationSample{Time: start.Add(time.Duration(m) * time.Minute), ElDeg: el})
	}
	return out
}

func TestRiseSet(t *testing.T) {
	w, err := RiseSet(sineSamples(40, 0), 0)
	if err != nil {
		t.Fatal(err)
	}
	rise, ok := w.Rise.Time()
	if !ok || rise.Hour() != 6 || rise.Minute() > 1 {
		t.Errorf("rise = %v, want ~06:00", w.Rise)
	}
	set, ok := w.Set.Time()
	if !ok || (set.Hour() != 18 && !(set.Hour() == 17 && set.Minute() >= 59)) {
		t.Errorf("set = %v, want ~18:00", w.Set)
	}
	if math.Abs(w.MaxElevation-40) > 0.1 {
		t.Errorf("max elevation = %v, want 40", w.MaxElevation)
	}
}

func TestRiseSetCircumpolar(t *testing.T) {
	w, err := RiseSet(sineSamples(10, 30), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !w.AlwaysUp || w.Rise.Available() || w.Set.Available() {
		t.Errorf("want always up with no rise or set: %+v", w)
	}

	w, err = RiseSet(sineSamples(10, -30), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !w.AlwaysDown || w.Transit.Available() {
		t.Errorf("want always down with no transit: %+v", w)
	}
}

func TestRiseSetInsufficientSamples(t *testing.T) {
	_, err := RiseSet(sineSamples(10, 0)[:2], 0)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("err = %v, want ErrInsufficientSamples", err)
	}
}

func TestMoonRiseSetFullMoon(t *testing.T) {
	// A full moon sets around sunrise and rises around sunset.
	w, err := MoonRiseSet(time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), Dakar)
	if err != nil {
		t.Fatal(err)
	}
	rise, ok := w.Rise.Time()
	if !ok || rise.Hour() < 16 {
		t.Errorf("moonrise = %v, want evening", w.Rise)
	}
	set, ok := w.Set.Time()
	if !ok || set.Hour() > 10 {
		t.Errorf("moonset = %v, want morning", w.Set)
	}
}

func TestMoonElevationRange(t *testing.T) {
	for h := 0; h < 48; h++ {
		at := time.Date(2024, 3, 1, h, 0, 0, 0, time.UTC)
		if el := MoonElevation(at, Dakar); el < -90 || el > 90 {
			t.Errorf("%v: elevation %v out of range", at, el)
		}
	}
}

func TestGetElevationTier(t *testing.T) {
	tests := []struct {
		el   float64
		want ElevationTier
	}{
		{-5, ElevationNone},
		{0, ElevationNone},
		{10, ElevationLow},
		{30, ElevationMedium},
		{60, ElevationHigh},
	}
	for _, tt := range tests {
		if got := GetElevationTier(tt.el); got != tt.want {
			t.Errorf("GetElevationTier(%v) = %v, want %v", tt.el, got, tt.want)
		}
	}
}
