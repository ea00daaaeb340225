package astro

import (
	"testing"
	"time"
)

func TestSeasons(t *testing.T) {
	tests := []struct {
		year  int
		kind  SeasonKind
		month time.Month
		day   int
	}{
		{1900, MarchEquinox, time.March, 21},
		{2022, JuneSolstice, time.June, 21},
		{2023, SeptemberEquinox, time.September, 23},
		{2024, MarchEquinox, time.March, 20},
		{2024, DecemberSolstice, time.December, 21},
	}

	for _, tt := range tests {
		ev := Seasons(tt.year)[tt.kind]
		if ev.Kind != tt.kind {
			t.Fatalf("Seasons(%d)[%v].Kind = %v", tt.year, tt.kind, ev.Kind)
		}
		y, m, d := ev.At.Date()
		if y != tt.year || m != tt.month || d != tt.day {
			t.Errorf("%v %d = %v, want %d-%02d-%02d", tt.kind, tt.year, ev.At, tt.year, tt.month, tt.day)
		}
	}
}

func TestSeasonsOrdered(t *testing.T) {
	evs := Seasons(2030)
	for i := 1; i < len(evs); i++ {
		if !evs[i-1].At.Before(evs[i].At) {
			t.Errorf("%v should precede %v", evs[i-1].Kind, evs[i].Kind)
		}
	}
}

func TestNextSeason(t *testing.T) {
	ev := NextSeason(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC))
	if ev.Kind != MarchEquinox || ev.At.Year() != 2025 {
		t.Errorf("NextSeason after Christmas 2024 = %v %v", ev.Kind, ev.At)
	}

	ev = NextSeason(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if ev.Kind != MarchEquinox || ev.At.Month() != time.March || ev.At.Day() != 20 {
		t.Errorf("NextSeason at new year 2024 = %v %v", ev.Kind, ev.At)
	}

	// The instant of an event is not "after" itself.
	solstice := Seasons(2024)[DecemberSolstice].At
	if ev := NextSeason(solstice); ev.Kind != MarchEquinox {
		t.Errorf("NextSeason at the solstice = %v", ev.Kind)
	}
}

func TestSunriseSunsetCrossCheck(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, pst)
	rise, set, err := SunriseSunset(date, cupertino)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "sunrise", rise, time.Date(2024, 1, 1, 7, 22, 13, 0, pst), 2*time.Minute)
	assertNear(t, "sunset", set, time.Date(2024, 1, 1, 17, 0, 33, 0, pst), 2*time.Minute)

	st, err := ComputeSunTimes(date, cupertino)
	if err != nil {
		t.Fatal(err)
	}
	ownRise, _ := st.Sunrise.Time()
	assertNear(t, "sunrise vs NOAA", rise, ownRise, 3*time.Minute)
}

func TestSunriseSunsetPolarNight(t *testing.T) {
	rise, set, err := SunriseSunset(time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), GeoCoordinate{Latitude: 89, Longitude: 0})
	if err != nil {
		t.Fatal(err)
	}
	if rise.Available() || set.Available() {
		t.Errorf("polar night: rise=%v set=%v, want unavailable", rise, set)
	}
}
