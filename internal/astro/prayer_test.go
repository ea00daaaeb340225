package astro

import (
	"testing"
	"time"
)

func TestApplyOffsets(t *testing.T) {
	base := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	st := SunTimes{
		Dawn:       At(base.Add(6*time.Hour + 50*time.Minute)),
		SolarNoon:  At(base.Add(12 * time.Hour)),
		GoldenHour: At(base.Add(18 * time.Hour)),
		Sunset:     At(base.Add(18*time.Hour + 30*time.Minute)),
		Dusk:       At(base.Add(19 * time.Hour)),
	}

	ps := ApplyOffsets(st)

	tests := []struct {
		prayer Prayer
		event  Moment
		offset time.Duration
	}{
		{Fajr, st.Dawn, 10 * time.Minute},
		{Dhuhr, st.SolarNoon, 5 * time.Minute},
		{Asr, st.GoldenHour, -120 * time.Minute},
		{Maghrib, st.Sunset, 3 * time.Minute},
		{Isha, st.Dusk, 10 * time.Minute},
	}
	for _, tt := range tests {
		got, _ := ps.Get(tt.prayer).Time()
		ev, _ := tt.event.Time()
		if d := got.Sub(ev); d != tt.offset {
			t.Errorf("%v offset = %v, want %v", tt.prayer, d, tt.offset)
		}
	}
	if got := ps.Clock(Dhuhr); got != "12:05" {
		t.Errorf("Dhuhr clock = %q, want 12:05", got)
	}
}

func TestApplyOffsetsPartialUnavailability(t *testing.T) {
	noon := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	ps := ApplyOffsets(SunTimes{SolarNoon: At(noon), Sunset: At(noon.Add(6 * time.Hour))})

	if !ps.Dhuhr.Available() || !ps.Maghrib.Available() {
		t.Error("dhuhr and maghrib should be available")
	}
	got := ps.Unavailable()
	want := []Prayer{Fajr, Asr, Isha}
	if len(got) != len(want) {
		t.Fatalf("Unavailable() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unavailable()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputePrayerScheduleDakar(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	ps, err := ComputePrayerSchedule(date, Dakar)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(Prayers); i++ {
		prev, curr := ps.Get(Prayers[i-1]), ps.Get(Prayers[i])
		if !prev.Before(curr) {
			t.Errorf("%v (%v) should precede %v (%v)", Prayers[i-1], prev, Prayers[i], curr)
		}
	}

	st, err := ComputeSunTimes(date, Dakar)
	if err != nil {
		t.Fatal(err)
	}
	noon, _ := st.SolarNoon.Time()
	dhuhr, _ := ps.Dhuhr.Time()
	if d := dhuhr.Sub(noon); d != DhuhrOffset {
		t.Errorf("dhuhr - solar noon = %v, want %v", d, DhuhrOffset)
	}

	again, err := ComputePrayerSchedule(date, Dakar)
	if err != nil {
		t.Fatal(err)
	}
	if again != ps {
		t.Error("repeated computation differs")
	}
}

func TestComputePrayerSchedulePolarNight(t *testing.T) {
	ps, err := ComputePrayerSchedule(time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), GeoCoordinate{Latitude: 89, Longitude: 0})
	if err != nil {
		t.Fatal(err)
	}
	if !ps.Dhuhr.Available() {
		t.Error("dhuhr should be available")
	}
	for _, p := range []Prayer{Fajr, Asr, Maghrib, Isha} {
		if ps.Get(p).Available() {
			t.Errorf("%v should be unavailable", p)
		}
		if got := ps.Clock(p); got != UnavailableText {
			t.Errorf("%v clock = %q, want %q", p, got, UnavailableText)
		}
	}
}

func TestPrayerScheduleNext(t *testing.T) {
	base := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	ps := PrayerSchedule{
		Fajr:    At(base.Add(7 * time.Hour)),
		Dhuhr:   At(base.Add(13 * time.Hour)),
		Asr:     Unavailable(),
		Maghrib: At(base.Add(19 * time.Hour)),
		Isha:    At(base.Add(20 * time.Hour)),
	}

	if p, _, ok := ps.Next(base.Add(8 * time.Hour)); !ok || p != Dhuhr {
		t.Errorf("Next after 08:00 = %v, %v; want Dhuhr", p, ok)
	}
	if p, _, ok := ps.Next(base.Add(14 * time.Hour)); !ok || p != Maghrib {
		t.Errorf("Next after 14:00 = %v, %v; want Maghrib", p, ok)
	}
	if _, _, ok := ps.Next(base.Add(21 * time.Hour)); ok {
		t.Error("no prayer should follow isha")
	}

	due := ps.Between(base.Add(12*time.Hour), base.Add(19*time.Hour))
	if len(due) != 2 || due[0] != Dhuhr || due[1] != Maghrib {
		t.Errorf("Between() = %v", due)
	}

	clocks := ps.Clocks()
	if clocks["Asr"] != UnavailableText || clocks["Fajr"] != "07:00" {
		t.Errorf("Clocks() = %v", clocks)
	}
}

func TestApplyOffsetsUsesCivilTwilight(t *testing.T) {
	base := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	ps := ApplyOffsets(SunTimes{
		NightEnd: At(base.Add(5*time.Hour + 40*time.Minute)),
		Dawn:     At(base.Add(6*time.Hour + 50*time.Minute)),
		Dusk:     At(base.Add(19 * time.Hour)),
		Night:    At(base.Add(20*time.Hour + 10*time.Minute)),
	})
	if got := ps.Clock(Fajr); got != "07:00" {
		t.Errorf("fajr = %s, want 07:00 (civil dawn + 10m)", got)
	}
	if got := ps.Clock(Isha); got != "19:10" {
		t.Errorf("isha = %s, want 19:10 (civil dusk + 10m)", got)
	}
}
