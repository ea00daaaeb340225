package astro

import (
	"time"
)

// Offsets applied to the solar events. These are the values the community
// has always displayed; they are not derived from a published method.
const (
	FajrOffset    = 10 * time.Minute
	DhuhrOffset   = 5 * time.Minute
	AsrOffset     = -120 * time.Minute
	MaghribOffset = 3 * time.Minute
	IshaOffset    = 10 * time.Minute
)

// Prayer names one of the five daily prayers.
type Prayer int

const (
	Fajr Prayer = iota
	Dhuhr
	Asr
	Maghrib
	Isha
)

var prayerNames = [...]string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

func (p Prayer) String() string {
	if p < 0 || int(p) >= len(prayerNames) {
		return "Unknown"
	}
	return prayerNames[p]
}

// Prayers lists the prayers in daily order.
var Prayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// PrayerSchedule holds the five prayer instants of one date at one place.
type PrayerSchedule struct {
	Fajr    Moment
	Dhuhr   Moment
	Asr     Moment
	Maghrib Moment
	Isha    Moment

	// Location is used when formatting; nil means each moment's own.
	Location *time.Location
}

// ApplyOffsets derives a schedule from solar events. It performs no
// rounding; the exact instants are offset.
//
// Fajr and Isha are anchored on civil twilight (Dawn and Dusk, -6°), not
// on astronomical twilight (NightEnd and Night, -18°).
func ApplyOffsets(st SunTimes) PrayerSchedule {
	return PrayerSchedule{
		Fajr:    st.Dawn.Add(FajrOffset),
		Dhuhr:   st.SolarNoon.Add(DhuhrOffset),
		Asr:     st.GoldenHour.Add(AsrOffset),
		Maghrib: st.Sunset.Add(MaghribOffset),
		Isha:    st.Dusk.Add(IshaOffset),
	}
}

// ComputePrayerSchedule computes the schedule for the calendar day of date
// at observer. Fields whose solar event does not occur are unavailable.
func ComputePrayerSchedule(date time.Time, observer GeoCoordinate) (PrayerSchedule, error) {
	st, err := ComputeSunTimes(date, observer)
	if err != nil {
		return PrayerSchedule{}, err
	}
	ps := ApplyOffsets(st)
	ps.Location = date.Location()
	return ps, nil
}

// Get returns the moment for p.
func (ps PrayerSchedule) Get(p Prayer) Moment {
	switch p {
	case Fajr:
		return ps.Fajr
	case Dhuhr:
		return ps.Dhuhr
	case Asr:
		return ps.Asr
	case Maghrib:
		return ps.Maghrib
	case Isha:
		return ps.Isha
	}
	return Unavailable()
}

// Clock formats p as HH:MM, or UnavailableText.
func (ps PrayerSchedule) Clock(p Prayer) string {
	return ps.Get(p).Clock(ps.Location)
}

// Clocks returns the formatted times keyed by prayer name.
func (ps PrayerSchedule) Clocks() map[string]string {
	out := make(map[string]string, len(Prayers))
	for _, p := range Prayers {
		out[p.String()] = ps.Clock(p)
	}
	return out
}

// Next returns the first available prayer strictly after t.
func (ps PrayerSchedule) Next(t time.Time) (Prayer, Moment, bool) {
	for _, p := range Prayers {
		m := ps.Get(p)
		if at, ok := m.Time(); ok && at.After(t) {
			return p, m, true
		}
	}
	return 0, Unavailable(), false
}

// Between returns the available prayers falling in (from, to].
func (ps PrayerSchedule) Between(from, to time.Time) []Prayer {
	var out []Prayer
	for _, p := range Prayers {
		if at, ok := ps.Get(p).Time(); ok && at.After(from) && !at.After(to) {
			out = append(out, p)
		}
	}
	return out
}

// Unavailable lists the prayers whose solar event does not occur.
func (ps PrayerSchedule) Unavailable() []Prayer {
	var out []Prayer
	for _, p := range Prayers {
		if !ps.Get(p).Available() {
			out = append(out, p)
		}
	}
	return out
}
