package astro

import (
	"math"
	"time"
)

// UnavailableText is how an unavailable Moment formats.
const UnavailableText = "--:--"

// Moment is an instant that may not exist on a given date, such as dawn
// during polar night. The zero Moment is unavailable.
type Moment struct {
	t  time.Time
	ok bool
}

// At returns an available Moment.
func At(t time.Time) Moment {
	return Moment{t: t, ok: true}
}

// Unavailable returns the sentinel for an event that does not occur.
func Unavailable() Moment {
	return Moment{}
}

// Available reports whether the event occurs.
func (m Moment) Available() bool {
	return m.ok
}

// Time returns the instant and whether it is available.
func (m Moment) Time() (time.Time, bool) {
	return m.t, m.ok
}

// TimeOrErr returns the instant or ErrEventUnavailable.
func (m Moment) TimeOrErr() (time.Time, error) {
	if !m.ok {
		return time.Time{}, ErrEventUnavailable
	}
	return m.t, nil
}

// Add offsets an available moment. Unavailable moments stay unavailable.
func (m Moment) Add(d time.Duration) Moment {
	if !m.ok {
		return m
	}
	return At(m.t.Add(d))
}

// In converts the instant to loc.
func (m Moment) In(loc *time.Location) Moment {
	if !m.ok || loc == nil {
		return m
	}
	return At(m.t.In(loc))
}

// Before reports whether both moments are available and m precedes o.
func (m Moment) Before(o Moment) bool {
	return m.ok && o.ok && m.t.Before(o.t)
}

// Format renders the wall-clock time in loc using layout, or
// UnavailableText. A nil loc keeps the moment's own location.
func (m Moment) Format(layout string, loc *time.Location) string {
	if !m.ok {
		return UnavailableText
	}
	t := m.t
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}

// Clock renders the moment as HH:MM in loc.
func (m Moment) Clock(loc *time.Location) string {
	return m.Format("15:04", loc)
}

func (m Moment) String() string {
	return m.Format(time.RFC3339, nil)
}

// Sun altitudes (degrees) defining each pair of rise/set events.
const (
	AltitudeSunrise    = -0.833
	AltitudeSunriseEnd = -0.3
	AltitudeCivil      = -6.0
	AltitudeNautical   = -12.0
	AltitudeAstronomic = -18.0
	AltitudeGoldenHour = 6.0
)

const (
	transitJ0           = 0.0009
	meanObliquityJ2000  = 23.4397
	perihelionLongitude = 102.9372
)

// SunTimes holds the solar events of one day at one place.
type SunTimes struct {
	SolarNoon Moment
	Nadir     Moment

	Sunrise Moment
	Sunset  Moment

	SunriseEnd  Moment
	SunsetStart Moment

	// Dawn and Dusk are civil twilight (-6°).
	Dawn Moment
	Dusk Moment

	NauticalDawn Moment
	NauticalDusk Moment

	// NightEnd and Night are astronomical twilight (-18°).
	NightEnd Moment
	Night    Moment

	// GoldenHourEnd is the morning end and GoldenHour the evening start of
	// the golden hour (+6°).
	GoldenHourEnd Moment
	GoldenHour    Moment
}

// ComputeSunTimes computes the solar events for the calendar day of date,
// in date's location, at observer.
//
// The solar day is the one whose transit lies nearest to local noon of
// that calendar day. Events that do not occur are unavailable Moments.
// Returned moments are in date's location.
func ComputeSunTimes(date time.Time, observer GeoCoordinate) (SunTimes, error) {
	if err := observer.Validate(); err != nil {
		return SunTimes{}, err
	}
	loc := date.Location()
	y, mo, d := date.Date()
	anchor := time.Date(y, mo, d, 12, 0, 0, 0, loc)

	lw := degToRad(-observer.Longitude)
	phi := degToRad(observer.Latitude)

	days := julianDate(anchor) - j2000
	cycle := math.Round(days - transitJ0 - lw/(2*math.Pi))
	approxNoon := transitJ0 + lw/(2*math.Pi) + cycle

	M := degToRad(357.5291 + 0.98560028*approxNoon)
	L := solarEclipticLongitudeRad(M)
	dec := math.Asin(math.Sin(degToRad(meanObliquityJ2000)) * math.Sin(L))

	transit := func(ds float64) float64 {
		return j2000 + ds + 0.0053*math.Sin(M) - 0.0069*math.Sin(2*L)
	}
	jNoon := transit(approxNoon)

	// riseSet returns the morning and evening crossing of altitude h.
	riseSet := func(h float64) (Moment, Moment) {
		cosH := (math.Sin(degToRad(h)) - math.Sin(phi)*math.Sin(dec)) / (math.Cos(phi) * math.Cos(dec))
		if math.IsNaN(cosH) || math.IsInf(cosH, 0) || cosH < -1 || cosH > 1 {
			return Unavailable(), Unavailable()
		}
		w := math.Acos(cosH)
		jSet := transit(transitJ0 + (w+lw)/(2*math.Pi) + cycle)
		jRise := jNoon - (jSet - jNoon)
		return At(timeFromJulian(jRise).In(loc)), At(timeFromJulian(jSet).In(loc))
	}

	st := SunTimes{
		SolarNoon: At(timeFromJulian(jNoon).In(loc)),
		Nadir:     At(timeFromJulian(jNoon - 0.5).In(loc)),
	}
	st.Sunrise, st.Sunset = riseSet(AltitudeSunrise)
	st.SunriseEnd, st.SunsetStart = riseSet(AltitudeSunriseEnd)
	st.Dawn, st.Dusk = riseSet(AltitudeCivil)
	st.NauticalDawn, st.NauticalDusk = riseSet(AltitudeNautical)
	st.NightEnd, st.Night = riseSet(AltitudeAstronomic)
	st.GoldenHourEnd, st.GoldenHour = riseSet(AltitudeGoldenHour)
	return st, nil
}

// solarEclipticLongitudeRad returns the Sun's ecliptic longitude in radians
// for a mean anomaly m in radians.
func solarEclipticLongitudeRad(m float64) float64 {
	center := degToRad(1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	return m + center + degToRad(perihelionLongitude) + math.Pi
}
