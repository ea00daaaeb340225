// Package sky assembles the home-screen report: moon phase, qibla bearing,
// prayer schedule and calendar context for one place at one instant.
package sky

import (
	"fmt"
	"time"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/calendar"
)

// Place is a named observer location with its civil time zone.
type Place struct {
	Name     string
	Coord    astro.GeoCoordinate
	Location *time.Location
}

// DefaultPlace is used when no location is configured.
func DefaultPlace() Place {
	return Place{
		Name:     "Dakar",
		Coord:    astro.Dakar,
		Location: LoadLocation("Africa/Dakar"),
	}
}

// LoadLocation resolves an IANA zone name, falling back to UTC when the
// zone database has no entry for it.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (p Place) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// NextPrayer is the first prayer after the report instant.
type NextPrayer struct {
	Prayer   astro.Prayer
	At       astro.Moment
	Tomorrow bool
}

// Report is everything the home screen shows.
type Report struct {
	At     time.Time
	Place  Place
	Target astro.GeoCoordinate

	Moon        astro.MoonIllumination
	Phase       astro.PhaseLabel
	Percent     int
	MoonWindow  astro.VisibilityWindow
	Qibla       astro.Bearing
	QiblaDistKm float64

	Sun     astro.SunTimes
	Prayers astro.PrayerSchedule
	Next    NextPrayer
	HasNext bool
	Sunrise astro.Moment // independent NOAA value
	Sunset  astro.Moment // independent NOAA value
	Season  astro.SeasonEvent
	Hijri   calendar.HijriDate
	Month   string
}

// Compute builds the report for now at place, bearing toward target.
func Compute(now time.Time, place Place, target astro.GeoCoordinate) (*Report, error) {
	loc := place.location()
	local := now.In(loc)

	qibla, err := astro.ComputeBearing(place.Coord, target)
	if err != nil {
		return nil, fmt.Errorf("qibla for %s: %w", place.Name, err)
	}
	sun, err := astro.ComputeSunTimes(local, place.Coord)
	if err != nil {
		return nil, fmt.Errorf("sun times for %s: %w", place.Name, err)
	}
	prayers := astro.ApplyOffsets(sun)
	prayers.Location = loc

	rise, set, err := astro.SunriseSunset(local, place.Coord)
	if err != nil {
		return nil, fmt.Errorf("sunrise for %s: %w", place.Name, err)
	}
	moonWin, err := astro.MoonRiseSet(local, place.Coord)
	if err != nil {
		return nil, fmt.Errorf("moonrise for %s: %w", place.Name, err)
	}

	r := &Report{
		At:          local,
		Place:       place,
		Target:      target,
		Moon:        astro.MoonIlluminationAt(now),
		MoonWindow:  moonWin,
		Qibla:       qibla,
		QiblaDistKm: astro.GreatCircleDistanceKm(place.Coord, target),
		Sun:         sun,
		Prayers:     prayers,
		Sunrise:     rise,
		Sunset:      set,
		Season:      astro.NextSeason(now),
		Hijri:       calendar.ToHijri(local),
		Month:       calendar.MonthOf(local).String(),
	}
	r.Phase, r.Percent = astro.ClassifyMoonPhase(now)

	if p, m, ok := prayers.Next(now); ok {
		r.Next, r.HasNext = NextPrayer{Prayer: p, At: m}, true
	} else {
		tomorrow, err := astro.ComputePrayerSchedule(local.AddDate(0, 0, 1), place.Coord)
		if err == nil {
			if p, m, ok := tomorrow.Next(now); ok {
				r.Next, r.HasNext = NextPrayer{Prayer: p, At: m, Tomorrow: true}, true
			}
		}
	}

	return r, nil
}

// Until returns the time remaining until the next prayer, or false.
func (r *Report) Until() (time.Duration, bool) {
	if !r.HasNext {
		return 0, false
	}
	at, ok := r.Next.At.Time()
	if !ok {
		return 0, false
	}
	return at.Sub(r.At), true
}
