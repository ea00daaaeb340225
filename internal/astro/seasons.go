package astro

import (
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"
	"github.com/nathan-osman/go-sunrise"
)

// SeasonKind names a solstice or equinox.
type SeasonKind int

const (
	MarchEquinox SeasonKind = iota
	JuneSolstice
	SeptemberEquinox
	DecemberSolstice
)

func (k SeasonKind) String() string {
	switch k {
	case MarchEquinox:
		return "March Equinox"
	case JuneSolstice:
		return "June Solstice"
	case SeptemberEquinox:
		return "September Equinox"
	case DecemberSolstice:
		return "December Solstice"
	}
	return "Unknown"
}

// SeasonEvent is one solstice or equinox instant.
type SeasonEvent struct {
	Kind SeasonKind
	At   time.Time
}

// Seasons returns the four solstice and equinox instants of year, in UTC,
// in calendar order. Instants are dynamical time read as UTC, which is
// about a minute early; only the date is meant for display.
func Seasons(year int) []SeasonEvent {
	return []SeasonEvent{
		{MarchEquinox, jdeToTime(solstice.March(year))},
		{JuneSolstice, jdeToTime(solstice.June(year))},
		{SeptemberEquinox, jdeToTime(solstice.September(year))},
		{DecemberSolstice, jdeToTime(solstice.December(year))},
	}
}

// NextSeason returns the first solstice or equinox strictly after t.
func NextSeason(t time.Time) SeasonEvent {
	for _, year := range []int{t.UTC().Year(), t.UTC().Year() + 1} {
		for _, ev := range Seasons(year) {
			if ev.At.After(t) {
				return ev
			}
		}
	}
	// Unreachable: the next year always holds a later event.
	return SeasonEvent{}
}

func jdeToTime(jde float64) time.Time {
	y, m, d := julian.JDToCalendar(jde)
	day, frac := math.Modf(d)
	base := time.Date(y, time.Month(m), int(day), 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(math.Round(frac * 86400 * 1e9)))
}

// SunriseSunset returns sunrise and sunset for the UTC calendar day of date
// using an independent implementation of the NOAA algorithm. Events that
// do not occur are unavailable.
func SunriseSunset(date time.Time, observer GeoCoordinate) (rise, set Moment, err error) {
	if err := observer.Validate(); err != nil {
		return Unavailable(), Unavailable(), err
	}
	y, m, d := date.Date()
	r, s := sunrise.SunriseSunset(observer.Latitude, observer.Longitude, y, m, d)
	loc := date.Location()
	if !r.IsZero() {
		rise = At(r.In(loc))
	}
	if !s.IsZero() {
		set = At(s.In(loc))
	}
	return rise, set, nil
}
