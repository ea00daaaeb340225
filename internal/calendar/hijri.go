// Package calendar converts Gregorian dates to the Islamic calendar and lays
// out month grids for display.
//
// Conversion uses the arithmetic (tabular) Islamic calendar with the civil
// epoch of 16 July 622 (Julian). It can differ by a day or two from
// sighting-based or Umm al-Qura dates.
package calendar

import (
	"fmt"
	"time"
)

// HijriMonths are the Islamic month names, Muharram first.
var HijriMonths = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhul-Qadah", "Dhul-Hijjah",
}

// HijriDate is a date in the Islamic calendar. Month is 1-12.
type HijriDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// MonthName returns the name of d's month.
func (d HijriDate) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return HijriMonths[d.Month-1]
}

// String formats as "1 Ramadan 1445 AH".
func (d HijriDate) String() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, d.MonthName(), d.Year)
}

// ToHijri converts the calendar day of t, in t's location.
func ToHijri(t time.Time) HijriDate {
	y, m, d := t.Date()
	return hijriFromJDN(julianDayNumber(y, int(m), d))
}

// FromHijri returns midnight in loc of the Gregorian day matching h.
func FromHijri(h HijriDate, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	jdn := (11*h.Year+3)/30 + 354*h.Year + 30*h.Month - (h.Month-1)/2 + h.Day + 1948440 - 385
	y, m, d := gregorianFromJDN(jdn)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
}

// julianDayNumber is the integer day count of a proleptic Gregorian date.
func julianDayNumber(y, m, d int) int {
	a := (14 - m) / 12
	y2 := y + 4800 - a
	m2 := m + 12*a - 3
	return d + (153*m2+2)/5 + 365*y2 + y2/4 - y2/100 + y2/400 - 32045
}

func gregorianFromJDN(jdn int) (y, m, d int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	dd := (4*c + 3) / 1461
	e := c - 1461*dd/4
	mm := (5*e + 2) / 153
	d = e - (153*mm+2)/5 + 1
	m = mm + 3 - 12*(mm/10)
	y = 100*b + dd - 4800 + mm/10
	return y, m, d
}

func hijriFromJDN(jdn int) HijriDate {
	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	m := (24 * l) / 709
	d := l - (709*m)/24
	y := 30*n + j - 30
	return HijriDate{Year: y, Month: m, Day: d}
}
