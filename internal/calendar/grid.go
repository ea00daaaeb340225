package calendar

import (
	"strconv"
	"time"
)

// Month identifies a Gregorian month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Next returns the following month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FrenchMonths are the month names shown in the calendar header.
var FrenchMonths = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// Weekdays are the column headers, Sunday first.
var Weekdays = [7]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

func (m Month) String() string {
	return FrenchMonths[m.Month-1] + " " + strconv.Itoa(m.Year)
}

// Cell is one day of a month grid. Blank cells pad the first week.
type Cell struct {
	Blank   bool
	Day     int
	Hijri   HijriDate
	IsToday bool
}

// Grid is a month laid out as weeks of seven cells starting on Sunday.
type Grid struct {
	Month Month
	Weeks [][7]Cell
}

// MonthGrid lays out m. today marks the matching cell; its location is
// used to read its calendar day.
func MonthGrid(m Month, today time.Time) Grid {
	ty, tm, td := today.Date()
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())

	var cells []Cell
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= m.Days(); d++ {
		date := time.Date(m.Year, m.Month, d, 0, 0, 0, 0, time.UTC)
		cells = append(cells, Cell{
			Day:     d,
			Hijri:   ToHijri(date),
			IsToday: ty == m.Year && tm == m.Month && td == d,
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{Blank: true})
	}

	g := Grid{Month: m}
	for i := 0; i < len(cells); i += 7 {
		var week [7]Cell
		copy(week[:], cells[i:i+7])
		g.Weeks = append(g.Weeks, week)
	}
	return g
}
