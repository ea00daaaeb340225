package calendar

import (
	"testing"
	"time"
)

func TestToHijri(t *testing.T) {
	tests := []struct {
		date time.Time
		want HijriDate
	}{
		{time.Date(2023, 7, 19, 0, 0, 0, 0, time.UTC), HijriDate{1445, 1, 1}},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), HijriDate{1445, 6, 19}},
		{time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), HijriDate{1445, 9, 1}},
		{time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC), HijriDate{1446, 9, 1}},
	}
	for _, tt := range tests {
		if got := ToHijri(tt.date); got != tt.want {
			t.Errorf("ToHijri(%v) = %+v, want %+v", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestToHijriUsesLocalCalendarDay(t *testing.T) {
	// 23:30 UTC on 10 March is already 11 March in Riyadh.
	riyadh := time.FixedZone("AST", 3*3600)
	at := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	if got := ToHijri(at.In(riyadh)); got.Month != 9 || got.Day != 1 {
		t.Errorf("ToHijri in Riyadh = %v, want 1 Ramadan", got)
	}
}

func TestFromHijriRoundTrip(t *testing.T) {
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 20000; d += 7 {
		day := start.AddDate(0, 0, d)
		if got := FromHijri(ToHijri(day), time.UTC); !got.Equal(day) {
			t.Fatalf("round trip of %v gave %v", day, got)
		}
	}
}

func TestHijriDateString(t *testing.T) {
	if got, want := (HijriDate{1445, 9, 1}).String(), "1 Ramadan 1445 AH"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (HijriDate{Month: 13}).MonthName(); got != "" {
		t.Errorf("MonthName() for month 13 = %q", got)
	}
}

func TestMonthNavigation(t *testing.T) {
	jan := Month{2024, time.January}
	if got := jan.Prev(); got != (Month{2023, time.December}) {
		t.Errorf("Prev() = %v", got)
	}
	if got := (Month{2024, time.December}).Next(); got != (Month{2025, time.January}) {
		t.Errorf("Next() = %v", got)
	}
	if got := (Month{2024, time.February}).Days(); got != 29 {
		t.Errorf("February 2024 has %d days", got)
	}
	if got := (Month{2024, time.March}).String(); got != "Mars 2024" {
		t.Errorf("String() = %q", got)
	}
}

func TestMonthGrid(t *testing.T) {
	today := time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC)
	g := MonthGrid(Month{2024, time.March}, today)

	// 1 March 2024 is a Friday.
	if len(g.Weeks) != 6 {
		t.Fatalf("weeks = %d, want 6", len(g.Weeks))
	}
	for i := 0; i < 5; i++ {
		if !g.Weeks[0][i].Blank {
			t.Errorf("cell %d of the first week should be blank", i)
		}
	}
	first := g.Weeks[0][5]
	if first.Blank || first.Day != 1 {
		t.Errorf("first day cell = %+v", first)
	}

	var todays, days int
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Blank {
				continue
			}
			days++
			if c.IsToday {
				todays++
				if c.Day != 11 || c.Hijri != (HijriDate{1445, 9, 1}) {
					t.Errorf("today cell = %+v", c)
				}
			}
		}
	}
	if days != 31 || todays != 1 {
		t.Errorf("days = %d, today cells = %d", days, todays)
	}
}

func TestMonthGridExactWeeks(t *testing.T) {
	// February 2015 starts on a Sunday and has 28 days.
	g := MonthGrid(Month{2015, time.February}, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(g.Weeks) != 4 || g.Weeks[0][0].Day != 1 {
		t.Errorf("February 2015 grid = %d weeks, first cell %+v", len(g.Weeks), g.Weeks[0][0])
	}
}
