package sky

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-qamar/internal/astro"
)

// ReportExport is the JSON-serializable representation of a Report.
type ReportExport struct {
	Timestamp time.Time    `json:"timestamp"`
	Place     PlaceExport  `json:"place"`
	Moon      MoonExport   `json:"moon"`
	Qibla     QiblaExport  `json:"qibla"`
	Prayers   []TimeExport `json:"prayers"`
	Sun       []TimeExport `json:"sun"`
	Next      *TimeExport  `json:"next_prayer,omitempty"`
	Season    SeasonExport `json:"next_season"`
	Hijri     string       `json:"hijri"`
}

// PlaceExport is a JSON-friendly place.
type PlaceExport struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	TimeZone string  `json:"tz"`
}

// MoonExport is a JSON-friendly moon summary.
type MoonExport struct {
	Phase         string  `json:"phase"`
	Illumination  int     `json:"illumination_percent"`
	PhaseFraction float64 `json:"phase_fraction"`
	AgeDays       float64 `json:"age_days"`
	Rise          string  `json:"rise"`
	Set           string  `json:"set"`
}

// QiblaExport is a JSON-friendly bearing.
type QiblaExport struct {
	Bearing    int     `json:"bearing"`
	Cardinal   string  `json:"cardinal"`
	DistanceKm float64 `json:"distance_km"`
}

// TimeExport is one named time. Unavailable times have an empty At and
// Clock set to "--:--".
type TimeExport struct {
	Name  string     `json:"name"`
	Clock string     `json:"clock"`
	At    *time.Time `json:"at,omitempty"`
}

// SeasonExport is a JSON-friendly solstice or equinox.
type SeasonExport struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

func timeExport(name string, m astro.Moment, loc *time.Location) TimeExport {
	te := TimeExport{Name: name, Clock: m.Clock(loc)}
	if at, ok := m.Time(); ok {
		at = at.In(loc)
		te.At = &at
	}
	return te
}

// Export converts a report to its exportable form.
func Export(r *Report) *ReportExport {
	if r == nil {
		return &ReportExport{}
	}
	loc := r.Place.location()

	e := &ReportExport{
		Timestamp: r.At,
		Place: PlaceExport{
			Name:     r.Place.Name,
			Lat:      r.Place.Coord.Latitude,
			Lon:      r.Place.Coord.Longitude,
			TimeZone: loc.String(),
		},
		Moon: MoonExport{
			Phase:         r.Phase.String(),
			Illumination:  r.Percent,
			PhaseFraction: r.Moon.PhaseFraction,
			AgeDays:       r.Moon.AgeDays(),
			Rise:          r.MoonWindow.Rise.Clock(loc),
			Set:           r.MoonWindow.Set.Clock(loc),
		},
		Qibla: QiblaExport{
			Bearing:    int(r.Qibla),
			Cardinal:   r.Qibla.Cardinal(),
			DistanceKm: r.QiblaDistKm,
		},
		Season: SeasonExport{Name: r.Season.Kind.String(), At: r.Season.At},
		Hijri:  r.Hijri.String(),
	}

	for _, p := range astro.Prayers {
		e.Prayers = append(e.Prayers, timeExport(p.String(), r.Prayers.Get(p), loc))
	}
	for _, s := range sunRows(r) {
		e.Sun = append(e.Sun, timeExport(s.name, s.m, loc))
	}
	if r.HasNext {
		te := timeExport(r.Next.Prayer.String(), r.Next.At, loc)
		e.Next = &te
	}
	return e
}

type namedMoment struct {
	name string
	m    astro.Moment
}

func sunRows(r *Report) []namedMoment {
	return []namedMoment{
		{"Dawn", r.Sun.Dawn},
		{"Sunrise", r.Sun.Sunrise},
		{"Solar noon", r.Sun.SolarNoon},
		{"Golden hour", r.Sun.GoldenHour},
		{"Sunset", r.Sun.Sunset},
		{"Dusk", r.Sun.Dusk},
	}
}

// WriteJSON writes the export as indented JSON.
func (e *ReportExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteSummary writes a plain-text report.
func WriteSummary(w io.Writer, r *Report) {
	loc := r.Place.location()

	fmt.Fprintf(w, "%s (%s) @ %s\n", r.Place.Name, r.Place.Coord, r.At.Format("2006-01-02 15:04 MST"))
	fmt.Fprintln(w, strings.Repeat("─", 48))
	fmt.Fprintf(w, "%-14s %s, %d%% lit\n", "Moon", r.Phase, r.Percent)
	fmt.Fprintf(w, "%-14s rise %s  set %s\n", "", r.MoonWindow.Rise.Clock(loc), r.MoonWindow.Set.Clock(loc))
	fmt.Fprintf(w, "%-14s %d° %s (%.0f km)\n", "Qibla", r.Qibla, r.Qibla.Cardinal(), r.QiblaDistKm)
	fmt.Fprintf(w, "%-14s %s\n", "Hijri", r.Hijri)
	fmt.Fprintf(w, "%-14s %s, %s\n", "Next season", r.Season.Kind, r.Season.At.In(loc).Format("2 Jan 2006"))
	fmt.Fprintln(w, strings.Repeat("─", 48))

	for _, p := range astro.Prayers {
		marker := " "
		if r.HasNext && !r.Next.Tomorrow && r.Next.Prayer == p {
			marker = "▶"
		}
		fmt.Fprintf(w, "%s %-12s %s\n", marker, p, r.Prayers.Clock(p))
	}
	fmt.Fprintln(w, strings.Repeat("─", 48))
	for _, s := range sunRows(r) {
		fmt.Fprintf(w, "  %-12s %s\n", s.name, s.m.Clock(loc))
	}
}

// WriteNow writes a single status line.
func WriteNow(w io.Writer, r *Report) {
	next := "no prayer pending"
	if r.HasNext {
		next = fmt.Sprintf("%s %s", r.Next.Prayer, r.Next.At.Clock(r.Place.location()))
		if d, ok := r.Until(); ok {
			next += " (in " + FormatCountdown(d) + ")"
		}
	}
	fmt.Fprintf(w, "%s %d%% | qibla %d° %s | %s\n", r.Phase, r.Percent, r.Qibla, r.Qibla.Cardinal(), next)
}

// FormatCountdown renders d as "2h05m" or "12m".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
