package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/calendar"
	"github.com/litescript/ls-qamar/internal/content"
	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/state"
)

// SparklineWidth is the fixed width of the illumination sparkline.
const SparklineWidth = 48

// sparklineBlocks are the block characters, lowest first.
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// messageTickMsg rotates the home-page verse.
type messageTickMsg time.Time

func messageTick() tea.Cmd {
	return tea.Tick(content.MessageInterval, func(t time.Time) tea.Msg {
		return messageTickMsg(t)
	})
}

// HomeModel is the landing page: the sky widget, the rotating verse and
// the hijri calendar.
type HomeModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	lastErr  error

	carousel content.Carousel
	month    calendar.Month
	monthSet bool
	now      func() time.Time
}

// NewHomeModel creates the home page.
func NewHomeModel() HomeModel {
	return HomeModel{now: time.Now}
}

// Init starts the verse rotation.
func (m HomeModel) Init() tea.Cmd {
	return messageTick()
}

// SetSize updates the viewport size.
func (m HomeModel) SetSize(width, height int) HomeModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData takes a new state snapshot. The calendar opens on the
// report's month the first time.
func (m HomeModel) UpdateData(snapshot state.Snapshot) HomeModel {
	m.snapshot = snapshot
	if snapshot.Report != nil {
		m.lastErr = nil
		if !m.monthSet {
			m.month = calendar.MonthOf(snapshot.Report.At)
			m.monthSet = true
		}
	}
	return m
}

// SetError sets the last error for display.
func (m HomeModel) SetError(err error) HomeModel {
	m.lastErr = err
	return m
}

// Month returns the calendar month on display.
func (m HomeModel) Month() calendar.Month {
	return m.month
}

// Update handles messages.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case messageTickMsg:
		m.carousel.Advance()
		return m, messageTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "[":
			m.month = m.month.Prev()
		case "right", "l", "]":
			m.month = m.month.Next()
		case "t":
			if r := m.snapshot.Report; r != nil {
				m.month = calendar.MonthOf(r.At)
			}
		}
	}
	return m, nil
}

// View renders the home page.
func (m HomeModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Erreur: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	r := m.snapshot.Report
	if r == nil {
		b.WriteString(dimStyle.Render("Calcul du ciel en cours..."))
		return b.String()
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSky(r),
		"",
		m.renderPrayers(r),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCalendar(),
		"",
		m.renderEvents(),
	)

	b.WriteString(m.renderMessage())
	b.WriteString("\n\n")
	if m.width > 0 && m.width < 100 {
		b.WriteString(left + "\n\n" + right)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	}
	return b.String()
}

func (m HomeModel) renderMessage() string {
	msg := m.carousel.Current()
	verse := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#F5D0FE"))
	return "  " + verse.Render("« "+msg.Text+" »") + "  " + dimStyle.Render("("+msg.Lang+", Fussilat 41:53)")
}

func (m HomeModel) renderSky(r *sky.Report) string {
	var b strings.Builder
	loc := r.At.Location()

	b.WriteString(titleStyle.Render(r.Place.Name))
	b.WriteString(dimStyle.Render("  " + r.At.Format("Mon 2 Jan 2006 15:04")))
	b.WriteString("\n")
	b.WriteString(goldStyle.Render(r.Hijri.String()))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s %s %s\n",
		labelStyle.Render(fmt.Sprintf("%-8s", "Lune")),
		moonGlyph(r.Phase),
		rowStyle.Render(fmt.Sprintf("%-16s", r.Phase)),
		renderBar(r.Moon.IlluminatedFraction, 20)+fmt.Sprintf(" %3d%%", r.Percent))
	fmt.Fprintf(&b, "%s   %s\n",
		labelStyle.Render(fmt.Sprintf("%-8s", "")),
		dimStyle.Render(fmt.Sprintf("lever %s  coucher %s  âge %.1f j",
			r.MoonWindow.Rise.Clock(loc), r.MoonWindow.Set.Clock(loc), r.Moon.AgeDays())))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-8s", "")), m.renderSparkline())

	fmt.Fprintf(&b, "%s %s %s\n",
		labelStyle.Render(fmt.Sprintf("%-8s", "Qibla")),
		goldStyle.Render(fmt.Sprintf("%3d° %-3s", r.Qibla, r.Qibla.Cardinal())),
		dimStyle.Render(fmt.Sprintf("%s  %.0f km", compassArrow(r.Qibla), r.QiblaDistKm)))
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render(fmt.Sprintf("%-8s", "Soleil")),
		rowStyle.Render(fmt.Sprintf("lever %s  coucher %s", r.Sun.Sunrise.Clock(loc), r.Sun.Sunset.Clock(loc))))
	fmt.Fprintf(&b, "%s %s",
		labelStyle.Render(fmt.Sprintf("%-8s", "Saison")),
		dimStyle.Render(fmt.Sprintf("%s, %s", r.Season.Kind, r.Season.At.In(loc).Format("2 Jan 2006 15:04"))))
	return b.String()
}

func (m HomeModel) renderPrayers(r *sky.Report) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-6s", "Prière", "Heure")))
	b.WriteString("\n")
	for _, p := range astro.Prayers {
		line := fmt.Sprintf("%-10s %-6s", p, r.Prayers.Clock(p))
		if r.HasNext && !r.Next.Tomorrow && r.Next.Prayer == p {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if r.HasNext {
		when := r.Next.At.Clock(r.At.Location())
		if r.Next.Tomorrow {
			when += " (demain)"
		}
		next := fmt.Sprintf("Prochaine: %s à %s", r.Next.Prayer, when)
		if at, ok := r.Next.At.Time(); ok {
			next += " · dans " + sky.FormatCountdown(at.Sub(m.now()))
		}
		b.WriteString(accentStyle.Render(next))
	} else {
		b.WriteString(dimStyle.Render("Aucune prière à venir"))
	}
	return b.String()
}

func (m HomeModel) renderCalendar() string {
	grid := calendar.MonthGrid(m.month, m.today())
	today := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("‹ " + grid.Month.String() + " ›"))
	b.WriteString("\n")
	for _, wd := range calendar.Weekdays {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-7s", wd)))
	}
	b.WriteString("\n")
	for _, week := range grid.Weeks {
		var greg, hijri strings.Builder
		for _, c := range week {
			if c.Blank {
				greg.WriteString("       ")
				hijri.WriteString("       ")
				continue
			}
			day := fmt.Sprintf("%-7d", c.Day)
			if c.IsToday {
				day = today.Render(fmt.Sprintf("%-2d", c.Day)) + "     "
			} else {
				day = rowStyle.Render(day)
			}
			greg.WriteString(day)
			hijri.WriteString(dimStyle.Render(fmt.Sprintf("%-7s", fmt.Sprintf("%d/%d", c.Hijri.Day, c.Hijri.Month))))
		}
		b.WriteString(greg.String() + "\n" + hijri.String() + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m HomeModel) today() time.Time {
	if r := m.snapshot.Report; r != nil {
		return r.At
	}
	return m.now()
}

func (m HomeModel) renderEvents() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Événements"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(dimStyle.Render("Aucun pour l'instant"))
		return b.String()
	}
	if len(events) > 5 {
		events = events[len(events)-5:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		b.WriteString(dimStyle.Render(events[i].Timestamp.Format("15:04")) + " " + describeEvent(events[i]) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeEvent(e state.Event) string {
	switch e.Type {
	case state.EventPrayerDue:
		return goldStyle.Render("Heure de " + e.Prayer)
	case state.EventPhaseChange:
		return accentStyle.Render(e.OldPhase + " → " + e.NewPhase)
	case state.EventNewDay:
		return rowStyle.Render("Nouveau jour: " + e.Hijri)
	}
	return string(e.Type)
}

// renderSparkline draws the illumination history.
func (m HomeModel) renderSparkline() string {
	samples := resample(m.snapshot.Illumination, SparklineWidth)
	if len(samples) == 0 {
		return dimStyle.Render("pas encore d'historique")
	}
	var sb strings.Builder
	for _, v := range samples {
		idx := int(v * 7)
		if idx < 0 {
			idx = 0
		}
		if idx > 7 {
			idx = 7
		}
		g := 80 + int(v*170)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(rgb(g, g, g+20))).Render(string(sparklineBlocks[idx])))
	}
	return sb.String()
}

// resample averages points into at most width buckets.
func resample(points []state.TimeSeries, width int) []float64 {
	if len(points) == 0 || width <= 0 {
		return nil
	}
	if len(points) < width {
		width = len(points)
	}
	out := make([]float64, width)
	per := float64(len(points)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * per)
		end := int(float64(i+1) * per)
		if end > len(points) {
			end = len(points)
		}
		if start >= end {
			start = end - 1
		}
		sum := 0.0
		for _, p := range points[start:end] {
			sum += p.Value
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func moonGlyph(p astro.PhaseLabel) string {
	glyphs := map[astro.PhaseLabel]string{
		astro.NewMoon:       "🌑",
		astro.FirstCrescent: "🌒",
		astro.FirstQuarter:  "🌓",
		astro.WaxingGibbous: "🌔",
		astro.FullMoon:      "🌕",
		astro.WaningGibbous: "🌖",
		astro.LastQuarter:   "🌗",
		astro.LastCrescent:  "🌘",
	}
	return glyphs[p]
}

// compassArrow points toward b in eight sectors.
func compassArrow(b astro.Bearing) string {
	arrows := []string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}
	return arrows[((int(b)+22)%360)/45]
}
