package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0
	fovEl = 60.0

	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	glyphMoon  = '◐'
	glyphSun   = '☼'
	glyphQibla = '▼'

	colorMoon   = "#E9D5FF"
	colorSun    = "#FFD700"
	colorQibla  = "#EC4899"
	colorFocus  = "229"
	colorMarker = "46"

	glyphStarBright = '✶' // mag < 1.5
	glyphStarMedium = '✸' // mag 1.5-3.0
	glyphStarDim    = '·'

	colorStarBright = "255"
	colorStarMedium = "250"
	colorStarDim    = "244"
)

// LabelMode controls how target labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused target
	LabelAll                      // Every target
)

// skyTarget is something the camera can point at.
type skyTarget struct {
	name  string
	glyph rune
	color string
	coord astro.SkyCoord
}

// SkyViewModel renders the local sky dome with the Moon, the Sun, the
// bright stars and the qibla direction on the horizon.
type SkyViewModel struct {
	width  int
	height int

	observer astro.GeoCoordinate
	at       time.Time
	qibla    astro.Bearing
	targets  []skyTarget
	focusIdx int

	// Camera position (center of view)
	camAz float64
	camEl float64

	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	labelMode   LabelMode
	starCatalog astro.StarCatalog
}

// NewSkyViewModel creates a sky view for observer.
func NewSkyViewModel(observer astro.GeoCoordinate) SkyViewModel {
	return SkyViewModel{
		observer:    observer,
		camAz:       180,
		camEl:       30,
		labelMode:   LabelAll,
		starCatalog: astro.DefaultStarCatalog(),
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData positions the targets for the snapshot's report.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	r := snapshot.Report
	if r == nil {
		return m
	}
	m.observer = r.Place.Coord
	m.qibla = r.Qibla
	m = m.At(r.At)
	return m
}

// At recomputes every target for t.
func (m SkyViewModel) At(t time.Time) SkyViewModel {
	m.at = t
	moon := astro.EquatorialToHorizontal(astro.MoonPosition(t), m.observer, t)
	ra, dec := astro.SunPosition(t)
	sun := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: ra, DecDeg: dec}, m.observer, t)

	m.targets = []skyTarget{
		{name: "Lune", glyph: glyphMoon, color: colorMoon, coord: moon},
		{name: "Soleil", glyph: glyphSun, color: colorSun, coord: sun},
		{name: "Qibla", glyph: glyphQibla, color: colorQibla, coord: astro.SkyCoord{AzDeg: float64(m.qibla)}},
	}
	if m.focusIdx >= len(m.targets) {
		m.focusIdx = 0
	}
	if !m.animating {
		m.camAz, m.camEl = m.cameraFor(m.targets[m.focusIdx])
	}
	return m
}

// cameraFor centers a target, keeping the horizon in view.
func (m SkyViewModel) cameraFor(t skyTarget) (float64, float64) {
	el := t.coord.ElDeg
	if el < fovEl/2-5 {
		el = fovEl/2 - 5
	}
	return t.coord.AzDeg, el
}

// Focused returns the name of the focused target.
func (m SkyViewModel) Focused() string {
	if m.focusIdx < len(m.targets) {
		return m.targets[m.focusIdx].name
	}
	return ""
}

type skyAnimTickMsg time.Time

func skyAnimTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return skyAnimTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			return m.focusStep(-1)
		case "down", "j":
			return m.focusStep(1)
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		}

	case skyAnimTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}
	return m, nil
}

func (m SkyViewModel) focusStep(d int) (SkyViewModel, tea.Cmd) {
	if len(m.targets) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + d + len(m.targets)) % len(m.targets)

	m.animating = true
	m.animStartAz, m.animStartEl = m.camAz, m.camEl
	m.animTargAz, m.animTargEl = m.cameraFor(m.targets[m.focusIdx])
	m.animStart = time.Now()
	return m, skyAnimTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	t := float64(time.Since(m.animStart)) / float64(animDuration)
	if t >= 1.0 {
		m.animating = false
		m.camAz, m.camEl = m.animTargAz, m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)
	m.camAz = lerpAngle(m.animStartAz, m.animTargAz, t)
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)
	return m, skyAnimTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "La vue du ciel demande un terminal plus grand"
	}
	if len(m.targets) == 0 {
		return dimStyle.Render("Calcul du ciel en cours...")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(m.width, m.height-4))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	title := labelStyle.Render("Ciel local")
	var labels string
	switch m.labelMode {
	case LabelNone:
		labels = dimStyle.Render("Étiquettes: non")
	case LabelFocused:
		labels = accentStyle.Render("Étiquettes: cible")
	case LabelAll:
		labels = accentStyle.Render("Étiquettes: toutes")
	}
	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl))
	return fmt.Sprintf("%s | %s | %s | %s", title, dimStyle.Render(m.observer.String()), labels, compass)
}

func (m SkyViewModel) renderStatus() string {
	t := m.targets[m.focusIdx]
	line := fmt.Sprintf(">>> %s | Az:%.0f°", t.name, t.coord.AzDeg)
	switch t.name {
	case "Qibla":
		line += fmt.Sprintf(" %s", m.qibla.Cardinal())
	default:
		line += fmt.Sprintf(" El:%.0f° (%s)", t.coord.ElDeg, tierLabel(astro.GetElevationTier(t.coord.ElDeg)))
		if t.coord.RangeKm > 0 {
			line += fmt.Sprintf(" | %.0f km", t.coord.RangeKm)
		}
	}
	if stars := m.starCatalog.AboveHorizon(m.observer, m.at); len(stars) > 0 {
		line += fmt.Sprintf(" | ✶ %s (%s)", stars[0].Name, stars[0].Arabic)
	}
	return goldStyle.Render(line)
}

func tierLabel(t astro.ElevationTier) string {
	switch t {
	case astro.ElevationLow:
		return "bas"
	case astro.ElevationMedium:
		return "moyen"
	case astro.ElevationHigh:
		return "haut"
	}
	return "sous l'horizon"
}

func (m SkyViewModel) renderCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2
	for _, star := range m.starCatalog.AboveHorizon(m.observer, m.at) {
		x, y, ok := m.projectToScreen(star.AzDeg, star.ElDeg, width, height)
		if !ok || x < 0 || x >= width || y < 0 || y >= horizonY {
			continue
		}
		glyph, color := starGlyph(star.Mag)
		canvas[y][x] = glyph
		colors[y][x] = color
	}

	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}
	for _, c := range []struct {
		label string
		az    float64
	}{{"N", 0}, {"E", 90}, {"S", 180}, {"O", 270}} {
		if x, _, ok := m.projectToScreen(c.az, 0, width, height); ok && x >= 0 && x < width {
			canvas[horizonY][x] = rune(c.label[0])
			colors[horizonY][x] = "252"
		}
	}

	for i, t := range m.targets {
		x, y, ok := m.projectToScreen(t.coord.AzDeg, t.coord.ElDeg, width, height)
		if !ok || x < 0 || x >= width {
			continue
		}
		if t.glyph == glyphQibla {
			y = horizonY - 1
		}
		if y < 0 || y >= horizonY {
			continue
		}
		color := lipgloss.Color(t.color)
		if i == m.focusIdx {
			color = colorFocus
		}
		canvas[y][x] = t.glyph
		colors[y][x] = color

		if m.labelMode == LabelAll || (m.labelMode == LabelFocused && i == m.focusIdx) {
			label := []rune(t.name)
			if i == m.focusIdx {
				label = []rune("◄ " + t.name)
			}
			for j, r := range label {
				lx := x + 2 + j
				if lx >= width {
					break
				}
				canvas[y][lx] = r
				colors[y][lx] = color
			}
		}
	}

	if sx := width / 2; height > 0 && sx < width {
		canvas[height-1][sx] = '▲'
		colors[height-1][sx] = colorMarker
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	default:
		return glyphStarDim, colorStarDim
	}
}

// projectToScreen converts az/el to screen coordinates relative to the
// camera.
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl
	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	horizonY := height - 2
	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))
	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking the shortest path.
func lerpAngle(a, b, t float64) float64 {
	return a + normalizeAngle(b-a)*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
