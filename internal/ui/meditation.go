package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/meditation"
)

// stepMsg advances a playing meditation. Ticks carrying an older generation
// are dropped, so pausing or resetting cancels the pending tick.
type stepMsg struct {
	gen int
}

// MeditationModel lists the guided meditations and plays one.
type MeditationModel struct {
	catalog []meditation.Meditation
	cursor  int
	width   int
	height  int

	seq *meditation.Sequencer
	gen int
	bar progress.Model
}

// NewMeditationModel creates the meditation page.
func NewMeditationModel() MeditationModel {
	return MeditationModel{
		catalog: meditation.Catalog(),
		bar:     progress.New(progress.WithGradient("#3B82F6", "#EC4899"), progress.WithoutPercentage()),
	}
}

// SetSize updates the viewport size.
func (m MeditationModel) SetSize(width, height int) MeditationModel {
	m.width = width
	m.height = height
	m.bar.Width = min(max(width-10, 20), 80)
	return m
}

// Open reports whether a meditation is on screen.
func (m MeditationModel) Open() bool {
	return m.seq != nil
}

func (m MeditationModel) schedule() tea.Cmd {
	if m.seq == nil || !m.seq.Playing() {
		return nil
	}
	gen := m.gen
	return tea.Tick(m.seq.Delay(), func(time.Time) tea.Msg {
		return stepMsg{gen: gen}
	})
}

// Update handles messages.
func (m MeditationModel) Update(msg tea.Msg) (MeditationModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		if m.seq == nil || msg.gen != m.gen || !m.seq.Playing() {
			return m, nil
		}
		m.seq.Advance()
		return m, m.schedule()

	case tea.KeyMsg:
		if m.seq == nil {
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.catalog)-1 {
					m.cursor++
				}
			case "enter":
				m.seq = meditation.NewSequencer(m.catalog[m.cursor])
				m.gen++
			}
			return m, nil
		}

		switch msg.String() {
		case " ", "p":
			m.gen++
			m.seq.Toggle()
			return m, m.schedule()
		case "r":
			m.gen++
			m.seq.Reset()
		case "n", "right":
			m.gen++
			m.seq.Advance()
			return m, m.schedule()
		case "esc", "backspace":
			m.gen++
			m.seq = nil
		}
	}
	return m, nil
}

// View renders the catalog or the player.
func (m MeditationModel) View() string {
	if m.seq != nil {
		return m.viewPlayer()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Méditations guidées"))
	b.WriteString("\n\n")
	for i, med := range m.catalog {
		title := fmt.Sprintf("%s  %s", med.Title, dimStyle.Render("("+med.Duration+")"))
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render("▶ " + med.Title))
			b.WriteString(dimStyle.Render("  (" + med.Duration + ")"))
			b.WriteString("\n    " + rowStyle.Render(med.Description))
		} else {
			b.WriteString(rowStyle.Render("  " + title))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m MeditationModel) viewPlayer() string {
	med := m.seq.Meditation()
	width := m.width - 8
	if width < 20 {
		width = 70
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(med.Title))
	b.WriteString(dimStyle.Render("  " + med.Duration))
	b.WriteString("\n\n")

	step := lipgloss.NewStyle().Width(width).Italic(true).Render(m.seq.Step())
	b.WriteString(boxStyle.Render(goldStyle.Render(step)))
	b.WriteString("\n\n")

	b.WriteString(m.bar.ViewAs(m.seq.Progress()))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  étape %d/%d", m.seq.Index()+1, m.seq.Len())))
	b.WriteString("\n")

	switch {
	case m.seq.Playing():
		b.WriteString(okStyle.Render(fmt.Sprintf("▶ lecture · suivant dans %s", m.seq.Delay())))
	case m.seq.AtEnd():
		b.WriteString(accentStyle.Render("✓ terminé · r pour recommencer"))
	default:
		b.WriteString(dimStyle.Render("⏸ en pause · espace pour lire"))
	}
	return b.String()
}
