package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/content"
	"github.com/litescript/ls-qamar/internal/sky"
)

// MapModel lists the historical sites with their bearing and distance from
// the observer.
type MapModel struct {
	place  sky.Place
	width  int
	height int

	views      []content.SiteView
	err        error
	byDistance bool
	category   int // 0 = all, else index+1 into SiteCategories
	cursor     int
}

// NewMapModel annotates the sites from place.
func NewMapModel(place sky.Place) MapModel {
	views, err := content.SitesFrom(place.Coord)
	return MapModel{place: place, views: views, err: err}
}

// SetSize updates the viewport size.
func (m MapModel) SetSize(width, height int) MapModel {
	m.width = width
	m.height = height
	return m
}

// Visible returns the sites after sorting and category filtering.
func (m MapModel) Visible() []content.SiteView {
	views := m.views
	if m.byDistance {
		views = content.ByDistance(views)
	}
	if m.category == 0 {
		return views
	}
	want := content.SiteCategories()[m.category-1]
	var out []content.SiteView
	for _, v := range views {
		if v.Category == want {
			out = append(out, v)
		}
	}
	return out
}

// Update handles messages.
func (m MapModel) Update(msg tea.Msg) (MapModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Visible())-1 {
			m.cursor++
		}
	case "s":
		m.byDistance = !m.byDistance
		m.cursor = 0
	case "c":
		m.category = (m.category + 1) % (len(content.SiteCategories()) + 1)
		m.cursor = 0
	}
	return m, nil
}

// View renders the site list.
func (m MapModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Carte des lieux"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  depuis %s (%s)", m.place.Name, m.place.Coord)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Erreur: " + m.err.Error()))
		return b.String()
	}

	order := "ordre historique"
	if m.byDistance {
		order = "plus proche d'abord"
	}
	cat := "toutes catégories"
	if m.category > 0 {
		cat = content.SiteCategories()[m.category-1]
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Tri: %s · Filtre: %s", order, cat)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-34s %-20s %8s  %-4s %9s", "LIEU", "CATÉGORIE", "CAP", "", "DISTANCE")))
	b.WriteString("\n")

	visible := m.Visible()
	for i, v := range visible {
		marker := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color())).Render("●")
		line := fmt.Sprintf("%-34s %-20s %7d°  %-4s %6.0f km",
			truncate(v.Name, 34), v.Category, int(v.Bearing), v.Cardinal, v.DistanceKm)
		if i == m.cursor {
			b.WriteString(marker + selectedRowStyle.Render(" "+line))
		} else {
			b.WriteString(marker + rowStyle.Render(" "+line))
		}
		b.WriteString("\n")
	}

	if m.cursor < len(visible) {
		sel := visible[m.cursor]
		width := m.width - 6
		if width < 20 {
			width = 60
		}
		desc := lipgloss.NewStyle().Width(width).Render(sel.Description)
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(labelStyle.Render(sel.Name) + "\n" + desc +
			"\n" + dimStyle.Render(fmt.Sprintf("%s · cap %s %s", sel.Coord, compassArrow(sel.Bearing), sel.Cardinal))))
	}
	return b.String()
}
