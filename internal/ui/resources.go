package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-qamar/internal/content"
)

// ResourcesModel lists the curated external links.
type ResourcesModel struct {
	cursor int
	total  int
}

// NewResourcesModel creates the resources page.
func NewResourcesModel() ResourcesModel {
	n := 0
	for _, g := range content.Resources {
		n += len(g.Links)
	}
	return ResourcesModel{total: n}
}

// Selected returns the highlighted link.
func (m ResourcesModel) Selected() content.Link {
	i := m.cursor
	for _, g := range content.Resources {
		if i < len(g.Links) {
			return g.Links[i]
		}
		i -= len(g.Links)
	}
	return content.Link{}
}

// Update handles messages.
func (m ResourcesModel) Update(msg tea.Msg) (ResourcesModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.total-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View renders the links grouped by category.
func (m ResourcesModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ressources"))
	b.WriteString("\n")

	i := 0
	for _, g := range content.Resources {
		b.WriteString("\n" + labelStyle.Render(g.Category) + "\n")
		for _, l := range g.Links {
			if i == m.cursor {
				b.WriteString(selectedRowStyle.Render("▶ " + l.Title))
				b.WriteString("  " + accentStyle.Render(l.URL))
				b.WriteString("\n    " + dimStyle.Render(l.Description))
			} else {
				b.WriteString(rowStyle.Render("  " + l.Title))
			}
			b.WriteString("\n")
			i++
		}
	}
	return b.String()
}
