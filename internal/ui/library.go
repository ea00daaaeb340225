package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/content"
	"github.com/litescript/ls-qamar/internal/store"
)

type articlesMsg struct {
	articles []content.Article
	err      error
}

// LibraryModel lists published articles by category and opens one in a
// scrollable reader.
type LibraryModel struct {
	ds     store.DataStore
	width  int
	height int

	articles   []content.Article
	categories []string
	catIdx     int
	cursor     int
	loading    bool
	err        error

	reading bool
	reader  viewport.Model
}

// NewLibraryModel creates the library page.
func NewLibraryModel(ds store.DataStore) LibraryModel {
	return LibraryModel{
		ds:         ds,
		categories: []string{content.AllCategories},
		loading:    ds != nil,
		reader:     viewport.New(80, 20),
	}
}

// Load fetches the published articles.
func (m LibraryModel) Load() tea.Cmd {
	if m.ds == nil {
		return nil
	}
	ds := m.ds
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		a, err := content.NewLibrary(ds).Published(ctx)
		return articlesMsg{articles: a, err: err}
	}
}

// SetSize updates the viewport size.
func (m LibraryModel) SetSize(width, height int) LibraryModel {
	m.width = width
	m.height = height
	m.reader.Width = width - 4
	m.reader.Height = height - 4
	return m
}

// Visible returns the articles in the selected category.
func (m LibraryModel) Visible() []content.Article {
	return content.Filter(m.articles, m.categories[m.catIdx])
}

// Update handles messages.
func (m LibraryModel) Update(msg tea.Msg) (LibraryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case articlesMsg:
		m.loading = false
		m.err = msg.err
		m.articles = msg.articles
		m.categories = content.Categories(m.articles)
		m.catIdx, m.cursor = 0, 0
		return m, nil

	case tea.KeyMsg:
		if m.reading {
			switch msg.String() {
			case "esc", "backspace":
				m.reading = false
				return m, nil
			}
			var cmd tea.Cmd
			m.reader, cmd = m.reader.Update(msg)
			return m, cmd
		}

		visible := m.Visible()
		switch msg.String() {
		case "left", "h":
			m.catIdx = (m.catIdx + len(m.categories) - 1) % len(m.categories)
			m.cursor = 0
		case "right", "l":
			m.catIdx = (m.catIdx + 1) % len(m.categories)
			m.cursor = 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(visible)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(visible) {
				m.reading = true
				m.reader.SetContent(m.renderArticle(visible[m.cursor]))
				m.reader.GotoTop()
			}
		case "r":
			m.loading = m.ds != nil
			return m, m.Load()
		}
	}
	return m, nil
}

// View renders the library.
func (m LibraryModel) View() string {
	if m.reading {
		return boxStyle.Render(m.reader.View()) + "\n" + dimStyle.Render(fmt.Sprintf("  %3.0f%%", m.reader.ScrollPercent()*100))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Bibliothèque"))
	b.WriteString(dimStyle.Render("  Articles sur l'astronomie, l'Islam et les sciences"))
	b.WriteString("\n\n")

	if m.ds == nil {
		b.WriteString(dimStyle.Render("Aucune source de contenu configurée (mode hors ligne)."))
		return b.String()
	}
	if m.loading {
		b.WriteString(dimStyle.Render("Chargement..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Erreur: " + m.err.Error()))
		return b.String()
	}

	var cats []string
	for i, c := range m.categories {
		label := c
		if c == content.AllCategories {
			label = "Tous"
		}
		if i == m.catIdx {
			cats = append(cats, selectedRowStyle.Render(" "+label+" "))
		} else {
			cats = append(cats, dimStyle.Render(" "+label+" "))
		}
	}
	b.WriteString(strings.Join(cats, " "))
	b.WriteString("\n\n")

	visible := m.Visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("Aucun article dans cette catégorie."))
		return b.String()
	}
	for i, a := range visible {
		line := fmt.Sprintf("%-40s %s", truncate(a.Title, 40), dimStyle.Render(a.Category))
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render("▶ " + truncate(a.Title, 40)))
			b.WriteString("\n    " + rowStyle.Render(a.Summary(120)))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m LibraryModel) renderArticle(a content.Article) string {
	width := m.reader.Width
	if width <= 0 {
		width = 76
	}
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.Title))
	b.WriteString("\n")
	meta := a.Category
	if !a.CreatedAt.IsZero() {
		meta += " · " + a.CreatedAt.Format("2 Jan 2006")
	}
	if len(a.Tags) > 0 {
		meta += " · #" + strings.Join(a.Tags, " #")
	}
	b.WriteString(dimStyle.Render(meta))
	b.WriteString("\n\n")
	b.WriteString(body.Render(a.Content))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
