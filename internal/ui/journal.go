package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/content"
	"github.com/litescript/ls-qamar/internal/store"
)

type journalMsg struct {
	entries []content.Entry
	err     error
}

type entrySavedMsg struct {
	err error
}

const (
	fieldTitle = iota
	fieldVerse
	fieldType
	fieldBody
	fieldCount
)

// JournalModel is the signed-in user's contemplation journal.
type JournalModel struct {
	journal *content.Journal
	user    *auth.User
	width   int
	height  int

	entries []content.Entry
	cursor  int
	loading bool
	err     error
	notice  string

	editing bool
	focus   int
	title   textinput.Model
	verse   textinput.Model
	body    textarea.Model
	kind    int
	formErr error
}

// NewJournalModel creates the journal page.
func NewJournalModel(ds store.DataStore) JournalModel {
	m := JournalModel{}
	if ds != nil {
		m.journal = content.NewJournal(ds)
	}

	m.title = textinput.New()
	m.title.Placeholder = "Titre de votre réflexion"
	m.title.CharLimit = 120

	m.verse = textinput.New()
	m.verse.Placeholder = "Référence coranique (optionnel), ex: Al-Baqarah 2:164"
	m.verse.CharLimit = 80

	m.body = textarea.New()
	m.body.Placeholder = "Partagez vos pensées, observations et réflexions..."
	m.body.ShowLineNumbers = false
	m.body.SetHeight(6)
	return m
}

// SetSize updates the viewport size.
func (m JournalModel) SetSize(width, height int) JournalModel {
	m.width = width
	m.height = height
	w := min(max(width-8, 20), 100)
	m.title.Width = w
	m.verse.Width = w
	m.body.SetWidth(w)
	return m
}

// SetUser swaps the signed-in user and reloads the entries.
func (m JournalModel) SetUser(u *auth.User) (JournalModel, tea.Cmd) {
	m.user = u
	m.entries = nil
	m.cursor = 0
	m.editing = false
	m.err = nil
	if u == nil {
		return m, nil
	}
	m.loading = true
	return m, m.load()
}

// Capturing reports whether the form has the keyboard.
func (m JournalModel) Capturing() bool {
	return m.editing
}

func (m JournalModel) load() tea.Cmd {
	if m.journal == nil || m.user == nil {
		return nil
	}
	j, u := m.journal, m.user
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		entries, err := j.List(ctx, u)
		return journalMsg{entries: entries, err: err}
	}
}

func (m JournalModel) save(e content.Entry) tea.Cmd {
	j, u := m.journal, m.user
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return entrySavedMsg{err: j.Add(ctx, u, e)}
	}
}

func (m *JournalModel) openForm() tea.Cmd {
	m.editing = true
	m.formErr = nil
	m.notice = ""
	m.kind = 0
	m.title.Reset()
	m.verse.Reset()
	m.body.Reset()
	return m.setFocus(fieldTitle)
}

func (m *JournalModel) setFocus(f int) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.verse.Blur()
	m.body.Blur()
	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldVerse:
		return m.verse.Focus()
	case fieldBody:
		return m.body.Focus()
	}
	return nil
}

// Update handles messages.
func (m JournalModel) Update(msg tea.Msg) (JournalModel, tea.Cmd) {
	switch msg := msg.(type) {
	case journalMsg:
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = 0
		}
		return m, nil

	case entrySavedMsg:
		if msg.err != nil {
			m.formErr = msg.err
			m.editing = true
			return m, nil
		}
		m.notice = "Réflexion enregistrée avec succès !"
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		if m.user == nil {
			return m, nil
		}
		if m.editing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "n":
			if m.journal == nil {
				m.notice = "Aucun stockage configuré."
				return m, nil
			}
			cmd := m.openForm()
			return m, cmd
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m JournalModel) updateForm(msg tea.KeyMsg) (JournalModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.setFocus(-1)
		return m, nil
	case "tab":
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case "ctrl+s":
		kind := content.ObservationTypes[m.kind]
		e, err := content.NewEntry(m.title.Value(), m.body.Value(), m.verse.Value(), kind)
		if err != nil {
			m.formErr = err
			return m, nil
		}
		m.editing = false
		m.formErr = nil
		m.setFocus(-1)
		return m, m.save(e)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldVerse:
		m.verse, cmd = m.verse.Update(msg)
	case fieldType:
		switch msg.String() {
		case "left", "h":
			m.kind = (m.kind + len(content.ObservationTypes) - 1) % len(content.ObservationTypes)
		case "right", "l", " ":
			m.kind = (m.kind + 1) % len(content.ObservationTypes)
		}
	case fieldBody:
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// View renders the journal.
func (m JournalModel) View() string {
	if m.user == nil {
		return renderGuard("Journal de contemplation")
	}
	if m.editing {
		return m.viewForm()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Journal de contemplation"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d réflexion(s)", len(m.entries))))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(okStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.journal == nil:
		b.WriteString(dimStyle.Render("Aucun stockage configuré (mode hors ligne)."))
		return b.String()
	case m.loading:
		b.WriteString(dimStyle.Render("Chargement..."))
		return b.String()
	case m.err != nil:
		b.WriteString(errorStyle.Render("Erreur: " + m.err.Error()))
		return b.String()
	case len(m.entries) == 0:
		b.WriteString(dimStyle.Render("Aucune réflexion pour le moment. Appuyez sur n pour commencer."))
		return b.String()
	}

	for i, e := range m.entries {
		date := e.CreatedAt.Local().Format("02/01/2006")
		line := fmt.Sprintf("%s  %-40s %s", date, truncate(e.Title, 40), dimStyle.Render(e.ObservationType.Label()))
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render("▶ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.entries) {
		e := m.entries[m.cursor]
		width := min(max(m.width-8, 20), 100)
		body := lipgloss.NewStyle().Width(width).Render(e.Content)
		if v := e.Verse(); v != "" {
			body = goldStyle.Render(v) + "\n" + body
		}
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(labelStyle.Render(e.Title) + "\n" + body))
	}
	return b.String()
}

func (m JournalModel) viewForm() string {
	label := func(f int, s string) string {
		if m.focus == f {
			return accentStyle.Render("▶ " + s)
		}
		return labelStyle.Render("  " + s)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Nouvelle réflexion"))
	b.WriteString("\n\n")
	b.WriteString(label(fieldTitle, "Titre"))
	b.WriteString("\n  " + m.title.View() + "\n\n")
	b.WriteString(label(fieldVerse, "Verset"))
	b.WriteString("\n  " + m.verse.View() + "\n\n")

	b.WriteString(label(fieldType, "Type d'observation"))
	b.WriteString("\n  ")
	for i, o := range content.ObservationTypes {
		if i == m.kind {
			b.WriteString(selectedRowStyle.Render(" " + o.Label() + " "))
		} else {
			b.WriteString(dimStyle.Render(" " + o.Label() + " "))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(label(fieldBody, "Réflexion"))
	b.WriteString("\n" + m.body.View() + "\n")

	if m.formErr != nil {
		b.WriteString("\n" + errorStyle.Render(formError(m.formErr)))
	}
	return b.String()
}

func formError(err error) string {
	switch {
	case errors.Is(err, content.ErrTitleRequired):
		return "Le titre est requis."
	case errors.Is(err, content.ErrContentRequired):
		return "La réflexion ne peut pas être vide."
	}
	return "Erreur: " + err.Error()
}
