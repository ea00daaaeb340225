package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/dashboard"
	"github.com/litescript/ls-qamar/internal/store"
)

type weekendsMsg struct {
	weekends []dashboard.Weekend
	err      error
}

// DashboardModel is the members' page: upcoming and open weekends with a
// countdown to each start date.
type DashboardModel struct {
	svc    *dashboard.Service
	user   *auth.User
	now    func() time.Time
	width  int
	height int

	weekends []dashboard.Weekend
	cursor   int
	loading  bool
	err      error
}

// NewDashboardModel creates the dashboard page.
func NewDashboardModel(ds store.DataStore) DashboardModel {
	m := DashboardModel{now: time.Now}
	if ds != nil {
		m.svc = dashboard.NewService(ds)
	}
	return m
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// SetUser swaps the signed-in user and reloads the weekends.
func (m DashboardModel) SetUser(u *auth.User) (DashboardModel, tea.Cmd) {
	m.user = u
	m.weekends = nil
	m.cursor = 0
	m.err = nil
	if u == nil || m.svc == nil {
		return m, nil
	}
	m.loading = true
	svc := m.svc
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ws, err := svc.List(ctx, u)
		return weekendsMsg{weekends: ws, err: err}
	}
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case weekendsMsg:
		m.loading = false
		m.err = msg.err
		m.weekends = msg.weekends
		m.cursor = 0
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.weekends)-1 {
				m.cursor++
			}
		case "r":
			return m.SetUser(m.user)
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	if m.user == nil {
		return renderGuard("Espace membres")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Espace membres"))
	b.WriteString(dimStyle.Render("  Bienvenue, " + m.user.Email))
	b.WriteString("\n\n")

	switch {
	case m.svc == nil:
		b.WriteString(dimStyle.Render("Aucun stockage configuré (mode hors ligne)."))
		return b.String()
	case m.loading:
		b.WriteString(dimStyle.Render("Chargement..."))
		return b.String()
	case m.err != nil:
		b.WriteString(errorStyle.Render("Erreur: " + m.err.Error()))
		return b.String()
	case len(m.weekends) == 0:
		b.WriteString(dimStyle.Render("Aucun week-end programmé pour le moment."))
		return b.String()
	}

	now := m.now()
	for i, w := range m.weekends {
		cd := w.Countdown(now)
		status := goldStyle.Render("🔒 dans " + cd.String())
		if cd.Available {
			status = okStyle.Render("✓ disponible")
		}
		line := fmt.Sprintf("%s  %-36s ", w.StartDate.In(now.Location()).Format("02/01/2006"), truncate(w.Title, 36))
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render("▶ "+line) + status)
		} else {
			b.WriteString(rowStyle.Render("  "+line) + status)
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.weekends) {
		b.WriteString("\n")
		b.WriteString(m.viewWeekend(m.weekends[m.cursor], now))
	}
	return b.String()
}

func (m DashboardModel) viewWeekend(w dashboard.Weekend, now time.Time) string {
	width := min(max(m.width-8, 20), 100)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(labelStyle.Render(w.Title))
	b.WriteString("\n")
	b.WriteString(wrap.Render(w.Description))
	b.WriteString("\n\n")

	cd := w.Countdown(now)
	if !cd.Available {
		b.WriteString(goldStyle.Render(fmt.Sprintf("Ouverture dans %s", cd)))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("En attendant, un peu de détente :"))
		b.WriteString("\n")
		for _, p := range dashboard.Pastimes {
			b.WriteString(rowStyle.Render("  • " + p.Name + "  "))
			b.WriteString(dimStyle.Render(p.URL))
			b.WriteString("\n")
		}
		return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
	}

	for _, s := range w.Sections {
		b.WriteString(accentStyle.Render("▸ " + s.Title))
		if s.Type != "" {
			b.WriteString(dimStyle.Render("  (" + s.Type + ")"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(s.Content))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
