// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/logging"
	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/state"
	"github.com/litescript/ls-qamar/internal/store"
	"github.com/litescript/ls-qamar/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewHome ViewMode = iota
	ViewSky
	ViewLibrary
	ViewMap
	ViewMeditation
	ViewJournal
	ViewQuiz
	ViewDashboard
	ViewResources
	ViewAccount

	viewCount
)

var tabNames = [viewCount]string{
	"Accueil", "Ciel", "Bibliothèque", "Carte", "Méditation",
	"Journal", "Quiz", "Tableau", "Ressources", "Compte",
}

// tabKey is the digit that opens view v: 1-9 then 0.
func tabKey(v ViewMode) string {
	return fmt.Sprintf("%d", (int(v)+1)%10)
}

// requestTimeout bounds every backend call made from the UI.
const requestTimeout = 15 * time.Second

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new sky report is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a compute error.
	ErrorMsg struct {
		Error error
	}

	// userMsg carries the result of the startup session check.
	userMsg struct {
		user *auth.User
		err  error
	}

	// signedInMsg is sent by the account page after sign-in or sign-up.
	signedInMsg struct {
		user *auth.User
	}

	// signedOutMsg is sent by the account page after sign-out.
	signedOutMsg struct{}
)

// Deps are the services the interface talks to.
type Deps struct {
	State    *state.Manager
	Place    sky.Place
	Target   astro.GeoCoordinate
	Store    store.DataStore
	Identity auth.IdentityProvider
	Log      *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps
	log  *logging.Logger

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int
	user     *auth.User

	// Sub-models
	home       HomeModel
	skyView    SkyViewModel
	library    LibraryModel
	sites      MapModel
	meditation MeditationModel
	journal    JournalModel
	quiz       QuizModel
	dashboard  DashboardModel
	resources  ResourcesModel
	account    AccountModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.Identity == nil {
		deps.Identity = auth.Anonymous{}
	}
	if deps.Target == (astro.GeoCoordinate{}) {
		deps.Target = astro.Mecca
	}
	return Model{
		deps:       deps,
		log:        deps.Log,
		viewMode:   ViewHome,
		home:       NewHomeModel(),
		skyView:    NewSkyViewModel(deps.Place.Coord),
		library:    NewLibraryModel(deps.Store),
		sites:      NewMapModel(deps.Place),
		meditation: NewMeditationModel(),
		journal:    NewJournalModel(deps.Store),
		quiz:       NewQuizModel(deps.Store),
		dashboard:  NewDashboardModel(deps.Store),
		resources:  NewResourcesModel(),
		account:    NewAccountModel(deps.Identity),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		m.home.Init(),
		m.library.Load(),
		m.quiz.Load(),
		checkUser(m.deps.Identity),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.capturesInput() {
			cmds = append(cmds, m.updateActiveView(msg))
			break
		}
		switch key := msg.String(); key {
		case "q":
			return m, tea.Quit
		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount
		case "shift+tab":
			m.viewMode = (m.viewMode + viewCount - 1) % viewCount
		case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
			for v := ViewMode(0); v < viewCount; v++ {
				if tabKey(v) == key {
					m.viewMode = v
				}
			}
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo and tabs take ~9 lines, footer ~2.
		contentHeight := msg.Height - 11
		m.home = m.home.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.library = m.library.SetSize(msg.Width, contentHeight)
		m.sites = m.sites.SetSize(msg.Width, contentHeight)
		m.meditation = m.meditation.SetSize(msg.Width, contentHeight)
		m.journal = m.journal.SetSize(msg.Width, contentHeight)
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.deps.State != nil {
			m.snapshot = m.deps.State.Snapshot()
			m.home = m.home.UpdateData(m.snapshot)
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.home = m.home.UpdateData(m.snapshot)
		m.skyView = m.skyView.UpdateData(m.snapshot)

	case ErrorMsg:
		m.home = m.home.SetError(msg.Error)

	case userMsg:
		if msg.err != nil {
			m.log.Debug("no session: %v", msg.err)
			break
		}
		cmds = append(cmds, m.setUser(msg.user))

	case signedInMsg:
		m.log.Info("signed in as %s", msg.user.Email)
		cmds = append(cmds, m.setUser(msg.user))

	case signedOutMsg:
		m.log.Info("signed out")
		cmds = append(cmds, m.setUser(nil))

	case articlesMsg:
		m.library, _ = m.library.Update(msg)
	case journalMsg, entrySavedMsg:
		var cmd tea.Cmd
		m.journal, cmd = m.journal.Update(msg)
		cmds = append(cmds, cmd)
	case questionsMsg, attemptSavedMsg:
		m.quiz, _ = m.quiz.Update(msg)
	case weekendsMsg:
		m.dashboard, _ = m.dashboard.Update(msg)
	case messageTickMsg:
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(msg)
		cmds = append(cmds, cmd)
	case stepMsg:
		var cmd tea.Cmd
		m.meditation, cmd = m.meditation.Update(msg)
		cmds = append(cmds, cmd)
	case authResultMsg:
		var cmd tea.Cmd
		m.account, cmd = m.account.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// setUser propagates the signed-in user and reloads the guarded pages.
func (m *Model) setUser(u *auth.User) tea.Cmd {
	m.user = u
	m.account = m.account.SetUser(u)
	m.quiz = m.quiz.SetUser(u)

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.journal, cmd = m.journal.SetUser(u)
	cmds = append(cmds, cmd)
	m.dashboard, cmd = m.dashboard.SetUser(u)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// capturesInput reports whether the active view is taking text input, in
// which case global shortcuts are not applied.
func (m Model) capturesInput() bool {
	switch m.viewMode {
	case ViewJournal:
		return m.journal.Capturing()
	case ViewAccount:
		return m.account.Capturing()
	}
	return false
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewLibrary:
		m.library, cmd = m.library.Update(msg)
	case ViewMap:
		m.sites, cmd = m.sites.Update(msg)
	case ViewMeditation:
		m.meditation, cmd = m.meditation.Update(msg)
	case ViewJournal:
		m.journal, cmd = m.journal.Update(msg)
	case ViewQuiz:
		m.quiz, cmd = m.quiz.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewResources:
		m.resources, cmd = m.resources.Update(msg)
	case ViewAccount:
		m.account, cmd = m.account.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initialisation..."
	}

	var content string
	switch m.viewMode {
	case ViewHome:
		content = m.home.View()
	case ViewSky:
		content = m.skyView.View()
	case ViewLibrary:
		content = m.library.View()
	case ViewMap:
		content = m.sites.View()
	case ViewMeditation:
		content = m.meditation.View()
	case ViewJournal:
		content = m.journal.View()
	case ViewQuiz:
		content = m.quiz.View()
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewResources:
		content = m.resources.View()
	case ViewAccount:
		content = m.account.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`   ██████╗  █████╗ ███╗   ███╗ █████╗ ██████╗ `,
		`  ██╔═══██╗██╔══██╗████╗ ████║██╔══██╗██╔══██╗`,
		`  ██║   ██║███████║██╔████╔██║███████║██████╔╝`,
		`  ██║▄▄ ██║██╔══██║██║╚██╔╝██║██╔══██║██╔══██╗`,
		`  ╚██████╔╝██║  ██║██║ ╚═╝ ██║██║  ██║██║  ██║`,
		`   ╚══▀▀═╝ ╚═╝  ╚═╝╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝`,
	}

	var b strings.Builder
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, row, len(runes), len(logo))))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	tagline := fmt.Sprintf("  Les signes dans l'univers · %s · v%s", m.deps.Place.Name, version.Version)
	b.WriteString(dimStyle.Render(tagline))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// night blue to violet to rose, dimming toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width)
	y := float64(row) / float64(height)

	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 59 + t*(157-59)
		g = 130 + t*(78-130)
		b = 246 + t*(221-246)
	} else {
		t := (x - 0.5) / 0.5
		r = 157 + t*(236-157)
		g = 78 + t*(72-78)
		b = 221 + t*(153-221)
	}

	fade := 1.0 - y*0.5
	return rgb(int(r*fade), int(g*fade), int(b*fade))
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	var parts []string
	for v := ViewMode(0); v < viewCount; v++ {
		tab := fmt.Sprintf("[%s] %s", tabKey(v), tabNames[v])
		if v == m.viewMode {
			parts = append(parts, active.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return " " + strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spin := frames[m.animTick%len(frames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERREUR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastUpdate.IsZero() && m.deps.State != nil:
		next := m.snapshot.LastUpdate.Add(m.deps.State.RefreshInterval())
		countdown := time.Until(next).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spin) + dimStyle.Render(fmt.Sprintf(" maj dans %ds", int(countdown.Seconds())))
		if m.snapshot.ComputeElapsed > 0 {
			status += dimStyle.Render(" (" + m.snapshot.ComputeElapsed.Round(time.Microsecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spin) + dimStyle.Render(" calcul du ciel...")
	}

	who := dimStyle.Render("invité")
	if m.user != nil {
		who = okStyle.Render(m.user.Email)
	}

	var help string
	switch m.viewMode {
	case ViewHome:
		help = "←/→: mois | t: aujourd'hui"
	case ViewSky:
		help = "j/k: cible | l: étiquettes"
	case ViewLibrary:
		help = "←/→: catégorie | ↑↓: article | enter: lire | esc: retour"
	case ViewMap:
		help = "↑↓: lieu | s: tri | c: catégorie"
	case ViewMeditation:
		help = "enter: ouvrir | espace: lecture/pause | r: recommencer | esc: retour"
	case ViewJournal:
		help = "n: nouvelle entrée | tab: champ | ctrl+s: enregistrer | esc: fermer"
	case ViewQuiz:
		help = "↑↓: réponse | enter: valider | r: rejouer"
	case ViewDashboard:
		help = "↑↓: week-end | r: actualiser"
	case ViewAccount:
		help = "tab: champ | enter: valider | ctrl+t: connexion/inscription | esc: menu | x: déconnexion"
	default:
		help = "↑↓: naviguer | tab: changer de vue"
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + who + "  " + dimStyle.Render("| "+help+" | q: quitter")
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func checkUser(p auth.IdentityProvider) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		u, err := p.CurrentUser(ctx)
		return userMsg{user: u, err: err}
	}
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
