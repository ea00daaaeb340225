package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-qamar/internal/auth"
)

// authResultMsg carries the outcome of a sign-in, sign-up or sign-out.
type authResultMsg struct {
	session   *auth.Session
	signedOut bool
	err       error
}

const (
	inputEmail = iota
	inputPassword
	inputConfirm
)

// AccountModel is the sign-in and sign-up page, or the account summary when
// a user is signed in.
type AccountModel struct {
	identity auth.IdentityProvider
	user     *auth.User

	signUp  bool
	focused bool
	focus   int
	inputs  []textinput.Model
	spinner spinner.Model
	busy    bool
	err     error
	notice  string
}

// NewAccountModel creates the account page over identity.
func NewAccountModel(identity auth.IdentityProvider) AccountModel {
	if identity == nil {
		identity = auth.Anonymous{}
	}
	inputs := make([]textinput.Model, 3)

	inputs[inputEmail] = textinput.New()
	inputs[inputEmail].Placeholder = "votre@email.com"
	inputs[inputEmail].CharLimit = 254

	for _, i := range []int{inputPassword, inputConfirm} {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = "••••••••"
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '•'
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	m := AccountModel{identity: identity, inputs: inputs, spinner: s, focused: true}
	m.setFocus(inputEmail)
	return m
}

// SetUser swaps the signed-in user.
func (m AccountModel) SetUser(u *auth.User) AccountModel {
	m.user = u
	m.busy = false
	m.err = nil
	if u == nil {
		m.focused = true
		m.setFocus(inputEmail)
	}
	return m
}

// SignUpMode reports whether the form is in sign-up mode.
func (m AccountModel) SignUpMode() bool {
	return m.signUp
}

// Capturing reports whether the form has the keyboard.
func (m AccountModel) Capturing() bool {
	return m.user == nil && m.focused
}

func (m *AccountModel) fieldCount() int {
	if m.signUp {
		return 3
	}
	return 2
}

func (m *AccountModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m AccountModel) submit() (AccountModel, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[inputEmail].Value())
	password := m.inputs[inputPassword].Value()

	if m.signUp {
		if err := auth.ValidateSignUp(email, password, m.inputs[inputConfirm].Value()); err != nil {
			m.err = err
			return m, nil
		}
	} else if email == "" || password == "" {
		m.err = auth.ErrEmailRequired
		return m, nil
	}

	m.err = nil
	m.notice = ""
	m.busy = true
	identity, signUp := m.identity, m.signUp
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var s *auth.Session
		var err error
		if signUp {
			s, err = identity.SignUp(ctx, email, password)
		} else {
			s, err = identity.SignIn(ctx, email, password)
		}
		return authResultMsg{session: s, err: err}
	})
}

func (m AccountModel) signOut() tea.Cmd {
	identity := m.identity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return authResultMsg{signedOut: true, err: identity.SignOut(ctx)}
	}
}

// Update handles messages.
func (m AccountModel) Update(msg tea.Msg) (AccountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.busy = false
		if msg.signedOut {
			if msg.err != nil {
				m.err = msg.err
				return m, nil
			}
			return m, func() tea.Msg { return signedOutMsg{} }
		}
		if msg.err != nil {
			if errors.Is(msg.err, auth.ErrConfirmationPending) {
				m.notice = "Compte créé ! Vérifiez votre email pour confirmer votre inscription."
				m.signUp = false
				m.inputs[inputPassword].Reset()
				m.inputs[inputConfirm].Reset()
				return m, m.setFocus(inputPassword)
			}
			m.err = msg.err
			return m, nil
		}
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
		u := msg.session.User
		return m, func() tea.Msg { return signedInMsg{user: &u} }

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.user != nil {
			if msg.String() == "x" {
				return m, m.signOut()
			}
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		if !m.focused {
			if msg.String() == "enter" || msg.String() == "i" {
				m.focused = true
				return m, m.setFocus(m.focus)
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			m.focused = false
			m.setFocus(-1)
			return m, nil
		case "ctrl+t":
			m.signUp = !m.signUp
			m.err = nil
			m.notice = ""
			m.inputs[inputConfirm].Reset()
			return m, m.setFocus(inputEmail)
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % m.fieldCount())
		case "shift+tab", "up":
			n := m.fieldCount()
			return m, m.setFocus((m.focus + n - 1) % n)
		case "enter":
			if m.focus < m.fieldCount()-1 {
				return m, m.setFocus(m.focus + 1)
			}
			return m.submit()
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the form or the account summary.
func (m AccountModel) View() string {
	var b strings.Builder
	if m.user != nil {
		b.WriteString(titleStyle.Render("Mon compte"))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Email   ") + rowStyle.Render(m.user.Email) + "\n")
		if !m.user.CreatedAt.IsZero() {
			b.WriteString(labelStyle.Render("Membre  ") + rowStyle.Render(m.user.CreatedAt.Local().Format("02/01/2006")) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("x: se déconnecter"))
		if m.err != nil {
			b.WriteString("\n" + errorStyle.Render("Erreur: "+m.err.Error()))
		}
		return b.String()
	}

	title, action := "Connexion", "Se connecter"
	if m.signUp {
		title, action = "Inscription", "S'inscrire"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(dimStyle.Render("  Rejoignez la communauté des contemplatifs"))
	b.WriteString("\n\n")

	labels := []string{"Email", "Mot de passe", "Confirmer le mot de passe"}
	for i := 0; i < m.fieldCount(); i++ {
		if m.focused && i == m.focus {
			b.WriteString(accentStyle.Render("▶ " + labels[i]))
		} else {
			b.WriteString(labelStyle.Render("  " + labels[i]))
		}
		b.WriteString("\n  " + m.inputs[i].View() + "\n\n")
	}

	if m.busy {
		b.WriteString(m.spinner.View() + dimStyle.Render(" "+action+"..."))
	} else {
		b.WriteString(selectedRowStyle.Render(" " + action + " "))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	if m.notice != "" {
		b.WriteString("\n" + okStyle.Render(m.notice))
	}

	other := "Pas de compte ? ctrl+t pour s'inscrire"
	if m.signUp {
		other = "Déjà inscrit ? ctrl+t pour se connecter"
	}
	b.WriteString("\n" + dimStyle.Render(other))
	if !m.focused {
		b.WriteString("\n" + dimStyle.Render("enter: reprendre la saisie"))
	}
	return b.String()
}
