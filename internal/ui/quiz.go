package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/quiz"
	"github.com/litescript/ls-qamar/internal/store"
)

type questionsMsg struct {
	questions []quiz.Question
	err       error
}

type attemptSavedMsg struct {
	attempt *quiz.Attempt
	err     error
}

// QuizModel runs one quiz at a time and records the attempt for signed-in
// users.
type QuizModel struct {
	svc  *quiz.Service
	user *auth.User

	session *quiz.Session
	cursor  int
	loading bool
	err     error

	result  *quiz.Result
	saved   *quiz.Attempt
	saveErr error
}

// NewQuizModel creates the quiz page.
func NewQuizModel(ds store.DataStore) QuizModel {
	m := QuizModel{}
	if ds != nil {
		m.svc = quiz.NewService(ds)
		m.loading = true
	}
	return m
}

// SetUser swaps the signed-in user.
func (m QuizModel) SetUser(u *auth.User) QuizModel {
	m.user = u
	return m
}

// Load fetches a fresh question set.
func (m QuizModel) Load() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		qs, err := svc.Load(ctx, quiz.DefaultLimit, nil)
		return questionsMsg{questions: qs, err: err}
	}
}

func (m QuizModel) record(r quiz.Result) tea.Cmd {
	if m.svc == nil || m.user == nil {
		return nil
	}
	svc, u := m.svc, m.user
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		a, err := svc.Record(ctx, u, r)
		return attemptSavedMsg{attempt: a, err: err}
	}
}

// Update handles messages.
func (m QuizModel) Update(msg tea.Msg) (QuizModel, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		m.loading = false
		m.err = msg.err
		m.result, m.saved, m.saveErr = nil, nil, nil
		m.cursor = 0
		if msg.err == nil {
			m.session = quiz.NewSession(msg.questions)
		}
		return m, nil

	case attemptSavedMsg:
		m.saved = msg.attempt
		m.saveErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = m.svc != nil
			m.session = nil
			return m, m.Load()
		}
		if m.session == nil || m.session.Done() {
			return m, nil
		}
		q, _ := m.session.Current()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(q.Options)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor >= len(q.Options) {
				return m, nil
			}
			m.session.Select(q.Options[m.cursor])
			done, err := m.session.Next()
			if err != nil {
				return m, nil
			}
			m.cursor = 0
			if done {
				r := m.session.Result()
				m.result = &r
				return m, m.record(r)
			}
		}
	}
	return m, nil
}

// View renders the quiz.
func (m QuizModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Quiz de connaissances"))
	b.WriteString("\n\n")

	switch {
	case m.svc == nil:
		b.WriteString(dimStyle.Render("Aucune source de questions configurée (mode hors ligne)."))
		return b.String()
	case m.loading:
		b.WriteString(dimStyle.Render("Chargement des questions..."))
		return b.String()
	case m.err != nil:
		b.WriteString(errorStyle.Render("Erreur: " + m.err.Error()))
		return b.String()
	case m.result != nil:
		return b.String() + m.viewResult()
	case m.session == nil:
		return b.String()
	}

	q, ok := m.session.Current()
	if !ok {
		b.WriteString(dimStyle.Render(quiz.Verdict(0, 0)))
		return b.String()
	}
	i, n := m.session.Progress()
	b.WriteString(renderBar(float64(i-1)/float64(n), 30))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Question %d/%d · %s · %s", i, n, q.Category, q.Difficulty)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(q.Question))
	b.WriteString("\n\n")
	for j, opt := range q.Options {
		if j == m.cursor {
			b.WriteString(selectedRowStyle.Render("▶ " + opt))
		} else {
			b.WriteString(rowStyle.Render("  " + opt))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m QuizModel) viewResult() string {
	r := m.result
	var b strings.Builder
	b.WriteString(goldStyle.Render(fmt.Sprintf("Score: %d/%d", r.Score, r.Total)))
	b.WriteString("\n")
	b.WriteString(accentStyle.Render(quiz.Verdict(r.Score, r.Total)))
	b.WriteString("\n")
	if r.Badge != "" {
		b.WriteString(okStyle.Render("★ Badge obtenu : " + r.Badge))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, q := range r.Questions {
		mark := okStyle.Render("✓")
		if !r.Correct(i) {
			mark = errorStyle.Render("✗")
		}
		b.WriteString(mark + " " + rowStyle.Render(q.Question) + "\n")
		if !r.Correct(i) {
			b.WriteString(dimStyle.Render("    Réponse : " + q.CorrectAnswer))
			b.WriteString("\n")
		}
		if ex := q.Explain(); ex != "" {
			b.WriteString(dimStyle.Render("    " + ex))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch {
	case m.user == nil:
		b.WriteString(dimStyle.Render("Connectez-vous pour enregistrer vos résultats."))
	case m.saveErr != nil && !errors.Is(m.saveErr, auth.ErrNotAuthenticated):
		b.WriteString(errorStyle.Render("Résultat non enregistré: " + m.saveErr.Error()))
	case m.saved != nil:
		b.WriteString(okStyle.Render("Résultat enregistré."))
	}
	b.WriteString("\n" + dimStyle.Render("r: nouvelle partie"))
	return b.String()
}
