// Package quiz runs the knowledge quiz: a short shuffled set of questions,
// a single forward pass, a score and an optional badge.
package quiz

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/store"
)

// DefaultLimit is the number of questions per quiz.
const DefaultLimit = 6

// Badges, best first.
const (
	BadgePerfect       = "Étoile Parfaite"
	BadgeCrescent      = "Lune Croissante"
	BadgeConstellation = "Constellation"
)

var (
	ErrNoSelection = errors.New("select an answer first")
	ErrFinished    = errors.New("quiz already finished")
)

// Options is the answer list. Rows store it as a JSON array, and some
// backends hand it back as a string holding that array.
type Options []string

// UnmarshalJSON accepts an array or a string containing one.
func (o *Options) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	*o = list
	return nil
}

// Scan implements sql.Scanner for json/jsonb columns.
func (o *Options) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return o.UnmarshalJSON(v)
	case string:
		return o.UnmarshalJSON([]byte(v))
	case nil:
		*o = nil
		return nil
	}
	return fmt.Errorf("cannot scan %T into Options", src)
}

// Value implements driver.Valuer.
func (o Options) Value() (driver.Value, error) {
	if o == nil {
		o = Options{}
	}
	data, err := json.Marshal([]string(o))
	return string(data), err
}

// Question is a quiz_questions row.
type Question struct {
	ID            string    `json:"id,omitempty" db:"id"`
	Category      string    `json:"category" db:"category"`
	Question      string    `json:"question" db:"question"`
	Options       Options   `json:"options" db:"options"`
	CorrectAnswer string    `json:"correct_answer" db:"correct_answer"`
	Explanation   *string   `json:"explanation,omitempty" db:"explanation"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	CreatedAt     time.Time `json:"created_at,omitzero" db:"created_at"`
}

// Explain returns the explanation, or "".
func (q Question) Explain() string {
	if q.Explanation == nil {
		return ""
	}
	return *q.Explanation
}

// Attempt is a quiz_attempts row.
type Attempt struct {
	ID             string        `json:"id,omitempty" db:"id"`
	UserID         string        `json:"user_id" db:"user_id"`
	QuizDate       store.Date    `json:"quiz_date" db:"quiz_date"`
	Score          int           `json:"score" db:"score"`
	TotalQuestions int           `json:"total_questions" db:"total_questions"`
	BadgesEarned   store.Strings `json:"badges_earned" db:"badges_earned"`
	CreatedAt      time.Time     `json:"created_at,omitzero" db:"created_at"`
}

// Score counts answers equal to their question's correct answer.
// Missing answers count as wrong.
func Score(questions []Question, answers []string) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// BadgeFor returns the badge earned, or "" for none.
func BadgeFor(score, total int) string {
	if total <= 0 {
		return ""
	}
	switch {
	case score >= total:
		return BadgePerfect
	case float64(score) >= float64(total)*0.8:
		return BadgeCrescent
	case float64(score) >= float64(total)*0.6:
		return BadgeConstellation
	}
	return ""
}

// Verdict is the closing message for a score.
func Verdict(score, total int) string {
	if total <= 0 {
		return "Aucune question pour le moment."
	}
	pct := float64(score) / float64(total) * 100
	switch {
	case pct >= 100:
		return "Parfait ! Vous êtes une étoile brillante !"
	case pct >= 80:
		return "Excellent ! Vous maîtrisez le sujet !"
	case pct >= 60:
		return "Bien joué ! Continuez à apprendre !"
	}
	return "Continuez à explorer, la connaissance est un voyage !"
}

// Session walks a question set once, front to back.
type Session struct {
	questions []Question
	answers   []string
	index     int
	selected  string
	done      bool
}

// NewSession starts a quiz over questions.
func NewSession(questions []Question) *Session {
	return &Session{
		questions: questions,
		answers:   make([]string, len(questions)),
		done:      len(questions) == 0,
	}
}

// Current returns the question on screen.
func (s *Session) Current() (Question, bool) {
	if s.done {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// Select records the pending answer for the current question.
func (s *Session) Select(answer string) {
	if !s.done {
		s.selected = answer
	}
}

// Selected returns the pending answer.
func (s *Session) Selected() string {
	return s.selected
}

// Next commits the selection and advances. It reports done after the last
// question and refuses to move without a selection.
func (s *Session) Next() (bool, error) {
	if s.done {
		return true, ErrFinished
	}
	if s.selected == "" {
		return false, ErrNoSelection
	}
	s.answers[s.index] = s.selected
	s.selected = ""
	if s.index == len(s.questions)-1 {
		s.done = true
		return true, nil
	}
	s.index++
	return false, nil
}

// Progress returns the 1-based position and the total.
func (s *Session) Progress() (int, int) {
	if len(s.questions) == 0 {
		return 0, 0
	}
	return s.index + 1, len(s.questions)
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.done
}

// Result summarises a finished session.
type Result struct {
	Score     int
	Total     int
	Badge     string
	Questions []Question
	Answers   []string
}

// Result scores the answers given so far.
func (s *Session) Result() Result {
	score := Score(s.questions, s.answers)
	return Result{
		Score:     score,
		Total:     len(s.questions),
		Badge:     BadgeFor(score, len(s.questions)),
		Questions: s.questions,
		Answers:   append([]string(nil), s.answers...),
	}
}

// Correct reports whether answer i was right.
func (r Result) Correct(i int) bool {
	return i < len(r.Answers) && i < len(r.Questions) && r.Answers[i] == r.Questions[i].CorrectAnswer
}

// Service loads questions and records attempts.
type Service struct {
	ds  store.DataStore
	now func() time.Time
}

// NewService creates a service over ds.
func NewService(ds store.DataStore) *Service {
	return &Service{ds: ds, now: time.Now}
}

// Load fetches up to limit questions in random order. A nil rng uses the
// global source.
func (s *Service) Load(ctx context.Context, limit int, rng *rand.Rand) ([]Question, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var qs []Question
	if err := s.ds.Query(ctx, store.From(store.TableQuizQuestions).WithLimit(limit), &qs); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs, nil
}

// Record saves the attempt for user. Without a user nothing is stored and
// ErrNotAuthenticated is returned.
func (s *Service) Record(ctx context.Context, user *auth.User, r Result) (*Attempt, error) {
	if user == nil || user.ID == "" {
		return nil, auth.ErrNotAuthenticated
	}
	a := &Attempt{
		UserID:         user.ID,
		QuizDate:       store.DateOf(s.now().UTC()),
		Score:          r.Score,
		TotalQuestions: r.Total,
		BadgesEarned:   store.Strings{},
	}
	if r.Badge != "" {
		a.BadgesEarned = store.Strings{r.Badge}
	}
	if err := s.ds.Insert(ctx, store.TableQuizAttempts, a); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	return a, nil
}

// History lists a user's attempts, newest first.
func (s *Service) History(ctx context.Context, user *auth.User) ([]Attempt, error) {
	if user == nil || user.ID == "" {
		return nil, auth.ErrNotAuthenticated
	}
	var out []Attempt
	q := store.From(store.TableQuizAttempts).Eq("user_id", user.ID).Order("created_at", false)
	if err := s.ds.Query(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	return out, nil
}
