// Package dashboard lists the shared weekends and counts down to the ones
// that have not opened yet.
package dashboard

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/store"
)

// Section is one activity of a weekend.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Sections is stored as a JSON array.
type Sections []Section

// Scan implements sql.Scanner for json/jsonb columns.
func (s *Sections) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Sections", src)
	}
	var list []Section
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("sections: %w", err)
	}
	*s = list
	return nil
}

// Value implements driver.Valuer.
func (s Sections) Value() (driver.Value, error) {
	if s == nil {
		s = Sections{}
	}
	data, err := json.Marshal([]Section(s))
	return string(data), err
}

// Weekend is a weekends row.
type Weekend struct {
	ID          string    `json:"id,omitempty" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	Sections    Sections  `json:"sections" db:"sections"`
	CreatedAt   time.Time `json:"created_at,omitzero" db:"created_at"`
	CreatedBy   *string   `json:"created_by,omitempty" db:"created_by"`
}

// Countdown is how far a weekend is from now.
type Countdown struct {
	Days      int
	Hours     int
	Available bool
}

// String renders the countdown in French, e.g. "3 jours et 5 heures".
func (c Countdown) String() string {
	return fmt.Sprintf("%d jour%s et %d heure%s", c.Days, plural(c.Days), c.Hours, plural(c.Hours))
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// CountdownTo measures start from now.
func CountdownTo(start, now time.Time) Countdown {
	d := DaysUntil(start, now)
	return Countdown{Days: d, Hours: HoursUntil(start, now), Available: d <= 0}
}

// Countdown measures the weekend's start from now.
func (w Weekend) Countdown(now time.Time) Countdown {
	return CountdownTo(w.StartDate, now)
}

// DaysUntil counts calendar days from now to start, both taken at local
// midnight in now's time zone. Past dates give zero or less.
func DaysUntil(start, now time.Time) int {
	loc := now.Location()
	a := midnight(now.In(loc))
	b := midnight(start.In(loc))
	return int(math.Ceil(b.Sub(a).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HoursUntil is the hour part of the remaining time. It goes negative once
// start has passed.
func HoursUntil(start, now time.Time) int {
	h := int(math.Floor(start.Sub(now).Hours()))
	return h % 24
}

// Available reports whether the weekend has opened.
func Available(start, now time.Time) bool {
	return DaysUntil(start, now) <= 0
}

// Pastimes are suggested while a weekend is still locked.
var Pastimes = []struct{ Name, URL string }{
	{"2048", "https://play2048.co/"},
	{"Flappy Bird", "https://flappybird.io/"},
}

// Service loads weekends for a signed-in user.
type Service struct {
	ds store.DataStore
}

// NewService creates a service over ds.
func NewService(ds store.DataStore) *Service {
	return &Service{ds: ds}
}

// List returns all weekends, latest start first.
func (s *Service) List(ctx context.Context, user *auth.User) ([]Weekend, error) {
	if user == nil || user.ID == "" {
		return nil, auth.ErrNotAuthenticated
	}
	var out []Weekend
	q := store.From(store.TableWeekends).Order("start_date", false)
	if err := s.ds.Query(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("load weekends: %w", err)
	}
	return out, nil
}
