package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/store"
)

// ObservationType classifies a journal entry.
type ObservationType string

const (
	Reflection ObservationType = "reflection"
	Celestial  ObservationType = "celestial"
	Scientific ObservationType = "scientific"
	Gratitude  ObservationType = "gratitude"
)

// ObservationTypes lists the types in form order.
var ObservationTypes = []ObservationType{Reflection, Celestial, Scientific, Gratitude}

// Label is the French form label.
func (o ObservationType) Label() string {
	switch o {
	case Reflection:
		return "Réflexion spirituelle"
	case Celestial:
		return "Observation céleste"
	case Scientific:
		return "Découverte scientifique"
	case Gratitude:
		return "Gratitude"
	}
	return string(o)
}

// Valid reports whether o is a known type.
func (o ObservationType) Valid() bool {
	for _, t := range ObservationTypes {
		if o == t {
			return true
		}
	}
	return false
}

var (
	ErrTitleRequired   = errors.New("title required")
	ErrContentRequired = errors.New("content required")
	ErrUnknownType     = errors.New("unknown observation type")
)

// Entry is a contemplation_entries row.
type Entry struct {
	ID              string          `json:"id,omitempty" db:"id"`
	UserID          string          `json:"user_id" db:"user_id"`
	Title           string          `json:"title" db:"title"`
	Content         string          `json:"content" db:"content"`
	VerseReference  *string         `json:"verse_reference,omitempty" db:"verse_reference"`
	ObservationType ObservationType `json:"observation_type" db:"observation_type"`
	Images          store.Strings   `json:"images" db:"images"`
	CreatedAt       time.Time       `json:"created_at,omitzero" db:"created_at"`
}

// Verse returns the verse reference, or "".
func (e Entry) Verse() string {
	if e.VerseReference == nil {
		return ""
	}
	return *e.VerseReference
}

// NewEntry validates the journal form. An empty type means reflection.
func NewEntry(title, body, verse string, kind ObservationType) (Entry, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return Entry{}, ErrTitleRequired
	}
	if body == "" {
		return Entry{}, ErrContentRequired
	}
	if kind == "" {
		kind = Reflection
	}
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	e := Entry{Title: title, Content: body, ObservationType: kind, Images: store.Strings{}}
	if v := strings.TrimSpace(verse); v != "" {
		e.VerseReference = &v
	}
	return e, nil
}

// Journal reads and writes a user's entries.
type Journal struct {
	ds store.DataStore
}

// NewJournal creates a journal over ds.
func NewJournal(ds store.DataStore) *Journal {
	return &Journal{ds: ds}
}

// List returns user's entries, newest first.
func (j *Journal) List(ctx context.Context, user *auth.User) ([]Entry, error) {
	if user == nil || user.ID == "" {
		return nil, auth.ErrNotAuthenticated
	}
	var out []Entry
	q := store.From(store.TableJournal).Eq("user_id", user.ID).Order("created_at", false)
	if err := j.ds.Query(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	return out, nil
}

// Add stores e under user.
func (j *Journal) Add(ctx context.Context, user *auth.User, e Entry) error {
	if user == nil || user.ID == "" {
		return auth.ErrNotAuthenticated
	}
	e.UserID = user.ID
	if err := j.ds.Insert(ctx, store.TableJournal, e); err != nil {
		return fmt.Errorf("save journal entry: %w", err)
	}
	return nil
}
