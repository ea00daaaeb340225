// Package store reads and writes application rows through a DataStore,
// either a hosted PostgREST endpoint or a PostgreSQL database.
package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/lib/pq"
)

// Tables used by the application.
const (
	TableArticles      = "articles"
	TableJournal       = "contemplation_entries"
	TableQuizQuestions = "quiz_questions"
	TableQuizAttempts  = "quiz_attempts"
	TableWeekends      = "weekends"
)

var (
	// ErrNotFound is returned when a table or row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the backend rejects the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidQuery is returned for unsafe table or column names.
	ErrInvalidQuery = errors.New("invalid query")
)

// DataStore is the row-level capability the application needs.
type DataStore interface {
	// Query loads matching rows into dest, a pointer to a slice of structs
	// tagged with `json` and `db`.
	Query(ctx context.Context, q Query, dest any) error

	// Insert adds rows, which must be structs or pointers to structs.
	Insert(ctx context.Context, table string, rows ...any) error
}

// Filter is an equality condition.
type Filter struct {
	Column string
	Value  any
}

// Query selects rows from one table.
type Query struct {
	Table     string
	Filters   []Filter
	OrderBy   string
	Ascending bool
	Limit     int
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Eq adds an equality filter.
func (q Query) Eq(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

// Order sorts by column.
func (q Query) Order(column string, ascending bool) Query {
	q.OrderBy = column
	q.Ascending = ascending
	return q
}

// WithLimit caps the number of rows; zero means no limit.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks table and column names.
func (q Query) Validate() error {
	if !identRe.MatchString(q.Table) {
		return fmt.Errorf("%w: table %q", ErrInvalidQuery, q.Table)
	}
	for _, f := range q.Filters {
		if !identRe.MatchString(f.Column) {
			return fmt.Errorf("%w: column %q", ErrInvalidQuery, f.Column)
		}
	}
	if q.OrderBy != "" && !identRe.MatchString(q.OrderBy) {
		return fmt.Errorf("%w: order column %q", ErrInvalidQuery, q.OrderBy)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}
	return nil
}

// StatusError carries a non-success HTTP response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

// Strings is a text[] column that also encodes as a JSON array.
type Strings []string

// Scan implements sql.Scanner.
func (s *Strings) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*s = Strings(arr)
	return nil
}

// Value implements driver.Valuer.
func (s Strings) Value() (driver.Value, error) {
	if s == nil {
		s = Strings{}
	}
	return pq.Array([]string(s)).Value()
}

// Date is a calendar day stored as YYYY-MM-DD.
type Date string

// DateOf formats t's local date.
func DateOf(t time.Time) Date {
	return Date(t.Format(time.DateOnly))
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = Date(v.Format(time.DateOnly))
	case string:
		*d = Date(v)
	case []byte:
		*d = Date(v)
	case nil:
		*d = ""
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}
