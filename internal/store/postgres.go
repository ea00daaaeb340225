package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/litescript/ls-qamar/internal/logging"
)

// PostgresStore keeps rows in a PostgreSQL database.
type PostgresStore struct {
	db  *sqlx.DB
	log *logging.Logger
}

// ConnectOptions controls Connect's retry loop.
type ConnectOptions struct {
	MaxRetries    int
	RetryInterval time.Duration
	Logger        *logging.Logger
}

// Connect opens databaseURL, retrying while the server comes up.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*PostgresStore, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 10
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	var err error
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		var db *sqlx.DB
		db, err = sqlx.ConnectContext(ctx, "postgres", databaseURL)
		if err == nil {
			log.Info("connected to database")
			return NewPostgresStore(db, log), nil
		}
		log.Zerolog().Error().Err(err).Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", opts.RetryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", opts.MaxRetries, err)
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(db *sqlx.DB, log *logging.Logger) *PostgresStore {
	if log == nil {
		log = logging.Discard()
	}
	return &PostgresStore{db: db, log: log}
}

// DB exposes the connection for packages with their own tables.
func (s *PostgresStore) DB() *sqlx.DB {
	return s.db
}

// Close closes the connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Query implements DataStore.
func (s *PostgresStore) Query(ctx context.Context, q Query, dest any) error {
	stmt, args, err := selectSQL(q)
	if err != nil {
		return err
	}
	if err := s.db.SelectContext(ctx, dest, stmt, args...); err != nil {
		return fmt.Errorf("query %s: %w", q.Table, mapPQError(err))
	}
	return nil
}

// Insert implements DataStore.
func (s *PostgresStore) Insert(ctx context.Context, table string, rows ...any) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, row := range rows {
		stmt, args, err := insertSQL(table, row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, mapPQError(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("inserted %d row(s) into %s", len(rows), table)
	return nil
}

// selectSQL renders q with $n placeholders.
func selectSQL(q Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(q.Table)

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, bindValue(f.Value))
		fmt.Fprintf(&b, "%s = $%d", f.Column, len(args))
	}
	if q.OrderBy != "" {
		dir := "DESC"
		if q.Ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", q.OrderBy, dir)
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	return b.String(), args, nil
}

// insertSQL renders one row. Fields tagged `db:"-"`, untagged fields and
// zero values of omitempty or omitzero fields are left to column defaults.
func insertSQL(table string, row any) (string, []any, error) {
	if err := (Query{Table: table}).Validate(); err != nil {
		return "", nil, err
	}

	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("%w: nil row", ErrInvalidQuery)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("%w: row must be a struct, got %s", ErrInvalidQuery, v.Kind())
	}

	var cols, marks []string
	var args []any
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		col := sf.Tag.Get("db")
		if col == "" || col == "-" || !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if omittable(sf.Tag.Get("json")) && fv.IsZero() {
			continue
		}
		if !identRe.MatchString(col) {
			return "", nil, fmt.Errorf("%w: column %q", ErrInvalidQuery, col)
		}
		cols = append(cols, col)
		args = append(args, bindValue(fv.Interface()))
		marks = append(marks, "$"+strconv.Itoa(len(args)))
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("%w: no columns to insert", ErrInvalidQuery)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	return stmt, args, nil
}

func omittable(jsonTag string) bool {
	_, opts, _ := strings.Cut(jsonTag, ",")
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" || opt == "omitzero" {
			return true
		}
	}
	return false
}

// bindValue wraps plain slices for array columns.
func bindValue(v any) any {
	switch x := v.(type) {
	case []string:
		return pq.Array(x)
	case []int64:
		return pq.Array(x)
	}
	return v
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("%w: %s", ErrNotFound, pqErr.Message)
		case "42501": // insufficient_privilege
			return fmt.Errorf("%w: %s", ErrUnauthorized, pqErr.Message)
		}
	}
	return err
}
