package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps rows in memory as JSON objects. It backs offline mode
// and tests, and follows RESTStore's encoding.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]map[string]any
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]map[string]any)}
}

// Insert implements DataStore.
func (m *MemoryStore) Insert(_ context.Context, table string, rows ...any) error {
	if err := (Query{Table: table}).Validate(); err != nil {
		return err
	}
	decoded := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode %s row: %w", table, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %s row is not an object", ErrInvalidQuery, table)
		}
		decoded = append(decoded, obj)
	}

	m.mu.Lock()
	m.tables[table] = append(m.tables[table], decoded...)
	m.mu.Unlock()
	return nil
}

// Query implements DataStore.
func (m *MemoryStore) Query(_ context.Context, q Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	m.mu.RLock()
	var out []map[string]any
	for _, row := range m.tables[q.Table] {
		if matches(row, q.Filters) {
			out = append(out, row)
		}
	}
	m.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := compare(out[i][q.OrderBy], out[j][q.OrderBy]) < 0
			if q.Ascending {
				return less
			}
			return compare(out[j][q.OrderBy], out[i][q.OrderBy]) < 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if out == nil {
		out = []map[string]any{}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", q.Table, err)
	}
	return nil
}

// Len reports the number of rows in table.
func (m *MemoryStore) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func matches(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := row[f.Column]
		if !ok || formatValue(v) != formatValue(f.Value) {
			return false
		}
	}
	return true
}

func compare(a, b any) int {
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	sa, sb := formatValue(a), formatValue(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}
