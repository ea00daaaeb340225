package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout for HTTP requests.
const DefaultTimeout = 15 * time.Second

// TokenSource returns the signed-in user's access token, or "".
type TokenSource func() string

// RESTStore talks to a PostgREST endpoint at <base>/rest/v1.
type RESTStore struct {
	client  *http.Client
	base    string
	anonKey string
	token   TokenSource
	timeout time.Duration
}

// RESTOption configures a RESTStore.
type RESTOption func(*RESTStore)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) RESTOption {
	return func(s *RESTStore) {
		s.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) RESTOption {
	return func(s *RESTStore) {
		s.client = client
	}
}

// WithTokenSource sends the user's token instead of the anon key as bearer.
func WithTokenSource(ts TokenSource) RESTOption {
	return func(s *RESTStore) {
		s.token = ts
	}
}

// NewRESTStore creates a store for the project at baseURL.
func NewRESTStore(baseURL, anonKey string, opts ...RESTOption) *RESTStore {
	s := &RESTStore{
		base:    strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s
}

// Query implements DataStore.
func (s *RESTStore) Query(ctx context.Context, q Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	req, err := s.newRequest(ctx, http.MethodGet, q.Table, restParams(q), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	body, err := s.do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", q.Table, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", q.Table, err)
	}
	return nil
}

// Insert implements DataStore.
func (s *RESTStore) Insert(ctx context.Context, table string, rows ...any) error {
	if err := (Query{Table: table}).Validate(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", table, err)
	}
	req, err := s.newRequest(ctx, http.MethodPost, table, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	if _, err := s.do(req); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// restParams renders q in PostgREST's query dialect.
func restParams(q Query) url.Values {
	params := url.Values{}
	params.Set("select", "*")
	for _, f := range q.Filters {
		params.Add(f.Column, "eq."+formatValue(f.Value))
	}
	if q.OrderBy != "" {
		dir := "desc"
		if q.Ascending {
			dir = "asc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

func (s *RESTStore) newRequest(ctx context.Context, method, table string, params url.Values, body io.Reader) (*http.Request, error) {
	u := s.base + "/rest/v1/" + table
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	bearer := s.anonKey
	if s.token != nil {
		if t := s.token(); t != "" {
			bearer = t
		}
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("User-Agent", "ls-qamar/1.0")
	return req, nil
}

func (s *RESTStore) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if err := CheckStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// CheckStatus maps a non-2xx response to ErrUnauthorized, ErrNotFound or a
// StatusError.
func CheckStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	se := &StatusError{Code: code, Body: strings.TrimSpace(string(body))}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, se)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, se)
	}
	return se
}
