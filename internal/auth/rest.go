package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-qamar/internal/store"
)

// refreshLeeway renews tokens slightly before they expire.
const refreshLeeway = 30 * time.Second

// RESTProvider signs in against a GoTrue endpoint at <base>/auth/v1.
type RESTProvider struct {
	client  *http.Client
	base    string
	anonKey string
	now     func() time.Time

	mu      sync.Mutex
	session memorySession
}

// RESTProviderOption configures a RESTProvider.
type RESTProviderOption func(*RESTProvider)

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) RESTProviderOption {
	return func(p *RESTProvider) { p.client = c }
}

// WithSessionStore persists sessions.
func WithSessionStore(s SessionStore) RESTProviderOption {
	return func(p *RESTProvider) { p.session.store = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RESTProviderOption {
	return func(p *RESTProvider) { p.now = now }
}

// NewRESTProvider creates a provider for the project at baseURL.
func NewRESTProvider(baseURL, anonKey string, opts ...RESTProviderOption) *RESTProvider {
	p := &RESTProvider{
		base:    strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: store.DefaultTimeout}
	}
	return p
}

// tokenResponse is GoTrue's session payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`

	// Sign-up with email confirmation returns the bare user.
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignIn implements IdentityProvider.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var tr tokenResponse
	err := p.post(ctx, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &tr)
	if err != nil {
		var se *store.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusBadRequest || se.Code == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return p.adopt(ctx, tr)
}

// SignUp implements IdentityProvider. When the project requires email
// confirmation it returns ErrConfirmationPending and no session.
func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var tr tokenResponse
	err := p.post(ctx, "/signup", "", map[string]string{
		"email":    email,
		"password": password,
	}, &tr)
	if err != nil {
		var se *store.StatusError
		if errors.As(err, &se) && se.Code == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, se.Body)
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, ErrConfirmationPending
	}
	return p.adopt(ctx, tr)
}

// SignOut implements IdentityProvider. The local session is dropped even
// when the server call fails.
func (p *RESTProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.session.get(ctx)
	var remoteErr error
	if err == nil && s != nil && s.AccessToken != "" {
		remoteErr = p.post(ctx, "/logout", s.AccessToken, nil, nil)
	}
	if err := p.session.set(ctx, nil); err != nil {
		return err
	}
	if remoteErr != nil && !errors.Is(remoteErr, store.ErrUnauthorized) {
		return fmt.Errorf("sign out: %w", remoteErr)
	}
	return nil
}

// CurrentUser implements IdentityProvider, refreshing an expired token.
func (p *RESTProvider) CurrentUser(ctx context.Context) (*User, error) {
	s, err := p.current(ctx)
	if err != nil {
		return nil, err
	}
	u := s.User
	return &u, nil
}

// AccessToken returns the current token, or "" when signed out. It fits
// store.TokenSource.
func (p *RESTProvider) AccessToken() string {
	s, err := p.current(context.Background())
	if err != nil {
		return ""
	}
	return s.AccessToken
}

func (p *RESTProvider) current(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.session.get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotAuthenticated
	}
	if !s.Expired(p.now().Add(refreshLeeway)) {
		return s, nil
	}
	if s.RefreshToken == "" {
		_ = p.session.set(ctx, nil)
		return nil, ErrNotAuthenticated
	}

	var tr tokenResponse
	err = p.post(ctx, "/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": s.RefreshToken,
	}, &tr)
	if err != nil {
		_ = p.session.set(ctx, nil)
		return nil, fmt.Errorf("%w: refresh: %w", ErrNotAuthenticated, err)
	}
	next := p.toSession(tr)
	if next.User.ID == "" {
		next.User = s.User
	}
	if err := p.session.set(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (p *RESTProvider) adopt(ctx context.Context, tr tokenResponse) (*Session, error) {
	s := p.toSession(tr)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.set(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

func (p *RESTProvider) toSession(tr tokenResponse) *Session {
	s := &Session{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}
	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		s.ExpiresAt = p.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	if tr.User != nil {
		s.User = *tr.User
	}
	return s
}

func (p *RESTProvider) post(ctx context.Context, path, bearer string, body any, dest any) error {
	var r io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/auth/v1"+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if bearer == "" {
		bearer = p.anonKey
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.text() != "" {
			data = []byte(er.text())
		}
		return store.CheckStatus(resp.StatusCode, data)
	}
	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
