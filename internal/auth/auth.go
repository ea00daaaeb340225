// Package auth signs users in through a delegated identity provider and
// guards the pages that need a user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

var (
	ErrNotAuthenticated    = errors.New("not signed in")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrConfirmationPending = errors.New("account created, confirm the email before signing in")

	ErrPasswordMismatch = errors.New("Les mots de passe ne correspondent pas")
	ErrPasswordTooShort = fmt.Errorf("Le mot de passe doit contenir au moins %d caractères", MinPasswordLen)
	ErrEmailRequired    = errors.New("email required")
)

// User is the signed-in account.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

// Session is what a provider hands back on sign-in.
type Session struct {
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at" yaml:"expires_at"`
	User         User      `json:"user" yaml:"user"`
}

// Expired reports whether the access token is past its expiry at now.
// A zero expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IdentityProvider is the sign-in capability.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error

	// CurrentUser returns the signed-in user or ErrNotAuthenticated.
	CurrentUser(ctx context.Context) (*User, error)
}

// SessionStore persists the session between runs.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// ValidateSignUp checks the sign-up form before it reaches a provider.
func ValidateSignUp(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len([]rune(password)) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Guard returns the signed-in user, or an error wrapping
// ErrNotAuthenticated when there is none.
func Guard(ctx context.Context, p IdentityProvider) (*User, error) {
	if p == nil {
		return nil, ErrNotAuthenticated
	}
	u, err := p.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	if u == nil || u.ID == "" {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

// Anonymous is the provider used when no backend is configured.
type Anonymous struct{}

func (Anonymous) SignIn(context.Context, string, string) (*Session, error) {
	return nil, errNoBackend
}

func (Anonymous) SignUp(context.Context, string, string) (*Session, error) {
	return nil, errNoBackend
}

func (Anonymous) SignOut(context.Context) error { return nil }

func (Anonymous) CurrentUser(context.Context) (*User, error) {
	return nil, ErrNotAuthenticated
}

var errNoBackend = errors.New("no identity backend configured (set SUPABASE_URL or DATABASE_URL)")

// memorySession is the in-process session shared by the providers.
type memorySession struct {
	current *Session
	store   SessionStore
	loaded  bool
}

func (m *memorySession) get(ctx context.Context) (*Session, error) {
	if m.current == nil && !m.loaded && m.store != nil {
		m.loaded = true
		s, err := m.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		m.current = s
	}
	return m.current, nil
}

func (m *memorySession) set(ctx context.Context, s *Session) error {
	m.current = s
	m.loaded = true
	if m.store == nil {
		return nil
	}
	if s == nil {
		return m.store.Clear(ctx)
	}
	return m.store.Save(ctx, s)
}
