package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of locally issued tokens.
const TokenTTL = 72 * time.Hour

// UserRepository stores accounts for LocalProvider.
type UserRepository interface {
	CreateUser(ctx context.Context, u User, passwordHash string) error
	UserByEmail(ctx context.Context, email string) (*User, string, error)
	UserByID(ctx context.Context, id string) (*User, error)
}

// LocalProvider keeps accounts in PostgreSQL and issues HS256 tokens.
type LocalProvider struct {
	users  UserRepository
	secret []byte
	now    func() time.Time
	cost   int

	mu      sync.Mutex
	session memorySession
}

// LocalOption configures a LocalProvider.
type LocalOption func(*LocalProvider)

// WithLocalSessionStore persists sessions.
func WithLocalSessionStore(s SessionStore) LocalOption {
	return func(p *LocalProvider) { p.session.store = s }
}

// WithLocalClock replaces time.Now.
func WithLocalClock(now func() time.Time) LocalOption {
	return func(p *LocalProvider) { p.now = now }
}

// WithBcryptCost sets the hashing cost.
func WithBcryptCost(cost int) LocalOption {
	return func(p *LocalProvider) { p.cost = cost }
}

// NewLocalProvider creates a provider over users signing with secret.
func NewLocalProvider(users UserRepository, secret string, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		users:  users,
		secret: []byte(secret),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SignUp implements IdentityProvider.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len([]rune(password)) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := User{ID: uuid.NewString(), Email: email, CreatedAt: p.now().UTC()}
	if err := p.users.CreateUser(ctx, u, string(hash)); err != nil {
		return nil, err
	}
	return p.issue(ctx, u)
}

// SignIn implements IdentityProvider.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, hash, err := p.users.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p.issue(ctx, *u)
}

// SignOut implements IdentityProvider.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.set(ctx, nil)
}

// CurrentUser implements IdentityProvider. The stored token must verify
// and the account must still exist.
func (p *LocalProvider) CurrentUser(ctx context.Context) (*User, error) {
	p.mu.Lock()
	s, err := p.session.get(ctx)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotAuthenticated
	}

	id, err := p.Verify(s.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	u, err := p.users.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return u, nil
}

// AccessToken returns the stored token, or "".
func (p *LocalProvider) AccessToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := p.session.get(context.Background())
	if err != nil || s == nil {
		return ""
	}
	return s.AccessToken
}

// Sign creates a token with userID in the "sub" claim.
func (p *LocalProvider) Sign(userID string, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": p.now().Unix(),
		"exp": expires.Unix(),
	})
	return token.SignedString(p.secret)
}

// Verify checks a token and returns its subject.
func (p *LocalProvider) Verify(tokenString string) (string, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if !claims.VerifyExpiresAt(p.now().Unix(), true) {
		return "", errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("invalid sub claim")
	}
	return sub, nil
}

func (p *LocalProvider) issue(ctx context.Context, u User) (*Session, error) {
	expires := p.now().Add(TokenTTL)
	token, err := p.Sign(u.ID, expires)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	s := &Session{AccessToken: token, ExpiresAt: expires, User: u}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.set(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PGUsers is the PostgreSQL UserRepository over the app_users table.
type PGUsers struct {
	db *sqlx.DB
}

// NewPGUsers wraps an open database.
func NewPGUsers(db *sqlx.DB) *PGUsers {
	return &PGUsers{db: db}
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) user() *User {
	return &User{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt}
}

// CreateUser implements UserRepository.
func (r *PGUsers) CreateUser(ctx context.Context, u User, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, passwordHash, u.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UserByEmail implements UserRepository.
func (r *PGUsers) UserByEmail(ctx context.Context, email string) (*User, string, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM app_users WHERE email = $1`, email); err != nil {
		return nil, "", err
	}
	return row.user(), row.PasswordHash, nil
}

// UserByID implements UserRepository.
func (r *PGUsers) UserByID(ctx context.Context, id string) (*User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM app_users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return row.user(), nil
}
