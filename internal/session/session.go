// Package session persists the signed-in session between runs, in a local
// YAML file or in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-qamar/internal/auth"
)

// FileStore keeps the session in a file only the owner can read.
type FileStore struct {
	path string
}

// NewFileStore returns a store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load implements auth.SessionStore. A missing file means no session.
func (f *FileStore) Load(context.Context) (*auth.Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s auth.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", f.path, err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

// Save implements auth.SessionStore.
func (f *FileStore) Save(_ context.Context, s *auth.Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear implements auth.SessionStore.
func (f *FileStore) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Address  string
	Username string
	Password string
	Key      string
}

// RedisStore keeps the session under one key, expiring with the token.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects to the server described by opts.
func NewRedisStore(opts RedisOptions) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       0,
	})
	return NewRedisStoreWithClient(rdb, opts.Key)
}

// NewRedisStoreWithClient uses an existing client.
func NewRedisStoreWithClient(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "ls-qamar:session"
	}
	return &RedisStore{rdb: rdb, key: key}
}

// Load implements auth.SessionStore.
func (r *RedisStore) Load(ctx context.Context) (*auth.Session, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	var s auth.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save implements auth.SessionStore.
func (r *RedisStore) Save(ctx context.Context, s *auth.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	// Keep sessions with a refresh token past the access token's expiry.
	var ttl time.Duration
	if s.RefreshToken == "" && !s.ExpiresAt.IsZero() {
		ttl = time.Until(s.ExpiresAt)
		if ttl <= 0 {
			return r.Clear(ctx)
		}
	}
	if err := r.rdb.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Clear implements auth.SessionStore.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

var (
	_ auth.SessionStore = (*FileStore)(nil)
	_ auth.SessionStore = (*RedisStore)(nil)
)
