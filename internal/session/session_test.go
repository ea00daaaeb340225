package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-qamar/internal/auth"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	fs := NewFileStore(path)

	s, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s, "missing file means signed out")

	want := &auth.Session{
		AccessToken:  "tok",
		RefreshToken: "ref",
		ExpiresAt:    time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		User:         auth.User{ID: "u-1", Email: "noor@example.com"},
	}
	require.NoError(t, fs.Save(ctx, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.User, got.User)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, fs.Clear(ctx))
	require.NoError(t, fs.Clear(ctx), "clearing twice is fine")
	got, err = fs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("access_token: [x"), 0o600))
	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileStoreWithProvider(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	p := auth.NewLocalProvider(newUsers(), "k", auth.WithLocalSessionStore(fs), auth.WithBcryptCost(4))

	_, err := p.SignUp(ctx, "a@b.c", "secret")
	require.NoError(t, err)

	s, err := fs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "a@b.c", s.User.Email)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("QAMAR_TEST_REDIS")
	if addr == "" {
		t.Skip("QAMAR_TEST_REDIS not set")
	}
	ctx := context.Background()
	rs := NewRedisStore(RedisOptions{Address: addr, Key: "ls-qamar:test:" + t.Name()})
	defer rs.Close()
	require.NoError(t, rs.Ping(ctx))

	want := &auth.Session{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour), User: auth.User{ID: "u"}}
	require.NoError(t, rs.Save(ctx, want))
	got, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.AccessToken)

	require.NoError(t, rs.Clear(ctx))
	got, err = rs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

type users struct{ m map[string]auth.User }

func newUsers() *users { return &users{m: map[string]auth.User{}} }

func (u *users) CreateUser(_ context.Context, usr auth.User, _ string) error {
	u.m[usr.ID] = usr
	return nil
}

func (u *users) UserByEmail(context.Context, string) (*auth.User, string, error) {
	return nil, "", os.ErrNotExist
}

func (u *users) UserByID(_ context.Context, id string) (*auth.User, error) {
	usr := u.m[id]
	return &usr, nil
}
