package main

import (
	"context"
	"fmt"

	"github.com/litescript/ls-qamar/internal/api"
	"github.com/litescript/ls-qamar/internal/auth"
	"github.com/litescript/ls-qamar/internal/config"
	"github.com/litescript/ls-qamar/internal/session"
	"github.com/litescript/ls-qamar/internal/store"
)

// backend bundles the data store and identity provider chosen by the
// config. store is nil when no backend is configured.
type backend struct {
	store    store.DataStore
	identity auth.IdentityProvider
	verifier api.TokenVerifier
	closers  []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// sessionStore keeps the signed-in session in Redis when one is reachable,
// else in the session file.
func (a *app) sessionStore(ctx context.Context, b *backend) auth.SessionStore {
	sc := a.cfg.Session
	if sc.RedisAddress != "" {
		rs := session.NewRedisStore(session.RedisOptions{
			Address:  sc.RedisAddress,
			Username: sc.RedisUsername,
			Password: sc.RedisPassword,
		})
		err := rs.Ping(ctx)
		if err == nil {
			a.log.Debug("sessions in redis at %s", sc.RedisAddress)
			b.closers = append(b.closers, rs.Close)
			return rs
		}
		a.log.Warn("redis unavailable, keeping sessions in %s: %v", sc.File, err)
		_ = rs.Close()
	}
	if sc.File == "" {
		return nil
	}
	return session.NewFileStore(sc.File)
}

// openBackend connects the configured backend. Postgres tables are created
// on first use.
func (a *app) openBackend(ctx context.Context) (*backend, error) {
	b := &backend{identity: auth.Anonymous{}}
	bc := a.cfg.Backend

	switch bc.Kind {
	case config.BackendREST:
		var opts []auth.RESTProviderOption
		if ss := a.sessionStore(ctx, b); ss != nil {
			opts = append(opts, auth.WithSessionStore(ss))
		}
		provider := auth.NewRESTProvider(bc.URL, bc.AnonKey, opts...)
		b.identity = provider
		b.store = store.NewRESTStore(bc.URL, bc.AnonKey, store.WithTokenSource(provider.AccessToken))
		a.log.Info("using hosted backend at %s", bc.URL)

	case config.BackendPostgres:
		pg, err := store.Connect(ctx, bc.DatabaseURL, store.ConnectOptions{Logger: a.log})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pg.Close)
		if err := pg.Migrate(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}

		var opts []auth.LocalOption
		if ss := a.sessionStore(ctx, b); ss != nil {
			opts = append(opts, auth.WithLocalSessionStore(ss))
		}
		provider := auth.NewLocalProvider(auth.NewPGUsers(pg.DB()), bc.JWTSecret, opts...)
		b.store = pg
		b.identity = provider
		b.verifier = provider

	default:
		a.log.Debug("no backend configured, content pages are offline")
	}
	return b, nil
}
