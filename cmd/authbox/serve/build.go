package serve

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/api"
	"github.com/andrebq/authbox/gate"
	"github.com/andrebq/authbox/internal/config"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/session/cachestore"
	"github.com/andrebq/authbox/session/redisstore"
	"github.com/andrebq/authbox/vault"
)

type (
	// Stack is everything a running server owns
	Stack struct {
		Handler  http.Handler
		Accounts *account.Service
		closers  []func() error
	}
)

// Close releases every resource in reverse order of acquisition, the
// first error is returned.
func (s *Stack) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Build opens the vault and session store selected by cfg and returns the
// HTTP handler serving them.
func Build(ctx context.Context, cfg config.Config) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st := &Stack{}
	if err := st.build(ctx, cfg); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func (st *Stack) build(ctx context.Context, cfg config.Config) error {
	log := logutil.GetOrDefault(ctx)
	users, err := vault.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	st.closers = append(st.closers, users.Close)

	store, err := openStore(ctx, cfg, users, st)
	if err != nil {
		return err
	}
	auth := session.New(store, session.Config{
		Duration: cfg.EffectiveDuration(),
		Excluded: api.ExcludedPaths,
	})
	st.Accounts = account.New(users, auth)

	var realm *gate.Realm
	switch cfg.AuthType {
	case config.AuthBase:
		realm = gate.NewRealm(gate.Denied{}, api.ExcludedPaths...)
	case config.AuthBasic:
		realm = gate.NewRealm(gate.Basic{Users: st.Accounts}, api.ExcludedPaths...)
	case config.AuthSession, config.AuthSessionExp, config.AuthSessionDB:
		realm = gate.NewRealm(gate.Session{Sessions: st.Accounts, CookieName: cfg.SessionName}, api.ExcludedPaths...)
	}
	log.Info().
		Str("auth_type", cfg.AuthType).
		Dur("session_duration", auth.Duration()).
		Str("vault", users.File()).
		Msg("Authentication configured")

	st.Handler, err = api.AsHandler(ctx, api.Config{
		Accounts:   st.Accounts,
		Realm:      realm,
		CookieName: cfg.SessionName,
	})
	return err
}

func openStore(ctx context.Context, cfg config.Config, users *vault.Control, st *Stack) (session.Store, error) {
	if cfg.AuthType == config.AuthSessionDB {
		switch cfg.SessionDBBackend {
		case config.BackendRedis:
			client, err := redisstore.Connect(ctx, cfg.RedisURL)
			if err != nil {
				return nil, err
			}
			st.closers = append(st.closers, client.Close)
			return redisstore.New(client, redisstore.DefaultPrefix), nil
		default:
			return users.Sessions(), nil
		}
	}
	switch cfg.SessionStore {
	case config.StoreBigcache:
		cache, err := cachestore.New(cfg.EffectiveDuration())
		if err != nil {
			return nil, fmt.Errorf("unable to create session cache, cause %w", err)
		}
		st.closers = append(st.closers, cache.Close)
		return cache, nil
	default:
		return session.NewMemoryStore(), nil
	}
}
