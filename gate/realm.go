// Package gate protects HTTP handlers, rejecting requests without
// credentials (401) or whose credentials do not resolve to a user (403).
package gate

import (
	"context"
	"net/http"

	"github.com/andrebq/authbox/internal/httpserver"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/vault"
)

type (
	// Strategy decides who is making a request
	Strategy interface {
		// HasCredentials reports whether r carries anything the strategy
		// could authenticate.
		HasCredentials(r *http.Request) bool
		// CurrentUser resolves the credentials of r. Only storage faults are
		// returned as errors.
		CurrentUser(r *http.Request) (vault.User, bool, error)
	}

	Realm struct {
		Strategy Strategy
		// Excluded paths are served without credentials, see
		// session.RequiresAuthentication for the pattern syntax.
		Excluded []string
	}

	key byte
)

var (
	userKey = key(1)
)

func NewRealm(strategy Strategy, excluded ...string) *Realm {
	return &Realm{Strategy: strategy, Excluded: excluded}
}

func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.RequiresAuthentication(r.URL.Path, s.Excluded) {
			sensitive.ServeHTTP(w, r)
			return
		}
		if !s.Strategy.HasCredentials(r) {
			httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		user, found, err := s.Strategy.CurrentUser(r)
		if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Unable to resolve current user")
			httpserver.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		} else if !found {
			httpserver.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, u vault.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser returns the user attached by Protect.
func CurrentUser(ctx context.Context) (vault.User, bool) {
	u, ok := ctx.Value(userKey).(vault.User)
	return u, ok
}
