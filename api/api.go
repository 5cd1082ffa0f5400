// Package api exposes the account service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/gate"
	"github.com/andrebq/authbox/internal/httpserver"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/vault"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

type (
	Config struct {
		Accounts *account.Service
		// Realm guards /api/v1, nil leaves it open
		Realm *gate.Realm
		// CookieName carries the session id, defaults to session_id
		CookieName string
	}

	handlers struct {
		accounts *account.Service
		cookies  gate.Session
	}

	userJSON struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}

	statusRecorder struct {
		http.ResponseWriter
		status int
	}
)

const DefaultCookieName = "session_id"

var (
	// ExcludedPaths are reachable under /api/v1 without credentials
	ExcludedPaths = []string{
		"/api/v1/status/",
		"/api/v1/unauthorized/",
		"/api/v1/forbidden/",
		"/api/v1/auth_session/login/",
	}
)

func AsHandler(ctx context.Context, cfg Config) (http.Handler, error) {
	if cfg.Accounts == nil {
		return nil, errors.New("api: an account service is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	h := &handlers{
		accounts: cfg.Accounts,
		cookies:  gate.Session{Sessions: cfg.Accounts, CookieName: cfg.CookieName},
	}

	v1 := httprouter.New()
	v1.HandlerFunc("GET", "/api/v1/status", h.status)
	v1.HandlerFunc("GET", "/api/v1/unauthorized", abort(http.StatusUnauthorized, "Unauthorized"))
	v1.HandlerFunc("GET", "/api/v1/forbidden", abort(http.StatusForbidden, "Forbidden"))
	v1.HandlerFunc("GET", "/api/v1/users/me", h.me)
	v1.HandlerFunc("POST", "/api/v1/auth_session/login", h.sessionLogin)
	v1.HandlerFunc("DELETE", "/api/v1/auth_session/logout", h.sessionLogout)
	v1.NotFound = abort(http.StatusNotFound, "Not found")
	var protected http.Handler = v1
	if cfg.Realm != nil {
		protected = cfg.Realm.Protect(v1)
	}

	router := httprouter.New()
	router.HandlerFunc("GET", "/", h.welcome)
	router.HandlerFunc("POST", "/users", h.register)
	router.HandlerFunc("POST", "/sessions", h.login)
	router.HandlerFunc("DELETE", "/sessions", h.logout)
	router.HandlerFunc("GET", "/profile", h.profile)
	router.HandlerFunc("POST", "/reset_password", h.resetToken)
	router.HandlerFunc("PUT", "/reset_password", h.updatePassword)
	protected = allowCORS(protected)
	for _, m := range []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"} {
		router.Handler(m, "/api/v1/*rest", protected)
	}
	router.NotFound = abort(http.StatusNotFound, "Not found")
	return logRequests(ctx, router), nil
}

func abort(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.Error(w, status, msg)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	httpserver.Error(w, http.StatusInternalServerError, "Internal server error")
}

func asUserJSON(u vault.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *handlers) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests injects the server logger into every request and logs the
// outcome once the handler returns.
func logRequests(ctx context.Context, next http.Handler) http.Handler {
	log := logutil.GetOrDefault(ctx).Sample(zerolog.Often)
	base := logutil.GetOrDefault(ctx)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), base)))
		var ev *zerolog.Event
		if rec.status >= http.StatusInternalServerError {
			ev = base.Error()
		} else {
			ev = log.Info()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	})
}
