package gate

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/vault"
)

type (
	// Denied requires an Authorization header but never accepts it
	Denied struct{}

	// PasswordChecker is implemented by account.Service
	PasswordChecker interface {
		Authenticate(ctx context.Context, email, password string) (vault.User, error)
	}

	// Basic authenticates "Authorization: Basic base64(email:password)"
	Basic struct {
		Users PasswordChecker
	}

	// SessionResolver is implemented by account.Service
	SessionResolver interface {
		UserFromSession(ctx context.Context, sessionID string) (vault.User, bool, error)
	}

	// Session authenticates the session id carried by a cookie
	Session struct {
		Sessions   SessionResolver
		CookieName string
	}
)

const basicPrefix = "Basic "

func hasAuthorization(r *http.Request) bool {
	return r.Header.Get("Authorization") != ""
}

func (Denied) HasCredentials(r *http.Request) bool { return hasAuthorization(r) }

func (Denied) CurrentUser(*http.Request) (vault.User, bool, error) {
	return vault.User{}, false, nil
}

func (b Basic) HasCredentials(r *http.Request) bool { return hasAuthorization(r) }

func (b Basic) CurrentUser(r *http.Request) (vault.User, bool, error) {
	encoded, ok := ExtractBase64AuthorizationHeader(r.Header.Get("Authorization"))
	if !ok {
		return vault.User{}, false, nil
	}
	decoded, ok := DecodeBase64AuthorizationHeader(encoded)
	if !ok {
		return vault.User{}, false, nil
	}
	email, password, ok := ExtractUserCredentials(decoded)
	if !ok {
		return vault.User{}, false, nil
	}
	return b.UserObjectFromCredentials(r.Context(), email, password)
}

// UserObjectFromCredentials returns the user owning email when password
// matches.
func (b Basic) UserObjectFromCredentials(ctx context.Context, email, password string) (vault.User, bool, error) {
	u, err := b.Users.Authenticate(ctx, email, password)
	if errors.Is(err, account.ErrNotFound) || errors.Is(err, account.ErrInvalidCredentials) {
		return vault.User{}, false, nil
	} else if err != nil {
		return vault.User{}, false, err
	}
	return u, true, nil
}

// ExtractBase64AuthorizationHeader returns what follows "Basic " in header.
func ExtractBase64AuthorizationHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	return header[len(basicPrefix):], true
}

func DecodeBase64AuthorizationHeader(encoded string) (string, bool) {
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || !utf8.Valid(buf) {
		return "", false
	}
	return string(buf), true
}

// ExtractUserCredentials splits decoded on the first ':', passwords may
// contain colons.
func ExtractUserCredentials(decoded string) (email, password string, ok bool) {
	idx := strings.IndexByte(decoded, ':')
	if idx < 0 {
		return "", "", false
	}
	return decoded[:idx], decoded[idx+1:], true
}

// HasCredentials accepts either an Authorization header or the session
// cookie, only the cookie is used to find the user.
func (s Session) HasCredentials(r *http.Request) bool {
	return hasAuthorization(r) || s.SessionID(r) != ""
}

func (s Session) CurrentUser(r *http.Request) (vault.User, bool, error) {
	sid := s.SessionID(r)
	if sid == "" {
		return vault.User{}, false, nil
	}
	return s.Sessions.UserFromSession(r.Context(), sid)
}

// SessionID returns the value of the session cookie, empty when absent.
func (s Session) SessionID(r *http.Request) string {
	c, err := r.Cookie(s.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
