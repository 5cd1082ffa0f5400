package gate

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/vault"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

type (
	fakeUsers map[string]string

	fakeSessions struct {
		users map[string]vault.User
		err   error
	}
)

func (f fakeUsers) Authenticate(_ context.Context, email, password string) (vault.User, error) {
	pw, ok := f[email]
	if !ok {
		return vault.User{}, account.ErrNotFound
	} else if pw != password {
		return vault.User{}, account.ErrInvalidCredentials
	}
	return vault.User{ID: "id-" + email, Email: email}, nil
}

func (f fakeSessions) UserFromSession(_ context.Context, sid string) (vault.User, bool, error) {
	if f.err != nil {
		return vault.User{}, false, f.err
	}
	u, ok := f.users[sid]
	return u, ok, nil
}

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func protectedHandler(count *uint32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(count, 1)
		u, ok := CurrentUser(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(u.Email))
	})
}

func TestProtectBasic(t *testing.T) {
	var count uint32
	realm := NewRealm(Basic{Users: fakeUsers{"bob@x.com": "pw:with:colons"}}, "/api/v1/status/")
	protected := realm.Protect(protectedHandler(&count))

	apitest.Handler(protected).Get("/api/v1/users/me").Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "Unauthorized")).
		End()
	apitest.Handler(protected).Get("/api/v1/users/me").Header("Authorization", basic("bob@x.com", "wrong")).Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "Forbidden")).
		End()
	apitest.Handler(protected).Get("/api/v1/users/me").Header("Authorization", "Bearer abc").Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.Handler(protected).Get("/api/v1/users/me").Header("Authorization", basic("bob@x.com", "pw:with:colons")).Expect(t).
		Status(http.StatusOK).
		Body("bob@x.com").
		End()
	apitest.Handler(protected).Get("/api/v1/status").Expect(t).
		Status(http.StatusNoContent).
		End()
	if count != 2 {
		t.Fatalf("protected endpoint should have been called twice, got %v", count)
	}
}

func TestProtectDenied(t *testing.T) {
	var count uint32
	protected := NewRealm(Denied{}).Protect(protectedHandler(&count))
	apitest.Handler(protected).Get("/").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/").Header("Authorization", basic("a", "b")).Expect(t).Status(http.StatusForbidden).End()
	if count != 0 {
		t.Fatal("protected endpoint should never be called")
	}
}

func TestProtectSession(t *testing.T) {
	var count uint32
	strategy := Session{
		CookieName: "session_id",
		Sessions:   fakeSessions{users: map[string]vault.User{"sid-1": {ID: "u-1", Email: "a@x.com"}}},
	}
	protected := NewRealm(strategy).Protect(protectedHandler(&count))

	apitest.Handler(protected).Get("/profile").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/profile").Header("Authorization", "anything").Expect(t).Status(http.StatusForbidden).End()
	apitest.Handler(protected).Get("/profile").Cookie("session_id", "sid-2").Expect(t).Status(http.StatusForbidden).End()
	apitest.Handler(protected).Get("/profile").Cookie("other", "sid-1").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/profile").Cookie("session_id", "sid-1").Expect(t).
		Status(http.StatusOK).
		Body("a@x.com").
		End()
	if count != 1 {
		t.Fatalf("protected endpoint should have been called once, got %v", count)
	}
}

func TestProtectStorageFault(t *testing.T) {
	var count uint32
	strategy := Session{CookieName: "sid", Sessions: fakeSessions{err: errors.New("disk on fire")}}
	protected := NewRealm(strategy).Protect(protectedHandler(&count))
	apitest.Handler(protected).Get("/").Cookie("sid", "x").Expect(t).
		Status(http.StatusInternalServerError).
		End()
}

func TestBasicHelpers(t *testing.T) {
	type testCase struct {
		header   string
		email    string
		password string
		ok       bool
	}
	for _, tc := range []testCase{
		{header: basic("bob@x.com", "H0lberton"), email: "bob@x.com", password: "H0lberton", ok: true},
		{header: basic("bob@x.com", "a:b"), email: "bob@x.com", password: "a:b", ok: true},
		{header: basic("", ""), email: "", password: "", ok: true},
		{header: "Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")), ok: false},
		{header: "Basic not base64!", ok: false},
		{header: "basic " + base64.StdEncoding.EncodeToString([]byte("a:b")), ok: false},
		{header: "", ok: false},
	} {
		var email, password string
		encoded, ok := ExtractBase64AuthorizationHeader(tc.header)
		if ok {
			var decoded string
			decoded, ok = DecodeBase64AuthorizationHeader(encoded)
			if ok {
				email, password, ok = ExtractUserCredentials(decoded)
			}
		}
		if ok != tc.ok || email != tc.email || password != tc.password {
			t.Errorf("header %q: expecting (%q, %q, %v) got (%q, %q, %v)", tc.header, tc.email, tc.password, tc.ok, email, password, ok)
		}
	}
}
