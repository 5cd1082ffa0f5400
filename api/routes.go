package api

import (
	"errors"
	"net/http"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/gate"
	"github.com/andrebq/authbox/internal/httpserver"
)

type (
	message map[string]string
)

const invalidPassword = "password must be between 1 and 72 bytes"

func (h *handlers) welcome(w http.ResponseWriter, r *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, message{"message": "Bienvenue"})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, message{"status": "OK"})
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")
	if email == "" || password == "" {
		httpserver.WriteJSON(w, http.StatusBadRequest, message{"message": "email and password are required"})
		return
	}
	_, err := h.accounts.Register(r.Context(), email, password)
	if errors.Is(err, account.ErrAlreadyExists) {
		httpserver.WriteJSON(w, http.StatusBadRequest, message{"message": "email already registered"})
		return
	} else if errors.Is(err, account.ErrInvalidInput) {
		httpserver.WriteJSON(w, http.StatusBadRequest, message{"message": invalidPassword})
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to register user")
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, message{"email": email, "message": "user created"})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")
	sid, _, err := h.accounts.Login(r.Context(), email, password)
	if errors.Is(err, account.ErrNotFound) || errors.Is(err, account.ErrInvalidCredentials) {
		httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to login")
		return
	}
	h.setSessionCookie(w, sid)
	httpserver.WriteJSON(w, http.StatusOK, message{"email": email, "message": "logged in"})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	sid := h.cookies.SessionID(r)
	_, found, err := h.accounts.UserFromSession(r.Context(), sid)
	if err != nil {
		internalError(w, r, err, "Unable to resolve session")
		return
	} else if !found {
		httpserver.Error(w, http.StatusForbidden, "Forbidden")
		return
	}
	if _, err := h.accounts.Logout(r.Context(), sid); err != nil {
		internalError(w, r, err, "Unable to destroy session")
		return
	}
	h.clearSessionCookie(w)
	httpserver.WriteJSON(w, http.StatusOK, message{"message": "logged out"})
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	u, found, err := h.accounts.UserFromSession(r.Context(), h.cookies.SessionID(r))
	if err != nil {
		internalError(w, r, err, "Unable to resolve session")
		return
	} else if !found {
		httpserver.Error(w, http.StatusForbidden, "Forbidden")
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, message{"email": u.Email})
}

func (h *handlers) resetToken(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	token, err := h.accounts.ResetPasswordToken(r.Context(), email)
	if errors.Is(err, account.ErrNotFound) {
		httpserver.Error(w, http.StatusForbidden, "Forbidden")
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to create reset token")
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, message{"email": email, "reset_token": token})
}

func (h *handlers) updatePassword(w http.ResponseWriter, r *http.Request) {
	email, token, password := r.FormValue("email"), r.FormValue("reset_token"), r.FormValue("new_password")
	if password == "" {
		httpserver.WriteJSON(w, http.StatusBadRequest, message{"message": "new_password is required"})
		return
	}
	err := h.accounts.UpdatePassword(r.Context(), token, password)
	if errors.Is(err, account.ErrNotFound) {
		httpserver.Error(w, http.StatusForbidden, "Forbidden")
		return
	} else if errors.Is(err, account.ErrInvalidInput) {
		httpserver.WriteJSON(w, http.StatusBadRequest, message{"message": invalidPassword})
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to update password")
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, message{"email": email, "message": "Password updated"})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	u, ok := gate.CurrentUser(r.Context())
	if !ok {
		httpserver.Error(w, http.StatusNotFound, "Not found")
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, asUserJSON(u))
}

func (h *handlers) sessionLogin(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")
	switch {
	case email == "":
		httpserver.Error(w, http.StatusBadRequest, "email missing")
		return
	case password == "":
		httpserver.Error(w, http.StatusBadRequest, "password missing")
		return
	}
	sid, u, err := h.accounts.Login(r.Context(), email, password)
	switch {
	case errors.Is(err, account.ErrNotFound):
		httpserver.Error(w, http.StatusNotFound, "no user found for this email")
		return
	case errors.Is(err, account.ErrInvalidCredentials):
		httpserver.Error(w, http.StatusUnauthorized, "wrong password")
		return
	case err != nil:
		internalError(w, r, err, "Unable to login")
		return
	}
	h.setSessionCookie(w, sid)
	httpserver.WriteJSON(w, http.StatusOK, asUserJSON(u))
}

func (h *handlers) sessionLogout(w http.ResponseWriter, r *http.Request) {
	destroyed, err := h.accounts.Logout(r.Context(), h.cookies.SessionID(r))
	if err != nil {
		internalError(w, r, err, "Unable to destroy session")
		return
	} else if !destroyed {
		httpserver.Error(w, http.StatusNotFound, "Not found")
		return
	}
	h.clearSessionCookie(w)
	httpserver.WriteJSON(w, http.StatusOK, struct{}{})
}
