// Package account ties the user directory and the session authenticator
// together: registration, login, logout and password resets.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrebq/authbox/credential"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/vault"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	// Directory is the subset of vault.Control used by the service
	Directory interface {
		AddUser(ctx context.Context, email, hashedPassword string) (vault.User, error)
		FindUserBy(ctx context.Context, field, value string) (vault.User, error)
		UpdateUser(ctx context.Context, id string, changes map[string]interface{}) error
	}

	Service struct {
		users Directory
		auth  *session.Authenticator
		cost  int
	}

	Option func(*Service)
)

// WithHashCost changes the bcrypt cost used for new digests.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func New(users Directory, auth *session.Authenticator, opts ...Option) *Service {
	s := &Service{users: users, auth: auth, cost: bcrypt.DefaultCost}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Authenticator() *session.Authenticator {
	return s.auth
}

func (s *Service) Register(ctx context.Context, email, password string) (vault.User, error) {
	if email == "" || password == "" {
		return vault.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	_, err := s.users.FindUserBy(ctx, "email", email)
	if err == nil {
		return vault.User{}, ErrAlreadyExists
	} else if !isUserNotFound(err) {
		return vault.User{}, err
	}
	digest, err := s.hash(password)
	if err != nil {
		return vault.User{}, err
	}
	u, err := s.users.AddUser(ctx, email, string(digest))
	var exists vault.UserExists
	if errors.As(err, &exists) {
		return vault.User{}, ErrAlreadyExists
	} else if err != nil {
		return vault.User{}, err
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Str("user_id", u.ID).Msg("User registered")
	return u, nil
}

// FindByEmail returns ErrNotFound for unknown emails.
func (s *Service) FindByEmail(ctx context.Context, email string) (vault.User, error) {
	return s.findBy(ctx, "email", email)
}

func (s *Service) findBy(ctx context.Context, field, value string) (vault.User, error) {
	if value == "" {
		return vault.User{}, ErrNotFound
	}
	u, err := s.users.FindUserBy(ctx, field, value)
	if isUserNotFound(err) {
		return vault.User{}, ErrNotFound
	} else if err != nil {
		return vault.User{}, err
	}
	return u, nil
}

// ValidLogin reports false for unknown emails, wrong passwords and
// directory failures alike.
func (s *Service) ValidLogin(ctx context.Context, email, password string) bool {
	_, err := s.Authenticate(ctx, email, password)
	return err == nil
}

// Authenticate returns the user owning email if password matches, ErrNotFound
// when no such user exists and ErrInvalidCredentials otherwise.
func (s *Service) Authenticate(ctx context.Context, email, password string) (vault.User, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return vault.User{}, err
	}
	if !credential.Verify(credential.HashText(u.HashedPassword), credential.PlainText(password)) {
		return vault.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, vault.User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", vault.User{}, err
	}
	sid, err := s.auth.Create(ctx, u.ID)
	if err != nil {
		return "", vault.User{}, fmt.Errorf("unable to create session for %v, cause %w", u.ID, err)
	}
	return sid, u, nil
}

// UserFromSession returns the owner of sessionID, the boolean is false when
// the session is unknown, expired or its user was removed.
func (s *Service) UserFromSession(ctx context.Context, sessionID string) (vault.User, bool, error) {
	uid, ok, err := s.auth.Resolve(ctx, sessionID)
	if err != nil || !ok {
		return vault.User{}, false, err
	}
	u, err := s.findBy(ctx, "id", uid)
	if errors.Is(err, ErrNotFound) {
		return vault.User{}, false, nil
	} else if err != nil {
		return vault.User{}, false, err
	}
	return u, true, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) (bool, error) {
	return s.auth.Destroy(ctx, sessionID)
}

func (s *Service) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	err = s.users.UpdateUser(ctx, u.ID, map[string]interface{}{"reset_token": token})
	if err != nil {
		return "", fmt.Errorf("unable to store reset token, cause %w", err)
	}
	return token, nil
}

// UpdatePassword replaces the password of the user holding resetToken, the
// token cannot be used twice.
func (s *Service) UpdatePassword(ctx context.Context, resetToken, password string) error {
	u, err := s.findBy(ctx, "reset_token", resetToken)
	if err != nil {
		return err
	}
	digest, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.UpdateUser(ctx, u.ID, map[string]interface{}{
		"hashed_password": string(digest),
		"reset_token":     nil,
	})
}

func (s *Service) hash(password string) (credential.HashText, error) {
	digest, err := credential.HashWithCost(credential.PlainText(password), s.cost)
	if errors.Is(err, credential.ErrEmptyPassword) || errors.Is(err, credential.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return digest, err
}

func isUserNotFound(err error) bool {
	var nf vault.UserNotFound
	return errors.As(err, &nf)
}
