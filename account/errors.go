package account

import "errors"

var (
	ErrAlreadyExists      = errors.New("account: user already exists")
	ErrNotFound           = errors.New("account: user not found")
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	// ErrInvalidInput wraps passwords or emails that can never be stored
	ErrInvalidInput = errors.New("account: invalid input")
)
