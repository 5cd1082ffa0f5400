package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type (
	PlainText []byte
	HashText  []byte
)

// MaxPasswordLength is the longest input bcrypt accepts, in bytes.
const MaxPasswordLength = 72

var (
	ErrEmptyPassword   = errors.New("credential: password cannot be empty")
	ErrPasswordTooLong = errors.New("credential: password is longer than 72 bytes")
)

func (p PlainText) Zero() {
	for i := range p {
		p[i] = 0
	}
}

// Hash returns a salted bcrypt digest of passwd using the default cost.
// Two calls with the same input never return the same digest.
func Hash(passwd PlainText) (HashText, error) {
	return HashWithCost(passwd, bcrypt.DefaultCost)
}

func HashWithCost(passwd PlainText, cost int) (HashText, error) {
	if len(passwd) == 0 {
		return nil, ErrEmptyPassword
	} else if len(passwd) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}
	buf, err := bcrypt.GenerateFromPassword(passwd, cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	} else if err != nil {
		return nil, fmt.Errorf("credential: unable to hash password, cause %w", err)
	}
	return HashText(buf), nil
}

func Verify(hashed HashText, passwd PlainText) bool {
	if len(hashed) == 0 || len(passwd) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hashed, passwd) == nil
}
