package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the registration password floor. The `min=8` binding
// on the registration request must stay in lockstep with this value; the
// hasher enforces it again so no caller can hash a weaker password.
const MinPasswordLength = 8

// ErrPasswordTooShort reports a password below MinPasswordLength. Callers
// map it to a field-level validation error; anything else out of Hash is a
// server fault.
var ErrPasswordTooShort = fmt.Errorf("password shorter than %d characters", MinPasswordLength)

// PasswordHasher hashes and verifies credential secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

// BcryptHasher is the production PasswordHasher. Cost outside bcrypt's
// accepted range falls back to the library default.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return errors.New("password does not match")
	}
	return nil
}
