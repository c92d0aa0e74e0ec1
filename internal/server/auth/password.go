package auth

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/readlist/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
)

// PasswordPolicy checks password strength and hashes passwords with bcrypt.
type PasswordPolicy struct {
	cost int
}

// NewPasswordPolicy returns a policy hashing at cost. A zero cost selects
// bcrypt.DefaultCost.
func NewPasswordPolicy(cost int) *PasswordPolicy {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordPolicy{cost: cost}
}

// Validate returns common.ErrWeakPassword unless password has at least eight
// characters with an upper-case letter, a lower-case letter and a digit.
// Anything longer than bcrypt can hash is rejected as well.
func (p *PasswordPolicy) Validate(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength || len(password) > maxPasswordBytes {
		return common.ErrWeakPassword
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return common.ErrWeakPassword
	}

	return nil
}

// Hash returns the bcrypt hash of password.
func (p *PasswordPolicy) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify compares password with hash in constant time. A mismatch is
// (false, nil); a hash that cannot be parsed is common.ErrCorruptCredential.
func (p *PasswordPolicy) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", common.ErrCorruptCredential, err)
	}
}
