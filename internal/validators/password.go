package validators

import (
	"errors"
	"strings"
	"unicode"
)

var ErrWeakPassword = errors.New(
	"password must be at least 8 characters and contain at least one lowercase letter, one uppercase letter, one number, and one special character")

// CheckPassword enforces the signup password policy. Hashing happens
// after this check; the plaintext goes no further.
func CheckPassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeEmail lowercases and trims; both unique indexes assume it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
