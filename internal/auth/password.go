package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var errEmptyPassword = errors.New("auth: empty password")

// HashPassword derives a salted adaptive hash from a plaintext password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches the stored hash.
// Fails closed: any comparison error (including a malformed hash) is a
// non-match, never an exception surfaced to the login path.
func VerifyPassword(storedHash, plain string) bool {
	if storedHash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}
