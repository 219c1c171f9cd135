// Package secrets generates, hashes and verifies the operator key.
package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "recruitbot/pkg/domain-errors"
)

// maxHashedLength is the longest input bcrypt takes into account.
const maxHashedLength = 72

// Generate creates a random operator key. It is long enough to be counted as a key
// attempt when typed wrong, and short enough to be bcrypt-hashed.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash creates a bcrypt hash of key suitable for ADMIN_KEY_HASH.
func Hash(key string) (string, error) {
	if key == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "key cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "key is too long")
		}
		return "", fmt.Errorf("could not hash key: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a candidate against a bcrypt hash.
func Verify(candidate, hash string) error {
	if len(candidate) > maxHashedLength {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid key")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeInvalidInput, "invalid key")
		}
		return fmt.Errorf("could not verify key: %w", err)
	}
	return nil
}

// Equal compares a candidate to a plain key in constant time.
func Equal(candidate, key string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1
}
