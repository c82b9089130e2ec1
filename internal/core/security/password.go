// Package security holds the credential and session-token primitives used by
// the account service and the session carrier.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to every stored credential.
const PasswordCost = 10

var (
	// ErrHashFailed is returned when a credential could not be produced.
	// Callers must abort the operation; there is no plaintext fallback.
	ErrHashFailed = errors.New("password hashing failed")

	// ErrMalformedCredential means the stored credential is not a bcrypt hash.
	ErrMalformedCredential = errors.New("malformed stored credential")
)

// HashPassword returns the salted bcrypt credential for plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashFailed, err)
	}
	return string(hash), nil
}

// VerifyPassword compares plain against a stored credential in constant time.
// A mismatch is (false, nil); only a corrupt credential returns an error.
func VerifyPassword(plain, credential string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(credential), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}
}
