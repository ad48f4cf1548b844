package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor. The salt is generated per password and embedded in
// the resulting hash, so nothing extra needs storing.
const passwordHashCost = 10

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword hashes a plaintext password for storage. The plaintext is
// never persisted anywhere.
func HashPassword(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead.
		return "", errors.New("password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hashed), nil
}

// VerifyPassword compares a candidate against a stored hash. Returns
// ErrPasswordMismatch when they differ.
func VerifyPassword(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("error comparing password hash: %w", err)
	}
	return nil
}
