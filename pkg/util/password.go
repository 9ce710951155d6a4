package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength mirrors the identity provider's weak-password rule.
const MinPasswordLength = 6

var ErrWeakPassword = errors.New("password should be at least 6 characters")

// bcryptCost is a var so tests can lower it.
var bcryptCost = 12

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePassword enforces the minimum length accepted at registration.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// UseFastHashing lowers the bcrypt cost. Only for tests.
func UseFastHashing() {
	bcryptCost = bcrypt.MinCost
}
