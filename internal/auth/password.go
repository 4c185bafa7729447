package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor the hosted deployments run with.
const DefaultBcryptCost = 12

const randomTokenBytes = 32

// ErrCredentialProcessing hides the underlying hashing failure from callers.
var ErrCredentialProcessing = errors.New("cannot process credentials")

// HashPassword hashes a plaintext password with the default work factor.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultBcryptCost)
}

// HashPasswordWithCost hashes a plaintext password with an explicit bcrypt
// cost. Cost values outside bcrypt's supported range fall back to the
// default.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrCredentialProcessing
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", ErrCredentialProcessing
	}
	return string(hashed), nil
}

// VerifyPassword checks a candidate against the stored hash. It fails closed:
// any internal error reports as a plain mismatch.
func VerifyPassword(hash, candidate string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// GenerateRandomToken returns a URL-safe random token with 256 bits of
// entropy, used for password-reset and email-verification links.
func GenerateRandomToken() (string, error) {
	buf := make([]byte, randomTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrCredentialProcessing
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
