package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a login hits an unknown email, so
// the failure path costs one bcrypt comparison either way.
var dummyHash []byte

func init() {
	h, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-unknown-users"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to generate dummy hash: %v", err)
	}
	dummyHash = h
}

// HashPassword hashes a plaintext password with bcrypt. The per-call
// random salt is embedded in the returned hash.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash
func VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// VerifyDummy burns one bcrypt comparison. Called on the unknown-email
// login path so it is indistinguishable in timing from a wrong password.
func VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
}

// GenerateToken returns a URL-safe random token of the given byte length
func GenerateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
