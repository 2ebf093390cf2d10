// Package password implements salted, iterated password hashing.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100_000
	saltLength = 32
	keyLength  = 32
)

// Hasher derives PBKDF2-HMAC-SHA256 password hashes. The stored form is
// base64(salt || derived key).
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash derives a key from plain under a fresh random salt and returns
// the encoded salt+key string.
func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plain), salt, iterations, keyLength, sha256.New)

	combined := make([]byte, 0, saltLength+keyLength)
	combined = append(combined, salt...)
	combined = append(combined, key...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// Verify recomputes the derivation with the stored salt and compares in
// constant time. Any malformed or truncated stored hash verifies false;
// a corrupt record must never authenticate.
func (h *Hasher) Verify(plain, stored string) bool {
	combined, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false
	}
	if len(combined) <= saltLength {
		return false
	}

	salt := combined[:saltLength]
	storedKey := combined[saltLength:]

	key := pbkdf2.Key([]byte(plain), salt, iterations, len(storedKey), sha256.New)

	return subtle.ConstantTimeCompare(key, storedKey) == 1
}
