package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

// ErrEmptyPassword is returned when a caller asks to hash or verify an empty
// password. An empty password must never be silently hashed.
var ErrEmptyPassword = errors.New("password must not be empty")

const (
	// SaltLen is the per-account salt length in bytes. The salt keys the
	// derivation, so it carries the full digest width.
	SaltLen = 64
	// DigestLen is the derived digest length in bytes (SHA-512 width).
	DigestLen = 64
	// DefaultIterations is the PBKDF2-SHA512 iteration count used when the
	// caller does not configure one.
	DefaultIterations = 210_000
)

// Hasher hashes and verifies passwords using PBKDF2-SHA512 with a fresh random
// salt per hash. Hash and salt are stored separately on the account record.
// Callers must not log or persist plaintext passwords.
type Hasher struct {
	Iterations int
}

// NewHasher returns a Hasher with the given PBKDF2 iteration count.
// Non-positive values fall back to DefaultIterations.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// Hash derives a digest of password under a freshly generated random salt.
// The salt is never reused across calls. Returns ErrEmptyPassword for an
// empty password.
func (h *Hasher) Hash(password string) (hash, salt []byte, err error) {
	if password == "" {
		return nil, nil, ErrEmptyPassword
	}
	salt = make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	hash = pbkdf2.Key([]byte(password), salt, h.Iterations, DigestLen, sha512.New)
	return hash, salt, nil
}

// Verify recomputes the digest of password under the stored salt and compares
// it against the stored hash in constant time.
func (h *Hasher) Verify(password string, hash, salt []byte) bool {
	if password == "" || len(hash) == 0 || len(salt) == 0 {
		return false
	}
	computed := pbkdf2.Key([]byte(password), salt, h.Iterations, DigestLen, sha512.New)
	return subtle.ConstantTimeCompare(computed, hash) == 1
}
