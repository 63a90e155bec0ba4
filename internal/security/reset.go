package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// ResetTokenLen is the reset token length in bytes (512 bits of entropy).
const ResetTokenLen = 64

// NewResetToken generates a high-entropy password-reset token. The token is
// returned to the delivery collaborator only; it must never appear in audit
// trails or process logs.
func NewResetToken() (string, error) {
	b := make([]byte, ResetTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ResetTokenEqual compares a supplied reset token against the stored value in
// constant time. Returns false when either side is empty.
func ResetTokenEqual(provided, stored string) bool {
	if provided == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(stored)) == 1
}
