package security

import (
	"errors"
	"os"
	"strings"
)

// ErrInvalidSecret is returned when the signing secret is missing or too short.
var ErrInvalidSecret = errors.New("invalid signing secret")

// LoadSigningSecret resolves the configured signing secret. s may be the
// secret itself or a path to a file holding it; file contents win when the
// path exists. The resolved secret must be at least MinSecretLen bytes.
func LoadSigningSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidSecret
	}
	if info, err := os.Stat(s); err == nil && !info.IsDir() {
		b, err := os.ReadFile(s)
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(string(b))
	}
	if len(s) < MinSecretLen {
		return nil, ErrInvalidSecret
	}
	return []byte(s), nil
}
