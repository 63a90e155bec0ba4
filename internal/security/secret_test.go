package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSigningSecret_Inline(t *testing.T) {
	want := strings.Repeat("s", 40)
	got, err := LoadSigningSecret(want)
	if err != nil {
		t.Fatalf("LoadSigningSecret: %v", err)
	}
	if string(got) != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestLoadSigningSecret_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	want := strings.Repeat("x", 48)
	if err := os.WriteFile(path, []byte(want+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSigningSecret(path)
	if err != nil {
		t.Fatalf("LoadSigningSecret: %v", err)
	}
	if string(got) != want {
		t.Errorf("file secret should be read and trimmed, got %q", got)
	}
}

func TestLoadSigningSecret_Invalid(t *testing.T) {
	if _, err := LoadSigningSecret(""); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("empty secret want ErrInvalidSecret, got %v", err)
	}
	if _, err := LoadSigningSecret("too-short"); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("short secret want ErrInvalidSecret, got %v", err)
	}
}
