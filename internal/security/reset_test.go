package security

import (
	"encoding/base64"
	"testing"
)

func TestNewResetToken(t *testing.T) {
	tok, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not base64: %v", err)
	}
	if len(raw) != ResetTokenLen {
		t.Errorf("token entropy want %d bytes, got %d", ResetTokenLen, len(raw))
	}
	tok2, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if tok == tok2 {
		t.Fatal("two reset tokens should never collide")
	}
}

func TestResetTokenEqual(t *testing.T) {
	tok, _ := NewResetToken()
	if !ResetTokenEqual(tok, tok) {
		t.Error("equal tokens should match")
	}
	other, _ := NewResetToken()
	if ResetTokenEqual(tok, other) {
		t.Error("different tokens should not match")
	}
	if ResetTokenEqual("", "") || ResetTokenEqual(tok, "") || ResetTokenEqual("", tok) {
		t.Error("empty tokens must never match")
	}
}
