package security

import (
	"errors"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestProvider(t *testing.T, ttl time.Duration) *TokenProvider {
	t.Helper()
	p, err := NewTokenProvider(testSecret, "sdms-auth", "sdms-api", ttl)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	return p
}

func TestNewTokenProvider_Misconfigured(t *testing.T) {
	if _, err := NewTokenProvider([]byte("short"), "iss", "aud", time.Minute); err == nil {
		t.Error("short secret should be rejected")
	}
	if _, err := NewTokenProvider(testSecret, "", "aud", time.Minute); err == nil {
		t.Error("empty issuer should be rejected")
	}
	if _, err := NewTokenProvider(testSecret, "iss", "", time.Minute); err == nil {
		t.Error("empty audience should be rejected")
	}
	if _, err := NewTokenProvider(testSecret, "iss", "aud", 0); err == nil {
		t.Error("zero ttl should be rejected")
	}
}

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)
	token, expiresAt, err := p.Issue(42, "StartupFounder")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if d := time.Until(expiresAt); d < 14*time.Minute || d > 16*time.Minute {
		t.Errorf("expiresAt not ~15m out: %v", d)
	}
	claims, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	id, err := claims.AccountID()
	if err != nil {
		t.Fatalf("AccountID: %v", err)
	}
	if id != 42 {
		t.Errorf("subject want 42, got %d", id)
	}
	if claims.Role != "StartupFounder" {
		t.Errorf("role want StartupFounder, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("jti should be set")
	}
}

func TestTokenProvider_JTIUnique(t *testing.T) {
	p := newTestProvider(t, time.Minute)
	t1, _, _ := p.Issue(1, "User")
	t2, _, _ := p.Issue(1, "User")
	c1, err := p.Validate(t1)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c2, err := p.Validate(t2)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c1.ID == c2.ID {
		t.Error("two issued tokens share a jti")
	}
}

func TestTokenProvider_ExpiryBoundary(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)
	issuedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return issuedAt }
	token, _, err := p.Issue(7, "User")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p.now = func() time.Time { return issuedAt.Add(14*time.Minute + 59*time.Second) }
	if _, err := p.Validate(token); err != nil {
		t.Fatalf("Validate just before expiry: %v", err)
	}

	p.now = func() time.Time { return issuedAt.Add(15*time.Minute + 1*time.Second) }
	if _, err := p.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Validate past expiry want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_SignatureMismatch(t *testing.T) {
	a := newTestProvider(t, time.Minute)
	b, err := NewTokenProvider([]byte("fedcba9876543210fedcba9876543210"), "sdms-auth", "sdms-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	token, _, err := a.Issue(1, "User")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Validate(token); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("want ErrSignatureMismatch, got %v", err)
	}
}

func TestTokenProvider_WrongIssuerAudience(t *testing.T) {
	p := newTestProvider(t, time.Minute)

	otherIss, _ := NewTokenProvider(testSecret, "someone-else", "sdms-api", time.Minute)
	token, _, err := otherIss.Issue(1, "User")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer want ErrInvalidToken, got %v", err)
	}

	otherAud, _ := NewTokenProvider(testSecret, "sdms-auth", "other-api", time.Minute)
	token, _, err = otherAud.Issue(1, "User")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong audience want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_Malformed(t *testing.T) {
	p := newTestProvider(t, time.Minute)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := p.Validate(tok); err == nil {
			t.Errorf("Validate(%q) should fail", tok)
		}
	}
}
