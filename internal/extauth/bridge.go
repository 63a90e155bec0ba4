// Package extauth validates third-party identity assertions (OIDC ID tokens)
// and maps them to verified identities for local account resolution.
package extauth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedProvider is returned when no verifier is registered for
	// the requested provider name.
	ErrUnsupportedProvider = errors.New("unsupported identity provider")
	// ErrInvalidAssertion is returned when the assertion fails cryptographic
	// verification or lacks a verified email claim.
	ErrInvalidAssertion = errors.New("invalid identity assertion")
)

// Identity is the verified result of an external identity assertion. Email is
// only populated after the assertion's signature and audience were verified;
// it is safe to use for account lookup.
type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// Verifier cryptographically verifies a raw identity assertion for one
// provider and extracts its verified claims.
type Verifier interface {
	Verify(ctx context.Context, assertion string) (*Identity, error)
}

// Bridge routes assertions to the verifier registered for the named provider.
// A provider name alone never selects a trust path: the assertion still has
// to verify against that provider's verification material.
type Bridge struct {
	mu        sync.RWMutex
	verifiers map[string]Verifier
}

// NewBridge returns an empty Bridge. Register providers before use.
func NewBridge() *Bridge {
	return &Bridge{verifiers: make(map[string]Verifier)}
}

// Register adds a verifier under the given provider name (case-insensitive).
// Registering the same name twice replaces the previous verifier.
func (b *Bridge) Register(name string, v Verifier) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verifiers[strings.ToLower(name)] = v
}

// Providers returns the registered provider names, sorted.
func (b *Bridge) Providers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.verifiers))
	for name := range b.verifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Verify validates the assertion with the provider's verifier and returns the
// verified identity. Fails with ErrUnsupportedProvider for unknown providers
// and ErrInvalidAssertion for assertions that do not verify.
func (b *Bridge) Verify(ctx context.Context, provider, assertion string) (*Identity, error) {
	b.mu.RLock()
	v, ok := b.verifiers[strings.ToLower(strings.TrimSpace(provider))]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
	if strings.TrimSpace(assertion) == "" {
		return nil, ErrInvalidAssertion
	}
	return v.Verify(ctx, assertion)
}
