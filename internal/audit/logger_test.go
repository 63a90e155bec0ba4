package audit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"sdms/backend/internal/audit/domain"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	fail    bool
}

func (r *memAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memAuditRepo) ListByAccount(ctx context.Context, accountID int64, limit, offset int32) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditLog
	for _, e := range r.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("storage down")
	}
	r.entries = append(r.entries, a)
	return nil
}

func TestLogger_UserAction(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, func(ctx context.Context) string { return "10.0.0.1" })
	l.LogUserAction(context.Background(), 42, "Login", "Successful login")

	if len(repo.entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.AccountID != 42 || e.Action != "Login" || e.EntityName != "Account" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.IP != "10.0.0.1" {
		t.Errorf("ip want 10.0.0.1, got %q", e.IP)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Error("id and timestamp should be set")
	}
}

func TestLogger_EntityChange(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)
	type state struct {
		Email string `json:"email"`
	}
	l.LogEntityChange(context.Background(), "Update", 7, state{Email: "old@x.com"}, state{Email: "new@x.com"})

	if len(repo.entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if !strings.Contains(e.OldValues, "old@x.com") || !strings.Contains(e.NewValues, "new@x.com") {
		t.Errorf("values not serialized: %+v", e)
	}
	if e.IP != "unknown" {
		t.Errorf("nil extractor should record unknown, got %q", e.IP)
	}
}

func TestLogger_BestEffort(t *testing.T) {
	l := NewLogger(&memAuditRepo{fail: true}, nil)
	// Must not panic or surface the storage error.
	l.LogUserAction(context.Background(), 1, "Login", "detail")

	var nilLogger *Logger
	nilLogger.LogUserAction(context.Background(), 1, "Login", "detail")
}
