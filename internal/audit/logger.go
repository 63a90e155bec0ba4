// Package audit records user actions and entity changes. Writes are
// best-effort: an audit failure must never abort the operation being audited.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"sdms/backend/internal/audit/domain"
	auditrepo "sdms/backend/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// Logger records audit events. LogUserAction covers login, password, and
// lifecycle events on an account; LogEntityChange records before/after state
// of entity mutations. Failures are logged to the process log and swallowed.
//
// Reset tokens and passwords must never be passed in detail or value
// arguments; they would end up in cleartext audit rows.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns a Logger that persists to repo and uses ipExtractor for
// the client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogUserAction writes one audit entry for an action performed by or on the
// given account.
func (l *Logger) LogUserAction(ctx context.Context, accountID int64, action, detail string) {
	l.write(ctx, &domain.AuditLog{
		AccountID:  accountID,
		Action:     action,
		EntityName: "Account",
		EntityID:   accountID,
		NewValues:  detail,
	})
}

// LogEntityChange writes one audit entry recording an entity transition.
// oldValue and newValue are JSON-serialized; either may be nil.
func (l *Logger) LogEntityChange(ctx context.Context, action string, entityID int64, oldValue, newValue any) {
	l.write(ctx, &domain.AuditLog{
		Action:     action,
		EntityName: "Account",
		EntityID:   entityID,
		OldValues:  marshal(oldValue),
		NewValues:  marshal(newValue),
	})
}

func (l *Logger) write(ctx context.Context, entry *domain.AuditLog) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	entry.ID = uuid.New().String()
	entry.IP = ip
	entry.CreatedAt = time.Now().UTC()
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log %s on %s/%d: %v", entry.Action, entry.EntityName, entry.EntityID, err)
	}
}

func marshal(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("audit: failed to marshal value: %v", err)
		return ""
	}
	return string(b)
}
