package domain

import "time"

// AuditLog represents one audit event. AccountID is zero for system events.
type AuditLog struct {
	ID         string
	AccountID  int64
	Action     string
	EntityName string
	EntityID   int64
	OldValues  string // JSON; empty for creates and plain user actions
	NewValues  string // JSON or free-form detail
	IP         string
	CreatedAt  time.Time
}
