package repository

import (
	"context"
	"database/sql"
	"errors"

	"sdms/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, action, entity_name, entity_id, old_values, new_values, ip, created_at
		 FROM audit_logs WHERE id = $1`, id)
	return scanAuditLog(row.Scan)
}

// ListByAccount returns audit logs for the given account, newest first,
// paginated by limit and offset.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, action, entity_name, entity_id, old_values, new_values, ip, created_at
		 FROM audit_logs WHERE account_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		entry, err := scanAuditLog(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, account_id, action, entity_name, entity_id, old_values, new_values, ip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, nullInt(a.AccountID), a.Action, a.EntityName, nullInt(a.EntityID),
		nullStr(a.OldValues), nullStr(a.NewValues), a.IP, a.CreatedAt)
	return err
}

func scanAuditLog(scan func(dest ...any) error) (*domain.AuditLog, error) {
	var a domain.AuditLog
	var accountID, entityID sql.NullInt64
	var oldValues, newValues sql.NullString
	err := scan(&a.ID, &accountID, &a.Action, &a.EntityName, &entityID,
		&oldValues, &newValues, &a.IP, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.AccountID = accountID.Int64
	a.EntityID = entityID.Int64
	a.OldValues = oldValues.String
	a.NewValues = newValues.String
	return &a, nil
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
