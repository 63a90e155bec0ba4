package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"sdms/backend/internal/account/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint violation.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, username, name, phone, role, password_hash, password_salt,
	active, reset_token, reset_token_expires, version, created_at, updated_at`

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByEmail returns the account with the given email (case-insensitive), or
// nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
	return scanAccount(row)
}

// Create persists the account and its profile in a single transaction and
// assigns the generated account ID. A unique-email collision, including one
// lost to a concurrent create, is reported as ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account, p domain.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO accounts (email, username, name, phone, role, password_hash, password_salt,
			active, reset_token, reset_token_expires, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12)
		 RETURNING id`,
		strings.ToLower(a.Email), a.Username, a.Name, a.Phone, string(a.Role),
		a.PasswordHash, a.PasswordSalt, a.Active,
		nullString(a.ResetToken), nullTime(a.ResetTokenExpires),
		a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return mapUnique(err)
	}
	a.Version = 1

	switch prof := p.(type) {
	case nil:
	case domain.AdminProfile:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO admin_profiles (account_id, admin_level, department) VALUES ($1, $2, $3)`,
			a.ID, prof.AdminLevel, prof.Department)
	case domain.FounderProfile:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO founder_profiles (account_id, company_name) VALUES ($1, $2)`,
			a.ID, prof.CompanyName)
	case domain.EmployeeProfile:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO employee_profiles (account_id, startup_id, employee_role, performance_score, hire_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.ID, prof.StartupID, prof.EmployeeRole, prof.PerformanceScore, prof.HireDate)
	default:
		err = fmt.Errorf("unknown profile type %T", p)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Update writes the account guarded by its current Version. The reset-token
// fields are written in the same statement as the credential fields, so a
// successful reset can never leave a stale token valid.
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Account) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET email = $1, username = $2, name = $3, phone = $4, role = $5,
			 password_hash = $6, password_salt = $7, active = $8,
			 reset_token = $9, reset_token_expires = $10,
			 version = version + 1, updated_at = $11
		 WHERE id = $12 AND version = $13`,
		strings.ToLower(a.Email), a.Username, a.Name, a.Phone, string(a.Role),
		a.PasswordHash, a.PasswordSalt, a.Active,
		nullString(a.ResetToken), nullTime(a.ResetTokenExpires),
		a.UpdatedAt, a.ID, a.Version,
	)
	if err != nil {
		return mapUnique(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	a.Version++
	return nil
}

// ProfileLinks reports which profile rows exist for the account.
func (r *PostgresRepository) ProfileLinks(ctx context.Context, id int64) (domain.ProfileLinks, error) {
	var links domain.ProfileLinks
	err := r.db.QueryRowContext(ctx,
		`SELECT
			EXISTS (SELECT 1 FROM admin_profiles WHERE account_id = $1),
			EXISTS (SELECT 1 FROM founder_profiles WHERE account_id = $1),
			EXISTS (SELECT 1 FROM employee_profiles WHERE account_id = $1)`,
		id,
	).Scan(&links.Admin, &links.Founder, &links.Employee)
	if err != nil {
		return domain.ProfileLinks{}, err
	}
	return links, nil
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	var username, name, phone, resetToken sql.NullString
	var resetExpires sql.NullTime
	var role string
	err := row.Scan(&a.ID, &a.Email, &username, &name, &phone, &role,
		&a.PasswordHash, &a.PasswordSalt, &a.Active,
		&resetToken, &resetExpires, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Username = username.String
	a.Name = name.String
	a.Phone = phone.String
	a.Role = domain.Role(role)
	a.ResetToken = resetToken.String
	if resetExpires.Valid {
		t := resetExpires.Time
		a.ResetTokenExpires = &t
	}
	return &a, nil
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
