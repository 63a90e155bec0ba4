package repository

import (
	"context"
	"database/sql"
	"errors"

	"sdms/backend/internal/startup/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a startup repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Exists reports whether a startup with the given id exists.
func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM startups WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create persists the startup and assigns its generated ID.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Startup) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO startups (name, created_at) VALUES ($1, $2) RETURNING id`,
		s.Name, s.CreatedAt).Scan(&s.ID)
}

// GetByName returns the startup with the given name, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Startup, error) {
	var s domain.Startup
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM startups WHERE name = $1`, name).
		Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
