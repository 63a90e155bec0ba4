package repository

import (
	"context"

	"sdms/backend/internal/startup/domain"
)

// Repository defines the startup persistence the credential subsystem uses.
type Repository interface {
	// Exists reports whether a startup with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, s *domain.Startup) error
	GetByName(ctx context.Context, name string) (*domain.Startup, error)
}
