package repository

import (
	"context"
	"errors"

	"sdms/backend/internal/account/domain"
)

// Storage-level sentinel errors. Services map them to their own taxonomy.
var (
	// ErrDuplicateEmail is returned when a create or update collides with the
	// unique email constraint. Concurrent creates for the same email resolve
	// here: the loser sees this error and re-reads instead of failing hard.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrVersionConflict is returned when an optimistic-concurrency update
	// matched no row because the account version moved. Callers retry.
	ErrVersionConflict = errors.New("account version conflict")
)

// Repository defines persistence for accounts and their profile linkage.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// GetByEmail looks up an account by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create persists the account and its profile (may be nil for a plain
	// user) in one transaction and assigns the account ID.
	Create(ctx context.Context, a *domain.Account, p domain.Profile) error
	// Update writes the account guarded by its Version; on success the
	// account's Version is advanced. Returns ErrVersionConflict when the
	// stored version moved underneath the caller.
	Update(ctx context.Context, a *domain.Account) error
	// ProfileLinks reports which profile rows exist for the account.
	ProfileLinks(ctx context.Context, id int64) (domain.ProfileLinks, error)
}
