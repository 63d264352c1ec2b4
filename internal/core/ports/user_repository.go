package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/domain/services"
)

// UserRepository is the read side of the user directory.
type UserRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetForUpdate loads the user and locks its row.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*user.User, error)

	FindByRole(ctx context.Context, role user.Role) ([]*user.User, error)

	// FindDriverCandidates returns active drivers whose capacity is at least
	// minCapacity, ordered by id, each with the statuses of its active deliveries.
	FindDriverCandidates(ctx context.Context, minCapacity kernel.Weight) ([]services.DriverCandidate, error)

	// LockDriverCandidate locks the driver row and re-reads its active deliveries.
	LockDriverCandidate(ctx context.Context, driverID kernel.UUID) (services.DriverCandidate, error)
}
