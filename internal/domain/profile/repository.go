package profile

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)

	// Sets role on the account; ErrNotFound when no row matched.
	UpdateRole(ctx context.Context, id string, role Role) error
}
