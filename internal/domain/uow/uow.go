package uow

import (
	"context"

	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/domain/profile"
)

type Repos struct {
	Applications application.Repository
	Profiles     profile.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, kind application.Kind, id string, fn func(r Repos, a *application.Application) error) error
}
