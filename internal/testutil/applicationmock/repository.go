package applicationmock

import (
	"context"

	domain "backoffice-review/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset reads return domain.ErrNotFound; unset writes succeed.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Application) error
	GetByIDFn          func(ctx context.Context, kind domain.Kind, id string) (*domain.Application, error)
	ListFn             func(ctx context.Context, kind domain.Kind, f domain.ListFilter) ([]domain.Application, error)
	UpdateFieldsFn     func(ctx context.Context, kind domain.Kind, id string, f domain.Fields) error
	GetByIDForUpdateFn func(ctx context.Context, kind domain.Kind, id string) (*domain.Application, error)
	UpdateProgressFn   func(ctx context.Context, kind domain.Kind, id string, u domain.ProgressUpdate) error
	UpdateDecisionFn   func(ctx context.Context, kind domain.Kind, id string, expectedVersion int64, status domain.Status, notes domain.AdminNotes) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, kind, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, kind domain.Kind, f domain.ListFilter) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, kind, f)
	}
	return nil, nil
}

func (m *Repo) UpdateFields(ctx context.Context, kind domain.Kind, id string, f domain.Fields) error {
	if m.UpdateFieldsFn != nil {
		return m.UpdateFieldsFn(ctx, kind, id, f)
	}
	return nil
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, kind domain.Kind, id string) (*domain.Application, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, kind, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpdateProgress(ctx context.Context, kind domain.Kind, id string, u domain.ProgressUpdate) error {
	if m.UpdateProgressFn != nil {
		return m.UpdateProgressFn(ctx, kind, id, u)
	}
	return nil
}

func (m *Repo) UpdateDecision(ctx context.Context, kind domain.Kind, id string, expectedVersion int64, status domain.Status, notes domain.AdminNotes) error {
	if m.UpdateDecisionFn != nil {
		return m.UpdateDecisionFn(ctx, kind, id, expectedVersion, status, notes)
	}
	return nil
}
