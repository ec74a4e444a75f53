package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, kind Kind, id string) (*Application, error)
	List(ctx context.Context, kind Kind, f ListFilter) ([]Application, error)

	// Passthrough edit of reference fields; no transition checks.
	UpdateFields(ctx context.Context, kind Kind, id string, f Fields) error

	// Locks the row; only meaningful inside a unit of work.
	GetByIDForUpdate(ctx context.Context, kind Kind, id string) (*Application, error)

	// Writes status/notes/checklist and bumps version. Returns
	// ErrChecklistColumnMissing when the table has no checklist column.
	UpdateProgress(ctx context.Context, kind Kind, id string, u ProgressUpdate) error

	// Conditional write: succeeds only if version still matches and the row
	// is not terminal, otherwise ErrConcurrentUpdate.
	UpdateDecision(ctx context.Context, kind Kind, id string, expectedVersion int64, status Status, notes AdminNotes) error
}
