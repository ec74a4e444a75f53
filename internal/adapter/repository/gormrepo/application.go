package gormrepo

import (
	"context"
	"errors"
	"time"

	domain "backoffice-review/internal/domain/application"
	"backoffice-review/pkg/id"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const checklistColumn = "verification_checklist"

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) table(ctx context.Context, kind domain.Kind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.TableName())
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	if a.ID == "" {
		a.ID = id.New()
	}
	if a.Version == 0 {
		a.Version = 1
	}
	q := r.table(ctx, a.Kind)
	if len(a.VerificationChecklist) == 0 {
		// legacy tables may not carry the column at all
		q = q.Omit(checklistColumn)
	}
	return q.Create(a).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, kind domain.Kind, appID string) (*domain.Application, error) {
	return r.first(r.table(ctx, kind), kind, appID)
}

func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, kind domain.Kind, appID string) (*domain.Application, error) {
	q := r.table(ctx, kind)
	// sqlite has no row locks; the tx itself serializes writers
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(q, kind, appID)
}

func (r *ApplicationRepository) first(q *gorm.DB, kind domain.Kind, appID string) (*domain.Application, error) {
	var out domain.Application
	if err := q.Where("id = ?", appID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	out.Kind = kind
	return &out, nil
}

func (r *ApplicationRepository) List(ctx context.Context, kind domain.Kind, f domain.ListFilter) ([]domain.Application, error) {
	q := r.table(ctx, kind).Order("created_at DESC").Order("id DESC")
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []domain.Application
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Kind = kind
	}
	return out, nil
}

func (r *ApplicationRepository) UpdateFields(ctx context.Context, kind domain.Kind, appID string, f domain.Fields) error {
	cols := f.Columns()
	if len(cols) == 0 {
		return nil
	}
	return r.update(ctx, kind, appID, cols)
}

func (r *ApplicationRepository) UpdateProgress(ctx context.Context, kind domain.Kind, appID string, u domain.ProgressUpdate) error {
	cols := map[string]any{}
	if u.Status != nil {
		cols["status"] = string(*u.Status)
	}
	if u.Notes != nil {
		cols["admin_notes"] = u.Notes
	}
	if u.Checklist != nil {
		cols[checklistColumn] = datatypes.JSONSlice[domain.ChecklistItem](u.Checklist)
	}
	err := r.update(ctx, kind, appID, cols)
	if u.Checklist != nil && isUndefinedColumn(err) {
		return domain.ErrChecklistColumnMissing
	}
	return err
}

func (r *ApplicationRepository) UpdateDecision(ctx context.Context, kind domain.Kind, appID string, expectedVersion int64, status domain.Status, notes domain.AdminNotes) error {
	terminal := make([]string, 0, len(domain.TerminalStatuses))
	for _, s := range domain.TerminalStatuses {
		terminal = append(terminal, string(s))
	}
	res := r.table(ctx, kind).
		Where("id = ? AND version = ? AND status NOT IN ?", appID, expectedVersion, terminal).
		Updates(map[string]any{
			"status":      string(status),
			"admin_notes": notes,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

// update writes cols and bumps version.
func (r *ApplicationRepository) update(ctx context.Context, kind domain.Kind, appID string, cols map[string]any) error {
	cols["version"] = gorm.Expr("version + 1")
	cols["updated_at"] = time.Now().UTC()
	res := r.table(ctx, kind).Where("id = ?", appID).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
