package gormrepo

import (
	"context"
	"errors"
	"time"

	domain "backoffice-review/internal/domain/profile"

	"gorm.io/gorm"
)

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func (r *ProfileRepository) GetByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	var out domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", profileID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, profileID string, role domain.Role) error {
	res := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
