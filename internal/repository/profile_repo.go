package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Profile, int64, error)
	Update(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, status string, page, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Profile{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}
