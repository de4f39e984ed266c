package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Provider, int64, error)
	ListApprovedIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, provider *model.Provider) error
	CountByGovernorate(ctx context.Context, governorateID uuid.UUID, activeOnly bool) (int64, error)
}

type providerRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	var provider model.Provider
	if err := GetDB(ctx, r.db).First(&provider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) List(ctx context.Context, status string, page, limit int) ([]model.Provider, int64, error) {
	var providers []model.Provider
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Provider{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&providers).Error; err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

func (r *providerRepository) ListApprovedIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Provider{}).
		Where("status = ?", model.ProviderApproved).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *providerRepository) Update(ctx context.Context, provider *model.Provider) error {
	return GetDB(ctx, r.db).Save(provider).Error
}

func (r *providerRepository) CountByGovernorate(ctx context.Context, governorateID uuid.UUID, activeOnly bool) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.Provider{}).Where("governorate_id = ?", governorateID)
	if activeOnly {
		query = query.Where("status = ? AND is_active = ?", model.ProviderApproved, true)
	}
	err := query.Count(&count).Error
	return count, err
}
