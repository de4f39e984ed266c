package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementListFilter narrows the settlement listing
type SettlementListFilter struct {
	ProviderID *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

type SettlementRepository interface {
	Create(ctx context.Context, settlement *model.Settlement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Settlement, error)
	List(ctx context.Context, filter SettlementListFilter) ([]model.Settlement, int64, error)
	Update(ctx context.Context, settlement *model.Settlement) error
	SettledOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)
	ListPendingPastDue(ctx context.Context, now time.Time) ([]model.Settlement, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type settlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) Create(ctx context.Context, settlement *model.Settlement) error {
	return GetDB(ctx, r.db).Create(settlement).Error
}

func (r *settlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Settlement, error) {
	var settlement model.Settlement
	if err := GetDB(ctx, r.db).Preload("Provider").First(&settlement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepository) List(ctx context.Context, filter SettlementListFilter) ([]model.Settlement, int64, error) {
	var settlements []model.Settlement
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Settlement{})
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Provider").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&settlements).Error; err != nil {
		return nil, 0, err
	}

	return settlements, total, nil
}

func (r *settlementRepository) Update(ctx context.Context, settlement *model.Settlement) error {
	return GetDB(ctx, r.db).Save(settlement).Error
}

// SettledOrderIDs collects every order ID already referenced by any
// settlement's orders_included. The set backs the second line of defense
// against double-settling; the transaction around generation is the first.
func (r *settlementRepository) SettledOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	var rows []model.Settlement
	if err := GetDB(ctx, r.db).Select("orders_included").Find(&rows).Error; err != nil {
		return nil, err
	}

	settled := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		for _, id := range row.OrdersIncluded {
			settled[id] = struct{}{}
		}
	}
	return settled, nil
}

func (r *settlementRepository) ListPendingPastDue(ctx context.Context, now time.Time) ([]model.Settlement, error) {
	var settlements []model.Settlement
	err := GetDB(ctx, r.db).
		Where("status = ?", model.SettlementPending).
		Where("due_date < ?", now).
		Find(&settlements).Error
	return settlements, err
}

func (r *settlementRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Settlement{}).Where("settlement_no LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
