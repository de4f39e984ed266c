package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomOrderListFilter narrows the request listing
type CustomOrderListFilter struct {
	ProviderID *uuid.UUID
	CustomerID *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

type CustomOrderRepository interface {
	Create(ctx context.Context, request *model.CustomOrderRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CustomOrderRequest, error)
	List(ctx context.Context, filter CustomOrderListFilter) ([]model.CustomOrderRequest, int64, error)
	Update(ctx context.Context, request *model.CustomOrderRequest) error
	ReplaceItems(ctx context.Context, requestID uuid.UUID, items []model.CustomOrderItem) error
	PriceHistory(ctx context.Context, providerID uuid.UUID, name string, limit int) ([]model.CustomOrderItem, error)
	ExpirePastDeadline(ctx context.Context, now time.Time) (int64, error)
}

type customOrderRepository struct {
	db *gorm.DB
}

func NewCustomOrderRepository(db *gorm.DB) CustomOrderRepository {
	return &customOrderRepository{db: db}
}

func (r *customOrderRepository) Create(ctx context.Context, request *model.CustomOrderRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *customOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CustomOrderRequest, error) {
	var request model.CustomOrderRequest
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Customer").
		Preload("Provider").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *customOrderRepository) List(ctx context.Context, filter CustomOrderListFilter) ([]model.CustomOrderRequest, int64, error) {
	var requests []model.CustomOrderRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.CustomOrderRequest{})
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Items").Preload("Customer").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *customOrderRepository) Update(ctx context.Context, request *model.CustomOrderRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}

// ReplaceItems swaps the full line-item set of a request. Used by quote
// submission so a repriced draft never leaves stale lines behind.
func (r *customOrderRepository) ReplaceItems(ctx context.Context, requestID uuid.UUID, items []model.CustomOrderItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("request_id = ?", requestID).Delete(&model.CustomOrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].RequestID = requestID
	}
	return db.Create(&items).Error
}

// ExpirePastDeadline marks still-pending requests whose pricing window
// closed as expired and reports how many rows changed.
func (r *customOrderRepository) ExpirePastDeadline(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Model(&model.CustomOrderRequest{}).
		Where("status = ?", model.CustomOrderPending).
		Where("pricing_deadline < ?", now).
		Update("status", model.CustomOrderExpired)
	return result.RowsAffected, result.Error
}

// PriceHistory returns recently priced lines matching a name for the
// provider, newest first, so merchants can anchor new quotes.
func (r *customOrderRepository) PriceHistory(ctx context.Context, providerID uuid.UUID, name string, limit int) ([]model.CustomOrderItem, error) {
	var items []model.CustomOrderItem
	err := GetDB(ctx, r.db).
		Joins("JOIN custom_order_requests ON custom_order_requests.id = custom_order_items.request_id").
		Where("custom_order_requests.provider_id = ?", providerID).
		Where("custom_order_requests.status IN ?", []string{model.CustomOrderPriced, model.CustomOrderCustomerApproved, model.CustomOrderCreated}).
		Where("custom_order_items.name ILIKE ?", "%"+name+"%").
		Order("custom_order_items.created_at desc").
		Limit(limit).
		Find(&items).Error
	return items, err
}
