package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Settlement support
	FindEligibleForSettlement(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]model.Order, error)
	MarkSettled(ctx context.Context, ids []uuid.UUID) (int64, error)

	// Moderation support
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)

	// Analytics support
	CountByGovernorate(ctx context.Context, governorateID uuid.UUID, statuses []string, start, end *time.Time) (int64, error)
	SumRevenueByGovernorate(ctx context.Context, governorateID uuid.UUID) (float64, error)
	CountCustomersByGovernorate(ctx context.Context, governorateID uuid.UUID) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Provider").
		Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, status string, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Provider").
		Preload("Customer").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

// FindEligibleForSettlement returns delivered orders inside the period
// whose settlement_status is eligible or not yet stamped. Rows are locked
// FOR UPDATE: a concurrent generation run for the same provider blocks
// here until the first commits, then re-reads the rows with the settled
// stamp already applied and sees them drop out.
func (r *orderRepository) FindEligibleForSettlement(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_id = ?", providerID).
		Where("status = ?", model.OrderDelivered).
		Where("delivered_at >= ? AND delivered_at <= ?", start, end).
		Where("settlement_status = ? OR settlement_status IS NULL", model.OrderSettlementEligible).
		Order("delivered_at asc").
		Find(&orders).Error
	return orders, err
}

// MarkSettled stamps the orders settled, skipping rows another run has
// already claimed, and reports how many it stamped. Callers compare the
// count against len(ids) and abort their transaction on a shortfall.
func (r *orderRepository) MarkSettled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id IN ?", ids).
		Where("settlement_status IS DISTINCT FROM ?", model.OrderSettlementSettled).
		Update("settlement_status", model.OrderSettlementSettled)
	return result.RowsAffected, result.Error
}

func (r *orderRepository) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := GetDB(ctx, r.db).
		Where("customer_id = ?", customerID).
		Where("status NOT IN ?", []string{model.OrderDelivered, model.OrderCancelled}).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByGovernorate(ctx context.Context, governorateID uuid.UUID, statuses []string, start, end *time.Time) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.Order{}).
		Joins("JOIN providers ON providers.id = orders.provider_id").
		Where("providers.governorate_id = ?", governorateID)
	if len(statuses) > 0 {
		query = query.Where("orders.status IN ?", statuses)
	}
	if start != nil {
		query = query.Where("orders.created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("orders.created_at < ?", *end)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *orderRepository) SumRevenueByGovernorate(ctx context.Context, governorateID uuid.UUID) (float64, error) {
	var sum struct {
		Value float64
	}
	err := GetDB(ctx, r.db).Model(&model.Order{}).
		Select("COALESCE(SUM(orders.total), 0) as value").
		Joins("JOIN providers ON providers.id = orders.provider_id").
		Where("providers.governorate_id = ?", governorateID).
		Where("orders.status = ?", model.OrderDelivered).
		Scan(&sum).Error
	return sum.Value, err
}

func (r *orderRepository) CountCustomersByGovernorate(ctx context.Context, governorateID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Profile{}).
		Where("governorate_id = ?", governorateID).
		Count(&count).Error
	return count, err
}
