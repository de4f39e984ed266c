package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *model.Refund) error
	List(ctx context.Context, status string, page, limit int) ([]model.Refund, int64, error)
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *model.Refund) error {
	return GetDB(ctx, r.db).Create(refund).Error
}

func (r *refundRepository) List(ctx context.Context, status string, page, limit int) ([]model.Refund, int64, error) {
	var refunds []model.Refund
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Refund{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Order").Order("created_at desc").Offset(offset).Limit(limit).Find(&refunds).Error; err != nil {
		return nil, 0, err
	}

	return refunds, total, nil
}
