package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateAuditLog(ctx context.Context, log *model.AuditLog) error
	CreateActivityLog(ctx context.Context, log *model.ActivityLog) error
	ListAuditLogs(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateAuditLog(ctx context.Context, log *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(log).Error
}

func (r *auditRepository) CreateActivityLog(ctx context.Context, log *model.ActivityLog) error {
	return GetDB(ctx, r.db).Create(log).Error
}

func (r *auditRepository) ListAuditLogs(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
