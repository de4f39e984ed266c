package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BannerListFilter narrows the banner listing
type BannerListFilter struct {
	BannerType     string // customer, partner or empty for all
	ApprovalStatus string
	Status         string    // derived schedule status, evaluated at Now
	Now            time.Time // reference time for the Status predicates
	Search         string    // matched against both title languages
	Page           int
	Limit          int
}

type BannerRepository interface {
	Create(ctx context.Context, banner *model.Banner) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Banner, error)
	List(ctx context.Context, filter BannerListFilter) ([]model.Banner, int64, error)
	Update(ctx context.Context, banner *model.Banner) error
	UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error
	Delete(ctx context.Context, id uuid.UUID) error
	MaxDisplayOrder(ctx context.Context, bannerType string) (int, error)
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, banner *model.Banner) error {
	return GetDB(ctx, r.db).Create(banner).Error
}

func (r *bannerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Banner, error) {
	var banner model.Banner
	if err := GetDB(ctx, r.db).First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepository) List(ctx context.Context, filter BannerListFilter) ([]model.Banner, int64, error) {
	var banners []model.Banner
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Banner{})
	if filter.BannerType != "" {
		query = query.Where("banner_type = ?", filter.BannerType)
	}
	if filter.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", filter.ApprovalStatus)
	}
	query = applyDerivedStatus(query, filter.Status, filter.Now)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title_ar ILIKE ? OR title_en ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("display_order asc, created_at desc").Offset(offset).Limit(filter.Limit).Find(&banners).Error; err != nil {
		return nil, 0, err
	}

	return banners, total, nil
}

// applyDerivedStatus translates the computed schedule status into SQL so
// count and page reflect the same filtered set. Mirrors Banner.DerivedStatus:
// expiry wins over scheduling, then the stored flag decides.
func applyDerivedStatus(query *gorm.DB, status string, now time.Time) *gorm.DB {
	switch status {
	case model.BannerStatusExpired:
		return query.Where("ends_at IS NOT NULL AND ends_at < ?", now)
	case model.BannerStatusScheduled:
		return query.
			Where("ends_at IS NULL OR ends_at >= ?", now).
			Where("starts_at IS NOT NULL AND starts_at > ?", now)
	case model.BannerStatusActive, model.BannerStatusInactive:
		return query.
			Where("ends_at IS NULL OR ends_at >= ?", now).
			Where("starts_at IS NULL OR starts_at <= ?", now).
			Where("is_active = ?", status == model.BannerStatusActive)
	default:
		return query
	}
}

func (r *bannerRepository) Update(ctx context.Context, banner *model.Banner) error {
	return GetDB(ctx, r.db).Save(banner).Error
}

func (r *bannerRepository) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	return GetDB(ctx, r.db).Model(&model.Banner{}).Where("id = ?", id).Update("display_order", order).Error
}

func (r *bannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Banner{}, "id = ?", id).Error
}

func (r *bannerRepository) MaxDisplayOrder(ctx context.Context, bannerType string) (int, error) {
	var max struct {
		Value int
	}
	err := GetDB(ctx, r.db).Model(&model.Banner{}).
		Select("COALESCE(MAX(display_order), 0) as value").
		Where("banner_type = ?", bannerType).
		Scan(&max).Error
	return max.Value, err
}
