package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	ListGovernorates(ctx context.Context, includeInactive bool) ([]model.Governorate, error)
	FindGovernorate(ctx context.Context, id uuid.UUID) (*model.Governorate, error)
	UpdateGovernorate(ctx context.Context, gov *model.Governorate) error

	ListCities(ctx context.Context, governorateID uuid.UUID, includeInactive bool) ([]model.City, error)
	FindCity(ctx context.Context, id uuid.UUID) (*model.City, error)
	UpdateCity(ctx context.Context, city *model.City) error

	ListDistricts(ctx context.Context, cityID uuid.UUID, includeInactive bool) ([]model.District, error)
	FindDistrict(ctx context.Context, id uuid.UUID) (*model.District, error)
	CreateDistrict(ctx context.Context, district *model.District) error
	UpdateDistrict(ctx context.Context, district *model.District) error

	CountCities(ctx context.Context, governorateID uuid.UUID, activeOnly bool) (int64, error)
	CountDistricts(ctx context.Context, governorateID uuid.UUID, activeOnly bool) (int64, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) ListGovernorates(ctx context.Context, includeInactive bool) ([]model.Governorate, error) {
	var govs []model.Governorate
	query := GetDB(ctx, r.db).Order("name_en asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&govs).Error; err != nil {
		return nil, err
	}
	return govs, nil
}

func (r *locationRepository) FindGovernorate(ctx context.Context, id uuid.UUID) (*model.Governorate, error) {
	var gov model.Governorate
	if err := GetDB(ctx, r.db).First(&gov, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gov, nil
}

func (r *locationRepository) UpdateGovernorate(ctx context.Context, gov *model.Governorate) error {
	return GetDB(ctx, r.db).Save(gov).Error
}

func (r *locationRepository) ListCities(ctx context.Context, governorateID uuid.UUID, includeInactive bool) ([]model.City, error) {
	var cities []model.City
	query := GetDB(ctx, r.db).Where("governorate_id = ?", governorateID).Order("name_en asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *locationRepository) FindCity(ctx context.Context, id uuid.UUID) (*model.City, error) {
	var city model.City
	if err := GetDB(ctx, r.db).First(&city, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *locationRepository) UpdateCity(ctx context.Context, city *model.City) error {
	return GetDB(ctx, r.db).Save(city).Error
}

func (r *locationRepository) ListDistricts(ctx context.Context, cityID uuid.UUID, includeInactive bool) ([]model.District, error) {
	var districts []model.District
	query := GetDB(ctx, r.db).Where("city_id = ?", cityID).Order("name_en asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

func (r *locationRepository) FindDistrict(ctx context.Context, id uuid.UUID) (*model.District, error) {
	var district model.District
	if err := GetDB(ctx, r.db).First(&district, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &district, nil
}

func (r *locationRepository) CreateDistrict(ctx context.Context, district *model.District) error {
	return GetDB(ctx, r.db).Create(district).Error
}

func (r *locationRepository) UpdateDistrict(ctx context.Context, district *model.District) error {
	return GetDB(ctx, r.db).Save(district).Error
}

func (r *locationRepository) CountCities(ctx context.Context, governorateID uuid.UUID, activeOnly bool) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.City{}).Where("governorate_id = ?", governorateID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *locationRepository) CountDistricts(ctx context.Context, governorateID uuid.UUID, activeOnly bool) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.District{}).Where("governorate_id = ?", governorateID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}
