package service

import (
	"context"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type GovernorateResponse struct {
	ID             string  `json:"id"`
	NameAr         string  `json:"name_ar"`
	NameEn         string  `json:"name_en"`
	CommissionRate *string `json:"commission_rate,omitempty"`
	IsActive       bool    `json:"is_active"`
}

type CityResponse struct {
	ID            string `json:"id"`
	GovernorateID string `json:"governorate_id"`
	NameAr        string `json:"name_ar"`
	NameEn        string `json:"name_en"`
	IsActive      bool   `json:"is_active"`
}

type DistrictResponse struct {
	ID            string `json:"id"`
	CityID        string `json:"city_id"`
	GovernorateID string `json:"governorate_id"`
	NameAr        string `json:"name_ar"`
	NameEn        string `json:"name_en"`
	IsActive      bool   `json:"is_active"`
}

type CreateDistrictRequest struct {
	CityID string `json:"city_id" binding:"required"`
	NameAr string `json:"name_ar" binding:"required"`
	NameEn string `json:"name_en" binding:"required"`
}

type UpdateGovernorateRequest struct {
	CommissionRate *string `json:"commission_rate"` // decimal string, empty clears the override
}

// GovernorateAnalytics is the expansion roll-up for one governorate
type GovernorateAnalytics struct {
	GovernorateID   string  `json:"governorate_id"`
	NameEn          string  `json:"name_en"`
	NameAr          string  `json:"name_ar"`
	Providers       int64   `json:"providers"`
	ActiveProviders int64   `json:"active_providers"`
	Customers       int64   `json:"customers"`
	Orders          int64   `json:"orders"`
	CompletedOrders int64   `json:"completed_orders"`
	Revenue         float64 `json:"revenue"`
	OrderGrowthPct  float64 `json:"order_growth_pct"` // month over month
	Cities          int64   `json:"cities"`
	Districts       int64   `json:"districts"`
	ReadinessScore  int     `json:"readiness_score"`
}

// --- Interface ---

type LocationService interface {
	ListGovernorates(ctx context.Context, includeInactive bool) ([]GovernorateResponse, error)
	SetGovernorateActive(ctx context.Context, id string, active bool) (GovernorateResponse, error)
	UpdateGovernorate(ctx context.Context, id string, req UpdateGovernorateRequest) (GovernorateResponse, error)

	ListCities(ctx context.Context, governorateID string, includeInactive bool) ([]CityResponse, error)
	SetCityActive(ctx context.Context, id string, active bool) (CityResponse, error)

	ListDistricts(ctx context.Context, cityID string, includeInactive bool) ([]DistrictResponse, error)
	CreateDistrict(ctx context.Context, req CreateDistrictRequest) (DistrictResponse, error)
	SetDistrictActive(ctx context.Context, id string, active bool) (DistrictResponse, error)

	GetAnalytics(ctx context.Context) ([]GovernorateAnalytics, error)
}

type locationService struct {
	locationRepo repository.LocationRepository
	providerRepo repository.ProviderRepository
	orderRepo    repository.OrderRepository
	audit        AuditService
}

func NewLocationService(
	locationRepo repository.LocationRepository,
	providerRepo repository.ProviderRepository,
	orderRepo repository.OrderRepository,
	audit AuditService,
) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		providerRepo: providerRepo,
		orderRepo:    orderRepo,
		audit:        audit,
	}
}

// --- Pure computation ---

// ReadinessScore estimates how ready a governorate is for expansion on a
// 0-100 scale. Each factor is capped so no single one dominates:
// active providers up to 40, customers up to 30, completed orders up to
// 20, and geographic coverage (cities+districts) up to 10.
func ReadinessScore(activeProviders, customers, completedOrders, citiesAndDistricts int64) int {
	score := minInt64(activeProviders*10, 40) +
		minInt64(customers*3, 30) +
		minInt64(completedOrders*2, 20) +
		minInt64(citiesAndDistricts*2, 10)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// --- Implementation ---

func (s *locationService) ListGovernorates(ctx context.Context, includeInactive bool) ([]GovernorateResponse, error) {
	govs, err := s.locationRepo.ListGovernorates(ctx, includeInactive)
	if err != nil {
		return nil, apperr.Database(err)
	}
	result := make([]GovernorateResponse, 0, len(govs))
	for _, g := range govs {
		result = append(result, toGovernorateResponse(g))
	}
	return result, nil
}

// SetGovernorateActive flips the activation flag. "Adding" a governorate
// in the console means activating one of the pre-seeded rows.
func (s *locationService) SetGovernorateActive(ctx context.Context, id string, active bool) (GovernorateResponse, error) {
	govID, err := uuid.Parse(id)
	if err != nil {
		return GovernorateResponse{}, apperr.Validation("invalid governorate id")
	}
	gov, err := s.locationRepo.FindGovernorate(ctx, govID)
	if err != nil {
		return GovernorateResponse{}, apperr.NotFound("governorate")
	}

	gov.IsActive = active
	if err := s.locationRepo.UpdateGovernorate(ctx, gov); err != nil {
		return GovernorateResponse{}, apperr.Database(err)
	}

	action := model.ActionActivateLocation
	if !active {
		action = model.ActionDeactivateLocation
	}
	s.audit.Record(ctx, action, id, gov.NameEn, "governorates", nil)
	return toGovernorateResponse(*gov), nil
}

func (s *locationService) UpdateGovernorate(ctx context.Context, id string, req UpdateGovernorateRequest) (GovernorateResponse, error) {
	govID, err := uuid.Parse(id)
	if err != nil {
		return GovernorateResponse{}, apperr.Validation("invalid governorate id")
	}
	gov, err := s.locationRepo.FindGovernorate(ctx, govID)
	if err != nil {
		return GovernorateResponse{}, apperr.NotFound("governorate")
	}

	if req.CommissionRate != nil {
		if *req.CommissionRate == "" {
			gov.CommissionRate = nil
		} else {
			rate, err := decimal.NewFromString(*req.CommissionRate)
			if err != nil {
				return GovernorateResponse{}, apperr.Validation("invalid commission_rate: %v", err)
			}
			if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
				return GovernorateResponse{}, apperr.Validation("commission_rate must be between 0 and 1")
			}
			gov.CommissionRate = &rate
		}
	}

	if err := s.locationRepo.UpdateGovernorate(ctx, gov); err != nil {
		return GovernorateResponse{}, apperr.Database(err)
	}
	return toGovernorateResponse(*gov), nil
}

func (s *locationService) ListCities(ctx context.Context, governorateID string, includeInactive bool) ([]CityResponse, error) {
	govID, err := uuid.Parse(governorateID)
	if err != nil {
		return nil, apperr.Validation("invalid governorate id")
	}
	cities, err := s.locationRepo.ListCities(ctx, govID, includeInactive)
	if err != nil {
		return nil, apperr.Database(err)
	}
	result := make([]CityResponse, 0, len(cities))
	for _, c := range cities {
		result = append(result, toCityResponse(c))
	}
	return result, nil
}

func (s *locationService) SetCityActive(ctx context.Context, id string, active bool) (CityResponse, error) {
	cityID, err := uuid.Parse(id)
	if err != nil {
		return CityResponse{}, apperr.Validation("invalid city id")
	}
	city, err := s.locationRepo.FindCity(ctx, cityID)
	if err != nil {
		return CityResponse{}, apperr.NotFound("city")
	}

	// A city cannot go live inside a dormant governorate
	if active {
		gov, err := s.locationRepo.FindGovernorate(ctx, city.GovernorateID)
		if err != nil {
			return CityResponse{}, apperr.Database(err)
		}
		if !gov.IsActive {
			return CityResponse{}, apperr.Validation("governorate %s is not active", gov.NameEn)
		}
	}

	city.IsActive = active
	if err := s.locationRepo.UpdateCity(ctx, city); err != nil {
		return CityResponse{}, apperr.Database(err)
	}

	action := model.ActionActivateLocation
	if !active {
		action = model.ActionDeactivateLocation
	}
	s.audit.Record(ctx, action, id, city.NameEn, "cities", nil)
	return toCityResponse(*city), nil
}

func (s *locationService) ListDistricts(ctx context.Context, cityID string, includeInactive bool) ([]DistrictResponse, error) {
	id, err := uuid.Parse(cityID)
	if err != nil {
		return nil, apperr.Validation("invalid city id")
	}
	districts, err := s.locationRepo.ListDistricts(ctx, id, includeInactive)
	if err != nil {
		return nil, apperr.Database(err)
	}
	result := make([]DistrictResponse, 0, len(districts))
	for _, d := range districts {
		result = append(result, toDistrictResponse(d))
	}
	return result, nil
}

// CreateDistrict is the one true creation flow in the hierarchy;
// governorates and cities are pre-seeded and only toggled.
func (s *locationService) CreateDistrict(ctx context.Context, req CreateDistrictRequest) (DistrictResponse, error) {
	cityID, err := uuid.Parse(req.CityID)
	if err != nil {
		return DistrictResponse{}, apperr.Validation("invalid city_id")
	}
	city, err := s.locationRepo.FindCity(ctx, cityID)
	if err != nil {
		return DistrictResponse{}, apperr.NotFound("city")
	}

	district := model.District{
		CityID:        city.ID,
		GovernorateID: city.GovernorateID,
		NameAr:        req.NameAr,
		NameEn:        req.NameEn,
		IsActive:      true,
	}
	if err := s.locationRepo.CreateDistrict(ctx, &district); err != nil {
		return DistrictResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, model.ActionCreateDistrict, district.ID.String(), district.NameEn, "districts", nil)
	return toDistrictResponse(district), nil
}

func (s *locationService) SetDistrictActive(ctx context.Context, id string, active bool) (DistrictResponse, error) {
	districtID, err := uuid.Parse(id)
	if err != nil {
		return DistrictResponse{}, apperr.Validation("invalid district id")
	}
	district, err := s.locationRepo.FindDistrict(ctx, districtID)
	if err != nil {
		return DistrictResponse{}, apperr.NotFound("district")
	}

	district.IsActive = active
	if err := s.locationRepo.UpdateDistrict(ctx, district); err != nil {
		return DistrictResponse{}, apperr.Database(err)
	}
	return toDistrictResponse(*district), nil
}

// GetAnalytics recomputes the expansion roll-up across every governorate.
// It is a full scan by design: the admin triggers it explicitly from a
// Refresh action and the governorate count is small and bounded.
func (s *locationService) GetAnalytics(ctx context.Context) ([]GovernorateAnalytics, error) {
	govs, err := s.locationRepo.ListGovernorates(ctx, true)
	if err != nil {
		return nil, apperr.Database(err)
	}

	now := time.Now()
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	result := make([]GovernorateAnalytics, 0, len(govs))
	for _, gov := range govs {
		a := GovernorateAnalytics{
			GovernorateID: gov.ID.String(),
			NameEn:        gov.NameEn,
			NameAr:        gov.NameAr,
		}

		if a.Providers, err = s.providerRepo.CountByGovernorate(ctx, gov.ID, false); err != nil {
			return nil, apperr.Database(err)
		}
		if a.ActiveProviders, err = s.providerRepo.CountByGovernorate(ctx, gov.ID, true); err != nil {
			return nil, apperr.Database(err)
		}
		if a.Customers, err = s.orderRepo.CountCustomersByGovernorate(ctx, gov.ID); err != nil {
			return nil, apperr.Database(err)
		}
		if a.Orders, err = s.orderRepo.CountByGovernorate(ctx, gov.ID, nil, nil, nil); err != nil {
			return nil, apperr.Database(err)
		}
		if a.CompletedOrders, err = s.orderRepo.CountByGovernorate(ctx, gov.ID, []string{model.OrderDelivered}, nil, nil); err != nil {
			return nil, apperr.Database(err)
		}
		if a.Revenue, err = s.orderRepo.SumRevenueByGovernorate(ctx, gov.ID); err != nil {
			return nil, apperr.Database(err)
		}
		if a.Cities, err = s.locationRepo.CountCities(ctx, gov.ID, false); err != nil {
			return nil, apperr.Database(err)
		}
		if a.Districts, err = s.locationRepo.CountDistricts(ctx, gov.ID, false); err != nil {
			return nil, apperr.Database(err)
		}

		thisMonth, err := s.orderRepo.CountByGovernorate(ctx, gov.ID, nil, &thisMonthStart, nil)
		if err != nil {
			return nil, apperr.Database(err)
		}
		lastMonth, err := s.orderRepo.CountByGovernorate(ctx, gov.ID, nil, &lastMonthStart, &thisMonthStart)
		if err != nil {
			return nil, apperr.Database(err)
		}
		if lastMonth > 0 {
			a.OrderGrowthPct = float64(thisMonth-lastMonth) / float64(lastMonth) * 100
		} else if thisMonth > 0 {
			a.OrderGrowthPct = 100
		}

		a.ReadinessScore = ReadinessScore(a.ActiveProviders, a.Customers, a.CompletedOrders, a.Cities+a.Districts)
		result = append(result, a)
	}

	return result, nil
}

// --- Mapping ---

func toGovernorateResponse(g model.Governorate) GovernorateResponse {
	resp := GovernorateResponse{
		ID:       g.ID.String(),
		NameAr:   g.NameAr,
		NameEn:   g.NameEn,
		IsActive: g.IsActive,
	}
	if g.CommissionRate != nil {
		rate := g.CommissionRate.StringFixed(4)
		resp.CommissionRate = &rate
	}
	return resp
}

func toCityResponse(c model.City) CityResponse {
	return CityResponse{
		ID:            c.ID.String(),
		GovernorateID: c.GovernorateID.String(),
		NameAr:        c.NameAr,
		NameEn:        c.NameEn,
		IsActive:      c.IsActive,
	}
}

func toDistrictResponse(d model.District) DistrictResponse {
	return DistrictResponse{
		ID:            d.ID.String(),
		CityID:        d.CityID.String(),
		GovernorateID: d.GovernorateID.String(),
		NameAr:        d.NameAr,
		NameEn:        d.NameEn,
		IsActive:      d.IsActive,
	}
}
