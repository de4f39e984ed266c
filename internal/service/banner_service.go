package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateBannerRequest struct {
	BannerType    string  `json:"banner_type" binding:"omitempty,oneof=customer partner"`
	TitleAr       string  `json:"title_ar" binding:"required"`
	TitleEn       string  `json:"title_en" binding:"required"`
	SubtitleAr    string  `json:"subtitle_ar"`
	SubtitleEn    string  `json:"subtitle_en"`
	GradientStart string  `json:"gradient_start"`
	GradientEnd   string  `json:"gradient_end"`
	ImageURL      string  `json:"image_url"`
	LinkURL       string  `json:"link_url"`
	StartsAt      *string `json:"starts_at"` // RFC3339
	EndsAt        *string `json:"ends_at"`
	GovernorateID string  `json:"governorate_id"`
	CityID        string  `json:"city_id"`
	ProviderID    string  `json:"provider_id"` // partner submissions only
	IsActive      *bool   `json:"is_active"`
}

type UpdateBannerRequest struct {
	TitleAr       *string `json:"title_ar"`
	TitleEn       *string `json:"title_en"`
	SubtitleAr    *string `json:"subtitle_ar"`
	SubtitleEn    *string `json:"subtitle_en"`
	GradientStart *string `json:"gradient_start"`
	GradientEnd   *string `json:"gradient_end"`
	ImageURL      *string `json:"image_url"`
	LinkURL       *string `json:"link_url"`
	StartsAt      *string `json:"starts_at"`
	EndsAt        *string `json:"ends_at"`
	IsActive      *bool   `json:"is_active"`
}

type BannerFilter struct {
	BannerType     string
	Status         string // derived status: active, inactive, scheduled, expired
	ApprovalStatus string
	Search         string
	Page           int
	Limit          int
}

type ReorderBannersRequest struct {
	// IDs in the desired display order, first = top
	OrderedIDs []string `json:"ordered_ids" binding:"required,min=1"`
}

type BannerResponse struct {
	ID             string  `json:"id"`
	BannerType     string  `json:"banner_type"`
	TitleAr        string  `json:"title_ar"`
	TitleEn        string  `json:"title_en"`
	SubtitleAr     string  `json:"subtitle_ar"`
	SubtitleEn     string  `json:"subtitle_en"`
	GradientStart  string  `json:"gradient_start"`
	GradientEnd    string  `json:"gradient_end"`
	TextColor      string  `json:"text_color"` // computed contrast foreground
	ImageURL       string  `json:"image_url"`
	LinkURL        string  `json:"link_url"`
	StartsAt       *string `json:"starts_at"`
	EndsAt         *string `json:"ends_at"`
	GovernorateID  *string `json:"governorate_id"`
	CityID         *string `json:"city_id"`
	DisplayOrder   int     `json:"display_order"`
	IsActive       bool    `json:"is_active"`
	Status         string  `json:"status"` // derived
	ApprovalStatus string  `json:"approval_status"`
	CreatedAt      string  `json:"created_at"`
}

// --- Interface ---

type BannerService interface {
	CreateBanner(ctx context.Context, req CreateBannerRequest) (BannerResponse, error)
	UpdateBanner(ctx context.Context, id string, req UpdateBannerRequest) (BannerResponse, error)
	ListBanners(ctx context.Context, filter BannerFilter) ([]BannerResponse, int64, error)
	GetBanner(ctx context.Context, id string) (BannerResponse, error)
	DeleteBanner(ctx context.Context, id string) error
	ReorderBanners(ctx context.Context, bannerType string, req ReorderBannersRequest) error
	ApproveBanner(ctx context.Context, id string) (BannerResponse, error)
	RejectBanner(ctx context.Context, id string) (BannerResponse, error)
}

type bannerService struct {
	bannerRepo repository.BannerRepository
	txManager  repository.TransactionManager
	audit      AuditService
}

func NewBannerService(bannerRepo repository.BannerRepository, txManager repository.TransactionManager, audit AuditService) BannerService {
	return &bannerService{bannerRepo: bannerRepo, txManager: txManager, audit: audit}
}

// --- Implementation ---

func (s *bannerService) CreateBanner(ctx context.Context, req CreateBannerRequest) (BannerResponse, error) {
	if strings.TrimSpace(req.TitleAr) == "" || strings.TrimSpace(req.TitleEn) == "" {
		return BannerResponse{}, apperr.Validation("both title_ar and title_en are required")
	}

	bannerType := req.BannerType
	if bannerType == "" {
		bannerType = model.BannerTypeCustomer
	}

	banner := model.Banner{
		BannerType:    bannerType,
		TitleAr:       req.TitleAr,
		TitleEn:       req.TitleEn,
		SubtitleAr:    req.SubtitleAr,
		SubtitleEn:    req.SubtitleEn,
		GradientStart: req.GradientStart,
		GradientEnd:   req.GradientEnd,
		ImageURL:      req.ImageURL,
		LinkURL:       req.LinkURL,
		IsActive:      true,
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}

	var err error
	if banner.StartsAt, err = parseOptionalTime(req.StartsAt); err != nil {
		return BannerResponse{}, apperr.Validation("invalid starts_at: %v", err)
	}
	if banner.EndsAt, err = parseOptionalTime(req.EndsAt); err != nil {
		return BannerResponse{}, apperr.Validation("invalid ends_at: %v", err)
	}
	if banner.StartsAt != nil && banner.EndsAt != nil && banner.EndsAt.Before(*banner.StartsAt) {
		return BannerResponse{}, apperr.Validation("ends_at must be after starts_at")
	}

	if banner.GovernorateID, err = parseOptionalUUID(req.GovernorateID); err != nil {
		return BannerResponse{}, apperr.Validation("invalid governorate_id: %v", err)
	}
	if banner.CityID, err = parseOptionalUUID(req.CityID); err != nil {
		return BannerResponse{}, apperr.Validation("invalid city_id: %v", err)
	}
	if banner.ProviderID, err = parseOptionalUUID(req.ProviderID); err != nil {
		return BannerResponse{}, apperr.Validation("invalid provider_id: %v", err)
	}

	// Partner submissions wait for approval; admin-created banners are live
	banner.ApprovalStatus = model.ApprovalApproved
	if banner.ProviderID != nil {
		banner.ApprovalStatus = model.ApprovalPending
	}

	// New banners go to the end of their type's list
	maxOrder, err := s.bannerRepo.MaxDisplayOrder(ctx, bannerType)
	if err != nil {
		return BannerResponse{}, apperr.Database(err)
	}
	banner.DisplayOrder = maxOrder + 1

	if err := s.bannerRepo.Create(ctx, &banner); err != nil {
		return BannerResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, model.ActionCreateBanner, banner.ID.String(), banner.TitleEn, "homepage_banners", nil)

	return toBannerResponse(banner, time.Now()), nil
}

func (s *bannerService) UpdateBanner(ctx context.Context, id string, req UpdateBannerRequest) (BannerResponse, error) {
	bannerID, err := uuid.Parse(id)
	if err != nil {
		return BannerResponse{}, apperr.Validation("invalid banner id")
	}

	banner, err := s.bannerRepo.FindByID(ctx, bannerID)
	if err != nil {
		return BannerResponse{}, apperr.NotFound("banner")
	}

	if req.TitleAr != nil {
		if strings.TrimSpace(*req.TitleAr) == "" {
			return BannerResponse{}, apperr.Validation("title_ar cannot be empty")
		}
		banner.TitleAr = *req.TitleAr
	}
	if req.TitleEn != nil {
		if strings.TrimSpace(*req.TitleEn) == "" {
			return BannerResponse{}, apperr.Validation("title_en cannot be empty")
		}
		banner.TitleEn = *req.TitleEn
	}
	if req.SubtitleAr != nil {
		banner.SubtitleAr = *req.SubtitleAr
	}
	if req.SubtitleEn != nil {
		banner.SubtitleEn = *req.SubtitleEn
	}
	if req.GradientStart != nil {
		banner.GradientStart = *req.GradientStart
	}
	if req.GradientEnd != nil {
		banner.GradientEnd = *req.GradientEnd
	}
	if req.ImageURL != nil {
		banner.ImageURL = *req.ImageURL
	}
	if req.LinkURL != nil {
		banner.LinkURL = *req.LinkURL
	}
	if req.StartsAt != nil {
		if banner.StartsAt, err = parseOptionalTime(req.StartsAt); err != nil {
			return BannerResponse{}, apperr.Validation("invalid starts_at: %v", err)
		}
	}
	if req.EndsAt != nil {
		if banner.EndsAt, err = parseOptionalTime(req.EndsAt); err != nil {
			return BannerResponse{}, apperr.Validation("invalid ends_at: %v", err)
		}
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}

	if err := s.bannerRepo.Update(ctx, banner); err != nil {
		return BannerResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, model.ActionUpdateBanner, banner.ID.String(), banner.TitleEn, "homepage_banners", nil)

	return toBannerResponse(*banner, time.Now()), nil
}

func (s *bannerService) ListBanners(ctx context.Context, filter BannerFilter) ([]BannerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	// The derived status is filtered in SQL so total and page agree
	now := time.Now()
	banners, total, err := s.bannerRepo.List(ctx, repository.BannerListFilter{
		BannerType:     filter.BannerType,
		ApprovalStatus: filter.ApprovalStatus,
		Status:         filter.Status,
		Now:            now,
		Search:         filter.Search,
		Page:           filter.Page,
		Limit:          filter.Limit,
	})
	if err != nil {
		return nil, 0, apperr.Database(err)
	}

	result := make([]BannerResponse, 0, len(banners))
	for _, b := range banners {
		result = append(result, toBannerResponse(b, now))
	}
	return result, total, nil
}

func (s *bannerService) GetBanner(ctx context.Context, id string) (BannerResponse, error) {
	bannerID, err := uuid.Parse(id)
	if err != nil {
		return BannerResponse{}, apperr.Validation("invalid banner id")
	}
	banner, err := s.bannerRepo.FindByID(ctx, bannerID)
	if err != nil {
		return BannerResponse{}, apperr.NotFound("banner")
	}
	return toBannerResponse(*banner, time.Now()), nil
}

func (s *bannerService) DeleteBanner(ctx context.Context, id string) error {
	bannerID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid banner id")
	}
	banner, err := s.bannerRepo.FindByID(ctx, bannerID)
	if err != nil {
		return apperr.NotFound("banner")
	}
	if err := s.bannerRepo.Delete(ctx, bannerID); err != nil {
		return apperr.Database(err)
	}
	s.audit.Record(ctx, model.ActionDeleteBanner, id, banner.TitleEn, "homepage_banners", nil)
	return nil
}

// ReorderBanners persists a new display order for a banner type. All rows
// update inside one transaction so a failure leaves the old order intact.
func (s *bannerService) ReorderBanners(ctx context.Context, bannerType string, req ReorderBannersRequest) error {
	ids := make([]uuid.UUID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("invalid banner id %q", raw)
		}
		ids = append(ids, id)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i, id := range ids {
			banner, err := s.bannerRepo.FindByID(txCtx, id)
			if err != nil {
				return fmt.Errorf("banner %s not found: %w", id, err)
			}
			if bannerType != "" && banner.BannerType != bannerType {
				return fmt.Errorf("banner %s is not of type %s", id, bannerType)
			}
			if err := s.bannerRepo.UpdateDisplayOrder(txCtx, id, i+1); err != nil {
				return fmt.Errorf("failed to reorder banner %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Wrap(apperr.CodeDatabase, "reorder failed", err)
	}

	s.audit.Record(ctx, model.ActionReorderBanners, "", bannerType, "homepage_banners", map[string]interface{}{"count": len(ids)})
	return nil
}

func (s *bannerService) ApproveBanner(ctx context.Context, id string) (BannerResponse, error) {
	return s.updateApproval(ctx, id, model.ApprovalApproved, model.ActionApproveBanner)
}

func (s *bannerService) RejectBanner(ctx context.Context, id string) (BannerResponse, error) {
	return s.updateApproval(ctx, id, model.ApprovalRejected, model.ActionRejectBanner)
}

func (s *bannerService) updateApproval(ctx context.Context, id string, status string, action string) (BannerResponse, error) {
	bannerID, err := uuid.Parse(id)
	if err != nil {
		return BannerResponse{}, apperr.Validation("invalid banner id")
	}

	banner, err := s.bannerRepo.FindByID(ctx, bannerID)
	if err != nil {
		return BannerResponse{}, apperr.NotFound("banner")
	}
	if banner.ApprovalStatus != model.ApprovalPending {
		return BannerResponse{}, apperr.Validation("banner is already %s", banner.ApprovalStatus)
	}

	banner.ApprovalStatus = status
	if err := s.bannerRepo.Update(ctx, banner); err != nil {
		return BannerResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, action, id, banner.TitleEn, "homepage_banners", nil)
	return toBannerResponse(*banner, time.Now()), nil
}

// --- Helpers ---

// ContrastTextColor returns the foreground hex color (black or white)
// with the better contrast over the banner's gradient, judged by the
// average relative luminance of its two stops.
func ContrastTextColor(gradientStart, gradientEnd string) string {
	l1, ok1 := hexLuminance(gradientStart)
	l2, ok2 := hexLuminance(gradientEnd)
	if !ok1 && !ok2 {
		return "#FFFFFF"
	}
	if !ok1 {
		l1 = l2
	}
	if !ok2 {
		l2 = l1
	}
	if (l1+l2)/2 > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}

// hexLuminance parses #RGB or #RRGGBB and returns perceived luminance in [0,1]
func hexLuminance(hex string) (float64, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	r := float64((v>>16)&0xFF) / 255
	g := float64((v>>8)&0xFF) / 255
	b := float64(v&0xFF) / 255
	return 0.299*r + 0.587*g + 0.114*b, true
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// --- Mapping ---

func toBannerResponse(b model.Banner, now time.Time) BannerResponse {
	resp := BannerResponse{
		ID:             b.ID.String(),
		BannerType:     b.BannerType,
		TitleAr:        b.TitleAr,
		TitleEn:        b.TitleEn,
		SubtitleAr:     b.SubtitleAr,
		SubtitleEn:     b.SubtitleEn,
		GradientStart:  b.GradientStart,
		GradientEnd:    b.GradientEnd,
		TextColor:      ContrastTextColor(b.GradientStart, b.GradientEnd),
		ImageURL:       b.ImageURL,
		LinkURL:        b.LinkURL,
		DisplayOrder:   b.DisplayOrder,
		IsActive:       b.IsActive,
		Status:         b.DerivedStatus(now),
		ApprovalStatus: b.ApprovalStatus,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.StartsAt != nil {
		s := b.StartsAt.Format(time.RFC3339)
		resp.StartsAt = &s
	}
	if b.EndsAt != nil {
		s := b.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &s
	}
	if b.GovernorateID != nil {
		s := b.GovernorateID.String()
		resp.GovernorateID = &s
	}
	if b.CityID != nil {
		s := b.CityID.String()
		resp.CityID = &s
	}
	return resp
}
