package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalStatus enum constants (partner-submitted banners)
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// BannerType enum constants
const (
	BannerTypeCustomer = "customer"
	BannerTypePartner  = "partner"
)

// Derived banner status values (computed from the schedule window, never stored)
const (
	BannerStatusActive    = "active"
	BannerStatusInactive  = "inactive"
	BannerStatusScheduled = "scheduled"
	BannerStatusExpired   = "expired"
)

// Banner is a promotional tile on the customer or partner homepage
type Banner struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BannerType     string         `gorm:"type:varchar(20);not null;default:'customer';index" json:"banner_type"` // customer, partner
	TitleAr        string         `gorm:"type:varchar(255);not null" json:"title_ar"`
	TitleEn        string         `gorm:"type:varchar(255);not null" json:"title_en"`
	SubtitleAr     string         `gorm:"type:varchar(255)" json:"subtitle_ar"`
	SubtitleEn     string         `gorm:"type:varchar(255)" json:"subtitle_en"`
	GradientStart  string         `gorm:"type:varchar(9)" json:"gradient_start"` // hex color, e.g. #FF8800
	GradientEnd    string         `gorm:"type:varchar(9)" json:"gradient_end"`
	ImageURL       string         `gorm:"type:text" json:"image_url"`
	LinkURL        string         `gorm:"type:text" json:"link_url"`
	StartsAt       *time.Time     `json:"starts_at"`
	EndsAt         *time.Time     `json:"ends_at"`
	GovernorateID  *uuid.UUID     `gorm:"type:uuid;index" json:"governorate_id"` // optional geographic scope
	CityID         *uuid.UUID     `gorm:"type:uuid;index" json:"city_id"`
	DisplayOrder   int            `gorm:"not null;default:0;index" json:"display_order"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	ProviderID     *uuid.UUID     `gorm:"type:uuid;index" json:"provider_id"` // set for partner-submitted banners
	ApprovalStatus string         `gorm:"type:varchar(20);not null;default:'APPROVED';index" json:"approval_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// DerivedStatus classifies a banner by its schedule window at time now.
// Expiry wins over scheduling; otherwise the stored flag decides.
func (b Banner) DerivedStatus(now time.Time) string {
	if b.EndsAt != nil && b.EndsAt.Before(now) {
		return BannerStatusExpired
	}
	if b.StartsAt != nil && b.StartsAt.After(now) {
		return BannerStatusScheduled
	}
	if b.IsActive {
		return BannerStatusActive
	}
	return BannerStatusInactive
}
