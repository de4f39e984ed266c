package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderStatus enum constants
const (
	ProviderPending   = "pending"
	ProviderApproved  = "approved"
	ProviderRejected  = "rejected"
	ProviderSuspended = "suspended"
)

// Provider represents a merchant storefront on the marketplace
type Provider struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID       *uuid.UUID     `gorm:"type:uuid;index" json:"owner_id"` // FK to users.id (merchant account)
	Owner         *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	NameAr        string         `gorm:"type:varchar(255);not null" json:"name_ar"`
	NameEn        string         `gorm:"type:varchar(255);not null" json:"name_en"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	GovernorateID *uuid.UUID     `gorm:"type:uuid;index" json:"governorate_id"`
	CityID        *uuid.UUID     `gorm:"type:uuid;index" json:"city_id"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending, approved, rejected, suspended
	StatusReason  string         `gorm:"type:text" json:"status_reason,omitempty"`
	// MerchantDelivery marks providers that run their own couriers; the
	// platform then owes them collected delivery fees in settlements.
	MerchantDelivery bool           `gorm:"default:false" json:"merchant_delivery"`
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
