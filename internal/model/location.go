package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Governorate is the top level of the geographic hierarchy. Rows are
// pre-seeded; admin flows activate them rather than create them.
type Governorate struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NameAr string    `gorm:"type:varchar(255);not null" json:"name_ar"`
	NameEn string    `gorm:"type:varchar(255);not null" json:"name_en"`
	// CommissionRate overrides the platform default for providers in this
	// governorate; nil means no override.
	CommissionRate *decimal.Decimal `gorm:"type:decimal(6,4)" json:"commission_rate,omitempty"`
	IsActive       bool             `gorm:"default:false;index" json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// City belongs to a governorate
type City struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GovernorateID uuid.UUID   `gorm:"type:uuid;not null;index" json:"governorate_id"`
	Governorate   Governorate `gorm:"foreignKey:GovernorateID" json:"-"`
	NameAr        string      `gorm:"type:varchar(255);not null" json:"name_ar"`
	NameEn        string      `gorm:"type:varchar(255);not null" json:"name_en"`
	IsActive      bool        `gorm:"default:false;index" json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// District belongs to a city and keeps a denormalized governorate FK for
// scope queries. Districts alone support true creation in the console.
type District struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CityID        uuid.UUID `gorm:"type:uuid;not null;index" json:"city_id"`
	City          City      `gorm:"foreignKey:CityID" json:"-"`
	GovernorateID uuid.UUID `gorm:"type:uuid;not null;index" json:"governorate_id"`
	NameAr        string    `gorm:"type:varchar(255);not null" json:"name_ar"`
	NameEn        string    `gorm:"type:varchar(255);not null" json:"name_en"`
	IsActive      bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
