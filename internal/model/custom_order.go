package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomOrderStatus enum constants
const (
	CustomOrderPending          = "pending"
	CustomOrderPriced           = "priced"
	CustomOrderCustomerApproved = "customer_approved"
	CustomOrderCustomerRejected = "customer_rejected"
	CustomOrderCreated          = "order_created"
	CustomOrderExpired          = "expired"
)

// AvailabilityStatus enum constants
const (
	ItemAvailable   = "available"
	ItemUnavailable = "unavailable"
	ItemSubstituted = "substituted"
	ItemPartial     = "partial"
)

// CustomOrderRequest is a customer's free-form order (text, voice, or
// images) broadcast to a provider for manual pricing.
type CustomOrderRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *Profile  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProviderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	Provider    *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	VoiceURL    string    `gorm:"type:text" json:"voice_url,omitempty"`
	ImageURLs   string    `gorm:"type:text" json:"image_urls,omitempty"` // comma-separated attachment URLs

	Status          string    `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	PricingDeadline time.Time `gorm:"not null;index" json:"pricing_deadline"`

	DeliveryFee decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"delivery_fee"`
	// Totals snapshot stamped when the quote is submitted
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Commission decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"commission"`
	PricedAt   *time.Time      `json:"priced_at"`

	OrderID *uuid.UUID `gorm:"type:uuid;index" json:"order_id"` // set once the customer approves

	Items []CustomOrderItem `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomOrderItem is one priced line of a quote. When the merchant offers
// a substitute, the substitute fields carry its own quantity and price.
type CustomOrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`

	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,3);not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"line_total"`

	AvailabilityStatus string `gorm:"type:varchar(20);not null;default:'available'" json:"availability_status"`

	SubstituteName      string           `gorm:"type:varchar(255)" json:"substitute_name,omitempty"`
	SubstituteQuantity  *decimal.Decimal `gorm:"type:decimal(10,3)" json:"substitute_quantity,omitempty"`
	SubstituteUnitPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"substitute_unit_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
