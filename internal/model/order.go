package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enum constants
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderReady          = "ready"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

// PaymentMethod enum constants. Both cash spellings occur in historical
// rows, so settlement partitioning accepts either.
const (
	PaymentCash   = "cash"
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

// PaymentStatus enum constants
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// SettlementStatus values stamped on orders
const (
	OrderSettlementEligible = "eligible"
	OrderSettlementSettled  = "settled"
)

// Order is a delivered-goods order. PlatformCommission is stamped by the
// orders pipeline when the order completes and is never recomputed here.
type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNo            string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_no"`
	ProviderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"provider_id"`
	Provider           *Provider       `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer           *Profile        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status             string          `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	PaymentMethod      string          `gorm:"type:varchar(20);not null" json:"payment_method"` // cash, cod, online
	PaymentStatus      string          `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Discount           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	DeliveryFee        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"delivery_fee"`
	Total              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	PlatformCommission decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"platform_commission"`
	SettlementStatus   *string         `gorm:"type:varchar(20);index" json:"settlement_status"` // eligible, settled; null = eligible
	CancelReason       string          `gorm:"type:text" json:"cancel_reason,omitempty"`
	DeliveredAt        *time.Time      `gorm:"index" json:"delivered_at"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RefundStatus enum constants
const (
	RefundPending   = "pending"
	RefundProcessed = "processed"
	RefundRejected  = "rejected"
)

// Refund is raised when a paid order is cancelled; processing happens in
// the payments pipeline, this console only creates and lists rows.
type Refund struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Order     *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reason    string          `gorm:"type:text" json:"reason"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
