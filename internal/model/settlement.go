package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStatus enum constants
const (
	SettlementPending       = "pending"
	SettlementPartiallyPaid = "partially_paid"
	SettlementPaid          = "paid"
	SettlementOverdue       = "overdue"
	SettlementDisputed      = "disputed"
	SettlementWaived        = "waived"
)

// SettlementDirection enum constants
const (
	DirectionPlatformPaysProvider = "platform_pays_provider"
	DirectionProviderPaysPlatform = "provider_pays_platform"
	DirectionBalanced             = "balanced"
)

// UUIDArray stores a list of order IDs as a JSONB column
type UUIDArray []uuid.UUID

// Value implements driver.Valuer
func (a UUIDArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *UUIDArray) Scan(value interface{}) error {
	if value == nil {
		*a = UUIDArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type %T for UUIDArray", value)
	}
}

// GormDataType tells gorm which column type to migrate
func (UUIDArray) GormDataType() string {
	return "jsonb"
}

// Settlement is a periodic financial reconciliation record between the
// platform and a provider, snapshotting the delivered orders it covers.
type Settlement struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SettlementNo string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"settlement_no"`
	ProviderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	Provider     *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	PeriodStart  time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd    time.Time `gorm:"not null" json:"period_end"`

	GrossRevenue       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"gross_revenue"`
	PlatformCommission decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"platform_commission"`
	NetPayout          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"net_payout"` // gross_revenue - platform_commission

	CODOrdersCount     int             `gorm:"not null;default:0" json:"cod_orders_count"`
	CODGross           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cod_gross"`
	CODCommissionOwed  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cod_commission_owed"`
	OnlineOrdersCount  int             `gorm:"not null;default:0" json:"online_orders_count"`
	OnlineGross        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"online_gross"`
	OnlineSubtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"online_subtotal"`
	OnlineDiscount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"online_discount"`
	OnlineCommission   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"online_commission"`
	OnlineDeliveryFees decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"online_delivery_fees"`
	OnlinePayoutOwed   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"online_payout_owed"`

	NetBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"net_balance"` // online_payout_owed - cod_commission_owed
	Direction  string          `gorm:"type:varchar(30);not null" json:"settlement_direction"`

	Status         string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DueDate        time.Time `gorm:"index" json:"due_date"`
	OrdersIncluded UUIDArray `gorm:"type:jsonb" json:"orders_included"`

	PaidAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	PaidAt           *time.Time      `json:"paid_at"`
	PaymentMethod    string          `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	PaymentReference string          `gorm:"type:varchar(100)" json:"payment_reference,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
