package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateBanner       = "CREATE_BANNER"
	ActionUpdateBanner       = "UPDATE_BANNER"
	ActionDeleteBanner       = "DELETE_BANNER"
	ActionReorderBanners     = "REORDER_BANNERS"
	ActionApproveBanner      = "APPROVE_BANNER"
	ActionRejectBanner       = "REJECT_BANNER"
	ActionActivateLocation   = "ACTIVATE_LOCATION"
	ActionDeactivateLocation = "DEACTIVATE_LOCATION"
	ActionCreateDistrict     = "CREATE_DISTRICT"

	ActionGenerateSettlements = "GENERATE_SETTLEMENTS"
	ActionRecordPayment       = "RECORD_SETTLEMENT_PAYMENT"
	ActionUpdateSettlement    = "UPDATE_SETTLEMENT_STATUS"

	ActionApproveProvider = "APPROVE_PROVIDER"
	ActionRejectProvider  = "REJECT_PROVIDER"
	ActionSuspendProvider = "SUSPEND_PROVIDER"
	ActionBanUser         = "BAN_USER"
	ActionUnbanUser       = "UNBAN_USER"
	ActionUpdateOrder     = "UPDATE_ORDER_STATUS"
	ActionCancelOrder     = "CANCEL_ORDER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

// ActivityLog is the legacy moderation trail an older dashboard still
// reads. Writes are best-effort alongside AuditLog until it is retired.
type ActivityLog struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorEmail  string    `gorm:"type:varchar(255)" json:"actor_email"`
	Action      string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetTable string    `gorm:"type:varchar(50)" json:"target_table"`
	TargetID    string    `gorm:"type:varchar(50)" json:"target_id"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
