package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	// Record writes an audit row plus the legacy activity row. Both are
	// best-effort: failures are logged and never bubble into the caller's
	// mutation.
	Record(ctx context.Context, action, entityID, entityName, targetTable string, details map[string]interface{})
	GetAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// actorKey matches the userID value the auth middleware stores on context
type actorKeyType string

const ActorIDKey actorKeyType = "actorID"
const ActorEmailKey actorKeyType = "actorEmail"

func (s *auditService) Record(ctx context.Context, action, entityID, entityName, targetTable string, details map[string]interface{}) {
	payload := ""
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			payload = string(b)
		}
	}

	var userID *uuid.UUID
	if raw, ok := ctx.Value(ActorIDKey).(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			userID = &parsed
		}
	}

	entry := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := s.auditRepo.CreateAuditLog(ctx, &entry); err != nil {
		log.Printf("audit log write failed for %s: %v", action, err)
	}

	actorEmail, _ := ctx.Value(ActorEmailKey).(string)
	legacy := model.ActivityLog{
		ActorEmail:  actorEmail,
		Action:      action,
		TargetTable: targetTable,
		TargetID:    entityID,
		Description: entityName,
	}
	if err := s.auditRepo.CreateActivityLog(ctx, &legacy); err != nil {
		log.Printf("activity log write failed for %s: %v", action, err)
	}
}

// GetAuditLogs retrieves strictly paginated records with Users pre-loaded
func (s *auditService) GetAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.ListAuditLogs(ctx, action, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
