package service

import (
	"context"
	"log"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/notification"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type ProviderDecisionRequest struct {
	Reason string `json:"reason"`
}

type BanUserRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	CancelReason string `json:"cancel_reason"`
}

type ProviderResponse struct {
	ID               string `json:"id"`
	NameAr           string `json:"name_ar"`
	NameEn           string `json:"name_en"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Status           string `json:"status"`
	StatusReason     string `json:"status_reason,omitempty"`
	MerchantDelivery bool   `json:"merchant_delivery"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
}

type ProfileResponse struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Status    string  `json:"status"`
	BanReason string  `json:"ban_reason,omitempty"`
	BannedAt  *string `json:"banned_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type OrderResponse struct {
	ID            string `json:"id"`
	OrderNo       string `json:"order_no"`
	ProviderID    string `json:"provider_id"`
	ProviderName  string `json:"provider_name,omitempty"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	DeliveryFee   string `json:"delivery_fee"`
	Total         string `json:"total"`
	CancelReason  string `json:"cancel_reason,omitempty"`
	DeliveredAt   *string `json:"delivered_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type RefundResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	OrderNo   string `json:"order_no,omitempty"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type AdminService interface {
	ListProviders(ctx context.Context, status string, page, limit int) ([]ProviderResponse, int64, error)
	ApproveProvider(ctx context.Context, id string) (ProviderResponse, error)
	RejectProvider(ctx context.Context, id string, req ProviderDecisionRequest) (ProviderResponse, error)
	SuspendProvider(ctx context.Context, id string, req ProviderDecisionRequest) (ProviderResponse, error)
	ReactivateProvider(ctx context.Context, id string) (ProviderResponse, error)

	ListCustomers(ctx context.Context, status string, page, limit int) ([]ProfileResponse, int64, error)
	BanUser(ctx context.Context, id string, req BanUserRequest) (ProfileResponse, error)
	UnbanUser(ctx context.Context, id string) (ProfileResponse, error)

	ListOrders(ctx context.Context, status string, page, limit int) ([]OrderResponse, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, req UpdateOrderStatusRequest) (OrderResponse, error)
	ListRefunds(ctx context.Context, status string, page, limit int) ([]RefundResponse, int64, error)
}

type adminService struct {
	providerRepo repository.ProviderRepository
	profileRepo  repository.ProfileRepository
	orderRepo    repository.OrderRepository
	refundRepo   repository.RefundRepository
	txManager    repository.TransactionManager
	audit        AuditService
	email        notification.EmailService
}

func NewAdminService(
	providerRepo repository.ProviderRepository,
	profileRepo repository.ProfileRepository,
	orderRepo repository.OrderRepository,
	refundRepo repository.RefundRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	email notification.EmailService,
) AdminService {
	return &adminService{
		providerRepo: providerRepo,
		profileRepo:  profileRepo,
		orderRepo:    orderRepo,
		refundRepo:   refundRepo,
		txManager:    txManager,
		audit:        audit,
		email:        email,
	}
}

// --- Providers ---

func (s *adminService) ListProviders(ctx context.Context, status string, page, limit int) ([]ProviderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	providers, total, err := s.providerRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	result := make([]ProviderResponse, 0, len(providers))
	for _, p := range providers {
		result = append(result, toProviderResponse(p))
	}
	return result, total, nil
}

func (s *adminService) ApproveProvider(ctx context.Context, id string) (ProviderResponse, error) {
	return s.transitionProvider(ctx, id, model.ProviderApproved, "", model.ActionApproveProvider)
}

func (s *adminService) RejectProvider(ctx context.Context, id string, req ProviderDecisionRequest) (ProviderResponse, error) {
	if req.Reason == "" {
		return ProviderResponse{}, apperr.Validation("a rejection reason is required")
	}
	return s.transitionProvider(ctx, id, model.ProviderRejected, req.Reason, model.ActionRejectProvider)
}

func (s *adminService) SuspendProvider(ctx context.Context, id string, req ProviderDecisionRequest) (ProviderResponse, error) {
	if req.Reason == "" {
		return ProviderResponse{}, apperr.Validation("a suspension reason is required")
	}
	return s.transitionProvider(ctx, id, model.ProviderSuspended, req.Reason, model.ActionSuspendProvider)
}

func (s *adminService) ReactivateProvider(ctx context.Context, id string) (ProviderResponse, error) {
	return s.transitionProvider(ctx, id, model.ProviderApproved, "", model.ActionApproveProvider)
}

func (s *adminService) transitionProvider(ctx context.Context, id, target, reason, action string) (ProviderResponse, error) {
	providerID, err := uuid.Parse(id)
	if err != nil {
		return ProviderResponse{}, apperr.Validation("invalid provider id")
	}

	provider, err := s.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		return ProviderResponse{}, apperr.NotFound("provider")
	}
	if !model.CanTransitionProvider(provider.Status, target) {
		return ProviderResponse{}, apperr.InvalidTransition("provider", provider.Status, target)
	}

	provider.Status = target
	provider.StatusReason = reason
	if err := s.providerRepo.Update(ctx, provider); err != nil {
		return ProviderResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, action, provider.ID.String(), provider.NameEn, "providers",
		map[string]interface{}{"status": target, "reason": reason})

	if provider.Email != "" {
		if err := s.email.SendProviderStatusEmail(provider.Email, provider.NameEn, target, reason); err != nil {
			log.Printf("provider status email to %s failed: %v", provider.Email, err)
		}
	}

	return toProviderResponse(*provider), nil
}

// --- Customers ---

func (s *adminService) ListCustomers(ctx context.Context, status string, page, limit int) ([]ProfileResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	profiles, total, err := s.profileRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	result := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, toProfileResponse(p))
	}
	return result, total, nil
}

// BanUser marks the customer banned and cancels every order of theirs
// that is still in flight, all in one transaction.
func (s *adminService) BanUser(ctx context.Context, id string, req BanUserRequest) (ProfileResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return ProfileResponse{}, apperr.Validation("invalid customer id")
	}

	var profile *model.Profile
	var cancelled int
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		profile, findErr = s.profileRepo.FindByID(txCtx, customerID)
		if findErr != nil {
			return apperr.NotFound("customer")
		}
		if profile.Status == model.ProfileBanned {
			return apperr.Validation("customer is already banned")
		}

		now := time.Now()
		profile.Status = model.ProfileBanned
		profile.BanReason = req.Reason
		profile.BannedAt = &now
		if err := s.profileRepo.Update(txCtx, profile); err != nil {
			return apperr.Database(err)
		}

		active, err := s.orderRepo.ListActiveByCustomer(txCtx, customerID)
		if err != nil {
			return apperr.Database(err)
		}
		for i := range active {
			order := &active[i]
			if !model.CanTransitionOrder(order.Status, model.OrderCancelled) {
				continue
			}
			order.Status = model.OrderCancelled
			order.CancelReason = "customer account banned"
			if err := s.orderRepo.Update(txCtx, order); err != nil {
				return apperr.Database(err)
			}
			if order.PaymentStatus == model.PaymentPaid {
				refund := model.Refund{
					OrderID: order.ID,
					Amount:  order.Total,
					Reason:  "customer account banned",
					Status:  model.RefundPending,
				}
				if err := s.refundRepo.Create(txCtx, &refund); err != nil {
					return apperr.Database(err)
				}
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return ProfileResponse{}, err
	}

	s.audit.Record(ctx, model.ActionBanUser, profile.ID.String(), profile.FullName, "profiles",
		map[string]interface{}{"reason": req.Reason, "orders_cancelled": cancelled})

	if profile.Email != "" {
		if err := s.email.SendAccountBannedEmail(profile.Email, profile.FullName, req.Reason); err != nil {
			log.Printf("ban email to %s failed: %v", profile.Email, err)
		}
	}

	return toProfileResponse(*profile), nil
}

func (s *adminService) UnbanUser(ctx context.Context, id string) (ProfileResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return ProfileResponse{}, apperr.Validation("invalid customer id")
	}

	profile, err := s.profileRepo.FindByID(ctx, customerID)
	if err != nil {
		return ProfileResponse{}, apperr.NotFound("customer")
	}
	if profile.Status != model.ProfileBanned {
		return ProfileResponse{}, apperr.Validation("customer is not banned")
	}

	profile.Status = model.ProfileActive
	profile.BanReason = ""
	profile.BannedAt = nil
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return ProfileResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, model.ActionUnbanUser, profile.ID.String(), profile.FullName, "profiles", nil)
	return toProfileResponse(*profile), nil
}

// --- Orders ---

func (s *adminService) ListOrders(ctx context.Context, status string, page, limit int) ([]OrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	orders, total, err := s.orderRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderResponse(o))
	}
	return result, total, nil
}

// UpdateOrderStatus enforces the order status graph. Cancelling a paid
// order also raises a pending refund in the same transaction.
func (s *adminService) UpdateOrderStatus(ctx context.Context, id string, req UpdateOrderStatusRequest) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, apperr.Validation("invalid order id")
	}
	if req.Status == model.OrderCancelled && req.CancelReason == "" {
		return OrderResponse{}, apperr.Validation("a cancel reason is required")
	}

	var order *model.Order
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		order, findErr = s.orderRepo.FindByID(txCtx, orderID)
		if findErr != nil {
			return apperr.NotFound("order")
		}
		if !model.CanTransitionOrder(order.Status, req.Status) {
			return apperr.InvalidTransition("order", order.Status, req.Status)
		}

		order.Status = req.Status
		switch req.Status {
		case model.OrderDelivered:
			now := time.Now()
			order.DeliveredAt = &now
			if order.SettlementStatus == nil {
				eligible := model.OrderSettlementEligible
				order.SettlementStatus = &eligible
			}
		case model.OrderCancelled:
			order.CancelReason = req.CancelReason
			if order.PaymentStatus == model.PaymentPaid {
				refund := model.Refund{
					OrderID: order.ID,
					Amount:  order.Total,
					Reason:  req.CancelReason,
					Status:  model.RefundPending,
				}
				if err := s.refundRepo.Create(txCtx, &refund); err != nil {
					return apperr.Database(err)
				}
			}
		}
		return s.wrapDB(s.orderRepo.Update(txCtx, order))
	})
	if err != nil {
		return OrderResponse{}, err
	}

	action := model.ActionUpdateOrder
	if req.Status == model.OrderCancelled {
		action = model.ActionCancelOrder
	}
	s.audit.Record(ctx, action, order.ID.String(), order.OrderNo, "orders",
		map[string]interface{}{"status": req.Status, "cancel_reason": req.CancelReason})

	if order.Customer != nil && order.Customer.Email != "" {
		if err := s.email.SendOrderStatusEmail(order.Customer.Email, order.Customer.FullName, order.OrderNo, req.Status); err != nil {
			log.Printf("order status email for %s failed: %v", order.OrderNo, err)
		}
	}
	if order.Provider != nil && order.Provider.Email != "" {
		if err := s.email.SendOrderStatusEmail(order.Provider.Email, order.Provider.NameEn, order.OrderNo, req.Status); err != nil {
			log.Printf("order status email to provider for %s failed: %v", order.OrderNo, err)
		}
	}

	return toOrderResponse(*order), nil
}

func (s *adminService) ListRefunds(ctx context.Context, status string, page, limit int) ([]RefundResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	refunds, total, err := s.refundRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	result := make([]RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		rr := RefundResponse{
			ID:        r.ID.String(),
			OrderID:   r.OrderID.String(),
			Amount:    r.Amount.StringFixed(2),
			Reason:    r.Reason,
			Status:    r.Status,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		}
		if r.Order != nil {
			rr.OrderNo = r.Order.OrderNo
		}
		result = append(result, rr)
	}
	return result, total, nil
}

func (s *adminService) wrapDB(err error) error {
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

// --- Mapping ---

func toProviderResponse(p model.Provider) ProviderResponse {
	return ProviderResponse{
		ID:               p.ID.String(),
		NameAr:           p.NameAr,
		NameEn:           p.NameEn,
		Email:            p.Email,
		Phone:            p.Phone,
		Status:           p.Status,
		StatusReason:     p.StatusReason,
		MerchantDelivery: p.MerchantDelivery,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}

func toProfileResponse(p model.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Status:    p.Status,
		BanReason: p.BanReason,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.BannedAt != nil {
		s := p.BannedAt.Format(time.RFC3339)
		resp.BannedAt = &s
	}
	return resp
}

func toOrderResponse(o model.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID.String(),
		OrderNo:       o.OrderNo,
		ProviderID:    o.ProviderID.String(),
		CustomerID:    o.CustomerID.String(),
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Subtotal:      o.Subtotal.StringFixed(2),
		Discount:      o.Discount.StringFixed(2),
		DeliveryFee:   o.DeliveryFee.StringFixed(2),
		Total:         o.Total.StringFixed(2),
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.Provider != nil {
		resp.ProviderName = o.Provider.NameEn
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.FullName
	}
	if o.DeliveredAt != nil {
		s := o.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &s
	}
	return resp
}
