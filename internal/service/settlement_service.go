package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// directionDeadZone is the ±0.01 band inside which a net balance counts
// as balanced rather than owed either way.
var directionDeadZone = decimal.NewFromFloat(0.01)

// defaultDueDays is how long a provider or the platform has to settle
// before the overdue job flips the record.
const defaultDueDays = 14

// --- DTOs ---

type GenerateSettlementsRequest struct {
	PeriodStart string `json:"period_start" binding:"required"` // RFC3339
	PeriodEnd   string `json:"period_end" binding:"required"`
	ProviderID  string `json:"provider_id"` // empty = all approved providers
}

type GenerateSettlementsResult struct {
	Created []SettlementResponse `json:"created"`
	Skipped int                  `json:"skipped"` // providers with no eligible orders
}

type RecordPaymentRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

type UpdateSettlementStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending partially_paid paid overdue disputed waived"`
	Notes  string `json:"notes"`
}

type SettlementFilter struct {
	ProviderID string
	Status     string
	Page       int
	Limit      int
}

type SettlementResponse struct {
	ID           string `json:"id"`
	SettlementNo string `json:"settlement_no"`
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name,omitempty"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`

	GrossRevenue       string `json:"gross_revenue"`
	PlatformCommission string `json:"platform_commission"`
	NetPayout          string `json:"net_payout"`

	CODOrdersCount     int    `json:"cod_orders_count"`
	CODGross           string `json:"cod_gross"`
	CODCommissionOwed  string `json:"cod_commission_owed"`
	OnlineOrdersCount  int    `json:"online_orders_count"`
	OnlineGross        string `json:"online_gross"`
	OnlineSubtotal     string `json:"online_subtotal"`
	OnlineDiscount     string `json:"online_discount"`
	OnlineCommission   string `json:"online_commission"`
	OnlineDeliveryFees string `json:"online_delivery_fees"`
	OnlinePayoutOwed   string `json:"online_payout_owed"`

	NetBalance string `json:"net_balance"`
	Direction  string `json:"settlement_direction"`

	Status         string   `json:"status"`
	DueDate        string   `json:"due_date"`
	OrdersIncluded []string `json:"orders_included"`

	PaidAmount       string  `json:"paid_amount"`
	PaidAt           *string `json:"paid_at"`
	PaymentMethod    string  `json:"payment_method,omitempty"`
	PaymentReference string  `json:"payment_reference,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// SettlementTotals is the pure outcome of the settlement arithmetic over
// one provider's eligible orders.
type SettlementTotals struct {
	GrossRevenue       decimal.Decimal
	PlatformCommission decimal.Decimal
	NetPayout          decimal.Decimal

	CODOrdersCount    int
	CODGross          decimal.Decimal
	CODCommissionOwed decimal.Decimal

	OnlineOrdersCount  int
	OnlineGross        decimal.Decimal
	OnlineSubtotal     decimal.Decimal
	OnlineDiscount     decimal.Decimal
	OnlineCommission   decimal.Decimal
	OnlineDeliveryFees decimal.Decimal
	OnlinePayoutOwed   decimal.Decimal

	NetBalance decimal.Decimal
	Direction  string
}

// --- Interface ---

type SettlementService interface {
	Generate(ctx context.Context, req GenerateSettlementsRequest) (GenerateSettlementsResult, error)
	ListSettlements(ctx context.Context, filter SettlementFilter) ([]SettlementResponse, int64, error)
	GetSettlement(ctx context.Context, id string) (SettlementResponse, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (SettlementResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateSettlementStatusRequest) (SettlementResponse, error)
	MarkOverdue(ctx context.Context) (int, error)
}

type settlementService struct {
	settlementRepo repository.SettlementRepository
	orderRepo      repository.OrderRepository
	providerRepo   repository.ProviderRepository
	txManager      repository.TransactionManager
	audit          AuditService
}

func NewSettlementService(
	settlementRepo repository.SettlementRepository,
	orderRepo repository.OrderRepository,
	providerRepo repository.ProviderRepository,
	txManager repository.TransactionManager,
	audit AuditService,
) SettlementService {
	return &settlementService{
		settlementRepo: settlementRepo,
		orderRepo:      orderRepo,
		providerRepo:   providerRepo,
		txManager:      txManager,
		audit:          audit,
	}
}

// --- Pure computation ---

// isCOD reports whether an order was paid cash-on-delivery
func isCOD(paymentMethod string) bool {
	return paymentMethod == model.PaymentCash || paymentMethod == model.PaymentCOD
}

// ComputeSettlementTotals runs the reconciliation arithmetic over a
// provider's eligible orders. merchantDelivery providers are additionally
// owed the delivery fees collected on their online orders.
func ComputeSettlementTotals(orders []model.Order, merchantDelivery bool) SettlementTotals {
	var t SettlementTotals

	for _, o := range orders {
		t.GrossRevenue = t.GrossRevenue.Add(o.Total)
		t.PlatformCommission = t.PlatformCommission.Add(o.PlatformCommission)

		if isCOD(o.PaymentMethod) {
			t.CODOrdersCount++
			t.CODGross = t.CODGross.Add(o.Total)
			t.CODCommissionOwed = t.CODCommissionOwed.Add(o.PlatformCommission)
		} else {
			t.OnlineOrdersCount++
			t.OnlineGross = t.OnlineGross.Add(o.Total)
			t.OnlineSubtotal = t.OnlineSubtotal.Add(o.Subtotal)
			t.OnlineDiscount = t.OnlineDiscount.Add(o.Discount)
			t.OnlineCommission = t.OnlineCommission.Add(o.PlatformCommission)
			t.OnlineDeliveryFees = t.OnlineDeliveryFees.Add(o.DeliveryFee)
		}
	}

	t.NetPayout = t.GrossRevenue.Sub(t.PlatformCommission)

	payout := t.OnlineSubtotal.Sub(t.OnlineDiscount).Sub(t.OnlineCommission)
	if merchantDelivery {
		payout = payout.Add(t.OnlineDeliveryFees)
	}
	if payout.IsNegative() {
		payout = decimal.Zero
	}
	t.OnlinePayoutOwed = payout

	t.NetBalance = t.OnlinePayoutOwed.Sub(t.CODCommissionOwed)
	t.Direction = SettlementDirection(t.NetBalance)

	return t
}

// SettlementDirection classifies a net balance with a ±0.01 dead zone
func SettlementDirection(netBalance decimal.Decimal) string {
	switch {
	case netBalance.GreaterThan(directionDeadZone):
		return model.DirectionPlatformPaysProvider
	case netBalance.LessThan(directionDeadZone.Neg()):
		return model.DirectionProviderPaysPlatform
	default:
		return model.DirectionBalanced
	}
}

// --- Implementation ---

// Generate builds settlements for the period. Each provider is handled in
// its own transaction: the settlement insert and the settled-stamp on its
// orders commit together, so an order can land in at most one settlement
// even under concurrent runs. One provider failing does not abort the rest.
func (s *settlementService) Generate(ctx context.Context, req GenerateSettlementsRequest) (GenerateSettlementsResult, error) {
	start, err := time.Parse(time.RFC3339, req.PeriodStart)
	if err != nil {
		return GenerateSettlementsResult{}, apperr.Validation("invalid period_start: %v", err)
	}
	end, err := time.Parse(time.RFC3339, req.PeriodEnd)
	if err != nil {
		return GenerateSettlementsResult{}, apperr.Validation("invalid period_end: %v", err)
	}
	if !end.After(start) {
		return GenerateSettlementsResult{}, apperr.Validation("period_end must be after period_start")
	}

	var providerIDs []uuid.UUID
	if req.ProviderID != "" {
		id, err := uuid.Parse(req.ProviderID)
		if err != nil {
			return GenerateSettlementsResult{}, apperr.Validation("invalid provider_id")
		}
		providerIDs = []uuid.UUID{id}
	} else {
		providerIDs, err = s.providerRepo.ListApprovedIDs(ctx)
		if err != nil {
			return GenerateSettlementsResult{}, apperr.Database(err)
		}
	}

	var result GenerateSettlementsResult
	for _, providerID := range providerIDs {
		resp, created, err := s.generateForProvider(ctx, providerID, start, end)
		if err != nil {
			log.Printf("settlement generation failed for provider %s: %v", providerID, err)
			continue
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created = append(result.Created, resp)
	}

	s.audit.Record(ctx, model.ActionGenerateSettlements, "", "", "settlements", map[string]interface{}{
		"period_start": req.PeriodStart,
		"period_end":   req.PeriodEnd,
		"created":      len(result.Created),
		"skipped":      result.Skipped,
	})

	return result, nil
}

func (s *settlementService) generateForProvider(ctx context.Context, providerID uuid.UUID, start, end time.Time) (SettlementResponse, bool, error) {
	provider, err := s.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		return SettlementResponse{}, false, fmt.Errorf("provider not found: %w", err)
	}

	var settlement *model.Settlement
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Exclusion set of already-settled orders. Redundant with the
		// settled stamp filtered in the order query, kept as a guard for
		// rows written before the stamp existed.
		settled, err := s.settlementRepo.SettledOrderIDs(txCtx)
		if err != nil {
			return fmt.Errorf("failed to load settled order ids: %w", err)
		}

		orders, err := s.orderRepo.FindEligibleForSettlement(txCtx, providerID, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch eligible orders: %w", err)
		}

		eligible := orders[:0]
		for _, o := range orders {
			if _, done := settled[o.ID]; !done {
				eligible = append(eligible, o)
			}
		}
		if len(eligible) == 0 {
			return nil
		}

		totals := ComputeSettlementTotals(eligible, provider.MerchantDelivery)

		orderIDs := make(model.UUIDArray, 0, len(eligible))
		for _, o := range eligible {
			orderIDs = append(orderIDs, o.ID)
		}

		settlementNo, err := s.generateSettlementNo(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate settlement number: %w", err)
		}

		settlement = &model.Settlement{
			SettlementNo:       settlementNo,
			ProviderID:         providerID,
			PeriodStart:        start,
			PeriodEnd:          end,
			GrossRevenue:       totals.GrossRevenue,
			PlatformCommission: totals.PlatformCommission,
			NetPayout:          totals.NetPayout,
			CODOrdersCount:     totals.CODOrdersCount,
			CODGross:           totals.CODGross,
			CODCommissionOwed:  totals.CODCommissionOwed,
			OnlineOrdersCount:  totals.OnlineOrdersCount,
			OnlineGross:        totals.OnlineGross,
			OnlineSubtotal:     totals.OnlineSubtotal,
			OnlineDiscount:     totals.OnlineDiscount,
			OnlineCommission:   totals.OnlineCommission,
			OnlineDeliveryFees: totals.OnlineDeliveryFees,
			OnlinePayoutOwed:   totals.OnlinePayoutOwed,
			NetBalance:         totals.NetBalance,
			Direction:          totals.Direction,
			Status:             model.SettlementPending,
			DueDate:            end.AddDate(0, 0, defaultDueDays),
			OrdersIncluded:     orderIDs,
		}

		if err := s.settlementRepo.Create(txCtx, settlement); err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
		stamped, err := s.orderRepo.MarkSettled(txCtx, orderIDs)
		if err != nil {
			return fmt.Errorf("failed to mark orders settled: %w", err)
		}
		if stamped != int64(len(orderIDs)) {
			// Another run claimed some of these orders after our read;
			// rolling back keeps them out of a second settlement.
			return fmt.Errorf("marked %d of %d orders settled, rolling back", stamped, len(orderIDs))
		}
		return nil
	})
	if err != nil {
		return SettlementResponse{}, false, err
	}
	if settlement == nil {
		return SettlementResponse{}, false, nil
	}

	settlement.Provider = provider
	return toSettlementResponse(*settlement), true, nil
}

func (s *settlementService) ListSettlements(ctx context.Context, filter SettlementFilter) ([]SettlementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.SettlementListFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ProviderID != "" {
		id, err := uuid.Parse(filter.ProviderID)
		if err != nil {
			return nil, 0, apperr.Validation("invalid provider_id")
		}
		repoFilter.ProviderID = &id
	}

	settlements, total, err := s.settlementRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}

	result := make([]SettlementResponse, 0, len(settlements))
	for _, st := range settlements {
		result = append(result, toSettlementResponse(st))
	}
	return result, total, nil
}

func (s *settlementService) GetSettlement(ctx context.Context, id string) (SettlementResponse, error) {
	settlementID, err := uuid.Parse(id)
	if err != nil {
		return SettlementResponse{}, apperr.Validation("invalid settlement id")
	}
	settlement, err := s.settlementRepo.FindByID(ctx, settlementID)
	if err != nil {
		return SettlementResponse{}, apperr.NotFound("settlement")
	}
	return toSettlementResponse(*settlement), nil
}

// RecordPayment applies a manual payment against the settlement's
// net_payout. A payment covering the outstanding amount closes the record
// as paid; a smaller positive amount moves it to partially_paid.
func (s *settlementService) RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (SettlementResponse, error) {
	settlementID, err := uuid.Parse(id)
	if err != nil {
		return SettlementResponse{}, apperr.Validation("invalid settlement id")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return SettlementResponse{}, apperr.Validation("invalid amount: %v", err)
	}
	if !amount.IsPositive() {
		return SettlementResponse{}, apperr.Validation("amount must be positive")
	}

	settlement, err := s.settlementRepo.FindByID(ctx, settlementID)
	if err != nil {
		return SettlementResponse{}, apperr.NotFound("settlement")
	}

	newPaid := settlement.PaidAmount.Add(amount)
	outstanding := settlement.NetPayout.Abs()
	if newPaid.GreaterThan(outstanding.Add(directionDeadZone)) {
		return SettlementResponse{}, apperr.Validation(
			"payment of %s would exceed the outstanding %s", newPaid.StringFixed(2), outstanding.StringFixed(2))
	}

	target := model.SettlementPartiallyPaid
	if newPaid.GreaterThanOrEqual(outstanding.Sub(directionDeadZone)) {
		target = model.SettlementPaid
	}
	if !model.CanTransitionSettlement(settlement.Status, target) {
		return SettlementResponse{}, apperr.InvalidTransition("settlement", settlement.Status, target)
	}

	now := time.Now()
	settlement.Status = target
	settlement.PaidAmount = newPaid
	settlement.PaidAt = &now
	settlement.PaymentMethod = req.Method
	settlement.PaymentReference = req.Reference
	if req.Notes != "" {
		settlement.Notes = req.Notes
	}

	if err := s.settlementRepo.Update(ctx, settlement); err != nil {
		return SettlementResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, model.ActionRecordPayment, id, settlement.SettlementNo, "settlements", map[string]interface{}{
		"amount": amount.StringFixed(2),
		"method": req.Method,
		"status": target,
	})

	return toSettlementResponse(*settlement), nil
}

// UpdateStatus handles the manual transitions (disputed, waived, back to
// pending). Payment statuses go through RecordPayment instead.
func (s *settlementService) UpdateStatus(ctx context.Context, id string, req UpdateSettlementStatusRequest) (SettlementResponse, error) {
	settlementID, err := uuid.Parse(id)
	if err != nil {
		return SettlementResponse{}, apperr.Validation("invalid settlement id")
	}

	settlement, err := s.settlementRepo.FindByID(ctx, settlementID)
	if err != nil {
		return SettlementResponse{}, apperr.NotFound("settlement")
	}

	if req.Status == model.SettlementPaid || req.Status == model.SettlementPartiallyPaid {
		return SettlementResponse{}, apperr.Validation("use the payment endpoint to record payments")
	}
	if !model.CanTransitionSettlement(settlement.Status, req.Status) {
		return SettlementResponse{}, apperr.InvalidTransition("settlement", settlement.Status, req.Status)
	}

	settlement.Status = req.Status
	if req.Notes != "" {
		settlement.Notes = req.Notes
	}
	if err := s.settlementRepo.Update(ctx, settlement); err != nil {
		return SettlementResponse{}, apperr.Database(err)
	}

	s.audit.Record(ctx, model.ActionUpdateSettlement, id, settlement.SettlementNo, "settlements", map[string]interface{}{
		"status": req.Status,
	})

	return toSettlementResponse(*settlement), nil
}

// MarkOverdue flips pending settlements past their due date. Invoked by
// the daily scheduler job and returns how many rows changed.
func (s *settlementService) MarkOverdue(ctx context.Context) (int, error) {
	pastDue, err := s.settlementRepo.ListPendingPastDue(ctx, time.Now())
	if err != nil {
		return 0, apperr.Database(err)
	}

	marked := 0
	for i := range pastDue {
		st := &pastDue[i]
		if !model.CanTransitionSettlement(st.Status, model.SettlementOverdue) {
			continue
		}
		st.Status = model.SettlementOverdue
		if err := s.settlementRepo.Update(ctx, st); err != nil {
			log.Printf("failed to mark settlement %s overdue: %v", st.ID, err)
			continue
		}
		marked++
	}
	return marked, nil
}

func (s *settlementService) generateSettlementNo(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "STL-" + today + "-"

	count, err := s.settlementRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toSettlementResponse(st model.Settlement) SettlementResponse {
	resp := SettlementResponse{
		ID:           st.ID.String(),
		SettlementNo: st.SettlementNo,
		ProviderID:   st.ProviderID.String(),
		PeriodStart:  st.PeriodStart.Format(time.RFC3339),
		PeriodEnd:    st.PeriodEnd.Format(time.RFC3339),

		GrossRevenue:       st.GrossRevenue.StringFixed(2),
		PlatformCommission: st.PlatformCommission.StringFixed(2),
		NetPayout:          st.NetPayout.StringFixed(2),

		CODOrdersCount:     st.CODOrdersCount,
		CODGross:           st.CODGross.StringFixed(2),
		CODCommissionOwed:  st.CODCommissionOwed.StringFixed(2),
		OnlineOrdersCount:  st.OnlineOrdersCount,
		OnlineGross:        st.OnlineGross.StringFixed(2),
		OnlineSubtotal:     st.OnlineSubtotal.StringFixed(2),
		OnlineDiscount:     st.OnlineDiscount.StringFixed(2),
		OnlineCommission:   st.OnlineCommission.StringFixed(2),
		OnlineDeliveryFees: st.OnlineDeliveryFees.StringFixed(2),
		OnlinePayoutOwed:   st.OnlinePayoutOwed.StringFixed(2),

		NetBalance: st.NetBalance.StringFixed(2),
		Direction:  st.Direction,

		Status:  st.Status,
		DueDate: st.DueDate.Format(time.RFC3339),

		PaidAmount:       st.PaidAmount.StringFixed(2),
		PaymentMethod:    st.PaymentMethod,
		PaymentReference: st.PaymentReference,
		Notes:            st.Notes,
		CreatedAt:        st.CreatedAt.Format(time.RFC3339),
	}

	resp.OrdersIncluded = make([]string, 0, len(st.OrdersIncluded))
	for _, id := range st.OrdersIncluded {
		resp.OrdersIncluded = append(resp.OrdersIncluded, id.String())
	}
	if st.Provider != nil {
		resp.ProviderName = st.Provider.NameEn
	}
	if st.PaidAt != nil {
		s := st.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}
