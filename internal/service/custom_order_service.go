package service

import (
	"context"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission tier bounds for the merchant-facing profit preview. The
// estimate mirrors what the orders pipeline charges for small baskets;
// it is advisory display data, not the billed rate.
var (
	tierOneCap = decimal.NewFromInt(100)
	tierTwoCap = decimal.NewFromInt(300)

	tierOneRate   = decimal.NewFromFloat(0.07)
	tierTwoRate   = decimal.NewFromFloat(0.06)
	tierThreeRate = decimal.NewFromFloat(0.05)
)

// EventPublisher pushes realtime change events to subscribed clients.
// The websocket hub implements it.
type EventPublisher interface {
	PublishToProvider(providerID uuid.UUID, event string, payload interface{})
}

// --- DTOs ---

type CreateCustomOrderRequest struct {
	CustomerID      string  `json:"customer_id" binding:"required"`
	ProviderID      string  `json:"provider_id" binding:"required"`
	Description     string  `json:"description"`
	VoiceURL        string  `json:"voice_url"`
	ImageURLs       string  `json:"image_urls"`
	DeliveryFee     string  `json:"delivery_fee"`
	DeadlineMinutes int     `json:"deadline_minutes"` // default 30
}

type QuoteItemInput struct {
	Name               string  `json:"name" binding:"required"`
	Quantity           string  `json:"quantity" binding:"required"`
	UnitPrice          string  `json:"unit_price" binding:"required"`
	AvailabilityStatus string  `json:"availability_status" binding:"omitempty,oneof=available unavailable substituted partial"`
	SubstituteName     string  `json:"substitute_name"`
	SubstituteQuantity *string `json:"substitute_quantity"`
	SubstitutePrice    *string `json:"substitute_unit_price"`
}

type SubmitQuoteRequest struct {
	Items []QuoteItemInput `json:"items" binding:"required,min=1,dive"`
}

type CustomOrderFilter struct {
	ProviderID string
	CustomerID string
	Status     string
	Page       int
	Limit      int
}

type CustomOrderItemResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Quantity           string  `json:"quantity"`
	UnitPrice          string  `json:"unit_price"`
	LineTotal          string  `json:"line_total"`
	AvailabilityStatus string  `json:"availability_status"`
	SubstituteName     string  `json:"substitute_name,omitempty"`
	SubstituteQuantity *string `json:"substitute_quantity,omitempty"`
	SubstitutePrice    *string `json:"substitute_unit_price,omitempty"`
}

type CustomOrderResponse struct {
	ID               string                    `json:"id"`
	CustomerID       string                    `json:"customer_id"`
	CustomerName     string                    `json:"customer_name,omitempty"`
	ProviderID       string                    `json:"provider_id"`
	Description      string                    `json:"description"`
	VoiceURL         string                    `json:"voice_url,omitempty"`
	ImageURLs        string                    `json:"image_urls,omitempty"`
	Status           string                    `json:"status"`
	PricingDeadline  string                    `json:"pricing_deadline"`
	SecondsRemaining int64                     `json:"seconds_remaining"` // 0 once the deadline passed
	DeliveryFee      string                    `json:"delivery_fee"`
	Subtotal         string                    `json:"subtotal"`
	Total            string                    `json:"total"`
	Commission       string                    `json:"commission"`
	NetProfit        string                    `json:"net_profit"`
	PricedAt         *string                   `json:"priced_at"`
	OrderID          *string                   `json:"order_id"`
	Items            []CustomOrderItemResponse `json:"items"`
	CreatedAt        string                    `json:"created_at"`
}

type PriceHistoryEntry struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  string `json:"quantity"`
	PricedAt  string `json:"priced_at"`
}

// QuoteTotals is the pure outcome of pricing a line-item set
type QuoteTotals struct {
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Commission decimal.Decimal
	NetProfit  decimal.Decimal
}

// --- Interface ---

type CustomOrderService interface {
	CreateRequest(ctx context.Context, req CreateCustomOrderRequest) (CustomOrderResponse, error)
	ListRequests(ctx context.Context, filter CustomOrderFilter) ([]CustomOrderResponse, int64, error)
	GetRequest(ctx context.Context, id string) (CustomOrderResponse, error)
	SubmitQuote(ctx context.Context, id string, req SubmitQuoteRequest) (CustomOrderResponse, error)
	ApproveQuote(ctx context.Context, id string) (CustomOrderResponse, error)
	RejectQuote(ctx context.Context, id string) (CustomOrderResponse, error)
	PriceHistory(ctx context.Context, providerID, name string) ([]PriceHistoryEntry, error)
}

type customOrderService struct {
	customOrderRepo repository.CustomOrderRepository
	orderRepo       repository.OrderRepository
	txManager       repository.TransactionManager
	events          EventPublisher
}

func NewCustomOrderService(
	customOrderRepo repository.CustomOrderRepository,
	orderRepo repository.OrderRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) CustomOrderService {
	return &customOrderService{
		customOrderRepo: customOrderRepo,
		orderRepo:       orderRepo,
		txManager:       txManager,
		events:          events,
	}
}

// --- Pure computation ---

// CommissionRate returns the tiered preview rate for a quote subtotal
func CommissionRate(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.LessThanOrEqual(tierOneCap):
		return tierOneRate
	case subtotal.LessThanOrEqual(tierTwoCap):
		return tierTwoRate
	default:
		return tierThreeRate
	}
}

// itemEffectiveTotal picks the line amount that actually counts toward
// the quote: substitutes replace the original line, unavailable lines
// contribute nothing.
func itemEffectiveTotal(item model.CustomOrderItem) decimal.Decimal {
	if item.AvailabilityStatus == model.ItemUnavailable {
		return decimal.Zero
	}
	if item.AvailabilityStatus == model.ItemSubstituted &&
		item.SubstituteQuantity != nil && item.SubstituteUnitPrice != nil {
		return item.SubstituteQuantity.Mul(*item.SubstituteUnitPrice)
	}
	return item.LineTotal
}

// ComputeQuote aggregates priced lines into the totals shown to the
// merchant: subtotal over effective line totals, total with the delivery
// fee, the tiered commission estimate and the resulting net profit.
func ComputeQuote(items []model.CustomOrderItem, deliveryFee decimal.Decimal) QuoteTotals {
	var subtotal decimal.Decimal
	for _, item := range items {
		subtotal = subtotal.Add(itemEffectiveTotal(item))
	}

	total := subtotal.Add(deliveryFee)
	commission := subtotal.Mul(CommissionRate(subtotal)).Round(2)

	return QuoteTotals{
		Subtotal:   subtotal,
		Total:      total,
		Commission: commission,
		NetProfit:  total.Sub(commission),
	}
}

// --- Implementation ---

func (s *customOrderService) CreateRequest(ctx context.Context, req CreateCustomOrderRequest) (CustomOrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return CustomOrderResponse{}, apperr.Validation("invalid customer_id")
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return CustomOrderResponse{}, apperr.Validation("invalid provider_id")
	}
	if req.Description == "" && req.VoiceURL == "" && req.ImageURLs == "" {
		return CustomOrderResponse{}, apperr.Validation("request needs a description, voice note, or image")
	}

	deliveryFee := decimal.Zero
	if req.DeliveryFee != "" {
		if deliveryFee, err = decimal.NewFromString(req.DeliveryFee); err != nil {
			return CustomOrderResponse{}, apperr.Validation("invalid delivery_fee: %v", err)
		}
	}

	deadline := req.DeadlineMinutes
	if deadline <= 0 {
		deadline = 30
	}

	request := model.CustomOrderRequest{
		CustomerID:      customerID,
		ProviderID:      providerID,
		Description:     req.Description,
		VoiceURL:        req.VoiceURL,
		ImageURLs:       req.ImageURLs,
		Status:          model.CustomOrderPending,
		PricingDeadline: time.Now().Add(time.Duration(deadline) * time.Minute),
		DeliveryFee:     deliveryFee,
	}
	if err := s.customOrderRepo.Create(ctx, &request); err != nil {
		return CustomOrderResponse{}, apperr.Database(err)
	}

	s.events.PublishToProvider(providerID, "custom_order.created", map[string]string{"request_id": request.ID.String()})
	return toCustomOrderResponse(request, time.Now()), nil
}

func (s *customOrderService) ListRequests(ctx context.Context, filter CustomOrderFilter) ([]CustomOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.CustomOrderListFilter{
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
	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, apperr.Validation("invalid customer_id")
		}
		repoFilter.CustomerID = &id
	}

	requests, total, err := s.customOrderRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}

	now := time.Now()
	result := make([]CustomOrderResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toCustomOrderResponse(r, now))
	}
	return result, total, nil
}

func (s *customOrderService) GetRequest(ctx context.Context, id string) (CustomOrderResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return CustomOrderResponse{}, apperr.Validation("invalid request id")
	}
	request, err := s.customOrderRepo.FindByID(ctx, requestID)
	if err != nil {
		return CustomOrderResponse{}, apperr.NotFound("custom order request")
	}
	return toCustomOrderResponse(*request, time.Now()), nil
}

// SubmitQuote turns the merchant's notepad into priced lines and stamps
// the totals. Requests already priced or past their deadline are refused,
// which also neutralizes double-submits from rapid repeated clicks.
func (s *customOrderService) SubmitQuote(ctx context.Context, id string, req SubmitQuoteRequest) (CustomOrderResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return CustomOrderResponse{}, apperr.Validation("invalid request id")
	}

	items := make([]model.CustomOrderItem, 0, len(req.Items))
	for i, input := range req.Items {
		item, err := buildQuoteItem(input)
		if err != nil {
			return CustomOrderResponse{}, apperr.Validation("item %d: %v", i+1, err)
		}
		items = append(items, item)
	}

	var request *model.CustomOrderRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.customOrderRepo.FindByID(txCtx, requestID)
		if findErr != nil {
			return apperr.NotFound("custom order request")
		}

		if request.Status != model.CustomOrderPending {
			return apperr.Validation("request is already %s", request.Status)
		}
		if time.Now().After(request.PricingDeadline) {
			return apperr.Validation("pricing deadline has passed")
		}

		totals := ComputeQuote(items, request.DeliveryFee)

		now := time.Now()
		request.Status = model.CustomOrderPriced
		request.Subtotal = totals.Subtotal
		request.Total = totals.Total
		request.Commission = totals.Commission
		request.PricedAt = &now

		if err := s.customOrderRepo.ReplaceItems(txCtx, requestID, items); err != nil {
			return apperr.Database(err)
		}
		if err := s.customOrderRepo.Update(txCtx, request); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	if err != nil {
		return CustomOrderResponse{}, err
	}

	request.Items = items
	s.events.PublishToProvider(request.ProviderID, "custom_order.priced", map[string]string{"request_id": id})
	return toCustomOrderResponse(*request, time.Now()), nil
}

// ApproveQuote records the customer's acceptance and creates the real
// order from the quote snapshot in the same transaction.
func (s *customOrderService) ApproveQuote(ctx context.Context, id string) (CustomOrderResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return CustomOrderResponse{}, apperr.Validation("invalid request id")
	}

	var request *model.CustomOrderRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.customOrderRepo.FindByID(txCtx, requestID)
		if findErr != nil {
			return apperr.NotFound("custom order request")
		}
		if request.Status != model.CustomOrderPriced {
			return apperr.InvalidTransition("custom order request", request.Status, model.CustomOrderCustomerApproved)
		}

		order := model.Order{
			OrderNo:       "CO-" + time.Now().Format("20060102150405") + "-" + request.ID.String()[:8],
			ProviderID:    request.ProviderID,
			CustomerID:    request.CustomerID,
			Status:        model.OrderPending,
			PaymentMethod: model.PaymentCash,
			Subtotal:      request.Subtotal,
			DeliveryFee:   request.DeliveryFee,
			Total:         request.Total,
		}
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return apperr.Database(err)
		}

		request.Status = model.CustomOrderCreated
		request.OrderID = &order.ID
		if err := s.customOrderRepo.Update(txCtx, request); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	if err != nil {
		return CustomOrderResponse{}, err
	}

	s.events.PublishToProvider(request.ProviderID, "custom_order.approved", map[string]string{"request_id": id})
	return toCustomOrderResponse(*request, time.Now()), nil
}

func (s *customOrderService) RejectQuote(ctx context.Context, id string) (CustomOrderResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return CustomOrderResponse{}, apperr.Validation("invalid request id")
	}

	request, err := s.customOrderRepo.FindByID(ctx, requestID)
	if err != nil {
		return CustomOrderResponse{}, apperr.NotFound("custom order request")
	}
	if request.Status != model.CustomOrderPriced {
		return CustomOrderResponse{}, apperr.InvalidTransition("custom order request", request.Status, model.CustomOrderCustomerRejected)
	}

	request.Status = model.CustomOrderCustomerRejected
	if err := s.customOrderRepo.Update(ctx, request); err != nil {
		return CustomOrderResponse{}, apperr.Database(err)
	}

	s.events.PublishToProvider(request.ProviderID, "custom_order.rejected", map[string]string{"request_id": id})
	return toCustomOrderResponse(*request, time.Now()), nil
}

func (s *customOrderService) PriceHistory(ctx context.Context, providerID, name string) ([]PriceHistoryEntry, error) {
	id, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperr.Validation("invalid provider_id")
	}
	if name == "" {
		return nil, apperr.Validation("item name is required")
	}

	items, err := s.customOrderRepo.PriceHistory(ctx, id, name, 10)
	if err != nil {
		return nil, apperr.Database(err)
	}

	result := make([]PriceHistoryEntry, 0, len(items))
	for _, item := range items {
		result = append(result, PriceHistoryEntry{
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity.String(),
			PricedAt:  item.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// --- Helpers ---

func buildQuoteItem(input QuoteItemInput) (model.CustomOrderItem, error) {
	quantity, err := decimal.NewFromString(input.Quantity)
	if err != nil || !quantity.IsPositive() {
		return model.CustomOrderItem{}, apperr.Validation("quantity must be a positive number")
	}
	unitPrice, err := decimal.NewFromString(input.UnitPrice)
	if err != nil || unitPrice.IsNegative() {
		return model.CustomOrderItem{}, apperr.Validation("unit_price must be a non-negative number")
	}

	status := input.AvailabilityStatus
	if status == "" {
		status = model.ItemAvailable
	}

	item := model.CustomOrderItem{
		Name:               input.Name,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		LineTotal:          quantity.Mul(unitPrice),
		AvailabilityStatus: status,
		SubstituteName:     input.SubstituteName,
	}

	if status == model.ItemSubstituted {
		if input.SubstituteName == "" || input.SubstituteQuantity == nil || input.SubstitutePrice == nil {
			return model.CustomOrderItem{}, apperr.Validation("substituted items need substitute name, quantity, and price")
		}
		subQty, err := decimal.NewFromString(*input.SubstituteQuantity)
		if err != nil || !subQty.IsPositive() {
			return model.CustomOrderItem{}, apperr.Validation("substitute_quantity must be a positive number")
		}
		subPrice, err := decimal.NewFromString(*input.SubstitutePrice)
		if err != nil || subPrice.IsNegative() {
			return model.CustomOrderItem{}, apperr.Validation("substitute_unit_price must be a non-negative number")
		}
		item.SubstituteQuantity = &subQty
		item.SubstituteUnitPrice = &subPrice
	}

	return item, nil
}

// --- Mapping ---

func toCustomOrderResponse(r model.CustomOrderRequest, now time.Time) CustomOrderResponse {
	// Net profit only exists once a quote has been submitted; before that
	// the items are empty and recomputing would report the bare delivery fee.
	netProfit := decimal.Zero
	if r.PricedAt != nil {
		netProfit = ComputeQuote(r.Items, r.DeliveryFee).NetProfit
	}

	remaining := int64(0)
	if r.PricingDeadline.After(now) {
		remaining = int64(r.PricingDeadline.Sub(now).Seconds())
	}

	resp := CustomOrderResponse{
		ID:               r.ID.String(),
		CustomerID:       r.CustomerID.String(),
		ProviderID:       r.ProviderID.String(),
		Description:      r.Description,
		VoiceURL:         r.VoiceURL,
		ImageURLs:        r.ImageURLs,
		Status:           r.Status,
		PricingDeadline:  r.PricingDeadline.Format(time.RFC3339),
		SecondsRemaining: remaining,
		DeliveryFee:      r.DeliveryFee.StringFixed(2),
		Subtotal:         r.Subtotal.StringFixed(2),
		Total:            r.Total.StringFixed(2),
		Commission:       r.Commission.StringFixed(2),
		NetProfit:        netProfit.StringFixed(2),
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
	if r.Customer != nil {
		resp.CustomerName = r.Customer.FullName
	}
	if r.PricedAt != nil {
		s := r.PricedAt.Format(time.RFC3339)
		resp.PricedAt = &s
	}
	if r.OrderID != nil {
		s := r.OrderID.String()
		resp.OrderID = &s
	}

	resp.Items = make([]CustomOrderItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		ir := CustomOrderItemResponse{
			ID:                 item.ID.String(),
			Name:               item.Name,
			Quantity:           item.Quantity.String(),
			UnitPrice:          item.UnitPrice.StringFixed(2),
			LineTotal:          item.LineTotal.StringFixed(2),
			AvailabilityStatus: item.AvailabilityStatus,
			SubstituteName:     item.SubstituteName,
		}
		if item.SubstituteQuantity != nil {
			s := item.SubstituteQuantity.String()
			ir.SubstituteQuantity = &s
		}
		if item.SubstituteUnitPrice != nil {
			s := item.SubstituteUnitPrice.StringFixed(2)
			ir.SubstitutePrice = &s
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
