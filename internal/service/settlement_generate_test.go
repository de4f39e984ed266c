package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTxManager serializes transactions with a mutex, the in-memory stand-in
// for the row locks that make concurrent generation runs queue up.
type memTxManager struct {
	mu sync.Mutex
}

func (m *memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type memOrderRepo struct {
	repository.OrderRepository
	mu       sync.Mutex
	orders   []model.Order
	shortfall bool // when set, MarkSettled reports one row fewer than asked
}

func (r *memOrderRepo) FindEligibleForSettlement(ctx context.Context, providerID uuid.UUID, start, end time.Time) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if o.ProviderID != providerID {
			continue
		}
		if o.SettlementStatus != nil && *o.SettlementStatus == model.OrderSettlementSettled {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *memOrderRepo) MarkSettled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var stamped int64
	for i := range r.orders {
		o := &r.orders[i]
		if !want[o.ID] {
			continue
		}
		if o.SettlementStatus != nil && *o.SettlementStatus == model.OrderSettlementSettled {
			continue
		}
		settled := model.OrderSettlementSettled
		o.SettlementStatus = &settled
		stamped++
	}
	if r.shortfall && stamped > 0 {
		stamped--
	}
	return stamped, nil
}

type memSettlementRepo struct {
	repository.SettlementRepository
	mu          sync.Mutex
	settlements []model.Settlement
}

func (r *memSettlementRepo) SettledOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]struct{})
	for _, st := range r.settlements {
		for _, id := range st.OrdersIncluded {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (r *memSettlementRepo) Create(ctx context.Context, settlement *model.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settlement.ID = uuid.New()
	r.settlements = append(r.settlements, *settlement)
	return nil
}

func (r *memSettlementRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.settlements)), nil
}

type memProviderRepo struct {
	repository.ProviderRepository
	provider model.Provider
}

func (r *memProviderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	p := r.provider
	return &p, nil
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, action, entityID, entityName, targetTable string, details map[string]interface{}) {
}

func (noopAudit) GetAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	return nil, 0, nil
}

func deliveredOrder(providerID uuid.UUID) model.Order {
	eligible := model.OrderSettlementEligible
	return model.Order{
		ID:                 uuid.New(),
		ProviderID:         providerID,
		Status:             model.OrderDelivered,
		PaymentMethod:      model.PaymentCash,
		Subtotal:           dec("50"),
		Total:              dec("50"),
		PlatformCommission: dec("3.5"),
		SettlementStatus:   &eligible,
	}
}

func TestGenerateConcurrentRunsSettleEachOrderOnce(t *testing.T) {
	providerID := uuid.New()

	orders := make([]model.Order, 0, 5)
	for i := 0; i < 5; i++ {
		orders = append(orders, deliveredOrder(providerID))
	}

	orderRepo := &memOrderRepo{orders: orders}
	settlementRepo := &memSettlementRepo{}
	providerRepo := &memProviderRepo{provider: model.Provider{
		ID:     providerID,
		NameEn: "Corner Grocer",
		Status: model.ProviderApproved,
	}}

	svc := NewSettlementService(settlementRepo, orderRepo, providerRepo, &memTxManager{}, noopAudit{})

	req := GenerateSettlementsRequest{
		PeriodStart: "2025-06-01T00:00:00Z",
		PeriodEnd:   "2025-06-15T00:00:00Z",
		ProviderID:  providerID.String(),
	}

	var wg sync.WaitGroup
	results := make([]GenerateSettlementsResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Generate(context.Background(), req)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	// Exactly one settlement exists and it covers all five orders
	require.Len(t, settlementRepo.settlements, 1)
	assert.Len(t, settlementRepo.settlements[0].OrdersIncluded, 5)

	// No order ID appears in more than one settlement
	seen := make(map[uuid.UUID]bool)
	for _, st := range settlementRepo.settlements {
		for _, id := range st.OrdersIncluded {
			assert.False(t, seen[id], "order %s settled twice", id)
			seen[id] = true
		}
	}

	// One run created it, the other found nothing left to settle
	assert.Equal(t, 1, len(results[0].Created)+len(results[1].Created))
}

func TestGenerateSecondRunSkipsSettledOrders(t *testing.T) {
	providerID := uuid.New()
	orderRepo := &memOrderRepo{orders: []model.Order{deliveredOrder(providerID), deliveredOrder(providerID)}}
	settlementRepo := &memSettlementRepo{}
	providerRepo := &memProviderRepo{provider: model.Provider{ID: providerID, NameEn: "Corner Grocer"}}

	svc := NewSettlementService(settlementRepo, orderRepo, providerRepo, &memTxManager{}, noopAudit{})

	req := GenerateSettlementsRequest{
		PeriodStart: "2025-06-01T00:00:00Z",
		PeriodEnd:   "2025-06-15T00:00:00Z",
		ProviderID:  providerID.String(),
	}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, settlementRepo.settlements, 1)
}

func TestGenerateAbortsOnSettledStampShortfall(t *testing.T) {
	providerID := uuid.New()
	orderRepo := &memOrderRepo{
		orders:   []model.Order{deliveredOrder(providerID), deliveredOrder(providerID)},
		shortfall: true,
	}
	settlementRepo := &memSettlementRepo{}
	providerRepo := &memProviderRepo{provider: model.Provider{ID: providerID, NameEn: "Corner Grocer"}}

	svc := NewSettlementService(settlementRepo, orderRepo, providerRepo, &memTxManager{}, noopAudit{})

	result, err := svc.Generate(context.Background(), GenerateSettlementsRequest{
		PeriodStart: "2025-06-01T00:00:00Z",
		PeriodEnd:   "2025-06-15T00:00:00Z",
		ProviderID:  providerID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
}
