package service

import (
	"testing"
	"time"

	"marketplace-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(qty, unitPrice string) model.CustomOrderItem {
	q := dec(qty)
	p := dec(unitPrice)
	return model.CustomOrderItem{
		Quantity:           q,
		UnitPrice:          p,
		LineTotal:          q.Mul(p),
		AvailabilityStatus: model.ItemAvailable,
	}
}

func TestCommissionRate(t *testing.T) {
	tests := []struct {
		subtotal string
		want     string
	}{
		{"50", "0.07"},
		{"100", "0.07"},
		{"100.01", "0.06"},
		{"300", "0.06"},
		{"300.01", "0.05"},
		{"1000", "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.subtotal, func(t *testing.T) {
			got := CommissionRate(dec(tt.subtotal))
			assert.True(t, got.Equal(dec(tt.want)), "rate for %s = %s", tt.subtotal, got)
		})
	}
}

func TestComputeQuote(t *testing.T) {
	t.Run("simple quote", func(t *testing.T) {
		items := []model.CustomOrderItem{
			line("2", "10"),  // 20
			line("1", "30"),  // 30
		}

		totals := ComputeQuote(items, dec("5"))

		assert.True(t, totals.Subtotal.Equal(dec("50")), "subtotal = %s", totals.Subtotal)
		assert.True(t, totals.Total.Equal(dec("55")), "total = %s", totals.Total)
		assert.True(t, totals.Commission.Equal(dec("3.5")), "commission = %s", totals.Commission)
		assert.True(t, totals.NetProfit.Equal(dec("51.5")), "net profit = %s", totals.NetProfit)
	})

	t.Run("unavailable items contribute nothing", func(t *testing.T) {
		unavailable := line("3", "100")
		unavailable.AvailabilityStatus = model.ItemUnavailable

		items := []model.CustomOrderItem{
			line("1", "40"),
			unavailable,
		}

		totals := ComputeQuote(items, decimal.Zero)

		assert.True(t, totals.Subtotal.Equal(dec("40")), "subtotal = %s", totals.Subtotal)
	})

	t.Run("substituted items use the substitute price", func(t *testing.T) {
		subQty := dec("2")
		subPrice := dec("12")
		substituted := line("2", "10") // original line total 20
		substituted.AvailabilityStatus = model.ItemSubstituted
		substituted.SubstituteQuantity = &subQty
		substituted.SubstituteUnitPrice = &subPrice

		totals := ComputeQuote([]model.CustomOrderItem{substituted}, decimal.Zero)

		assert.True(t, totals.Subtotal.Equal(dec("24")), "subtotal = %s", totals.Subtotal)
	})

	t.Run("tier drops with larger baskets", func(t *testing.T) {
		items := []model.CustomOrderItem{line("1", "200")}

		totals := ComputeQuote(items, decimal.Zero)

		// 200 falls in the 6% tier
		assert.True(t, totals.Commission.Equal(dec("12")), "commission = %s", totals.Commission)
		assert.True(t, totals.NetProfit.Equal(dec("188")), "net profit = %s", totals.NetProfit)
	})

	t.Run("delivery fee is outside the commission base", func(t *testing.T) {
		items := []model.CustomOrderItem{line("1", "100")}

		totals := ComputeQuote(items, dec("50"))

		// Commission stays on the 100 subtotal even though total is 150
		assert.True(t, totals.Commission.Equal(dec("7")), "commission = %s", totals.Commission)
		assert.True(t, totals.Total.Equal(dec("150")))
	})

	t.Run("empty quote", func(t *testing.T) {
		totals := ComputeQuote(nil, decimal.Zero)

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.Commission.IsZero())
		assert.True(t, totals.NetProfit.IsZero())
	})
}

func TestCustomOrderResponseNetProfit(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("pending request reports zero, not the delivery fee", func(t *testing.T) {
		request := model.CustomOrderRequest{
			Status:          model.CustomOrderPending,
			PricingDeadline: now.Add(30 * time.Minute),
			DeliveryFee:     dec("15"),
		}

		resp := toCustomOrderResponse(request, now)

		assert.Equal(t, "0.00", resp.NetProfit)
	})

	t.Run("priced request recomputes from the quoted items", func(t *testing.T) {
		pricedAt := now.Add(-time.Minute)
		request := model.CustomOrderRequest{
			Status:          model.CustomOrderPriced,
			PricingDeadline: now.Add(30 * time.Minute),
			DeliveryFee:     dec("5"),
			Subtotal:        dec("50"),
			Total:           dec("55"),
			Commission:      dec("3.5"),
			PricedAt:        &pricedAt,
			Items: []model.CustomOrderItem{
				line("2", "10"),
				line("1", "30"),
			},
		}

		resp := toCustomOrderResponse(request, now)

		// total 55 minus the 7% commission on the 50 subtotal
		assert.Equal(t, "51.50", resp.NetProfit)
	})
}
