package service

import (
	"testing"

	"marketplace-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func codOrder(total, commission string) model.Order {
	return model.Order{
		PaymentMethod:      model.PaymentCash,
		Total:              dec(total),
		PlatformCommission: dec(commission),
	}
}

func onlineOrder(total, subtotal, discount, commission, deliveryFee string) model.Order {
	return model.Order{
		PaymentMethod:      model.PaymentOnline,
		Total:              dec(total),
		Subtotal:           dec(subtotal),
		Discount:           dec(discount),
		PlatformCommission: dec(commission),
		DeliveryFee:        dec(deliveryFee),
	}
}

func TestComputeSettlementTotals(t *testing.T) {
	t.Run("mixed COD and online with merchant delivery", func(t *testing.T) {
		orders := []model.Order{
			codOrder("50", "3.5"),
			codOrder("30", "2.1"),
			codOrder("20", "1.4"),
			onlineOrder("100", "90", "0", "6.3", "10"),
			onlineOrder("80", "70", "0", "4.9", "10"),
		}

		totals := ComputeSettlementTotals(orders, true)

		assert.Equal(t, 3, totals.CODOrdersCount)
		assert.Equal(t, 2, totals.OnlineOrdersCount)
		assert.True(t, totals.CODCommissionOwed.Equal(dec("7.0")), "cod commission owed = %s", totals.CODCommissionOwed)
		assert.True(t, totals.OnlinePayoutOwed.Equal(dec("168.8")), "online payout owed = %s", totals.OnlinePayoutOwed)
		assert.True(t, totals.NetBalance.Equal(dec("161.8")), "net balance = %s", totals.NetBalance)
		assert.Equal(t, model.DirectionPlatformPaysProvider, totals.Direction)
	})

	t.Run("delivery fees excluded without merchant delivery", func(t *testing.T) {
		orders := []model.Order{
			onlineOrder("100", "90", "0", "6.3", "10"),
			onlineOrder("80", "70", "0", "4.9", "10"),
		}

		totals := ComputeSettlementTotals(orders, false)

		assert.True(t, totals.OnlinePayoutOwed.Equal(dec("148.8")), "online payout owed = %s", totals.OnlinePayoutOwed)
	})

	t.Run("net payout is gross minus commission", func(t *testing.T) {
		orders := []model.Order{
			codOrder("50", "3.5"),
			onlineOrder("100", "90", "0", "6.3", "10"),
		}

		totals := ComputeSettlementTotals(orders, false)

		assert.True(t, totals.GrossRevenue.Equal(dec("150")))
		assert.True(t, totals.PlatformCommission.Equal(dec("9.8")))
		assert.True(t, totals.NetPayout.Equal(dec("140.2")))
	})

	t.Run("online payout clamps at zero", func(t *testing.T) {
		orders := []model.Order{
			// Discount exceeds subtotal minus commission
			onlineOrder("10", "10", "9", "5", "0"),
		}

		totals := ComputeSettlementTotals(orders, false)

		assert.True(t, totals.OnlinePayoutOwed.IsZero(), "payout = %s", totals.OnlinePayoutOwed)
		assert.True(t, totals.NetBalance.IsZero())
		assert.Equal(t, model.DirectionBalanced, totals.Direction)
	})

	t.Run("cod only means provider pays platform", func(t *testing.T) {
		orders := []model.Order{
			codOrder("50", "3.5"),
			{PaymentMethod: model.PaymentCOD, Total: dec("30"), PlatformCommission: dec("2.1")},
		}

		totals := ComputeSettlementTotals(orders, false)

		assert.True(t, totals.CODCommissionOwed.Equal(dec("5.6")))
		assert.True(t, totals.NetBalance.Equal(dec("-5.6")))
		assert.Equal(t, model.DirectionProviderPaysPlatform, totals.Direction)
	})

	t.Run("no orders", func(t *testing.T) {
		totals := ComputeSettlementTotals(nil, true)

		assert.Equal(t, 0, totals.CODOrdersCount)
		assert.True(t, totals.NetBalance.IsZero())
		assert.Equal(t, model.DirectionBalanced, totals.Direction)
	})
}

func TestSettlementDirection(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		want    string
	}{
		{"positive balance", "10.00", model.DirectionPlatformPaysProvider},
		{"negative balance", "-10.00", model.DirectionProviderPaysPlatform},
		{"exactly zero", "0", model.DirectionBalanced},
		{"inside positive dead zone", "0.01", model.DirectionBalanced},
		{"inside negative dead zone", "-0.01", model.DirectionBalanced},
		{"just outside positive dead zone", "0.02", model.DirectionPlatformPaysProvider},
		{"just outside negative dead zone", "-0.02", model.DirectionProviderPaysPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SettlementDirection(dec(tt.balance)))
		})
	}
}
