package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	t.Run("allowed transitions", func(t *testing.T) {
		allowed := [][2]string{
			{OrderPending, OrderConfirmed},
			{OrderPending, OrderCancelled},
			{OrderConfirmed, OrderPreparing},
			{OrderConfirmed, OrderCancelled},
			{OrderPreparing, OrderReady},
			{OrderPreparing, OrderCancelled},
			{OrderReady, OrderOutForDelivery},
			{OrderOutForDelivery, OrderDelivered},
		}
		for _, tr := range allowed {
			assert.True(t, CanTransitionOrder(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
		}
	})

	t.Run("blocked transitions", func(t *testing.T) {
		blocked := [][2]string{
			{OrderPending, OrderDelivered},
			{OrderReady, OrderCancelled},
			{OrderOutForDelivery, OrderCancelled},
			{OrderDelivered, OrderPending},
			{OrderCancelled, OrderConfirmed},
			{OrderDelivered, OrderDelivered},
		}
		for _, tr := range blocked {
			assert.False(t, CanTransitionOrder(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		assert.False(t, CanTransitionOrder("bogus", OrderConfirmed))
	})
}

func TestCanTransitionSettlement(t *testing.T) {
	t.Run("terminal states stay terminal", func(t *testing.T) {
		for _, from := range []string{SettlementPaid, SettlementWaived} {
			for _, to := range []string{SettlementPending, SettlementPartiallyPaid, SettlementPaid, SettlementOverdue, SettlementDisputed, SettlementWaived} {
				assert.False(t, CanTransitionSettlement(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("payment paths", func(t *testing.T) {
		assert.True(t, CanTransitionSettlement(SettlementPending, SettlementPartiallyPaid))
		assert.True(t, CanTransitionSettlement(SettlementPartiallyPaid, SettlementPaid))
		assert.True(t, CanTransitionSettlement(SettlementOverdue, SettlementPaid))
		assert.False(t, CanTransitionSettlement(SettlementPartiallyPaid, SettlementPending))
	})

	t.Run("dispute resolution", func(t *testing.T) {
		assert.True(t, CanTransitionSettlement(SettlementDisputed, SettlementPending))
		assert.True(t, CanTransitionSettlement(SettlementDisputed, SettlementWaived))
		assert.False(t, CanTransitionSettlement(SettlementDisputed, SettlementOverdue))
	})
}

func TestCanTransitionProvider(t *testing.T) {
	assert.True(t, CanTransitionProvider(ProviderPending, ProviderApproved))
	assert.True(t, CanTransitionProvider(ProviderPending, ProviderRejected))
	assert.True(t, CanTransitionProvider(ProviderApproved, ProviderSuspended))
	assert.True(t, CanTransitionProvider(ProviderSuspended, ProviderApproved))

	assert.False(t, CanTransitionProvider(ProviderRejected, ProviderApproved))
	assert.False(t, CanTransitionProvider(ProviderApproved, ProviderRejected))
	assert.False(t, CanTransitionProvider(ProviderSuspended, ProviderRejected))
}
