package model

// Status transition graphs. Every enforcement point (handlers, services,
// jobs) consults these tables so the graphs cannot drift apart.

var orderTransitions = map[string][]string{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReady, OrderCancelled},
	OrderReady:          {OrderOutForDelivery},
	OrderOutForDelivery: {OrderDelivered},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

var settlementTransitions = map[string][]string{
	SettlementPending:       {SettlementPartiallyPaid, SettlementPaid, SettlementOverdue, SettlementDisputed, SettlementWaived},
	SettlementPartiallyPaid: {SettlementPaid, SettlementDisputed, SettlementWaived},
	SettlementOverdue:       {SettlementPartiallyPaid, SettlementPaid, SettlementDisputed, SettlementWaived},
	SettlementDisputed:      {SettlementPending, SettlementPaid, SettlementWaived},
	SettlementPaid:          {},
	SettlementWaived:        {},
}

var providerTransitions = map[string][]string{
	ProviderPending:   {ProviderApproved, ProviderRejected},
	ProviderApproved:  {ProviderSuspended},
	ProviderSuspended: {ProviderApproved},
	ProviderRejected:  {},
}

func canTransition(graph map[string][]string, from, to string) bool {
	for _, next := range graph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionOrder reports whether an order may move from one status to another
func CanTransitionOrder(from, to string) bool {
	return canTransition(orderTransitions, from, to)
}

// CanTransitionSettlement reports whether a settlement may move from one status to another
func CanTransitionSettlement(from, to string) bool {
	return canTransition(settlementTransitions, from, to)
}

// CanTransitionProvider reports whether a provider may move from one status to another
func CanTransitionProvider(from, to string) bool {
	return canTransition(providerTransitions, from, to)
}
