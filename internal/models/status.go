package models

// OrderStatus is the business fulfillment status of an order. It is a
// closed enumeration; unknown literals are rejected at the boundary.
type OrderStatus string

const (
	// OrderStatusAwaiting is the status an order is created in before its
	// payment is confirmed. The reconciler activates it to pending.
	OrderStatusAwaiting OrderStatus = "awaiting"

	OrderStatusPending           OrderStatus = "pending"
	OrderStatusAccepted          OrderStatus = "accepted"
	OrderStatusPreparing         OrderStatus = "preparing"
	OrderStatusReady             OrderStatus = "ready"
	OrderStatusAcceptedByCourier OrderStatus = "accepted_by_courier"
	OrderStatusDelivering        OrderStatus = "delivering"
	OrderStatusDelivered         OrderStatus = "delivered"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusArchived          OrderStatus = "archived"
)

// ParseOrderStatus validates a status literal coming in over the wire.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusAwaiting, OrderStatusPending, OrderStatusAccepted,
		OrderStatusPreparing, OrderStatusReady, OrderStatusAcceptedByCourier,
		OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusArchived:
		return st, true
	}
	return "", false
}

// PaymentStatus is the gateway-side payment status of an order. It is
// independent of the fulfillment status.
type PaymentStatus string

const (
	PaymentStatusAwaiting  PaymentStatus = "awaiting"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusInProcess PaymentStatus = "in_process"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// ParsePaymentStatus validates a gateway status literal.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch st := PaymentStatus(s); st {
	case PaymentStatusAwaiting, PaymentStatusApproved, PaymentStatusPending,
		PaymentStatusInProcess, PaymentStatusRejected:
		return st, true
	}
	return "", false
}

// PartnerRole identifies which side of the marketplace a payout targets.
type PartnerRole string

const (
	PartnerRoleRestaurant PartnerRole = "restaurant"
	PartnerRoleCourier    PartnerRole = "courier"
)

// ParsePartnerRole validates a partner role literal.
func ParsePartnerRole(s string) (PartnerRole, bool) {
	switch r := PartnerRole(s); r {
	case PartnerRoleRestaurant, PartnerRoleCourier:
		return r, true
	}
	return "", false
}

// PayoutStatus is the lifecycle status of a payout batch.
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusProcessed PayoutStatus = "processed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// SettlementCycle is the recurring period over which eligible orders are
// aggregated into a payout.
type SettlementCycle string

const (
	CycleWeekly   SettlementCycle = "weekly"
	CycleBiweekly SettlementCycle = "biweekly"
	CycleMonthly  SettlementCycle = "monthly"
)

// ParseSettlementCycle validates a cycle literal.
func ParseSettlementCycle(s string) (SettlementCycle, bool) {
	switch c := SettlementCycle(s); c {
	case CycleWeekly, CycleBiweekly, CycleMonthly:
		return c, true
	}
	return "", false
}

// Actor roles carried in JWT claims.
const (
	RoleClient     = "client"
	RoleRestaurant = "restaurant"
	RoleCourier    = "courier"
	RoleAdmin      = "admin"
)
