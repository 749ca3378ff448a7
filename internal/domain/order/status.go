package order

// OrderStatus is the kitchen-side lifecycle of an order.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// PaymentStatus tracks whether the order has been settled.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Payment channels. Informational only, nothing is charged through them.
const (
	MethodKassa = "kassa"
	MethodSwish = "swish"
)

// ValidOrderStatus reports whether s is one of the order lifecycle values.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the payment values.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}
