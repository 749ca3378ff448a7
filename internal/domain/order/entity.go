package order

import (
	"fmt"
	"time"
)

// Item is one line in an order. Immutable after creation.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is the central entity. The store assigns ID, CreatedAt and UpdatedAt
// on insert; only the two status fields and UpdatedAt change afterwards.
// Rows serialize snake_case because that is what the dashboard consumes.
type Order struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Items         []Item    `json:"items"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// New validates the submission fields and builds an order ready for insert.
// Both status fields start out pending; the total is trusted as given.
func New(customerName, customerPhone string, items []Item, totalAmount float64, paymentMethod, notes string) (*Order, error) {
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if customerPhone == "" {
		return nil, fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}

	return &Order{
		OrderNumber:   NewNumber(time.Now()),
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Items:         items,
		TotalAmount:   totalAmount,
		PaymentMethod: paymentMethod,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		Notes:         notes,
	}, nil
}

// StatusUpdate is a partial update of the two mutable status fields.
// A nil field is left untouched.
type StatusUpdate struct {
	OrderStatus   *string
	PaymentStatus *string
}

// Validate rejects an empty update and unknown enum values.
func (u StatusUpdate) Validate() error {
	if u.OrderStatus == nil && u.PaymentStatus == nil {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if u.OrderStatus != nil && !ValidOrderStatus(*u.OrderStatus) {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, *u.OrderStatus)
	}
	if u.PaymentStatus != nil && !ValidPaymentStatus(*u.PaymentStatus) {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, *u.PaymentStatus)
	}
	return nil
}
