package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle states. Every order starts as PENDING; later states
// are driven by the payment provider and are not part of checkout itself.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
)

// Order is the durable record of a purchase attempt. Total is always
// computed server side and must equal the sum of item price snapshots
// times quantities.
type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Status           string          `json:"status"`
	Total            decimal.Decimal `json:"total"`
	PaymentSessionID *string         `json:"payment_session_id,omitempty"`
	Items            []OrderItem     `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderItem is one line of an order. Price is the per-unit snapshot of the
// catalog price at the moment the order was created, immutable afterwards.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
