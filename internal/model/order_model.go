package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are not validated against an adjacency graph;
// any recognized status may be written, but every write appends a history row.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// OrderStatuses lists every status the engine recognizes.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is one of the recognized order statuses.
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order represents a row in the orders table. Immutable after creation except
// for status, payment_status and the append-only history.
type Order struct {
	OrderID           int64           `json:"id"`
	UserID            int64           `json:"user_id"`
	OrderNumber       string          `json:"order_number"`
	Status            string          `json:"status"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ShippingAddressID int64           `json:"shipping_address_id"`
	BillingAddressID  *int64          `json:"billing_address_id,omitempty"`
	PaymentMethodID   int64           `json:"payment_method_id"`
	PaymentStatus     string          `json:"payment_status"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
}

// OrderItem represents a row in the order_items table. unit_price is the
// product price snapshotted at checkout time and is never recalculated.
type OrderItem struct {
	OrderItemID int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	VendorID    int64           `json:"vendor_id"`
}

// OrderStatusHistory represents a row in the order_status_history table.
// Rows are append-only and never mutated.
type OrderStatusHistory struct {
	HistoryID int64      `json:"id"`
	OrderID   int64      `json:"order_id"`
	Status    string     `json:"status"`
	ChangedBy int64      `json:"changed_by"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// OrderDetail is an order with its items and history eagerly loaded.
type OrderDetail struct {
	Order
	Items         []OrderItem          `json:"items"`
	StatusHistory []OrderStatusHistory `json:"status_history"`
}

// AppliedPromotion describes the discount applied to an order at checkout.
type AppliedPromotion struct {
	Title           string  `json:"title"`
	Discount        string  `json:"discount"`
	EligibleItemIDs []int64 `json:"eligible_items_ids"`
}
