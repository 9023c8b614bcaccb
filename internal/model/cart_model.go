package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingCart represents a row in the shopping_carts table (one per user,
// created lazily on first access)
type ShoppingCart struct {
	CartID    int64      `json:"cart_id"`
	UserID    int64      `json:"user_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// CartItem represents a row in the cart_items table
type CartItem struct {
	CartItemID int64 `json:"cart_item_id"`
	CartID     int64 `json:"cart_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
}

// CartItemDetail is what the API exposes (joined with products + primary image)
type CartItemDetail struct {
	CartItemID  int64           `json:"cart_item_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse is returned when calling GET /order/cart
type CartResponse struct {
	CartID int64            `json:"cart_id"`
	Items  []CartItemDetail `json:"items"`
	Total  string           `json:"total"`
}
