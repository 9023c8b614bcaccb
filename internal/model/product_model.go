package model

import "github.com/shopspring/decimal"

// Product represents a row in the products table. Price is the live unit
// price; order lines snapshot it at checkout time.
type Product struct {
	ID            int64           `json:"id"`
	VendorID      int64           `json:"vendor_id"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
}
