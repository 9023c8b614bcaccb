package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion types. Percentage discounts may carry a max_discount cap;
// fixed discounts apply per eligible line item.
const (
	PromotionTypePercentage = "percentage_discount"
	PromotionTypeFixed      = "fixed_discount"
)

// Promotion represents a row in the promotions table
type Promotion struct {
	PromotionID   int64            `json:"id"`
	Title         string           `json:"title"`
	Description   *string          `json:"description,omitempty"`
	PromoCode     string           `json:"promo_code"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	PromotionType string           `json:"promotion_type"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	AdminID       int64            `json:"-"`
	ImageURL      *string          `json:"image_url,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
}

// IsActiveAt reports whether the promotion window covers t (compared in UTC).
func (p *Promotion) IsActiveAt(t time.Time) bool {
	now := t.UTC()
	return !now.Before(p.StartDate.UTC()) && !now.After(p.EndDate.UTC())
}

// PromotionUsage represents a row in the promotion_order_association table.
// This join relation is the canonical usage-count source for usage_limit
// enforcement; rows survive order cancellation.
type PromotionUsage struct {
	PromotionID     int64           `json:"promotion_id"`
	OrderID         int64           `json:"order_id"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
	EligibleItems   string          `json:"eligible_items"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
}
