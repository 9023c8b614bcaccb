package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2024, 5, 23, 15, 4, 5, 0, time.UTC)
	number := generateOrderNumber(now)

	require.Len(t, number, 18)
	assert.Equal(t, "240523", number[:6])
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{12}$`), number[6:])
}

func TestGenerateOrderNumberIsUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		number := generateOrderNumber(now)
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}

func TestToDiscountLines(t *testing.T) {
	items := []model.CartItemDetail{
		{CartItemID: 10, ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.99")},
		{CartItemID: 11, ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("19.99")},
	}

	lines := toDiscountLines(items)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10.99")))
}

// Pre-checkout computes its discount from cart lines (current product price),
// checkout from the just-created order items (snapshotted price). When the
// price has not moved between the two calls the figures must be identical.
func TestPreAndPostCheckoutDiscountSymmetry(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "10.00")
	eligibleIDs := map[int64]bool{2: true}

	cartLines := []DiscountLine{
		{ProductID: 1, UnitPrice: decimal.RequireFromString("19.99"), Quantity: 1},
		{ProductID: 2, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2},
	}

	// pre-checkout path: evaluate against cart lines
	preResult := EvaluatePromotion(promo, eligibleIDs, cartLines, 0, time.Now())
	require.True(t, preResult.Valid)
	preDiscount := ComputeDiscount(promo, preResult.EligibleLines).Round(2)

	// checkout path: same evaluation, then compute against the order items
	// built from the snapshot
	orderItems := []model.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("19.99")},
		{ProductID: 2, Quantity: 2, UnitPrice: decimal.RequireFromString("10.99")},
	}
	var eligibleOrderLines []DiscountLine
	for _, oi := range orderItems {
		if eligibleIDs[oi.ProductID] {
			eligibleOrderLines = append(eligibleOrderLines, DiscountLine{
				ProductID: oi.ProductID,
				UnitPrice: oi.UnitPrice,
				Quantity:  oi.Quantity,
			})
		}
	}
	postDiscount := ComputeDiscount(promo, eligibleOrderLines).Round(2)

	assert.Equal(t, preDiscount.StringFixed(2), postDiscount.StringFixed(2))
	assert.Equal(t, "2.20", postDiscount.StringFixed(2))

	subtotal := decimal.RequireFromString("19.99").Add(decimal.RequireFromString("21.98"))
	assert.Equal(t, "39.77", ApplyDiscount(subtotal, postDiscount).StringFixed(2))
}
