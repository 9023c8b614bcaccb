package services

import (
	"testing"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPromotion(promotionType string, discountValue string) *model.Promotion {
	now := time.Now().UTC()
	return &model.Promotion{
		PromotionID:   1,
		Title:         "Test Promotion",
		PromoCode:     "TESTPROMO",
		DiscountValue: decimal.RequireFromString(discountValue),
		PromotionType: promotionType,
		StartDate:     now.AddDate(0, 0, -7),
		EndDate:       now.AddDate(0, 0, 6),
	}
}

func intPtr(n int) *int { return &n }

func TestEvaluatePromotionNotActive(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "10")
	promo.EndDate = time.Now().UTC().AddDate(0, 0, -6)

	lines := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2}}
	result := EvaluatePromotion(promo, map[int64]bool{1: true}, lines, 0, time.Now())

	assert.False(t, result.Valid)
	assert.Equal(t, "Promotion not active", result.Message)
}

func TestEvaluatePromotionWindowInclusive(t *testing.T) {
	now := time.Now().UTC()
	promo := testPromotion(model.PromotionTypePercentage, "10")
	promo.StartDate = now
	promo.EndDate = now

	lines := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("5.00"), Quantity: 1}}
	result := EvaluatePromotion(promo, map[int64]bool{1: true}, lines, 0, now)

	assert.True(t, result.Valid, "start_date <= now <= end_date is inclusive on both ends")
}

func TestEvaluatePromotionNoEligibleItems(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "10")

	lines := []DiscountLine{{ProductID: 3, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2}}
	result := EvaluatePromotion(promo, map[int64]bool{1: true, 2: true}, lines, 0, time.Now())

	assert.False(t, result.Valid)
	assert.Equal(t, "No eligible items in cart", result.Message)
}

func TestEvaluatePromotionUsageLimitReached(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "10")
	promo.UsageLimit = intPtr(1)

	lines := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2}}
	result := EvaluatePromotion(promo, map[int64]bool{1: true}, lines, 1, time.Now())

	assert.False(t, result.Valid)
	assert.Equal(t, "Promo usage limit reached", result.Message)
}

func TestEvaluatePromotionUsageLimitZeroIsExhausted(t *testing.T) {
	// usage_limit = 0 hard-disables the code without deleting it
	promo := testPromotion(model.PromotionTypePercentage, "10")
	promo.UsageLimit = intPtr(0)

	lines := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 1}}
	result := EvaluatePromotion(promo, map[int64]bool{1: true}, lines, 0, time.Now())

	assert.False(t, result.Valid)
	assert.Equal(t, "Promo usage limit reached", result.Message)
}

func TestEvaluatePromotionNilUsageLimitIsUnlimited(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "10")

	lines := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 1}}
	result := EvaluatePromotion(promo, map[int64]bool{1: true}, lines, 100000, time.Now())

	assert.True(t, result.Valid)
}

func TestEvaluatePromotionEligibleSubset(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "10")

	lines := []DiscountLine{
		{ProductID: 1, UnitPrice: decimal.RequireFromString("19.99"), Quantity: 1},
		{ProductID: 2, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2},
		{ProductID: 3, UnitPrice: decimal.RequireFromString("4.50"), Quantity: 1},
	}
	result := EvaluatePromotion(promo, map[int64]bool{2: true, 3: true}, lines, 0, time.Now())

	require.True(t, result.Valid)
	assert.Equal(t, []int64{2, 3}, result.EligibleItemIDs)
	require.Len(t, result.EligibleLines, 2)
	assert.Equal(t, int64(2), result.EligibleLines[0].ProductID)
}

func TestComputeDiscountPercentage(t *testing.T) {
	// source fixture: 10.99 x 2 eligible, 10% -> 2.198 -> "2.20", total "19.78"
	promo := testPromotion(model.PromotionTypePercentage, "10.00")
	eligible := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2}}

	discount := ComputeDiscount(promo, eligible).Round(2)
	assert.Equal(t, "2.20", discount.StringFixed(2))

	total := ApplyDiscount(decimal.RequireFromString("21.98"), discount)
	assert.Equal(t, "19.78", total.StringFixed(2))
}

func TestComputeDiscountPercentageMaxCap(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "50")
	maxDiscount := decimal.RequireFromString("5.00")
	promo.MaxDiscount = &maxDiscount

	eligible := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("100.00"), Quantity: 1}}
	discount := ComputeDiscount(promo, eligible)

	assert.Equal(t, "5.00", discount.StringFixed(2))
}

func TestComputeDiscountPercentageNoCap(t *testing.T) {
	promo := testPromotion(model.PromotionTypePercentage, "50")

	eligible := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("100.00"), Quantity: 1}}
	discount := ComputeDiscount(promo, eligible)

	assert.Equal(t, "50.00", discount.StringFixed(2))
}

func TestComputeDiscountFixed(t *testing.T) {
	// source fixture: fixed 10.00, 1 eligible item -> "10.00", total "11.98"
	promo := testPromotion(model.PromotionTypeFixed, "10.00")
	eligible := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.99"), Quantity: 2}}

	discount := ComputeDiscount(promo, eligible).Round(2)
	assert.Equal(t, "10.00", discount.StringFixed(2))

	total := ApplyDiscount(decimal.RequireFromString("21.98"), discount)
	assert.Equal(t, "11.98", total.StringFixed(2))
}

func TestComputeDiscountFixedIsPerLineItemNotPerUnit(t *testing.T) {
	promo := testPromotion(model.PromotionTypeFixed, "10.00")

	oneUnit := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("30.00"), Quantity: 1}}
	fiveUnits := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("30.00"), Quantity: 5}}

	assert.True(t, ComputeDiscount(promo, oneUnit).Equal(ComputeDiscount(promo, fiveUnits)))

	twoLines := []DiscountLine{
		{ProductID: 1, UnitPrice: decimal.RequireFromString("30.00"), Quantity: 1},
		{ProductID: 2, UnitPrice: decimal.RequireFromString("30.00"), Quantity: 1},
	}
	assert.Equal(t, "20.00", ComputeDiscount(promo, twoLines).StringFixed(2))
}

func TestComputeDiscountUnknownTypeIsZero(t *testing.T) {
	promo := testPromotion("mystery_discount", "10.00")
	eligible := []DiscountLine{{ProductID: 1, UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1}}

	assert.True(t, ComputeDiscount(promo, eligible).IsZero())
}

func TestApplyDiscountClampsAtZero(t *testing.T) {
	total := ApplyDiscount(decimal.RequireFromString("5.00"), decimal.RequireFromString("20.00"))
	assert.Equal(t, "0.00", total.StringFixed(2))
}

func TestPromotionIsActiveAtComparesInUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	promo := testPromotion(model.PromotionTypePercentage, "10")
	promo.StartDate = time.Date(2024, 5, 23, 0, 0, 0, 0, time.UTC)
	promo.EndDate = time.Date(2024, 5, 24, 0, 0, 0, 0, time.UTC)

	// local wall clock is past end_date but the UTC instant is inside the window
	inWindow := time.Date(2024, 5, 24, 8, 0, 0, 0, loc)
	assert.True(t, promo.IsActiveAt(inWindow))

	after := time.Date(2024, 5, 24, 9, 0, 1, 0, loc)
	assert.False(t, promo.IsActiveAt(after))
}
