package services

import (
	"testing"

	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestVerifyStock(t *testing.T) {
	product := &model.Product{ID: 1, Name: "batik tote", StockQuantity: 5, IsActive: true}

	reason, ok := VerifyStock(product, 5)
	assert.True(t, ok)
	assert.Empty(t, reason)

	reason, ok = VerifyStock(product, 6)
	assert.False(t, ok)
	assert.Equal(t, "Not enough stock", reason)
}

func TestVerifyStockInactiveProduct(t *testing.T) {
	product := &model.Product{ID: 1, StockQuantity: 5, IsActive: false}

	reason, ok := VerifyStock(product, 1)
	assert.False(t, ok)
	assert.Equal(t, "Product is inactive", reason)
}

func TestVerifyStockReportsStockBeforeInactive(t *testing.T) {
	// both conditions hold; the stock reason must win
	product := &model.Product{ID: 1, StockQuantity: 0, IsActive: false}

	reason, ok := VerifyStock(product, 1)
	assert.False(t, ok)
	assert.Equal(t, "Not enough stock", reason)
}
