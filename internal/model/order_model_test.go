package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, IsValidOrderStatus(status), status)
	}

	assert.False(t, IsValidOrderStatus("refunded"))
	assert.False(t, IsValidOrderStatus("PENDING"), "statuses are lowercase labels")
	assert.False(t, IsValidOrderStatus(""))
}
