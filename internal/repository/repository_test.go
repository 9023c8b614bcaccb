package repository

import (
	"context"
	"testing"

	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

// Shared read paths accept both the pool and a transaction.
var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = pgx.Tx(nil)
)

func TestCartItemsReadableInsideTransaction(t *testing.T) {
	// checkout consumes the cart lines it just read, so the joined read has
	// to run on the checkout transaction, not the pool
	var read func(context.Context, pgx.Tx, int64) ([]model.CartItemDetail, error)
	read = (&CartRepository{}).GetItemsWithProductsTx
	assert.NotNil(t, read)
}
