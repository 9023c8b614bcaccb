package repository

import (
	"context"
	"errors"

	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

// GetByID returns the product row for the given product id
func (r *ProductRepository) GetByID(ctx context.Context, productID int64) (*model.Product, error) {
	query := `SELECT id, vendor_id, category_id, name, price, stock_quantity, is_active FROM products WHERE id=$1`
	var p model.Product
	if err := r.DB.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.VendorID, &p.CategoryID, &p.Name, &p.Price, &p.StockQuantity, &p.IsActive,
	); err != nil {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

// GetForUpdateTx locks the product row for the rest of the transaction and
// returns its current state. Two concurrent checkouts of the same product
// serialize here, so the stock re-check sees the committed decrement.
func (r *ProductRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, productID int64) (*model.Product, error) {
	query := `SELECT id, vendor_id, category_id, name, price, stock_quantity, is_active FROM products WHERE id=$1 FOR UPDATE`
	var p model.Product
	if err := tx.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.VendorID, &p.CategoryID, &p.Name, &p.Price, &p.StockQuantity, &p.IsActive,
	); err != nil {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

// ReserveStockTx decrements stock within the checkout transaction. Must only
// be called after the locked stock check passed; a later failure in the same
// transaction rolls the decrement back.
func (r *ProductRepository) ReserveStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	query := `UPDATE products SET stock_quantity = stock_quantity - $1 WHERE id=$2`
	tag, err := tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found")
	}
	return nil
}
