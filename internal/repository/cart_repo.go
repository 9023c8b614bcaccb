package repository

import (
	"context"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/errs"
	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// call. The insert is a no-op when the cart already exists, so two
// concurrent first accesses both land on the same row.
func (r *CartRepository) GetOrCreateCart(ctx context.Context, userID int64) (*model.ShoppingCart, error) {
	insert := `INSERT INTO shopping_carts (user_id, created_at) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.DB.Exec(ctx, insert, userID, time.Now()); err != nil {
		return nil, err
	}

	var cart model.ShoppingCart
	query := `SELECT id, user_id, created_at FROM shopping_carts WHERE user_id=$1`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&cart.CartID, &cart.UserID, &cart.CreatedAt); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddOrIncrementItem inserts a cart item or increments quantity when the
// product is already in the cart (at most one row per cart+product pair).
// Returns the post-merge row.
func (r *CartRepository) AddOrIncrementItem(ctx context.Context, cartID, productID int64, quantity int) (*model.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity
	`
	var it model.CartItem
	if err := r.DB.QueryRow(ctx, query, cartID, productID, quantity).Scan(
		&it.CartItemID, &it.CartID, &it.ProductID, &it.Quantity,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

// SetItemQuantity sets exact quantity for a cart item
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, productID int64, quantity int) (*model.CartItem, error) {
	query := `UPDATE cart_items SET quantity=$1 WHERE cart_id=$2 AND product_id=$3 RETURNING id, cart_id, product_id, quantity`
	var it model.CartItem
	if err := r.DB.QueryRow(ctx, query, quantity, cartID, productID).Scan(
		&it.CartItemID, &it.CartID, &it.ProductID, &it.Quantity,
	); err != nil {
		return nil, errs.NotFound("cart item")
	}
	return &it, nil
}

// RemoveItem removes a specific cart item
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id=$1 AND product_id=$2`
	tag, err := r.DB.Exec(ctx, query, cartID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("cart item")
	}
	return nil
}

// GetItemsWithProducts returns the cart's items joined with product name,
// price and primary image in a single query.
func (r *CartRepository) GetItemsWithProducts(ctx context.Context, cartID int64) ([]model.CartItemDetail, error) {
	return itemsWithProducts(ctx, r.DB, cartID)
}

// GetItemsWithProductsTx is GetItemsWithProducts inside a transaction, so
// checkout reads the cart lines it is about to consume under the same
// snapshot that verifies and reserves stock.
func (r *CartRepository) GetItemsWithProductsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItemDetail, error) {
	return itemsWithProducts(ctx, tx, cartID)
}

func itemsWithProducts(ctx context.Context, q querier, cartID int64) ([]model.CartItemDetail, error) {
	query := `
		SELECT ci.id, ci.product_id, p.name, ci.quantity, p.price, pi.image_url
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN product_images pi ON pi.product_id = p.id AND pi.is_primary
		WHERE ci.cart_id=$1
	`
	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.CartItemDetail
	for rows.Next() {
		var it model.CartItemDetail
		if err := rows.Scan(&it.CartItemID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.ImageURL); err != nil {
			return nil, err
		}
		it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, it)
	}
	return items, rows.Err()
}

// RemoveItemTx removes a consumed cart line inside the checkout transaction.
func (r *CartRepository) RemoveItemTx(ctx context.Context, tx pgx.Tx, cartItemID int64) error {
	query := `DELETE FROM cart_items WHERE id=$1`
	_, err := tx.Exec(ctx, query, cartItemID)
	return err
}
