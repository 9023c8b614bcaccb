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

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// CreateOrderTx inserts the order row and fills in its id and created_at.
func (r *OrderRepository) CreateOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	query := `
		INSERT INTO orders (user_id, order_number, status, total_amount, shipping_address_id, billing_address_id, payment_method_id, payment_status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	return tx.QueryRow(ctx, query,
		o.UserID, o.OrderNumber, o.Status, o.TotalAmount, o.ShippingAddressID,
		o.BillingAddressID, o.PaymentMethodID, o.PaymentStatus, o.Notes, time.Now(),
	).Scan(&o.OrderID, &o.CreatedAt)
}

// InsertItemTx inserts an order item and fills in its id.
func (r *OrderRepository) InsertItemTx(ctx context.Context, tx pgx.Tx, it *model.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price, vendor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return tx.QueryRow(ctx, query,
		it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice, it.VendorID,
	).Scan(&it.OrderItemID)
}

// UpdateTotalTx writes the accumulated (and possibly discounted) total.
func (r *OrderRepository) UpdateTotalTx(ctx context.Context, tx pgx.Tx, orderID int64, total decimal.Decimal) error {
	query := `UPDATE orders SET total_amount=$1 WHERE id=$2`
	_, err := tx.Exec(ctx, query, total, orderID)
	return err
}

// InsertStatusHistoryTx appends a status history row. History rows are never
// updated or deleted.
func (r *OrderRepository) InsertStatusHistoryTx(ctx context.Context, tx pgx.Tx, h *model.OrderStatusHistory) error {
	query := `
		INSERT INTO order_status_history (order_id, status, changed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return tx.QueryRow(ctx, query, h.OrderID, h.Status, h.ChangedBy, h.Notes, time.Now()).Scan(&h.HistoryID, &h.CreatedAt)
}

// UpdateStatusTx sets the order status inside a transaction.
func (r *OrderRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, orderID int64, status string) error {
	query := `UPDATE orders SET status=$1 WHERE id=$2`
	tag, err := tx.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("order")
	}
	return nil
}

const orderColumns = `id, user_id, order_number, status, total_amount, shipping_address_id, billing_address_id, payment_method_id, payment_status, notes, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.OrderID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalAmount,
		&o.ShippingAddressID, &o.BillingAddressID, &o.PaymentMethodID,
		&o.PaymentStatus, &o.Notes, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByNumber returns the user's order with items and status history loaded.
// Orders are scoped to their owner; someone else's order number is NotFound.
func (r *OrderRepository) GetByNumber(ctx context.Context, userID int64, orderNumber string) (*model.OrderDetail, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number=$1 AND user_id=$2`
	o, err := scanOrder(r.DB.QueryRow(ctx, query, orderNumber, userID))
	if err != nil {
		return nil, errs.NotFound("order")
	}

	detail := &model.OrderDetail{Order: *o}

	itemsQuery := `SELECT id, order_id, product_id, quantity, unit_price, total_price, vendor_id FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.DB.Query(ctx, itemsQuery, o.OrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.VendorID); err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	historyQuery := `SELECT id, order_id, status, changed_by, notes, created_at FROM order_status_history WHERE order_id=$1 ORDER BY id`
	hrows, err := r.DB.Query(ctx, historyQuery, o.OrderID)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var h model.OrderStatusHistory
		if err := hrows.Scan(&h.HistoryID, &h.OrderID, &h.Status, &h.ChangedBy, &h.Notes, &h.CreatedAt); err != nil {
			return nil, err
		}
		detail.StatusHistory = append(detail.StatusHistory, h)
	}
	return detail, hrows.Err()
}

// GetIDByNumber resolves an order number to its id, scoped to the owner.
func (r *OrderRepository) GetIDByNumber(ctx context.Context, userID int64, orderNumber string) (int64, error) {
	var id int64
	query := `SELECT id FROM orders WHERE order_number=$1 AND user_id=$2`
	if err := r.DB.QueryRow(ctx, query, orderNumber, userID).Scan(&id); err != nil {
		return 0, errs.NotFound("order")
	}
	return id, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY id DESC`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
