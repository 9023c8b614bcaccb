package repository

import (
	"context"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/errs"
	"github.com/DhanaNugraha/ruparawi-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so promotion reads
// can run standalone (pre-checkout) or inside the checkout transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PromotionRepository struct {
	DB *pgxpool.Pool
}

func NewPromotionRepository(db *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{DB: db}
}

const promotionColumns = `id, title, description, promo_code, discount_value, promotion_type, start_date, end_date, admin_id, image_url, max_discount, usage_limit`

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var p model.Promotion
	err := row.Scan(
		&p.PromotionID, &p.Title, &p.Description, &p.PromoCode, &p.DiscountValue,
		&p.PromotionType, &p.StartDate, &p.EndDate, &p.AdminID, &p.ImageURL,
		&p.MaxDiscount, &p.UsageLimit,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByCode returns the promotion for a promo code. An unknown code is a
// hard NotFound, distinct from an inactive or ineligible promotion.
func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE promo_code=$1`
	p, err := scanPromotion(r.DB.QueryRow(ctx, query, code))
	if err != nil {
		return nil, errs.NotFound("promotion")
	}
	return p, nil
}

// GetByCodeForUpdateTx locks the promotion row for the rest of the checkout
// transaction so the usage count check and the usage insert cannot interleave
// with a concurrent checkout of the same code.
func (r *PromotionRepository) GetByCodeForUpdateTx(ctx context.Context, tx pgx.Tx, code string) (*model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE promo_code=$1 FOR UPDATE`
	p, err := scanPromotion(tx.QueryRow(ctx, query, code))
	if err != nil {
		return nil, errs.NotFound("promotion")
	}
	return p, nil
}

// eligible ids = directly associated products plus all products in any
// associated category; only set membership matters.
const eligibleProductIDsQuery = `
	SELECT product_id FROM promotion_product_association WHERE promotion_id=$1
	UNION
	SELECT p.id FROM products p
	JOIN promotion_category_association pca ON pca.category_id = p.category_id
	WHERE pca.promotion_id=$1
`

func (r *PromotionRepository) eligibleProductIDs(ctx context.Context, q querier, promotionID int64) (map[int64]bool, error) {
	rows, err := q.Query(ctx, eligibleProductIDsQuery, promotionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// EligibleProductIDs returns the promotion's eligible product id set.
func (r *PromotionRepository) EligibleProductIDs(ctx context.Context, promotionID int64) (map[int64]bool, error) {
	return r.eligibleProductIDs(ctx, r.DB, promotionID)
}

// EligibleProductIDsTx is EligibleProductIDs inside the checkout transaction.
func (r *PromotionRepository) EligibleProductIDsTx(ctx context.Context, tx pgx.Tx, promotionID int64) (map[int64]bool, error) {
	return r.eligibleProductIDs(ctx, tx, promotionID)
}

func (r *PromotionRepository) usageCount(ctx context.Context, q querier, promotionID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM promotion_order_association WHERE promotion_id=$1`
	if err := q.QueryRow(ctx, query, promotionID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UsageCount counts this promotion's usage-association rows.
func (r *PromotionRepository) UsageCount(ctx context.Context, promotionID int64) (int, error) {
	return r.usageCount(ctx, r.DB, promotionID)
}

// UsageCountTx is UsageCount inside the checkout transaction.
func (r *PromotionRepository) UsageCountTx(ctx context.Context, tx pgx.Tx, promotionID int64) (int, error) {
	return r.usageCount(ctx, tx, promotionID)
}

// InsertUsageTx records that the promotion was applied to an order.
func (r *PromotionRepository) InsertUsageTx(ctx context.Context, tx pgx.Tx, usage *model.PromotionUsage) error {
	query := `
		INSERT INTO promotion_order_association (promotion_id, order_id, discount_applied, eligible_items, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, query, usage.PromotionID, usage.OrderID, usage.DiscountApplied, usage.EligibleItems, time.Now())
	return err
}

// ------------------------------- administration -------------------------------

// CreatePromotion inserts a promotion and returns its id.
func (r *PromotionRepository) CreatePromotion(ctx context.Context, p *model.Promotion) (int64, error) {
	query := `
		INSERT INTO promotions (title, description, promo_code, discount_value, promotion_type, start_date, end_date, admin_id, image_url, max_discount, usage_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id int64
	err := r.DB.QueryRow(ctx, query,
		p.Title, p.Description, p.PromoCode, p.DiscountValue, p.PromotionType,
		p.StartDate, p.EndDate, p.AdminID, p.ImageURL, p.MaxDiscount, p.UsageLimit,
	).Scan(&id)
	return id, err
}

// UpdatePromotion overwrites the mutable promotion fields.
func (r *PromotionRepository) UpdatePromotion(ctx context.Context, p *model.Promotion) error {
	query := `
		UPDATE promotions
		SET title=$1, description=$2, discount_value=$3, promotion_type=$4, start_date=$5, end_date=$6, image_url=$7, max_discount=$8, usage_limit=$9
		WHERE id=$10
	`
	tag, err := r.DB.Exec(ctx, query,
		p.Title, p.Description, p.DiscountValue, p.PromotionType,
		p.StartDate, p.EndDate, p.ImageURL, p.MaxDiscount, p.UsageLimit, p.PromotionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("promotion")
	}
	return nil
}

// AddProducts associates products with the promotion (duplicates ignored).
func (r *PromotionRepository) AddProducts(ctx context.Context, promotionID int64, productIDs []int64) error {
	query := `
		INSERT INTO promotion_product_association (promotion_id, product_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for _, pid := range productIDs {
		if _, err := r.DB.Exec(ctx, query, promotionID, pid, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// AddCategories associates categories (by name) with the promotion.
func (r *PromotionRepository) AddCategories(ctx context.Context, promotionID int64, categoryNames []string) error {
	query := `
		INSERT INTO promotion_category_association (promotion_id, category_id, created_at)
		SELECT $1, id, $3 FROM product_categories WHERE name=$2
		ON CONFLICT DO NOTHING
	`
	for _, name := range categoryNames {
		if _, err := r.DB.Exec(ctx, query, promotionID, name, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns the promotion row for the given id
func (r *PromotionRepository) GetByID(ctx context.Context, promotionID int64) (*model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id=$1`
	p, err := scanPromotion(r.DB.QueryRow(ctx, query, promotionID))
	if err != nil {
		return nil, errs.NotFound("promotion")
	}
	return p, nil
}

// ListActive returns promotions whose window covers now.
func (r *PromotionRepository) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE start_date <= $1 AND end_date >= $1 ORDER BY end_date`
	rows, err := r.DB.Query(ctx, query, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
