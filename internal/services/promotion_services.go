package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/model"
	"github.com/DhanaNugraha/ruparawi-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Promotion rejection messages. Checkout treats these as hard failures,
// pre-checkout reports them softly alongside the undiscounted total.
const (
	MsgPromotionNotActive = "Promotion not active"
	MsgNoEligibleItems    = "No eligible items in cart"
	MsgUsageLimitReached  = "Promo usage limit reached"
)

// DiscountLine is one cart or order line as the discount engine sees it.
// Checkout and pre-checkout both reduce their items to this shape so the two
// paths compute identical figures.
type DiscountLine struct {
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
}

// EvaluationResult is the outcome of evaluating a promo code against a set of
// candidate lines. Valid=false carries the rejection message; it is the
// caller's decision whether that aborts (checkout) or not (pre-checkout).
type EvaluationResult struct {
	Valid           bool
	Message         string
	Promotion       *model.Promotion
	EligibleLines   []DiscountLine
	EligibleItemIDs []int64
}

// EvaluatePromotion decides activity window, eligible subset and usage-limit
// exhaustion. Pure: all storage state arrives as arguments.
func EvaluatePromotion(p *model.Promotion, eligibleProductIDs map[int64]bool, lines []DiscountLine, usageCount int, now time.Time) EvaluationResult {
	if !p.IsActiveAt(now) {
		return EvaluationResult{Message: MsgPromotionNotActive, Promotion: p}
	}

	var eligible []DiscountLine
	var ids []int64
	for _, line := range lines {
		if eligibleProductIDs[line.ProductID] {
			eligible = append(eligible, line)
			ids = append(ids, line.ProductID)
		}
	}
	if len(eligible) == 0 {
		return EvaluationResult{Message: MsgNoEligibleItems, Promotion: p}
	}

	// usage_limit = 0 is a hard-disable switch: immediately exhausted
	if p.UsageLimit != nil && usageCount >= *p.UsageLimit {
		return EvaluationResult{Message: MsgUsageLimitReached, Promotion: p}
	}

	return EvaluationResult{
		Valid:           true,
		Promotion:       p,
		EligibleLines:   eligible,
		EligibleItemIDs: ids,
	}
}

// ComputeDiscount computes the monetary discount for the eligible lines.
// percentage_discount: subtotal * value/100, capped by max_discount when set.
// fixed_discount: value per eligible line item, NOT per unit of quantity
// (a line with 5 units gets the same fixed amount as a line with 1; observed
// behavior, kept as is).
// The result is not rounded here; callers round to 2 places at the boundary.
func ComputeDiscount(p *model.Promotion, eligible []DiscountLine) decimal.Decimal {
	switch p.PromotionType {
	case model.PromotionTypePercentage:
		subtotal := decimal.Zero
		for _, line := range eligible {
			subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		discount := subtotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
		if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
			discount = *p.MaxDiscount
		}
		return discount
	case model.PromotionTypeFixed:
		return p.DiscountValue.Mul(decimal.NewFromInt(int64(len(eligible))))
	}
	return decimal.Zero
}

// ApplyDiscount clamps the post-discount total at zero; an oversized discount
// never drives the total negative.
func ApplyDiscount(total, discount decimal.Decimal) decimal.Decimal {
	clamped := total.Sub(discount)
	if clamped.IsNegative() {
		return decimal.Zero
	}
	return clamped
}

type PromotionService struct {
	Repo *repository.PromotionRepository
}

func NewPromotionService(r *repository.PromotionRepository) *PromotionService {
	return &PromotionService{Repo: r}
}

// Validate evaluates a promo code against candidate lines without taking any
// locks. Used by pre-checkout; an unknown code is still a hard error.
func (s *PromotionService) Validate(ctx context.Context, code string, lines []DiscountLine) (EvaluationResult, error) {
	promo, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		return EvaluationResult{}, err
	}

	eligibleIDs, err := s.Repo.EligibleProductIDs(ctx, promo.PromotionID)
	if err != nil {
		return EvaluationResult{}, err
	}

	usage, err := s.Repo.UsageCount(ctx, promo.PromotionID)
	if err != nil {
		return EvaluationResult{}, err
	}

	return EvaluatePromotion(promo, eligibleIDs, lines, usage, time.Now()), nil
}

// ValidateTx is Validate inside the checkout transaction. The promotion row
// lock it takes serializes the usage count against the usage insert, so two
// concurrent checkouts cannot both pass a usage_limit of 1.
func (s *PromotionService) ValidateTx(ctx context.Context, tx pgx.Tx, code string, lines []DiscountLine) (EvaluationResult, error) {
	promo, err := s.Repo.GetByCodeForUpdateTx(ctx, tx, code)
	if err != nil {
		return EvaluationResult{}, err
	}

	eligibleIDs, err := s.Repo.EligibleProductIDsTx(ctx, tx, promo.PromotionID)
	if err != nil {
		return EvaluationResult{}, err
	}

	usage, err := s.Repo.UsageCountTx(ctx, tx, promo.PromotionID)
	if err != nil {
		return EvaluationResult{}, err
	}

	return EvaluatePromotion(promo, eligibleIDs, lines, usage, time.Now()), nil
}

// ------------------------------- administration -------------------------------

func (s *PromotionService) Create(ctx context.Context, p *model.Promotion) (int64, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return 0, errors.New("title is required")
	}
	p.PromoCode = strings.ToUpper(strings.TrimSpace(p.PromoCode))
	if p.PromoCode == "" {
		return 0, errors.New("promo_code is required")
	}
	if p.PromotionType != model.PromotionTypePercentage && p.PromotionType != model.PromotionTypeFixed {
		return 0, errors.New("invalid promotion type")
	}
	if p.EndDate.Before(p.StartDate) {
		return 0, errors.New("end_date must not precede start_date")
	}
	return s.Repo.CreatePromotion(ctx, p)
}

func (s *PromotionService) Update(ctx context.Context, p *model.Promotion) error {
	if p.PromotionType != model.PromotionTypePercentage && p.PromotionType != model.PromotionTypeFixed {
		return errors.New("invalid promotion type")
	}
	if p.EndDate.Before(p.StartDate) {
		return errors.New("end_date must not precede start_date")
	}
	return s.Repo.UpdatePromotion(ctx, p)
}

func (s *PromotionService) AddProducts(ctx context.Context, promotionID int64, productIDs []int64) error {
	if _, err := s.Repo.GetByID(ctx, promotionID); err != nil {
		return err
	}
	return s.Repo.AddProducts(ctx, promotionID, productIDs)
}

func (s *PromotionService) AddCategories(ctx context.Context, promotionID int64, categoryNames []string) error {
	if _, err := s.Repo.GetByID(ctx, promotionID); err != nil {
		return err
	}
	return s.Repo.AddCategories(ctx, promotionID, categoryNames)
}

func (s *PromotionService) Get(ctx context.Context, promotionID int64) (*model.Promotion, error) {
	return s.Repo.GetByID(ctx, promotionID)
}

func (s *PromotionService) ListActive(ctx context.Context) ([]model.Promotion, error) {
	return s.Repo.ListActive(ctx, time.Now())
}
