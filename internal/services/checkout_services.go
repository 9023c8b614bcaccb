package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/errs"
	"github.com/DhanaNugraha/ruparawi-backend/internal/model"
	"github.com/DhanaNugraha/ruparawi-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mailer sends the post-checkout confirmation email. Best effort, never part
// of the checkout transaction.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail, orderNumber, total string) error
}

// CheckoutRequest carries the validated checkout fields into the assembler.
type CheckoutRequest struct {
	ShippingAddressID int64
	BillingAddressID  *int64
	PaymentMethodID   int64
	Notes             *string
	PromotionCode     string
}

// PreCheckoutPreview is the read-only result of a pre-checkout run. When the
// promotion was rejected, Message carries the reason and the totals are
// undiscounted; this is still a success from the caller's point of view.
type PreCheckoutPreview struct {
	Title           string
	TotalPrice      string
	Discount        string
	EligibleItemIDs []int64
	Message         string
}

type CheckoutService struct {
	CartRepo    *repository.CartRepository
	ProductRepo *repository.ProductRepository
	OrderRepo   *repository.OrderRepository
	PromoSvc    *PromotionService
	Mailer      Mailer
}

func NewCheckoutService(
	cr *repository.CartRepository,
	pr *repository.ProductRepository,
	or *repository.OrderRepository,
	ps *PromotionService,
	mailer Mailer,
) *CheckoutService {
	return &CheckoutService{
		CartRepo:    cr,
		ProductRepo: pr,
		OrderRepo:   or,
		PromoSvc:    ps,
		Mailer:      mailer,
	}
}

// generateOrderNumber builds <YYMMDD><12 uppercase hex chars>, date-prefixed
// for sortability with a UUID-derived suffix.
func generateOrderNumber(now time.Time) string {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:]))[:12]
	return now.UTC().Format("060102") + suffix
}

func toDiscountLines(items []model.CartItemDetail) []DiscountLine {
	lines := make([]DiscountLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, DiscountLine{
			ProductID: it.ProductID,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return lines
}

// Checkout converts the user's cart into an order: per line it re-verifies
// stock under a row lock, snapshots the unit price, reserves stock and
// consumes the cart line; then it applies the promotion (hard failure if the
// code does not validate), records the usage row and the initial history
// entry. Everything runs in one transaction; any failure rolls the whole
// checkout back, stock decrements included.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, email string, req CheckoutRequest) (*model.OrderDetail, *model.AppliedPromotion, error) {
	cart, err := s.CartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.CartRepo.DB.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// the cart is read inside the transaction so a concurrent quantity
	// update cannot slip between the read and the stock reservation
	items, err := s.CartRepo.GetItemsWithProductsTx(ctx, tx, cart.CartID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, &errs.ValidationError{Message: "cart is empty"}
	}

	// candidate lines for the promotion, captured before the cart is consumed
	lines := toDiscountLines(items)

	order := &model.Order{
		UserID:            userID,
		OrderNumber:       generateOrderNumber(time.Now()),
		Status:            model.OrderStatusPending,
		TotalAmount:       decimal.Zero,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethodID:   req.PaymentMethodID,
		PaymentStatus:     model.PaymentStatusPending,
		Notes:             req.Notes,
	}
	if err := s.OrderRepo.CreateOrderTx(ctx, tx, order); err != nil {
		return nil, nil, err
	}

	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		product, err := s.ProductRepo.GetForUpdateTx(ctx, tx, it.ProductID)
		if err != nil {
			return nil, nil, errs.NotFound("product")
		}

		if reason, ok := VerifyStock(product, it.Quantity); !ok {
			return nil, nil, &errs.StockError{ProductID: product.ID, ProductName: product.Name, Issue: reason}
		}

		orderItem := model.OrderItem{
			OrderID:    order.OrderID,
			ProductID:  product.ID,
			Quantity:   it.Quantity,
			UnitPrice:  product.Price,
			TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			VendorID:   product.VendorID,
		}
		if err := s.OrderRepo.InsertItemTx(ctx, tx, &orderItem); err != nil {
			return nil, nil, err
		}

		if err := s.ProductRepo.ReserveStockTx(ctx, tx, product.ID, it.Quantity); err != nil {
			return nil, nil, err
		}

		total = total.Add(orderItem.TotalPrice)
		orderItems = append(orderItems, orderItem)

		if err := s.CartRepo.RemoveItemTx(ctx, tx, it.CartItemID); err != nil {
			return nil, nil, err
		}
	}

	var applied *model.AppliedPromotion
	if req.PromotionCode != "" {
		result, err := s.PromoSvc.ValidateTx(ctx, tx, req.PromotionCode, lines)
		if err != nil {
			return nil, nil, err
		}
		if !result.Valid {
			return nil, nil, &errs.PromotionError{Message: result.Message}
		}

		eligible := make(map[int64]bool, len(result.EligibleItemIDs))
		for _, id := range result.EligibleItemIDs {
			eligible[id] = true
		}
		var eligibleOrderLines []DiscountLine
		for _, oi := range orderItems {
			if eligible[oi.ProductID] {
				eligibleOrderLines = append(eligibleOrderLines, DiscountLine{
					ProductID: oi.ProductID,
					UnitPrice: oi.UnitPrice,
					Quantity:  oi.Quantity,
				})
			}
		}

		discount := ComputeDiscount(result.Promotion, eligibleOrderLines).Round(2)
		total = ApplyDiscount(total, discount)

		serialized, err := json.Marshal(result.EligibleItemIDs)
		if err != nil {
			return nil, nil, err
		}
		usage := &model.PromotionUsage{
			PromotionID:     result.Promotion.PromotionID,
			OrderID:         order.OrderID,
			DiscountApplied: discount,
			EligibleItems:   string(serialized),
		}
		if err := s.PromoSvc.Repo.InsertUsageTx(ctx, tx, usage); err != nil {
			return nil, nil, err
		}

		applied = &model.AppliedPromotion{
			Title:           result.Promotion.Title,
			Discount:        discount.StringFixed(2),
			EligibleItemIDs: result.EligibleItemIDs,
		}
	}

	order.TotalAmount = total.Round(2)
	if err := s.OrderRepo.UpdateTotalTx(ctx, tx, order.OrderID, order.TotalAmount); err != nil {
		return nil, nil, err
	}

	notes := "Order created from cart"
	history := &model.OrderStatusHistory{
		OrderID:   order.OrderID,
		Status:    model.OrderStatusPending,
		ChangedBy: userID,
		Notes:     &notes,
	}
	if err := s.OrderRepo.InsertStatusHistoryTx(ctx, tx, history); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if s.Mailer != nil && email != "" {
		go func(orderNumber, totalStr string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Mailer.SendOrderConfirmation(sendCtx, email, orderNumber, totalStr); err != nil {
				log.Printf("order confirmation email for %s failed: %v", orderNumber, err)
			}
		}(order.OrderNumber, order.TotalAmount.StringFixed(2))
	}

	detail := &model.OrderDetail{
		Order:         *order,
		Items:         orderItems,
		StatusHistory: []model.OrderStatusHistory{*history},
	}
	return detail, applied, nil
}

// PreCheckout computes what checkout would charge without persisting anything.
// A rejected promotion is reported softly (Message set, total undiscounted);
// only an unknown code or a storage failure is an error.
func (s *CheckoutService) PreCheckout(ctx context.Context, userID int64, promotionCode string) (*PreCheckoutPreview, error) {
	cart, err := s.CartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.CartRepo.GetItemsWithProducts(ctx, cart.CartID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	subtotal = subtotal.Round(2)

	preview := &PreCheckoutPreview{
		TotalPrice: subtotal.StringFixed(2),
		Discount:   decimal.Zero.StringFixed(2),
	}
	if promotionCode == "" {
		return preview, nil
	}

	result, err := s.PromoSvc.Validate(ctx, promotionCode, toDiscountLines(items))
	if err != nil {
		return nil, err
	}
	preview.Title = result.Promotion.Title

	if !result.Valid {
		preview.Message = result.Message
		return preview, nil
	}

	discount := ComputeDiscount(result.Promotion, result.EligibleLines).Round(2)
	preview.Discount = discount.StringFixed(2)
	preview.TotalPrice = ApplyDiscount(subtotal, discount).Round(2).StringFixed(2)
	preview.EligibleItemIDs = result.EligibleItemIDs
	return preview, nil
}
