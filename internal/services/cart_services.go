package services

import (
	"context"
	"errors"

	"github.com/DhanaNugraha/ruparawi-backend/internal/errs"
	"github.com/DhanaNugraha/ruparawi-backend/internal/model"
	"github.com/DhanaNugraha/ruparawi-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type CartService struct {
	Repo        *repository.CartRepository
	ProductRepo *repository.ProductRepository
}

func NewCartService(r *repository.CartRepository, pr *repository.ProductRepository) *CartService {
	return &CartService{Repo: r, ProductRepo: pr}
}

// AddItem puts quantity units of a product into the user's cart, merging into
// the existing line when the product is already there. The stock check here is
// advisory (it keeps obviously unfillable lines out of carts); checkout
// re-verifies under lock.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be >= 1")
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, errs.NotFound("product")
	}
	if product.StockQuantity < quantity {
		return nil, &errs.StockError{ProductID: product.ID, ProductName: product.Name, Issue: ReasonNotEnoughStock}
	}

	return s.Repo.AddOrIncrementItem(ctx, cart.CartID, productID, quantity)
}

// UpdateItemQuantity sets the exact quantity of an existing cart line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID int64, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be >= 1")
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, errs.NotFound("product")
	}
	if product.StockQuantity < quantity {
		return nil, &errs.StockError{ProductID: product.ID, ProductName: product.Name, Issue: ReasonNotEnoughStock}
	}

	return s.Repo.SetItemQuantity(ctx, cart.CartID, productID, quantity)
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.RemoveItem(ctx, cart.CartID, productID)
}

// Get returns the cart with its items (product name, price, primary image)
// and the running total.
func (s *CartService) Get(ctx context.Context, userID int64) (*model.CartResponse, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.GetItemsWithProducts(ctx, cart.CartID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItemDetail{}
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}

	return &model.CartResponse{
		CartID: cart.CartID,
		Items:  items,
		Total:  total.StringFixed(2),
	}, nil
}
