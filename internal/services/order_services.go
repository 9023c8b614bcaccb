package services

import (
	"context"

	"github.com/DhanaNugraha/ruparawi-backend/internal/errs"
	"github.com/DhanaNugraha/ruparawi-backend/internal/model"
	"github.com/DhanaNugraha/ruparawi-backend/internal/repository"
)

type OrderService struct {
	Repo *repository.OrderRepository
}

func NewOrderService(r *repository.OrderRepository) *OrderService {
	return &OrderService{Repo: r}
}

// Get returns the user's order with items and history; someone else's order
// number is NotFound.
func (s *OrderService) Get(ctx context.Context, userID int64, orderNumber string) (*model.OrderDetail, error) {
	return s.Repo.GetByNumber(ctx, userID, orderNumber)
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// UpdateStatus writes a new status and appends exactly one history row, in
// one transaction. Any recognized status may be written; the history trail is
// the audit record, not a transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, userID int64, orderNumber, status string, notes *string) (*model.OrderDetail, error) {
	if !model.IsValidOrderStatus(status) {
		return nil, &errs.ValidationError{Message: "invalid order status"}
	}

	orderID, err := s.Repo.GetIDByNumber(ctx, userID, orderNumber)
	if err != nil {
		return nil, err
	}

	tx, err := s.Repo.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.Repo.UpdateStatusTx(ctx, tx, orderID, status); err != nil {
		return nil, err
	}

	history := &model.OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		ChangedBy: userID,
		Notes:     notes,
	}
	if err := s.Repo.InsertStatusHistoryTx(ctx, tx, history); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.Repo.GetByNumber(ctx, userID, orderNumber)
}
