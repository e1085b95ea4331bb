package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"grima/internal/domain"
	"grima/internal/errors"
)

const txTimeout = 5 * time.Second

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error)
	Update(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	Delete(ctx context.Context, tx *sql.Tx, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByCustomerID(ctx context.Context, customerID int) ([]domain.Order, error)
}

type ItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item *domain.Item) (uint, error)
	Update(ctx context.Context, tx *sql.Tx, item *domain.Item) error
	Delete(ctx context.Context, tx *sql.Tx, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	FindByProductID(ctx context.Context, orderID uint, productID int) ([]domain.Item, error)
	FindByName(ctx context.Context, orderID uint, name string) ([]domain.Item, error)
}

// OrderService owns the transaction boundaries around order and item
// persistence. Repositories never begin transactions themselves.
type OrderService struct {
	db        TransactionManager
	orderRepo OrderRepository
	itemRepo  ItemRepository
	logger    *zap.Logger
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	itemRepo ItemRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		logger:    logger,
	}
}

// CreateOrder persists the order and its items in a single transaction.
// A zero status defaults to PENDING and a zero total amount is derived from
// the item totals plus the shipping cost. Assigned ids are written back.
func (s *OrderService) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := validateStatus(order.Status, true); err != nil {
		s.logger.Warn("rejected order create", zap.Error(err))
		return err
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}
	if order.TotalAmount == 0 {
		order.TotalAmount = deriveTotalAmount(order)
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewInternalError("beginning transaction", err)
	}
	// Rollback is a no-op once the transaction has been committed.
	defer tx.Rollback()

	orderID, err := s.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		s.logger.Error("failed to insert order", zap.Error(err))
		return err
	}
	order.ID = orderID

	for i := range order.Items {
		order.Items[i].OrderID = orderID
		itemID, err := s.itemRepo.Insert(txCtx, tx, &order.Items[i])
		if err != nil {
			s.logger.Error("failed to insert order item", zap.Uint("orderId", orderID), zap.Error(err))
			return err
		}
		order.Items[i].ID = itemID
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return errors.NewInternalError("committing transaction", err)
	}

	s.logger.Info("order created",
		zap.Uint("orderId", orderID),
		zap.Int("customerId", order.CustomerID),
		zap.Int("itemCount", len(order.Items)))

	return nil
}

// UpdateOrder persists the order row and upserts its in-memory items: items
// with a zero id are inserted, the rest are updated. Removing an item goes
// through DeleteItem.
func (s *OrderService) UpdateOrder(ctx context.Context, order *domain.Order) error {
	if err := validateStatus(order.Status, false); err != nil {
		s.logger.Warn("rejected order update", zap.Uint("orderId", order.ID), zap.Error(err))
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewInternalError("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.Update(txCtx, tx, order); err != nil {
		s.logger.Error("failed to update order", zap.Uint("orderId", order.ID), zap.Error(err))
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if item.ID == 0 {
			itemID, err := s.itemRepo.Insert(txCtx, tx, item)
			if err != nil {
				s.logger.Error("failed to insert order item", zap.Uint("orderId", order.ID), zap.Error(err))
				return err
			}
			item.ID = itemID
			continue
		}
		if err := s.itemRepo.Update(txCtx, tx, item); err != nil {
			s.logger.Error("failed to update order item",
				zap.Uint("orderId", order.ID), zap.Uint("itemId", item.ID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", order.ID), zap.Error(err))
		return errors.NewInternalError("committing transaction", err)
	}

	s.logger.Info("order updated", zap.Uint("orderId", order.ID), zap.Int("itemCount", len(order.Items)))

	return nil
}

// DeleteOrder removes the order; its items go with it through the cascading
// foreign key.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewInternalError("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.Delete(txCtx, tx, id); err != nil {
		s.logger.Error("failed to delete order", zap.Uint("orderId", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", id), zap.Error(err))
		return errors.NewInternalError("committing transaction", err)
	}

	s.logger.Info("order deleted", zap.Uint("orderId", id))

	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

func (s *OrderService) FindOrdersByCustomerID(ctx context.Context, customerID int) ([]domain.Order, error) {
	return s.orderRepo.FindByCustomerID(ctx, customerID)
}

// AddItem persists a single item against its order. The assigned id is
// written back.
func (s *OrderService) AddItem(ctx context.Context, item *domain.Item) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewInternalError("beginning transaction", err)
	}
	defer tx.Rollback()

	itemID, err := s.itemRepo.Insert(txCtx, tx, item)
	if err != nil {
		s.logger.Error("failed to insert order item", zap.Uint("orderId", item.OrderID), zap.Error(err))
		return err
	}
	item.ID = itemID

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", item.OrderID), zap.Error(err))
		return errors.NewInternalError("committing transaction", err)
	}

	s.logger.Info("item added", zap.Uint("itemId", itemID), zap.Uint("orderId", item.OrderID))

	return nil
}

func (s *OrderService) UpdateItem(ctx context.Context, item *domain.Item) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewInternalError("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := s.itemRepo.Update(txCtx, tx, item); err != nil {
		s.logger.Error("failed to update order item", zap.Uint("itemId", item.ID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("itemId", item.ID), zap.Error(err))
		return errors.NewInternalError("committing transaction", err)
	}

	s.logger.Info("item updated", zap.Uint("itemId", item.ID), zap.Uint("orderId", item.OrderID))

	return nil
}

func (s *OrderService) DeleteItem(ctx context.Context, id uint) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewInternalError("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := s.itemRepo.Delete(txCtx, tx, id); err != nil {
		s.logger.Error("failed to delete order item", zap.Uint("itemId", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("itemId", id), zap.Error(err))
		return errors.NewInternalError("committing transaction", err)
	}

	s.logger.Info("item deleted", zap.Uint("itemId", id))

	return nil
}

func (s *OrderService) GetItem(ctx context.Context, id uint) (*domain.Item, error) {
	return s.itemRepo.FindByID(ctx, id)
}

func (s *OrderService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.FindAll(ctx)
}

func (s *OrderService) FindItemsByProductID(ctx context.Context, orderID uint, productID int) ([]domain.Item, error) {
	return s.itemRepo.FindByProductID(ctx, orderID, productID)
}

func (s *OrderService) FindItemsByName(ctx context.Context, orderID uint, name string) ([]domain.Item, error) {
	return s.itemRepo.FindByName(ctx, orderID, name)
}

func validateStatus(status string, allowEmpty bool) error {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusCreated, domain.OrderStatusCanceled:
		return nil
	case "":
		if allowEmpty {
			return nil
		}
	}
	return errors.NewValidationError("invalid order status", errors.ValidationDetail{
		Field:   "status",
		Message: fmt.Sprintf("unknown status %q", status),
	})
}

func deriveTotalAmount(order *domain.Order) float64 {
	total := order.ShippingCost
	for i := range order.Items {
		total += order.Items[i].TotalPrice
	}
	return total
}
