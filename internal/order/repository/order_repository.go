package repository

import (
	"context"
	"database/sql"
	"fmt"

	"grima/internal/domain"
	"grima/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customerId, orderDate, status, shippingAddress,
	       totalAmount, paymentMethod, shippingCost, expectedDate, orderNotes,
	       createdAt, updatedAt`

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (customerId, orderDate, status, shippingAddress,
		                    totalAmount, paymentMethod, shippingCost, expectedDate, orderNotes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.CustomerID, order.OrderDate, order.Status, order.ShippingAddress,
		order.TotalAmount, order.PaymentMethod, order.ShippingCost,
		order.ExpectedDate, order.OrderNotes,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) Update(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		UPDATE Orders
		SET customerId = ?, orderDate = ?, status = ?, shippingAddress = ?,
		    totalAmount = ?, paymentMethod = ?, shippingCost = ?, expectedDate = ?, orderNotes = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		order.CustomerID, order.OrderDate, order.Status, order.ShippingAddress,
		order.TotalAmount, order.PaymentMethod, order.ShippingCost,
		order.ExpectedDate, order.OrderNotes, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	// MySQL reports zero affected rows for no-op updates as well, so a zero
	// count alone cannot distinguish a missing row from unchanged values.
	if rowsAffected == 0 {
		exists, err := r.exists(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", order.ID))
		}
	}

	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, tx *sql.Tx, id uint) error {
	query := `DELETE FROM Orders WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// FindByID returns the order together with its item collection.
func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.OrderDate, &order.Status, &order.ShippingAddress,
		&order.TotalAmount, &order.PaymentMethod, &order.ShippingCost,
		&order.ExpectedDate, &order.OrderNotes, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders ORDER BY id`

	return r.queryOrders(ctx, query)
}

func (r *MySQLOrderRepository) FindByCustomerID(ctx context.Context, customerID int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE customerId = ? ORDER BY id`

	return r.queryOrders(ctx, query, customerID)
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.CustomerID, &order.OrderDate, &order.Status, &order.ShippingAddress,
			&order.TotalAmount, &order.PaymentMethod, &order.ShippingCost,
			&order.ExpectedDate, &order.OrderNotes, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *MySQLOrderRepository) loadItems(ctx context.Context, orderID uint) ([]domain.Item, error) {
	query := `
		SELECT id, orderId, productId, name, quantity, unitPrice, totalPrice, description
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}

	return items, nil
}

func (r *MySQLOrderRepository) exists(ctx context.Context, tx *sql.Tx, id uint) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM Orders WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking order existence: %w", err)
	}
	return true, nil
}
