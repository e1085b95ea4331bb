package repository

import (
	"context"
	"database/sql"
	"fmt"

	"grima/internal/domain"
	"grima/internal/errors"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

const itemColumns = `id, orderId, productId, name, quantity, unitPrice, totalPrice, description`

func (r *MySQLItemRepository) Insert(ctx context.Context, tx *sql.Tx, item *domain.Item) (uint, error) {
	query := `
		INSERT INTO OrderItems (orderId, productId, name, quantity, unitPrice, totalPrice, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.OrderID, item.ProductID, item.Name, item.Quantity,
		item.UnitPrice, item.TotalPrice, item.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLItemRepository) Update(ctx context.Context, tx *sql.Tx, item *domain.Item) error {
	query := `
		UPDATE OrderItems
		SET productId = ?, name = ?, quantity = ?, unitPrice = ?, totalPrice = ?, description = ?
		WHERE id = ? AND orderId = ?
	`

	result, err := tx.ExecContext(ctx, query,
		item.ProductID, item.Name, item.Quantity, item.UnitPrice,
		item.TotalPrice, item.Description, item.ID, item.OrderID,
	)
	if err != nil {
		return fmt.Errorf("updating order item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	// Zero affected rows also happens when nothing changed, so confirm the
	// row is actually missing before reporting not found.
	if rowsAffected == 0 {
		exists, err := r.exists(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError(fmt.Sprintf("item with id %d not found", item.ID))
		}
	}

	return nil
}

func (r *MySQLItemRepository) Delete(ctx context.Context, tx *sql.Tx, id uint) error {
	query := `DELETE FROM OrderItems WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting order item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("item with id %d not found", id))
	}

	return nil
}

func (r *MySQLItemRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM OrderItems WHERE id = ?`

	var item domain.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.Name,
		&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Description,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("item with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order item by id: %w", err)
	}

	return &item, nil
}

func (r *MySQLItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM OrderItems ORDER BY id`

	return r.queryItems(ctx, query)
}

// FindByProductID returns the items of an order matching the given product.
func (r *MySQLItemRepository) FindByProductID(ctx context.Context, orderID uint, productID int) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM OrderItems WHERE orderId = ? AND productId = ? ORDER BY id`

	return r.queryItems(ctx, query, orderID, productID)
}

// FindByName returns the items of an order whose name contains the given
// fragment, case-insensitively.
func (r *MySQLItemRepository) FindByName(ctx context.Context, orderID uint, name string) ([]domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM OrderItems
		WHERE orderId = ? AND LOWER(name) LIKE CONCAT('%', LOWER(?), '%')
		ORDER BY id
	`

	return r.queryItems(ctx, query, orderID, name)
}

func (r *MySQLItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func (r *MySQLItemRepository) exists(ctx context.Context, tx *sql.Tx, id uint) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM OrderItems WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking item existence: %w", err)
	}
	return true, nil
}
