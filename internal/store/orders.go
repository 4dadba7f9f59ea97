package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// InsertOrder inserts an order and scans the generated columns back.
func (s *Store) InsertOrder(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (status, total_amount, address, phone, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return tx.QueryRowxContext(ctx, query,
		order.Status, order.TotalAmount, order.Address, order.Phone, order.UserID,
	).Scan(&order.ID, &order.CreatedAt)
}

// InsertOrderItem inserts one order position with its price snapshot.
func (s *Store) InsertOrderItem(ctx context.Context, tx *sqlx.Tx, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (quantity, price, order_id, product_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return tx.GetContext(ctx, &item.ID, query,
		item.Quantity, item.Price, item.OrderID, item.ProductID)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate loads an order inside tx with a row lock.
func (s *Store) GetOrderForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Order, error) {
	var order models.Order
	err := tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// ListOrdersByUserID retrieves a page of a user's orders in storage order.
func (s *Store) ListOrdersByUserID(ctx context.Context, userID int64, skip, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY id OFFSET $2 LIMIT $3",
		userID, skip, limit)
	return orders, err
}

// UpdateOrder writes the mutable order fields back. Item rows are never
// touched here: their prices are immutable snapshots.
func (s *Store) UpdateOrder(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, address = $2, phone = $3 WHERE id = $4",
		order.Status, order.Address, order.Phone, order.ID)
	return err
}
