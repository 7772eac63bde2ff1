package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pedrolvck/vendrix/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage describes the methods for working with orders. The order and
// its items are written through the caller's transaction so that a partially
// written order is never visible to concurrent readers.
type OrderStorage interface {
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	CreateOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error
	SetPaymentSession(ctx context.Context, orderID, sessionID string) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		order.ID, order.UserID, order.Status, order.Total)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) CreateOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error {
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

func (r *orderRepository) SetPaymentSession(ctx context.Context, orderID, sessionID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET payment_session_id = $1, updated_at = NOW() WHERE id = $2",
		sessionID, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	var sessionID sql.NullString
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, total, payment_session_id, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	if err := row.Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &sessionID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if sessionID.Valid {
		order.PaymentSessionID = &sessionID.String
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, status, total, payment_session_id, created_at, updated_at
		 FROM orders WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		var sessionID sql.NullString
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &sessionID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		if sessionID.Valid {
			order.PaymentSessionID = &sessionID.String
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.getItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, price
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
