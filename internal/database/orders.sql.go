package database

import (
	"context"

	"github.com/google/uuid"
)

const orderColumns = `id, restaurant_id, customer_name, order_type, table_number, subtotal, tax, total, payment_method, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.RestaurantID,
		&o.CustomerName,
		&o.OrderType,
		&o.TableNumber,
		&o.Subtotal,
		&o.Tax,
		&o.Total,
		&o.PaymentMethod,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

const listOrdersByRestaurant = `-- name: ListOrdersByRestaurant :many
SELECT ` + orderColumns + `
FROM orders
WHERE restaurant_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByRestaurant, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

type GetOrderParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1 AND restaurant_id = $2
LIMIT 1
`

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, arg.ID, arg.RestaurantID))
}

type UpdateOrderStatusParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Status       string
	Status_2     string
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND restaurant_id = $2 AND status = $4
RETURNING ` + orderColumns + `
`

// UpdateOrderStatus is a compare-and-set: it only fires when the row still
// holds the status the caller validated against, so a concurrent transition
// surfaces as pgx.ErrNoRows instead of silently double-applying.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.RestaurantID, arg.Status, arg.Status_2))
}

const listOrderItemsByOrder = `-- name: ListOrderItemsByOrder :many
SELECT id, order_id, name, price, quantity, image
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.Price, &it.Quantity, &it.Image); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const listStatusHistoryByOrder = `-- name: ListStatusHistoryByOrder :many
SELECT id, order_id, status, changed_at
FROM order_status_history
WHERE order_id = $1
ORDER BY changed_at
`

func (q *Queries) ListStatusHistoryByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderStatusHistory, error) {
	rows, err := q.db.Query(ctx, listStatusHistoryByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderStatusHistory
	for rows.Next() {
		var h OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.ChangedAt); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

type CreateStatusHistoryParams struct {
	OrderID uuid.UUID
	Status  string
}

const createStatusHistory = `-- name: CreateStatusHistory :one
INSERT INTO order_status_history (order_id, status)
VALUES ($1, $2)
RETURNING id, order_id, status, changed_at
`

func (q *Queries) CreateStatusHistory(ctx context.Context, arg CreateStatusHistoryParams) (OrderStatusHistory, error) {
	row := q.db.QueryRow(ctx, createStatusHistory, arg.OrderID, arg.Status)
	var h OrderStatusHistory
	err := row.Scan(&h.ID, &h.OrderID, &h.Status, &h.ChangedAt)
	return h, err
}
