package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, restaurant_id, name, description, price, category, image, available, created_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(
		&m.ID,
		&m.RestaurantID,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.Category,
		&m.Image,
		&m.Available,
		&m.CreatedAt,
	)
	return m, err
}

const listMenuItemsByRestaurant = `-- name: ListMenuItemsByRestaurant :many
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE restaurant_id = $1
ORDER BY created_at
`

func (q *Queries) ListMenuItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsByRestaurant, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type CreateMenuItemParams struct {
	RestaurantID uuid.UUID
	Name         string
	Description  pgtype.Text
	Price        pgtype.Numeric
	Category     string
	Image        pgtype.Text
	Available    bool
}

const createMenuItem = `-- name: CreateMenuItem :one
INSERT INTO menu_items (restaurant_id, name, description, price, category, image, available)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + menuItemColumns + `
`

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, createMenuItem,
		arg.RestaurantID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.Image,
		arg.Available,
	))
}

type UpdateMenuItemParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Description  pgtype.Text
	Price        pgtype.Numeric
	Category     string
	Image        pgtype.Text
	Available    bool
}

const updateMenuItem = `-- name: UpdateMenuItem :one
UPDATE menu_items
SET name = $3, description = $4, price = $5, category = $6, image = $7, available = $8
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + menuItemColumns + `
`

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, updateMenuItem,
		arg.ID,
		arg.RestaurantID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.Image,
		arg.Available,
	))
}

type DeleteMenuItemParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const deleteMenuItem = `-- name: DeleteMenuItem :one
DELETE FROM menu_items
WHERE id = $1 AND restaurant_id = $2
RETURNING id
`

func (q *Queries) DeleteMenuItem(ctx context.Context, arg DeleteMenuItemParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteMenuItem, arg.ID, arg.RestaurantID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
