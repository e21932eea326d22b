package database

import (
	"context"

	"github.com/google/uuid"
)

const listCategoriesByRestaurant = `-- name: ListCategoriesByRestaurant :many
SELECT id, restaurant_id, name, created_at
FROM categories
WHERE restaurant_id = $1
ORDER BY created_at
`

func (q *Queries) ListCategoriesByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategoriesByRestaurant, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type CreateCategoryParams struct {
	RestaurantID uuid.UUID
	Name         string
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (restaurant_id, name)
VALUES ($1, $2)
RETURNING id, restaurant_id, name, created_at
`

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, arg.RestaurantID, arg.Name)
	var c Category
	err := row.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.CreatedAt)
	return c, err
}

type DeleteCategoryParams struct {
	RestaurantID uuid.UUID
	Name         string
}

const deleteCategory = `-- name: DeleteCategory :one
DELETE FROM categories
WHERE restaurant_id = $1 AND name = $2
RETURNING id
`

func (q *Queries) DeleteCategory(ctx context.Context, arg DeleteCategoryParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteCategory, arg.RestaurantID, arg.Name)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

type CategoryExistsParams struct {
	RestaurantID uuid.UUID
	Name         string
}

const categoryExists = `-- name: CategoryExists :one
SELECT EXISTS (
	SELECT 1 FROM categories
	WHERE restaurant_id = $1 AND name = $2
)
`

func (q *Queries) CategoryExists(ctx context.Context, arg CategoryExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, categoryExists, arg.RestaurantID, arg.Name)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
