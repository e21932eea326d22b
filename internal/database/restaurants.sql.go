package database

import (
	"context"

	"github.com/google/uuid"
)

const restaurantColumns = `id, name, introduction, location, rating, opening_time, closing_time, image, status, created_at`

func scanRestaurant(row interface{ Scan(...interface{}) error }) (Restaurant, error) {
	var r Restaurant
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Introduction,
		&r.Location,
		&r.Rating,
		&r.OpeningTime,
		&r.ClosingTime,
		&r.Image,
		&r.Status,
		&r.CreatedAt,
	)
	return r, err
}

const getRestaurant = `-- name: GetRestaurant :one
SELECT ` + restaurantColumns + `
FROM restaurants
WHERE id = $1
LIMIT 1
`

func (q *Queries) GetRestaurant(ctx context.Context, id uuid.UUID) (Restaurant, error) {
	return scanRestaurant(q.db.QueryRow(ctx, getRestaurant, id))
}

const listRestaurants = `-- name: ListRestaurants :many
SELECT ` + restaurantColumns + `
FROM restaurants
ORDER BY created_at DESC
`

func (q *Queries) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := q.db.Query(ctx, listRestaurants)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listRestaurantsByStatus = `-- name: ListRestaurantsByStatus :many
SELECT ` + restaurantColumns + `
FROM restaurants
WHERE status = $1
ORDER BY created_at DESC
`

func (q *Queries) ListRestaurantsByStatus(ctx context.Context, status string) ([]Restaurant, error) {
	rows, err := q.db.Query(ctx, listRestaurantsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

type UpdateRestaurantStatusParams struct {
	ID     uuid.UUID
	Status string
}

const updateRestaurantStatus = `-- name: UpdateRestaurantStatus :one
UPDATE restaurants
SET status = $2
WHERE id = $1
RETURNING ` + restaurantColumns + `
`

func (q *Queries) UpdateRestaurantStatus(ctx context.Context, arg UpdateRestaurantStatusParams) (Restaurant, error) {
	return scanRestaurant(q.db.QueryRow(ctx, updateRestaurantStatus, arg.ID, arg.Status))
}

type ApprovePendingRestaurantParams struct {
	ID     uuid.UUID
	Status string
}

const approvePendingRestaurant = `-- name: ApprovePendingRestaurant :one
UPDATE restaurants
SET status = $2
WHERE id = $1 AND status = 'pending'
RETURNING ` + restaurantColumns + `
`

// ApprovePendingRestaurant only fires while the restaurant is still pending,
// so two concurrent reviewers cannot both resolve the same registration.
func (q *Queries) ApprovePendingRestaurant(ctx context.Context, arg ApprovePendingRestaurantParams) (Restaurant, error) {
	return scanRestaurant(q.db.QueryRow(ctx, approvePendingRestaurant, arg.ID, arg.Status))
}
