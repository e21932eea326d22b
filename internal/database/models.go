package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	RestaurantID   pgtype.UUID
	CreatedAt      time.Time
}

type Restaurant struct {
	ID           uuid.UUID
	Name         string
	Introduction pgtype.Text
	Location     pgtype.Text
	Rating       float64
	OpeningTime  pgtype.Text
	ClosingTime  pgtype.Text
	Image        pgtype.Text
	Status       string
	CreatedAt    time.Time
}

type Category struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	CreatedAt    time.Time
}

type MenuItem struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Description  pgtype.Text
	Price        pgtype.Numeric
	Category     string
	Image        pgtype.Text
	Available    bool
	CreatedAt    time.Time
}

type Order struct {
	ID            uuid.UUID
	RestaurantID  uuid.UUID
	CustomerName  pgtype.Text
	OrderType     string
	TableNumber   pgtype.Text
	Subtotal      pgtype.Numeric
	Tax           pgtype.Numeric
	Total         pgtype.Numeric
	PaymentMethod pgtype.Text
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Name     string
	Price    pgtype.Numeric
	Quantity int32
	Image    pgtype.Text
}

type OrderStatusHistory struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    string
	ChangedAt time.Time
}
