package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Errors returned by the order service.
var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrStatusConflict    = errors.New("order status changed, please retry")
	ErrOrderNotFound     = errors.New("order not found")
)

// Transitions is the order lifecycle table: current status to the set of
// statuses it may move to. It is the single authority for both the API and
// the management UI; terminal statuses are absent (empty allowed set).
var Transitions = map[string][]string{
	enum.OrderStatusPending:   {enum.OrderStatusApproved, enum.OrderStatusRejected, enum.OrderStatusCancelled},
	enum.OrderStatusApproved:  {enum.OrderStatusPreparing, enum.OrderStatusCancelled},
	enum.OrderStatusPreparing: {enum.OrderStatusReady, enum.OrderStatusCancelled},
	enum.OrderStatusReady:     {enum.OrderStatusCompleted},
}

// IsValidStatus reports whether s is a member of the order status set.
func IsValidStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusApproved, enum.OrderStatusPreparing,
		enum.OrderStatusReady, enum.OrderStatusCompleted, enum.OrderStatusRejected,
		enum.OrderStatusCancelled:
		return true
	}
	return false
}

// AllowedNext returns the statuses an order may transition to from current.
// Terminal statuses return an empty slice.
func AllowedNext(current string) []string {
	return Transitions[current]
}

// ValidateTransition checks the table for current -> next.
func ValidateTransition(current, next string) error {
	allowed, ok := Transitions[current]
	if !ok {
		return fmt.Errorf("%w: cannot transition from %s", ErrIllegalTransition, current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrIllegalTransition, current, next)
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to move an order through its
// lifecycle. Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CreateStatusHistory(ctx context.Context, arg database.CreateStatusHistoryParams) (database.OrderStatusHistory, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService applies order status transitions.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// UpdateStatus validates and applies a transition atomically: the guarded
// UPDATE only fires while the order still holds the status we validated
// against, and the history row is appended in the same transaction. The
// returned order is the server's post-transition representation.
func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, target string) (database.Order, error) {
	if !IsValidStatus(target) {
		return database.Order{}, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	current, err := store.GetOrder(ctx, database.GetOrderParams{
		ID:           orderID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	if err := ValidateTransition(current.Status, target); err != nil {
		return database.Order{}, err
	}

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:           orderID,
		RestaurantID: restaurantID,
		Status:       target,
		Status_2:     current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Status moved between our read and write.
			return database.Order{}, ErrStatusConflict
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if _, err := store.CreateStatusHistory(ctx, database.CreateStatusHistoryParams{
		OrderID: orderID,
		Status:  target,
	}); err != nil {
		return database.Order{}, fmt.Errorf("append status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	return updated, nil
}
