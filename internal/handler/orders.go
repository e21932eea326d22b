package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/middleware"
	"github.com/dinehub/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, target string) (database.Order, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries.
type OrderStore interface {
	ListOrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListStatusHistoryByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderStatusHistory, error)
}

// StatusNotifier pushes order lifecycle events to connected management
// clients. Satisfied by *ws.Hub; nil disables notifications.
type StatusNotifier interface {
	NotifyOrderStatus(restaurantID uuid.UUID, payload interface{})
}

// OrderHandler handles order endpoints for the authenticated restaurant.
type OrderHandler struct {
	svc      OrderServicer
	store    OrderStore
	notifier StatusNotifier
}

func NewOrderHandler(svc OrderServicer, store OrderStore, notifier StatusNotifier) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, notifier: notifier}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/order/restaurant", h.List)
	r.Put("/order/status", h.UpdateStatus)
}

// --- Request / Response types ---

type updateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type orderResponse struct {
	ID            uuid.UUID             `json:"id"`
	CustomerName  *string               `json:"customerName"`
	OrderType     string                `json:"orderType"`
	TableNumber   *string               `json:"tableNumber"`
	Items         []orderItemResponse   `json:"items"`
	Subtotal      string                `json:"subtotal"`
	Tax           string                `json:"tax"`
	Total         string                `json:"total"`
	PaymentMethod *string               `json:"paymentMethod"`
	Status        string                `json:"status"`
	StatusHistory []statusHistoryEntry  `json:"statusHistory"`
	AllowedNext   []string              `json:"allowedNext"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type orderItemResponse struct {
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	Quantity int32   `json:"quantity"`
	Image    *string `json:"image"`
}

type statusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// --- Handlers ---

// List handles GET /order/restaurant. Orders come back newest first with
// their items and full status history embedded, plus the allowed next
// statuses so the management view only renders legal actions.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orders, err := h.store.ListOrdersByRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		full, err := h.loadOrderDetail(r.Context(), o)
		if err != nil {
			log.Printf("ERROR: load order detail: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp[i] = full
	}

	writeData(w, http.StatusOK, resp)
}

// UpdateStatus handles PUT /order/status. The transition is validated and
// applied atomically by the service; the response body is the server's
// post-transition order, which the client adopts as-is.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OrderID == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "orderId and status are required")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	updated, err := h.svc.UpdateStatus(r.Context(), claims.RestaurantID, orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid status")
		case errors.Is(err, service.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrIllegalTransition):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrStatusConflict):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("ERROR: update order status: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	full, err := h.loadOrderDetail(r.Context(), updated)
	if err != nil {
		log.Printf("ERROR: load order detail after update: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyOrderStatus(claims.RestaurantID, map[string]interface{}{
			"type":    "order.status_updated",
			"orderId": updated.ID,
			"status":  updated.Status,
		})
	}

	writeData(w, http.StatusOK, full)
}

// --- Helpers ---

func (h *OrderHandler) loadOrderDetail(ctx context.Context, o database.Order) (orderResponse, error) {
	items, err := h.store.ListOrderItemsByOrder(ctx, o.ID)
	if err != nil {
		return orderResponse{}, err
	}

	history, err := h.store.ListStatusHistoryByOrder(ctx, o.ID)
	if err != nil {
		return orderResponse{}, err
	}

	resp := dbOrderToResponse(o)
	resp.Items = make([]orderItemResponse, len(items))
	for i, it := range items {
		resp.Items[i] = orderItemResponse{
			Name:     it.Name,
			Price:    numericToString(it.Price),
			Quantity: it.Quantity,
			Image:    textOrNil(it.Image),
		}
	}
	resp.StatusHistory = make([]statusHistoryEntry, len(history))
	for i, hrow := range history {
		resp.StatusHistory[i] = statusHistoryEntry{Status: hrow.Status, Timestamp: hrow.ChangedAt}
	}
	return resp, nil
}

func dbOrderToResponse(o database.Order) orderResponse {
	allowed := service.AllowedNext(o.Status)
	if allowed == nil {
		allowed = []string{}
	}
	return orderResponse{
		ID:            o.ID,
		CustomerName:  textOrNil(o.CustomerName),
		OrderType:     o.OrderType,
		TableNumber:   textOrNil(o.TableNumber),
		Subtotal:      numericToString(o.Subtotal),
		Tax:           numericToString(o.Tax),
		Total:         numericToString(o.Total),
		PaymentMethod: textOrNil(o.PaymentMethod),
		Status:        o.Status,
		AllowedNext:   allowed,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
