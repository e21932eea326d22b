package handler_test

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/handler"
	"github.com/dinehub/api/internal/middleware"
	"github.com/dinehub/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func testNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

// --- Mocks ---

type mockOrderReadStore struct {
	orders  map[uuid.UUID]database.Order
	items   map[uuid.UUID][]database.OrderItem
	history map[uuid.UUID][]database.OrderStatusHistory
}

func newMockOrderReadStore() *mockOrderReadStore {
	return &mockOrderReadStore{
		orders:  make(map[uuid.UUID]database.Order),
		items:   make(map[uuid.UUID][]database.OrderItem),
		history: make(map[uuid.UUID][]database.OrderStatusHistory),
	}
}

func (m *mockOrderReadStore) ListOrdersByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]database.Order, error) {
	var result []database.Order
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockOrderReadStore) ListOrderItemsByOrder(_ context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderReadStore) ListStatusHistoryByOrder(_ context.Context, orderID uuid.UUID) ([]database.OrderStatusHistory, error) {
	return m.history[orderID], nil
}

func (m *mockOrderReadStore) addOrder(restaurantID uuid.UUID, status string, total int64, createdAt time.Time) database.Order {
	o := database.Order{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		OrderType:    "dine-in",
		Total:        testNumeric(decimal.NewFromInt(total).String()),
		Status:       status,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	m.orders[o.ID] = o
	m.history[o.ID] = []database.OrderStatusHistory{
		{ID: uuid.New(), OrderID: o.ID, Status: "pending", ChangedAt: createdAt},
	}
	return o
}

// mockOrderServicer records UpdateStatus calls and returns canned results.
type mockOrderServicer struct {
	updateFn func(ctx context.Context, restaurantID, orderID uuid.UUID, target string) (database.Order, error)
	calls    int
}

func (m *mockOrderServicer) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, target string) (database.Order, error) {
	m.calls++
	return m.updateFn(ctx, restaurantID, orderID, target)
}

// mockNotifier records broadcast payloads.
type mockNotifier struct {
	restaurantIDs []uuid.UUID
	payloads      []interface{}
}

func (m *mockNotifier) NotifyOrderStatus(restaurantID uuid.UUID, payload interface{}) {
	m.restaurantIDs = append(m.restaurantIDs, restaurantID)
	m.payloads = append(m.payloads, payload)
}

// --- Helpers ---

func setupOrderRouter(svc handler.OrderServicer, store *mockOrderReadStore, notifier handler.StatusNotifier) *chi.Mux {
	h := handler.NewOrderHandler(svc, store, notifier)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	h.RegisterRoutes(r)
	return r
}

// --- List tests ---

func TestOrderList_NewestFirstWithDetail(t *testing.T) {
	store := newMockOrderReadStore()
	restaurantID := uuid.New()

	older := store.addOrder(restaurantID, "pending", 100, time.Now().Add(-time.Hour))
	newer := store.addOrder(restaurantID, "approved", 200, time.Now())
	store.addOrder(uuid.New(), "pending", 999, time.Now()) // another restaurant

	store.items[newer.ID] = []database.OrderItem{
		{ID: uuid.New(), OrderID: newer.ID, Name: "Masala Dosa", Price: testNumeric("90"), Quantity: 2},
	}

	router := setupOrderRouter(&mockOrderServicer{}, store, nil)
	rr := doAuthRequest(t, router, "GET", "/order/restaurant", nil, restaurantClaims(restaurantID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	data, ok := resp["data"].([]interface{})
	if !ok {
		t.Fatalf("data: got %v, want array", resp["data"])
	}
	if len(data) != 2 {
		t.Fatalf("orders: got %d, want 2", len(data))
	}

	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	if first["id"] != newer.ID.String() {
		t.Errorf("first order: got %v, want newest %s", first["id"], newer.ID)
	}
	if second["id"] != older.ID.String() {
		t.Errorf("second order: got %v, want %s", second["id"], older.ID)
	}

	items := first["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["name"] != "Masala Dosa" || item["price"] != "90.00" {
		t.Errorf("item: got %v", item)
	}

	history := first["statusHistory"].([]interface{})
	if len(history) != 1 {
		t.Errorf("status history: got %d entries, want 1", len(history))
	}
}

func TestOrderList_AllowedNextExposed(t *testing.T) {
	store := newMockOrderReadStore()
	restaurantID := uuid.New()
	store.addOrder(restaurantID, "completed", 100, time.Now())

	router := setupOrderRouter(&mockOrderServicer{}, store, nil)
	rr := doAuthRequest(t, router, "GET", "/order/restaurant", nil, restaurantClaims(restaurantID))

	resp := decodeResponse(t, rr)
	data := resp["data"].([]interface{})
	order := data[0].(map[string]interface{})

	allowed, ok := order["allowedNext"].([]interface{})
	if !ok {
		t.Fatalf("allowedNext: got %v, want array", order["allowedNext"])
	}
	if len(allowed) != 0 {
		t.Errorf("terminal order allowedNext: got %v, want empty", allowed)
	}
}

func TestOrderList_Unauthenticated(t *testing.T) {
	store := newMockOrderReadStore()
	router := setupOrderRouter(&mockOrderServicer{}, store, nil)

	rr := doRequest(t, router, "GET", "/order/restaurant", nil)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

// --- UpdateStatus tests ---

func TestOrderUpdateStatus_HappyPath(t *testing.T) {
	store := newMockOrderReadStore()
	restaurantID := uuid.New()
	order := store.addOrder(restaurantID, "pending", 100, time.Now())

	svc := &mockOrderServicer{
		updateFn: func(_ context.Context, rid, oid uuid.UUID, target string) (database.Order, error) {
			if rid != restaurantID {
				t.Errorf("restaurant id: got %s, want %s", rid, restaurantID)
			}
			if oid != order.ID {
				t.Errorf("order id: got %s, want %s", oid, order.ID)
			}
			updated := store.orders[order.ID]
			updated.Status = target
			store.orders[order.ID] = updated
			return updated, nil
		},
	}
	notifier := &mockNotifier{}
	router := setupOrderRouter(svc, store, notifier)

	rr := doAuthRequest(t, router, "PUT", "/order/status", map[string]interface{}{
		"orderId": order.ID.String(),
		"status":  "approved",
	}, restaurantClaims(restaurantID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "approved" {
		t.Errorf("order status: got %v, want approved", data["status"])
	}

	if len(notifier.payloads) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(notifier.payloads))
	}
	if notifier.restaurantIDs[0] != restaurantID {
		t.Errorf("notified restaurant: got %s, want %s", notifier.restaurantIDs[0], restaurantID)
	}
}

func TestOrderUpdateStatus_ErrorMapping(t *testing.T) {
	restaurantID := uuid.New()
	orderID := uuid.New()

	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid status", service.ErrInvalidStatus, http.StatusBadRequest},
		{"not found", service.ErrOrderNotFound, http.StatusNotFound},
		{"illegal transition", service.ErrIllegalTransition, http.StatusConflict},
		{"concurrent conflict", service.ErrStatusConflict, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockOrderServicer{
				updateFn: func(context.Context, uuid.UUID, uuid.UUID, string) (database.Order, error) {
					return database.Order{}, tc.err
				},
			}
			notifier := &mockNotifier{}
			router := setupOrderRouter(svc, newMockOrderReadStore(), notifier)

			rr := doAuthRequest(t, router, "PUT", "/order/status", map[string]interface{}{
				"orderId": orderID.String(),
				"status":  "approved",
			}, restaurantClaims(restaurantID))

			if rr.Code != tc.wantCode {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, tc.wantCode, rr.Body.String())
			}
			if len(notifier.payloads) != 0 {
				t.Error("no notification should be sent on failure")
			}
		})
	}
}

func TestOrderUpdateStatus_InvalidOrderID(t *testing.T) {
	svc := &mockOrderServicer{
		updateFn: func(context.Context, uuid.UUID, uuid.UUID, string) (database.Order, error) {
			t.Fatal("service must not be called for an invalid order id")
			return database.Order{}, nil
		},
	}
	router := setupOrderRouter(svc, newMockOrderReadStore(), nil)

	rr := doAuthRequest(t, router, "PUT", "/order/status", map[string]interface{}{
		"orderId": "not-a-uuid",
		"status":  "approved",
	}, restaurantClaims(uuid.New()))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderUpdateStatus_MissingFields(t *testing.T) {
	router := setupOrderRouter(&mockOrderServicer{}, newMockOrderReadStore(), nil)

	rr := doAuthRequest(t, router, "PUT", "/order/status", map[string]interface{}{
		"orderId": uuid.NewString(),
	}, restaurantClaims(uuid.New()))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
