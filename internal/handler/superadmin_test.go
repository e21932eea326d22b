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
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Mock store ---

type mockSuperadminStore struct {
	restaurants map[uuid.UUID]database.Restaurant
}

func newMockSuperadminStore() *mockSuperadminStore {
	return &mockSuperadminStore{restaurants: make(map[uuid.UUID]database.Restaurant)}
}

func (m *mockSuperadminStore) GetRestaurant(_ context.Context, id uuid.UUID) (database.Restaurant, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return database.Restaurant{}, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockSuperadminStore) ListRestaurants(_ context.Context) ([]database.Restaurant, error) {
	var result []database.Restaurant
	for _, r := range m.restaurants {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockSuperadminStore) ListRestaurantsByStatus(_ context.Context, status string) ([]database.Restaurant, error) {
	var result []database.Restaurant
	for _, r := range m.restaurants {
		if r.Status == status {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockSuperadminStore) UpdateRestaurantStatus(_ context.Context, arg database.UpdateRestaurantStatusParams) (database.Restaurant, error) {
	r, ok := m.restaurants[arg.ID]
	if !ok {
		return database.Restaurant{}, pgx.ErrNoRows
	}
	r.Status = arg.Status
	m.restaurants[r.ID] = r
	return r, nil
}

func (m *mockSuperadminStore) ApprovePendingRestaurant(_ context.Context, arg database.ApprovePendingRestaurantParams) (database.Restaurant, error) {
	r, ok := m.restaurants[arg.ID]
	if !ok || r.Status != "pending" {
		return database.Restaurant{}, pgx.ErrNoRows
	}
	r.Status = arg.Status
	m.restaurants[r.ID] = r
	return r, nil
}

func (m *mockSuperadminStore) addRestaurant(name, status string) database.Restaurant {
	r := database.Restaurant{
		ID:        uuid.New(),
		Name:      name,
		Status:    status,
		CreatedAt: time.Now(),
	}
	m.restaurants[r.ID] = r
	return r
}

// --- Helpers ---

func setupSuperadminRouter(store *mockSuperadminStore) *chi.Mux {
	h := handler.NewSuperadminHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	h.RegisterRoutes(r)
	return r
}

func dataList(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := resp["data"].([]interface{})
	if !ok {
		t.Fatalf("data: got %v, want array", resp["data"])
	}
	return data
}

// --- List tests ---

func TestSuperadminListAll(t *testing.T) {
	store := newMockSuperadminStore()
	store.addRestaurant("Spice Garden", "approved")
	store.addRestaurant("New Place", "pending")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "GET", "/restaurants", nil, superadminClaims())

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if got := len(dataList(t, decodeResponse(t, rr))); got != 2 {
		t.Errorf("restaurants: got %d, want 2", got)
	}
}

func TestSuperadminListPending(t *testing.T) {
	store := newMockSuperadminStore()
	store.addRestaurant("Spice Garden", "approved")
	pending := store.addRestaurant("New Place", "pending")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "GET", "/superadmin/pending-restaurants", nil, superadminClaims())

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	data := dataList(t, decodeResponse(t, rr))
	if len(data) != 1 {
		t.Fatalf("pending restaurants: got %d, want 1", len(data))
	}
	if data[0].(map[string]interface{})["id"] != pending.ID.String() {
		t.Errorf("pending restaurant: got %v, want %s", data[0], pending.ID)
	}
}

// --- Approval tests ---

func TestSuperadminApprove_RemovesFromPending(t *testing.T) {
	store := newMockSuperadminStore()
	pending := store.addRestaurant("New Place", "pending")
	router := setupSuperadminRouter(store)
	claims := superadminClaims()

	rr := doAuthRequest(t, router, "PUT", "/superadmin/approval", map[string]interface{}{
		"restaurantId": pending.ID.String(),
		"status":       "approved",
	}, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "approved" {
		t.Errorf("status in response: got %v, want approved", data["status"])
	}

	// Gone from the pending list.
	rr = doAuthRequest(t, router, "GET", "/superadmin/pending-restaurants", nil, claims)
	if got := len(dataList(t, decodeResponse(t, rr))); got != 0 {
		t.Errorf("pending restaurants after approval: got %d, want 0", got)
	}

	// Visible as approved in the full list.
	rr = doAuthRequest(t, router, "GET", "/restaurants", nil, claims)
	all := dataList(t, decodeResponse(t, rr))
	if len(all) != 1 {
		t.Fatalf("restaurants: got %d, want 1", len(all))
	}
	if all[0].(map[string]interface{})["status"] != "approved" {
		t.Errorf("restaurant status in full list: got %v, want approved", all[0])
	}
}

func TestSuperadminApprove_RejectOutcome(t *testing.T) {
	store := newMockSuperadminStore()
	pending := store.addRestaurant("New Place", "pending")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/approval", map[string]interface{}{
		"restaurantId": pending.ID.String(),
		"status":       "rejected",
	}, superadminClaims())

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.restaurants[pending.ID].Status != "rejected" {
		t.Errorf("stored status: got %s, want rejected", store.restaurants[pending.ID].Status)
	}
}

func TestSuperadminApprove_StopNotAllowed(t *testing.T) {
	store := newMockSuperadminStore()
	pending := store.addRestaurant("New Place", "pending")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/approval", map[string]interface{}{
		"restaurantId": pending.ID.String(),
		"status":       "stop",
	}, superadminClaims())

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if store.restaurants[pending.ID].Status != "pending" {
		t.Error("restaurant must stay pending after a rejected request")
	}
}

func TestSuperadminApprove_AlreadyResolved(t *testing.T) {
	store := newMockSuperadminStore()
	resolved := store.addRestaurant("Spice Garden", "approved")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/approval", map[string]interface{}{
		"restaurantId": resolved.ID.String(),
		"status":       "rejected",
	}, superadminClaims())

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
	if store.restaurants[resolved.ID].Status != "approved" {
		t.Error("an already resolved restaurant must not be re-resolved")
	}
}

func TestSuperadminApprove_NotFound(t *testing.T) {
	store := newMockSuperadminStore()
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/approval", map[string]interface{}{
		"restaurantId": uuid.NewString(),
		"status":       "approved",
	}, superadminClaims())

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// --- ChangeStatus tests ---

func TestSuperadminChangeStatus_Stop(t *testing.T) {
	store := newMockSuperadminStore()
	restaurant := store.addRestaurant("Spice Garden", "approved")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/changeRestaurantStatus", map[string]interface{}{
		"restaurantId": restaurant.ID.String(),
		"status":       "stop",
	}, superadminClaims())

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.restaurants[restaurant.ID].Status != "stop" {
		t.Errorf("stored status: got %s, want stop", store.restaurants[restaurant.ID].Status)
	}
}

func TestSuperadminChangeStatus_InvalidValue(t *testing.T) {
	store := newMockSuperadminStore()
	restaurant := store.addRestaurant("Spice Garden", "approved")
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/changeRestaurantStatus", map[string]interface{}{
		"restaurantId": restaurant.ID.String(),
		"status":       "pending",
	}, superadminClaims())

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSuperadminChangeStatus_NotFound(t *testing.T) {
	store := newMockSuperadminStore()
	router := setupSuperadminRouter(store)

	rr := doAuthRequest(t, router, "PUT", "/superadmin/changeRestaurantStatus", map[string]interface{}{
		"restaurantId": uuid.NewString(),
		"status":       "approved",
	}, superadminClaims())

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
