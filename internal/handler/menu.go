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
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// MenuStore defines the database methods needed by menu and category
// handlers. Satisfied by *database.Queries.
type MenuStore interface {
	ListMenuItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, arg database.DeleteMenuItemParams) (uuid.UUID, error)
	ListCategoriesByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.Category, error)
	CreateCategory(ctx context.Context, arg database.CreateCategoryParams) (database.Category, error)
	DeleteCategory(ctx context.Context, arg database.DeleteCategoryParams) (uuid.UUID, error)
	CategoryExists(ctx context.Context, arg database.CategoryExistsParams) (bool, error)
}

// MenuHandler handles menu item and category CRUD.
type MenuHandler struct {
	store MenuStore
}

func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Post("/menu", h.CreateItem)
	r.Put("/menu/{id}", h.UpdateItem)
	r.Delete("/menu/{id}", h.DeleteItem)
	r.Post("/menu/category", h.CreateCategory)
	r.Delete("/menu/category/{name}", h.DeleteCategory)
}

// --- Request / Response types ---

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Available   *bool  `json:"available"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Image       *string   `json:"image"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// menuSnapshot is the server's post-mutation view of the whole menu. Every
// mutating endpoint returns it so the client can replace its local mirror
// wholesale instead of patching in a locally computed guess.
type menuSnapshot struct {
	Categories []string           `json:"categories"`
	Menu       []menuItemResponse `json:"menu"`
}

// --- Menu item handlers ---

// CreateItem handles POST /menu.
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, ok := h.validateItem(w, r, claims.RestaurantID, req)
	if !ok {
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	_, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		RestaurantID: claims.RestaurantID,
		Name:         req.Name,
		Description:  toText(req.Description),
		Price:        decimalToNumeric(price),
		Category:     req.Category,
		Image:        toText(req.Image),
		Available:    available,
	})
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithSnapshot(w, r, claims.RestaurantID, http.StatusCreated)
}

// UpdateItem handles PUT /menu/{id}.
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item ID")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, ok := h.validateItem(w, r, claims.RestaurantID, req)
	if !ok {
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	_, err = h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:           itemID,
		RestaurantID: claims.RestaurantID,
		Name:         req.Name,
		Description:  toText(req.Description),
		Price:        decimalToNumeric(price),
		Category:     req.Category,
		Image:        toText(req.Image),
		Available:    available,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithSnapshot(w, r, claims.RestaurantID, http.StatusOK)
}

// DeleteItem handles DELETE /menu/{id}.
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item ID")
		return
	}

	if _, err := h.store.DeleteMenuItem(r.Context(), database.DeleteMenuItemParams{
		ID:           itemID,
		RestaurantID: claims.RestaurantID,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		log.Printf("ERROR: delete menu item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithSnapshot(w, r, claims.RestaurantID, http.StatusOK)
}

// --- Category handlers ---

// CreateCategory handles POST /menu/category.
func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if _, err := h.store.CreateCategory(r.Context(), database.CreateCategoryParams{
		RestaurantID: claims.RestaurantID,
		Name:         req.Name,
	}); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "category already exists")
			return
		}
		log.Printf("ERROR: create category: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithSnapshot(w, r, claims.RestaurantID, http.StatusCreated)
}

// DeleteCategory handles DELETE /menu/category/{name}. Menu items referencing
// the deleted category keep their category string; the snapshot the client
// receives reflects that without any server-side reconciliation.
func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	if _, err := h.store.DeleteCategory(r.Context(), database.DeleteCategoryParams{
		RestaurantID: claims.RestaurantID,
		Name:         name,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		log.Printf("ERROR: delete category: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondWithSnapshot(w, r, claims.RestaurantID, http.StatusOK)
}

// --- Helpers ---

// validateItem checks the shared create/update fields and resolves the price.
// It writes the error response itself and reports ok=false on failure.
func (h *MenuHandler) validateItem(w http.ResponseWriter, r *http.Request, restaurantID uuid.UUID, req menuItemRequest) (decimal.Decimal, bool) {
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return decimal.Zero, false
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return decimal.Zero, false
	}
	if req.Price == "" {
		writeError(w, http.StatusBadRequest, "price is required")
		return decimal.Zero, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "price must be a non-negative number")
		return decimal.Zero, false
	}

	exists, err := h.store.CategoryExists(r.Context(), database.CategoryExistsParams{
		RestaurantID: restaurantID,
		Name:         req.Category,
	})
	if err != nil {
		log.Printf("ERROR: check category: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return decimal.Zero, false
	}
	if !exists {
		writeError(w, http.StatusBadRequest, "category does not exist")
		return decimal.Zero, false
	}

	return price, true
}

func (h *MenuHandler) respondWithSnapshot(w http.ResponseWriter, r *http.Request, restaurantID uuid.UUID, status int) {
	categories, err := h.store.ListCategoriesByRestaurant(r.Context(), restaurantID)
	if err != nil {
		log.Printf("ERROR: list categories for snapshot: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	menu, err := h.store.ListMenuItemsByRestaurant(r.Context(), restaurantID)
	if err != nil {
		log.Printf("ERROR: list menu items for snapshot: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeData(w, status, menuSnapshot{
		Categories: categoryNames(categories),
		Menu:       menuItemsToResponse(menu),
	})
}

func menuItemsToResponse(items []database.MenuItem) []menuItemResponse {
	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = menuItemResponse{
			ID:          m.ID,
			Name:        m.Name,
			Description: textOrNil(m.Description),
			Price:       numericToString(m.Price),
			Category:    m.Category,
			Image:       textOrNil(m.Image),
			Available:   m.Available,
			CreatedAt:   m.CreatedAt,
		}
	}
	return resp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
