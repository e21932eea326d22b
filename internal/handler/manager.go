package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ManagerStore defines the database methods needed by the manager bootstrap
// endpoint. Satisfied by *database.Queries.
type ManagerStore interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (database.Restaurant, error)
	ListCategoriesByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.Category, error)
	ListMenuItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error)
}

// ManagerHandler serves the restaurant manager's bootstrap payload.
type ManagerHandler struct {
	store ManagerStore
}

func NewManagerHandler(store ManagerStore) *ManagerHandler {
	return &ManagerHandler{store: store}
}

func (h *ManagerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/manager", h.Get)
}

type managerResponse struct {
	Restaurant restaurantResponse `json:"restaurant"`
	Categories []string           `json:"categories"`
	Menu       []menuItemResponse `json:"menu"`
}

// Get handles GET /manager. It returns everything the management view needs
// in one round trip: the restaurant profile, its category names in insertion
// order, and the full menu. The client always replaces its local mirror with
// this payload rather than patching it.
func (h *ManagerHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	restaurant, err := h.store.GetRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "restaurant not found")
			return
		}
		log.Printf("ERROR: get restaurant: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	categories, err := h.store.ListCategoriesByRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	menu, err := h.store.ListMenuItemsByRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeData(w, http.StatusOK, managerResponse{
		Restaurant: dbRestaurantToResponse(restaurant),
		Categories: categoryNames(categories),
		Menu:       menuItemsToResponse(menu),
	})
}

func categoryNames(categories []database.Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}
