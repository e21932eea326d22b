package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SuperadminStore defines the database methods needed by the superadmin
// dashboard handlers. Satisfied by *database.Queries.
type SuperadminStore interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (database.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]database.Restaurant, error)
	ListRestaurantsByStatus(ctx context.Context, status string) ([]database.Restaurant, error)
	UpdateRestaurantStatus(ctx context.Context, arg database.UpdateRestaurantStatusParams) (database.Restaurant, error)
	ApprovePendingRestaurant(ctx context.Context, arg database.ApprovePendingRestaurantParams) (database.Restaurant, error)
}

// SuperadminHandler handles restaurant registration review.
type SuperadminHandler struct {
	store SuperadminStore
}

func NewSuperadminHandler(store SuperadminStore) *SuperadminHandler {
	return &SuperadminHandler{store: store}
}

func (h *SuperadminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/restaurants", h.ListAll)
	r.Get("/superadmin/pending-restaurants", h.ListPending)
	r.Put("/superadmin/approval", h.Approve)
	r.Put("/superadmin/changeRestaurantStatus", h.ChangeStatus)
}

// --- Request types ---

type restaurantStatusRequest struct {
	RestaurantID string `json:"restaurantId"`
	Status       string `json:"status"`
}

// --- Handlers ---

// ListAll handles GET /restaurants.
func (h *SuperadminHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.store.ListRestaurants(r.Context())
	if err != nil {
		log.Printf("ERROR: list restaurants: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeData(w, http.StatusOK, restaurantsToResponse(restaurants))
}

// ListPending handles GET /superadmin/pending-restaurants.
func (h *SuperadminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.store.ListRestaurantsByStatus(r.Context(), enum.RestaurantStatusPending)
	if err != nil {
		log.Printf("ERROR: list pending restaurants: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeData(w, http.StatusOK, restaurantsToResponse(restaurants))
}

// Approve handles PUT /superadmin/approval. It resolves a pending
// registration to approved or rejected. The UPDATE is guarded on the pending
// status, so a registration that was already resolved by another reviewer
// comes back as a conflict rather than being silently re-resolved.
func (h *SuperadminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	req, restaurantID, ok := decodeStatusRequest(w, r)
	if !ok {
		return
	}

	if req.Status != enum.RestaurantStatusApproved && req.Status != enum.RestaurantStatusRejected {
		writeError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	updated, err := h.store.ApprovePendingRestaurant(r.Context(), database.ApprovePendingRestaurantParams{
		ID:     restaurantID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the restaurant doesn't exist or it is no longer pending.
			// Fetch to give a precise error.
			if _, fetchErr := h.store.GetRestaurant(r.Context(), restaurantID); fetchErr != nil {
				if errors.Is(fetchErr, pgx.ErrNoRows) {
					writeError(w, http.StatusNotFound, "restaurant not found")
					return
				}
				log.Printf("ERROR: get restaurant for approval: %v", fetchErr)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			writeError(w, http.StatusConflict, "restaurant is not pending approval")
			return
		}
		log.Printf("ERROR: approve restaurant: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeData(w, http.StatusOK, dbRestaurantToResponse(updated))
}

// ChangeStatus handles PUT /superadmin/changeRestaurantStatus. Unlike
// Approve, it applies to any existing restaurant and also accepts stop.
func (h *SuperadminHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	req, restaurantID, ok := decodeStatusRequest(w, r)
	if !ok {
		return
	}

	switch req.Status {
	case enum.RestaurantStatusApproved, enum.RestaurantStatusRejected, enum.RestaurantStatusStop:
	default:
		writeError(w, http.StatusBadRequest, "status must be approved, rejected or stop")
		return
	}

	updated, err := h.store.UpdateRestaurantStatus(r.Context(), database.UpdateRestaurantStatusParams{
		ID:     restaurantID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "restaurant not found")
			return
		}
		log.Printf("ERROR: change restaurant status: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeData(w, http.StatusOK, dbRestaurantToResponse(updated))
}

// --- Helpers ---

func decodeStatusRequest(w http.ResponseWriter, r *http.Request) (restaurantStatusRequest, uuid.UUID, bool) {
	var req restaurantStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, uuid.Nil, false
	}

	if req.RestaurantID == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "restaurantId and status are required")
		return req, uuid.Nil, false
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return req, uuid.Nil, false
	}

	return req, restaurantID, true
}

func restaurantsToResponse(restaurants []database.Restaurant) []restaurantResponse {
	resp := make([]restaurantResponse, len(restaurants))
	for i, r := range restaurants {
		resp[i] = dbRestaurantToResponse(r)
	}
	return resp
}
