package router

import (
	"net/http"
	"time"

	"github.com/dinehub/api/internal/config"
	"github.com/dinehub/api/internal/database"
	"github.com/dinehub/api/internal/enum"
	"github.com/dinehub/api/internal/handler"
	mw "github.com/dinehub/api/internal/middleware"
	"github.com/dinehub/api/internal/service"
	"github.com/dinehub/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up. Restaurant
// routes and superadmin routes live in separate role-gated groups.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, loc *time.Location) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterProtectedRoutes(r)

		// Restaurant management routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleRestaurant))

			managerHandler := handler.NewManagerHandler(queries)
			managerHandler.RegisterRoutes(r)

			menuHandler := handler.NewMenuHandler(queries)
			menuHandler.RegisterRoutes(r)

			newOrderStore := func(db database.DBTX) service.OrderStore {
				return database.New(db)
			}
			orderService := service.NewOrderService(pool, newOrderStore)
			orderHandler := handler.NewOrderHandler(orderService, queries, hub)
			orderHandler.RegisterRoutes(r)

			reportHandler := handler.NewReportHandler(queries, loc)
			reportHandler.RegisterRoutes(r)
		})

		// Superadmin dashboard routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleSuperadmin))

			superadminHandler := handler.NewSuperadminHandler(queries)
			superadminHandler.RegisterRoutes(r)
		})
	})

	return r
}
