package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/warung-pos/api/internal/config"
	"github.com/warung-pos/api/internal/database"
	"github.com/warung-pos/api/internal/enum"
	"github.com/warung-pos/api/internal/handler"
	mw "github.com/warung-pos/api/internal/middleware"
	"github.com/warung-pos/api/internal/service"
	"github.com/warung-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// The order-taking surface is cookie-session based and public; catalog and
// staff management run behind JWT auth with admin-gated writes.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, // POS frontend dev server
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Order-taking surface. Identified by the pos_session cookie, not a JWT;
	// the terminal itself is trusted.
	orderService := service.NewOrderService(
		pool,
		func(db database.DBTX) service.Store { return database.New(db) },
		cfg.ActiveOrderPolicy,
		cfg.Location,
	)
	posHandler := handler.NewPosHandler(orderService, queries, hub)
	posHandler.RegisterRoutes(r)

	reportHandler := handler.NewReportHandler(queries, cfg.Location)
	reportHandler.RegisterRoutes(r)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Catalog management; reads for any staff, writes admin-only
		categoryHandler := handler.NewCategoryHandler(queries)
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		itemHandler := handler.NewMenuItemHandler(queries)
		r.Route("/menu-items", func(r chi.Router) {
			r.Get("/", itemHandler.List)
			r.Get("/{id}", itemHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				r.Post("/", itemHandler.Create)
				r.Put("/{id}", itemHandler.Update)
				r.Delete("/{id}", itemHandler.Delete)
			})
		})

		comboHandler := handler.NewComboHandler(queries)
		r.Route("/combos", func(r chi.Router) {
			r.Get("/", comboHandler.List)
			r.Get("/{id}", comboHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				r.Post("/", comboHandler.Create)
				r.Put("/{id}", comboHandler.Update)
				r.Delete("/{id}", comboHandler.Delete)
			})
		})

		// Staff accounts (admin only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			userHandler := handler.NewUserHandler(queries)
			r.Route("/users", userHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
