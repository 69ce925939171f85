package router

import (
	"log"
	"net/http"

	"github.com/ceralandia/api/internal/auth"
	"github.com/ceralandia/api/internal/config"
	"github.com/ceralandia/api/internal/database"
	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/handler"
	mw "github.com/ceralandia/api/internal/middleware"
	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/service"
	"github.com/ceralandia/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, confirmations pending.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler := handler.NewAuthHandler(
		auth.NewLocalDirectory(cfg.LocalUsers, cfg.LocalPassword),
		auth.NewAdminAuthenticator(cfg.AdminEmail, cfg.AdminPasswordHash),
		cfg.JWTSecret,
	)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders/{partition}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(queries, confirmations, hub, cfg.Operators, cfg.Workers)

	// Protected routes (require a session)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterSessionRoutes(r)
		handler.NewMetaHandler(cfg.Operators, cfg.Workers).RegisterRoutes(r)

		orderHandler := handler.NewOrderHandler(orderService, cfg.Location)
		r.Route("/orders", orderHandler.RegisterRoutes)

		confirmationHandler := handler.NewConfirmationHandler(orderService)
		r.Route("/confirmations", confirmationHandler.RegisterRoutes)

		statsHandler := handler.NewStatsHandler(orderService, cfg.Location)
		r.Route("/stats", statsHandler.RegisterRoutes)

		customerHandler := handler.NewCustomerHandler(orderService)
		r.Route("/customers", customerHandler.RegisterRoutes)

		quoteHandler := handler.NewQuoteHandler(orderService, queries)
		r.Route("/quotes", quoteHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(queries)
		r.Route("/products", func(r chi.Router) {
			productHandler.RegisterRoutes(r)

			// Catalog writes are admin-only
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin))
				productHandler.RegisterAdminRoutes(r)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
