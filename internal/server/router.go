package server

import (
	"net/http"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/config"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	users handler.UserHandler,
	units handler.BusinessUnitHandler,
	sales handler.SaleHandler,
	transfers handler.TransferHandler,
	renditions handler.RenditionHandler,
	goals handler.GoalHandler,
	bonuses handler.BonusHandler,
	alerts handler.AlertHandler,
	dashboard handler.DashboardHandler,
	home handler.HomeHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	home.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		auth.RegisterProtectedRoutes(pr)
		// cashier-level (cashier/manager/admin)
		pr.Group(func(cr chi.Router) {
			cr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleCashier))
			sales.RegisterRoutes(cr)
			alerts.RegisterRoutes(cr)
		})
		// manager-level (manager/admin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
			units.RegisterRoutes(mr)
			transfers.RegisterRoutes(mr)
			renditions.RegisterRoutes(mr)
			goals.RegisterRoutes(mr)
			bonuses.RegisterRoutes(mr)
			dashboard.RegisterRoutes(mr)
		})
		// admin-level
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin))
			users.RegisterRoutes(ar)
			units.RegisterAdminRoutes(ar)
			goals.RegisterAdminRoutes(ar)
		})
	})

	return r
}
