package api

import (
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/handlers"
	"github.com/vikasavnish/carecoord/internal/middleware"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

// Deps carries what the router needs besides configuration. Redis,
// Registry and Reports may be nil; a nil Reports is built from DB and Redis.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Hub      *websocket.Hub
	Registry *prometheus.Registry
	Reports  services.ReportService
	Logger   *slog.Logger
}

// SetupRouter configures all routes and returns the router
func SetupRouter(deps Deps, cfg *config.Config) *mux.Router {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	metrics := middleware.NewMetrics(deps.Registry)

	// Create a new router
	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// WebSocket route
	router.HandleFunc("/ws", deps.Hub.HandleWebSocket)

	// Create services
	userService := services.NewUserService(deps.DB)
	authService := services.NewAuthService(userService, cfg.JWT.SecretKey, cfg.JWT.TTL)
	reportService := deps.Reports
	if reportService == nil {
		reportService = services.NewReportService(deps.DB, deps.Redis, cfg.Redis.SummaryTTL)
	}

	// Create handlers using services
	authHandler := handlers.NewAuthHandler(authService, userService)
	familyHandler := handlers.NewFamilyMemberHandler(services.NewFamilyMemberService(deps.DB), deps.Hub, reportService)
	petHandler := handlers.NewPetHandler(services.NewPetService(deps.DB), deps.Hub, reportService)
	elderlyHandler := handlers.NewElderlyHandler(services.NewElderlyService(deps.DB), deps.Hub, reportService)
	appointmentHandler := handlers.NewAppointmentHandler(services.NewAppointmentService(deps.DB, nil), deps.Hub, reportService)
	paymentHandler := handlers.NewPaymentHandler(services.NewPaymentService(deps.DB), deps.Hub, reportService)
	userHandler := handlers.NewUserHandler(userService, deps.Hub, reportService)
	adminHandler := handlers.NewAdminHandler(services.NewCatalogService(deps.DB), deps.Hub, reportService)

	// Every /api request is logged and measured
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.RequestLogger(deps.Logger), metrics.Middleware)

	// Public endpoints (no authentication required)
	apiRouter.HandleFunc("/health", HealthHandler(deps.DB)).Methods("GET")
	authHandler.RegisterRoutes(apiRouter)

	// Create a subrouter for authenticated endpoints
	authRouter := apiRouter.PathPrefix("").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(authService))

	familyHandler.RegisterRoutes(authRouter)
	petHandler.RegisterRoutes(authRouter)
	elderlyHandler.RegisterRoutes(authRouter)
	appointmentHandler.RegisterRoutes(authRouter)
	paymentHandler.RegisterRoutes(authRouter)

	// Admin-only endpoints
	adminRouter := authRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin)
	userHandler.RegisterRoutes(adminRouter)
	adminHandler.RegisterRoutes(adminRouter)
	adminRouter.HandleFunc("/routes", PrintRoutesHandler(router)).Methods("GET")

	// Unknown API paths answer in JSON like every other API error
	apiRouter.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not found"}` + "\n"))
	})

	return router
}
