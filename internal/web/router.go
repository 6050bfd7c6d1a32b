package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	httpmw "github.com/neu-balayan/pageantscore/internal/middleware"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
	"github.com/neu-balayan/pageantscore/internal/services/roster"
	"github.com/neu-balayan/pageantscore/internal/web/handler"
	"github.com/neu-balayan/pageantscore/internal/web/middleware"
	"github.com/neu-balayan/pageantscore/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	RosterService *roster.Service
	Hub           *sse.Hub
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := httpmw.Recovery(cfg.Logger, handler.ServerError)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	// Create SSE hub if not provided
	hub := cfg.Hub
	if hub == nil {
		hub = sse.NewHub("roster", cfg.Logger)
		go hub.Run()
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.RosterService, hub, cfg.Logger)

	// Public routes (optional auth for the dashboard shortcut)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/judge", homeHandler.Judge).Methods(http.MethodGet)
	public.HandleFunc("/admin/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/admin/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/admin/login/cancel", authHandler.Cancel).Methods(http.MethodPost)
	public.HandleFunc("/admin/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require an administrator session)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/admin", adminHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/admin/contestants", adminHandler.AddContestant).Methods(http.MethodPost)
	protected.HandleFunc("/admin/events", adminHandler.Events).Methods(http.MethodGet)

	return r
}
