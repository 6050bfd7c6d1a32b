package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neu-balayan/pageantscore/internal/api/apierr"
	"github.com/neu-balayan/pageantscore/internal/api/handler"
	"github.com/neu-balayan/pageantscore/internal/api/middleware"
	"github.com/neu-balayan/pageantscore/internal/api/response"
	httpmw "github.com/neu-balayan/pageantscore/internal/middleware"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
	"github.com/neu-balayan/pageantscore/internal/services/roster"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	RosterService *roster.Service
	// Storage is checked by the health endpoint (optional)
	Storage Pinger
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	adminHandler := handler.NewAdminHandler(cfg.AuthService)
	contestantHandler := handler.NewContestantHandler(cfg.RosterService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := httpmw.Recovery(cfg.Logger, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewInternalError())
	})

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Login needs no session
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Protected admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.HandleFunc("/logout", adminHandler.Logout).Methods(http.MethodPost)
	admin.HandleFunc("/me", adminHandler.Me).Methods(http.MethodGet)

	// Roster routes (all require auth)
	contestants := api.PathPrefix("/contestants").Subrouter()
	contestants.Use(authMiddleware)
	contestants.HandleFunc("", contestantHandler.List).Methods(http.MethodGet)
	contestants.HandleFunc("", contestantHandler.Create).Methods(http.MethodPost)
	contestants.HandleFunc("/counts", contestantHandler.Counts).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.Storage)).Methods(http.MethodGet)

	return r
}

func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				apierr.WriteError(w, apierr.NewUnavailableError())
				return
			}
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
	}
}
