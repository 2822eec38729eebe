// Package server wires the service layer to the JSON HTTP API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/resolveapp/resolve/internal/auth"
	"github.com/resolveapp/resolve/internal/middleware"
	"github.com/resolveapp/resolve/internal/service"
	"github.com/resolveapp/resolve/internal/storage"
)

// Server holds the services behind the HTTP API.
type Server struct {
	auth     *service.AuthService
	expenses *service.ExpenseService
	balances *service.BalanceService
	activity *service.ActivityService
	groups   *service.GroupService
	friends  *service.FriendService

	jwtManager *auth.JWTManager
}

// New builds a server with all services backed by the given store.
func New(store storage.Store, jwtManager *auth.JWTManager) *Server {
	authenticator := auth.NewPasswordAuthenticator(store)
	return &Server{
		auth:       service.NewAuthService(authenticator, jwtManager, store),
		expenses:   service.NewExpenseService(store),
		balances:   service.NewBalanceService(store),
		activity:   service.NewActivityService(store),
		groups:     service.NewGroupService(store),
		friends:    service.NewFriendService(store),
		jwtManager: jwtManager,
	}
}

// Router assembles the route tree. Every /api route except auth requires a
// valid Bearer token.
func (s *Server) Router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)
		api.Post("/auth/login", s.handleLogin)

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth(s.jwtManager))

			authed.Get("/auth/me", s.handleCurrentUser)
			authed.Get("/users/search", s.handleSearchUsers)

			authed.Post("/friends/request", s.handleSendFriendRequest)
			authed.Put("/friends/{id}", s.handleRespondFriendRequest)
			authed.Get("/friends", s.handleListFriends)
			authed.Get("/friends/pending", s.handleListPendingRequests)

			authed.Post("/groups", s.handleCreateGroup)
			authed.Get("/groups", s.handleListGroups)
			authed.Get("/groups/{id}", s.handleGetGroup)

			authed.Post("/expenses", s.handleCreateExpense)
			authed.Get("/expenses/{id}", s.handleGetExpense)
			authed.Put("/expenses/{id}", s.handleUpdateExpense)
			authed.Delete("/expenses/{id}", s.handleDeleteExpense)

			authed.Get("/balance/summary", s.handleBalanceSummary)
			authed.Get("/activity/recent", s.handleRecentActivity)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
