// Package server exposes the engine over a small JSON HTTP surface.
// The engine itself never touches HTTP types; this package is a consumer.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallyup/tallyup/internal/service"
)

// Server bundles the HTTP handlers over the engine services.
type Server struct {
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	balances    *service.BalanceService
	users       *service.DirectoryService
}

// New creates a Server.
func New(expenses *service.ExpenseService, settlements *service.SettlementService, balances *service.BalanceService, users *service.DirectoryService) *Server {
	return &Server{
		expenses:    expenses,
		settlements: settlements,
		balances:    balances,
		users:       users,
	}
}

// Handler returns the routed HTTP handler with logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)

	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("POST /api/expenses/{id}/items", s.handleAddItem)
	mux.HandleFunc("GET /api/expenses/{id}/items", s.handleListItems)
	mux.HandleFunc("PUT /api/expenses/{id}/items/{itemID}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/expenses/{id}/items/{itemID}", s.handleRemoveItem)

	mux.HandleFunc("POST /api/expenses/{id}/items/{itemID}/shares", s.handleAddShare)
	mux.HandleFunc("POST /api/expenses/{id}/shares/{shareID}/recompute", s.handleRecomputeShare)
	mux.HandleFunc("PUT /api/expenses/{id}/items/{itemID}/shares/{shareID}", s.handleUpdateShare)
	mux.HandleFunc("DELETE /api/expenses/{id}/items/{itemID}/shares/{shareID}", s.handleRemoveShare)

	mux.HandleFunc("POST /api/expenses/{id}/payments", s.handleAddPayment)
	mux.HandleFunc("PUT /api/expenses/{id}/payments/{paymentID}/status", s.handleSetPaymentStatus)
	mux.HandleFunc("PUT /api/expenses/{id}/payments/{paymentID}/receipt", s.handleAttachReceipt)

	mux.HandleFunc("GET /api/expenses/{id}/settlements", s.handleAllSettlements)
	mux.HandleFunc("GET /api/expenses/{id}/settlements/{userID}", s.handleSettlement)

	mux.HandleFunc("GET /api/users/{id}/balances", s.handleListBalances)
	mux.HandleFunc("GET /api/users/{id}/balances/summary", s.handleBalanceSummary)

	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(mux))
}

// loggingMiddleware logs all incoming requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
