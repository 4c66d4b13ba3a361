// Package api assembles the HTTP surface: middleware chain, auth routes and
// the per-entity ledger routes.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/handlers"
	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/auth"
	"github.com/ledgersheet/ledgersheet/internal/session"
)

// NewRouter builds the full router.
func NewRouter(log zerolog.Logger, authHandler *auth.Handler, sessions *session.Store, provider handlers.LedgerFunc) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Get("/auth/login", authHandler.Login)
	r.Get("/auth/callback", authHandler.Callback)
	r.Post("/auth/logout", authHandler.Logout)

	accountsHandler := handlers.NewAccountsHandler(provider, log)
	categoriesHandler := handlers.NewCategoriesHandler(provider, log)
	payeesHandler := handlers.NewPayeesHandler(provider, log)
	transactionsHandler := handlers.NewTransactionsHandler(provider, log)
	settingsHandler := handlers.NewSettingsHandler(sessions, log)

	r.Route("/api", func(r chi.Router) {
		r.Use(authHandler.RequireSession)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accountsHandler.List)
			r.Post("/", accountsHandler.Create)
			r.Get("/balances", accountsHandler.Balances)
			r.Get("/{id}", accountsHandler.Get)
			r.Put("/{id}", accountsHandler.Update)
			r.Delete("/{id}", accountsHandler.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoriesHandler.List)
			r.Post("/", categoriesHandler.Create)
			r.Get("/{id}", categoriesHandler.Get)
			r.Put("/{id}", categoriesHandler.Update)
			r.Delete("/{id}", categoriesHandler.Delete)
		})

		r.Route("/payees", func(r chi.Router) {
			r.Get("/", payeesHandler.List)
			r.Post("/", payeesHandler.Create)
			r.Get("/debts", payeesHandler.Debts)
			r.Get("/{id}", payeesHandler.Get)
			r.Put("/{id}", payeesHandler.Update)
			r.Delete("/{id}", payeesHandler.Delete)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactionsHandler.List)
			r.Post("/", transactionsHandler.Create)
			r.Get("/{id}", transactionsHandler.Get)
			r.Put("/{id}", transactionsHandler.Update)
			r.Delete("/{id}", transactionsHandler.Delete)
		})

		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)
	})

	return r
}
