package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgersheet/ledgersheet/internal/api"
	"github.com/ledgersheet/ledgersheet/internal/api/handlers"
	"github.com/ledgersheet/ledgersheet/internal/auth"
	"github.com/ledgersheet/ledgersheet/internal/config"
	"github.com/ledgersheet/ledgersheet/internal/ledger"
	"github.com/ledgersheet/ledgersheet/internal/logger"
	"github.com/ledgersheet/ledgersheet/internal/session"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

func main() {
	// Parse command-line flags
	var (
		envFile = flag.String("env", "", "Path to .env file (optional)")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New("console", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	format := "console"
	if cfg.LogJSON {
		format = "json"
	}
	log := logger.New(format, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize the session/user store
	sessions, err := session.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer sessions.Close()

	authHandler := auth.NewHandler(cfg, sessions, log)

	// Each request gets a ledger service bound to its user's document and
	// OAuth token; nothing is cached across requests.
	provider := func(r *http.Request) (*ledger.Service, error) {
		ctx := r.Context()
		user, ok := auth.UserFrom(ctx)
		if !ok {
			return nil, handlers.ErrNoSpreadsheet
		}
		if user.SpreadsheetID == "" {
			return nil, handlers.ErrNoSpreadsheet
		}

		httpClient, err := authHandler.HTTPClient(ctx, user)
		if err != nil {
			return nil, err
		}
		store, err := sheetdb.NewClient(ctx, httpClient)
		if err != nil {
			return nil, err
		}
		return ledger.NewService(store, user.SpreadsheetID, log), nil
	}

	router := api.NewRouter(log, authHandler, sessions, provider)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Periodically drop expired sessions
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				n, err := sessions.DeleteExpiredSessions(cleanupCtx)
				if err != nil {
					log.Error().Err(err).Msg("Session cleanup failed")
				} else if n > 0 {
					log.Info().Int64("count", n).Msg("Expired sessions removed")
				}
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancelCleanup()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
