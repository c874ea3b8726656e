package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/kas-tracker/internal/application/service"
	"github.com/damon-houk/kas-tracker/internal/config"
	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/domain/entity"
	"github.com/damon-houk/kas-tracker/internal/domain/repository"
	domain "github.com/damon-houk/kas-tracker/internal/domain/service"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/db"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/handler"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("kas")
	if err != nil {
		// logger is not initialized yet
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Logging.Level))
	logger.SetDefaultLogger(log)

	if cfg.Source != "" {
		log.Info("Config loaded from file", map[string]interface{}{"file": cfg.Source})
	}

	loc, err := cfg.Ledger.Location()
	if err != nil {
		log.Fatal("Failed to load time zone", map[string]interface{}{"error": err.Error()})
	}
	cal, err := calendar.New(cfg.Ledger.StartDate, loc)
	if err != nil {
		log.Fatal("Failed to set up calendar", map[string]interface{}{"error": err.Error()})
	}

	repo, err := openBlobRepository(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open storage", map[string]interface{}{
			"backend": cfg.Storage.Backend,
			"error":   err.Error(),
		})
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Error closing storage", map[string]interface{}{"error": err.Error()})
		}
	}()

	clock := domain.SystemClock{}
	ledger := service.NewLedgerService(repo, cal, clock, service.LedgerConfig{
		StorageKey:        cfg.Ledger.StorageKey,
		DefaultProfitName: cfg.Ledger.DefaultProfitName,
	}, log)
	ledger.Load(context.Background())

	session := service.NewSession(ledger, cal, clock, log)
	session.Subscribe(service.RendererFunc(func(s entity.Snapshot) {
		log.Debug("Ledger updated", map[string]interface{}{
			"focus":   s.Focus.Date.Format(calendar.DateLayout),
			"day":     s.Focus.DayNumber,
			"balance": s.Totals.Balance,
			"items":   s.Totals.DayCount,
		})
	}))

	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.RecoveryMiddleware(log),
		middleware.LoggingMiddleware(log),
	)
	handler.NewLedgerHandler(session, log).RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", map[string]interface{}{
			"port":       cfg.Server.Port,
			"backend":    cfg.Storage.Backend,
			"start_date": cfg.Ledger.StartDate,
			"timezone":   loc.String(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutdown signal received", nil)
	case err := <-errChan:
		log.Error("Server error occurred", map[string]interface{}{"error": err.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", map[string]interface{}{"error": err.Error()})
	}
	if err := session.Close(shutdownCtx); err != nil {
		log.Error("Failed to write ledger on shutdown", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server shutdown completed", nil)
}

func openBlobRepository(cfg config.StorageConfig) (repository.BlobRepository, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := db.NewSQLiteBlobRepository(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendMemory:
		return db.NewMemoryBlobRepository(), nil
	default:
		badgerDB, err := db.OpenBadger(cfg.BadgerPath, cfg.SyncWrites)
		if err != nil {
			return nil, err
		}
		return db.NewBadgerBlobRepository(badgerDB), nil
	}
}
