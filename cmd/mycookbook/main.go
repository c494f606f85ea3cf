package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/mycookbook/internal/adapter/driven/mealdb"
	sqliteadapter "github.com/ericfisherdev/mycookbook/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/mycookbook/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/mycookbook/internal/adapter/driving/web"
	"github.com/ericfisherdev/mycookbook/internal/application"
	"github.com/ericfisherdev/mycookbook/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"catalog_base_url", cfg.CatalogBaseURL,
		"search_debounce", cfg.SearchDebounce,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer.DB); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters and the recipe service.
	savedStore := sqliteadapter.NewSavedRecipeRepo(db)
	catalog, err := mealdb.NewClient(cfg.CatalogBaseURL)
	if err != nil {
		return err
	}
	recipeSvc := application.NewRecipeService(catalog, savedStore)

	// 6. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(recipeSvc, db, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(recipeSvc, cfg.SearchDebounce, cfg.SessionTTL, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	webDone := make(chan struct{})
	go func() {
		defer close(webDone)
		webHandler.Run(ctx)
	}()

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 8. Log startup complete.
	slog.Info("mycookbook started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Close every session's screen before the database goes away.
	<-webDone

	slog.Info("shutdown complete")
	return nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
