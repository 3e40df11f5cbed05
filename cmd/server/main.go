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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/grocerystore/internal/config"
	"github.com/Skotchmaster/grocerystore/internal/db"
	"github.com/Skotchmaster/grocerystore/internal/events"
	"github.com/Skotchmaster/grocerystore/internal/httpserver"
	"github.com/Skotchmaster/grocerystore/internal/logging"
	loggingmw "github.com/Skotchmaster/grocerystore/internal/middleware/logging"
	"github.com/Skotchmaster/grocerystore/internal/repo"
	"github.com/Skotchmaster/grocerystore/internal/search"
	"github.com/Skotchmaster/grocerystore/internal/seed"
	"github.com/Skotchmaster/grocerystore/internal/service"
	"github.com/Skotchmaster/grocerystore/internal/tokens"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	if err != nil {
		cancel()
		logger.Error("db_open_error", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	r := repo.New(gdb)
	seedCtx := logging.IntoContext(ctx, logger)
	if err := seed.Run(seedCtx, r, seed.Options{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Products:      cfg.SeedProducts,
	}); err != nil {
		cancel()
		logger.Error("seed_error", "error", err)
		os.Exit(1)
	}
	cancel()

	publisher := newPublisher(cfg, logger)
	index := newIndex(cfg, logger)
	tok := tokens.New(cfg.JWTSecret, cfg.JWTExpiry)

	deps := &httpserver.Deps{
		Auth:    &service.AuthService{Users: r, Tokens: tok, Events: publisher},
		Catalog: &service.CatalogService{Products: r, Index: index, Events: publisher},
		Orders:  &service.OrderService{Users: r, Products: r, Orders: r, Events: publisher},
		Users:   &service.UserService{Users: r},
		Tokens:  tok,
		Ready:   func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	shutdown(logger, gdb, publisher)
	logger.Info("server_stopped")
}

func newPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("events_disabled", "reason", "KAFKA_BROKERS empty")
		return events.Nop{}
	}
	logger.Info("events_enabled", "brokers", cfg.KafkaBrokers)
	return events.NewProducer(cfg.KafkaBrokers)
}

// newIndex falls back to no indexing when the cluster is unreachable; search
// reads never depend on it.
func newIndex(cfg config.Config, logger *slog.Logger) search.Index {
	if cfg.ESURL == "" {
		logger.Info("search_index_disabled", "reason", "ES_URL empty")
		return search.Nop{}
	}
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = search.Ping(ctx, client)
		cancel()
	}
	if err != nil {
		logger.Warn("search_index_disabled", "url", cfg.ESURL, "error", err)
		return search.Nop{}
	}
	logger.Info("search_index_enabled", "url", cfg.ESURL, "index", cfg.ESIndex)
	return &search.ESIndex{Client: client, Name: cfg.ESIndex}
}

func shutdown(logger *slog.Logger, gdb *gorm.DB, publisher events.Publisher) {
	if err := publisher.Close(); err != nil {
		logger.Error("events_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
}
