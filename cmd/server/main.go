package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/userauth/internal/config"
	"github.com/Skotchmaster/userauth/internal/db"
	"github.com/Skotchmaster/userauth/internal/directory"
	"github.com/Skotchmaster/userauth/internal/events"
	"github.com/Skotchmaster/userauth/internal/hash"
	"github.com/Skotchmaster/userauth/internal/httpserver"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/userauth/internal/middleware/logging"
	"github.com/Skotchmaster/userauth/internal/repo"
	"github.com/Skotchmaster/userauth/internal/service"
	"github.com/Skotchmaster/userauth/internal/tokens"
	"github.com/Skotchmaster/userauth/internal/uploads"
)

// multipart framing on top of the image itself
const uploadOverhead = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("config_loaded", "config", cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	initCtx = logging.IntoContext(initCtx, logger)

	gdb, err := db.Open(initCtx, cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Warn("db_close_error", "error", err)
		}
	}()

	hasher := hash.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	users := repo.New(gdb, hasher)
	tokenSvc := tokens.NewService([]byte(cfg.JWTSecret))

	pub := newPublisher(cfg, logger)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("kafka_close_error", "error", err)
		}
	}()
	dir := newDirectory(initCtx, cfg, users, logger)

	if _, err := service.NewBootstrap(users, pub, dir).EnsureAdmin(initCtx, cfg.Admin); err != nil {
		logger.Error("admin_bootstrap_failed", "error", err)
	}

	e := newEcho(cfg, logger)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: service.NewAuthService(users, hasher, tokenSvc, pub, dir)},
		ProfileHandler: &httpserver.ProfileHTTP{Svc: service.NewProfileService(users, uploads.NewStore(cfg.UploadDir, cfg.MaxUploadBytes), pub, dir)},
		AdminHandler:   &httpserver.AdminHTTP{Directory: dir},
		Gate:           auth.NewGate(tokenSvc, users),
		Ready:          readiness(gdb),
		UploadDir:      cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("shutting_down", "signal", sig.String())
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server_shutdown_error", "error", err)
	}

	logger.Info("shutdown_complete")
	return nil
}

func newEcho(cfg *config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{cfg.FrontendURL},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions, http.MethodHead},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		}),
		middleware.BodyLimit(fmt.Sprintf("%dK", (cfg.MaxUploadBytes+uploadOverhead)/1024+1)),
		middleware.ContextTimeout(cfg.RequestTimeout),
	)
	return e
}

func newPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("events_disabled", "reason", "KAFKA_BROKERS not set")
		return events.Nop{}
	}
	logger.Info("events_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
}

// newDirectory prefers Elasticsearch and falls back to the store when it is not configured or
// not reachable at startup.
func newDirectory(ctx context.Context, cfg *config.Config, users *repo.GormRepo, logger *slog.Logger) directory.Directory {
	if cfg.ESURL == "" {
		return directory.NewStore(users)
	}
	es, err := directory.NewElastic(ctx, directory.ElasticConfig{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		logger.Warn("elasticsearch_unavailable", "error", err, "fallback", "store")
		return directory.NewStore(users)
	}
	logger.Info("elasticsearch_connected", "index", cfg.ESIndex)
	return es
}

func readiness(gdb *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return db.Ping(ctx, gdb)
	}
}
