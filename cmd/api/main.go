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

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	cognitopkg "github.com/jaekwang-park/todo-tracker/internal/cognito"
	"github.com/jaekwang-park/todo-tracker/internal/config"
	todohttp "github.com/jaekwang-park/todo-tracker/internal/http"
	"github.com/jaekwang-park/todo-tracker/internal/middleware"
	"github.com/jaekwang-park/todo-tracker/internal/repository"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"backend", cfg.Storage.Backend,
	)

	storage, closer, err := repository.Open(ctx, repository.OpenOptions{
		Backend:    repository.Backend(cfg.Storage.Backend),
		Dialect:    repository.Dialect(cfg.DB.Driver),
		DSN:        cfg.DB.DSN(),
		SQLitePath: cfg.DB.Path,
		BlobDir:    cfg.Blob.Dir,
		S3Bucket:   cfg.Blob.S3Bucket,
		S3Prefix:   cfg.Blob.S3Prefix,
		S3Region:   cfg.Blob.S3Region,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closer.Close()
	logger.Info("storage ready", "backend", storageName(storage))

	store := service.NewTodoStore(ctx, storage, service.StoreConfig{
		Logger:     logger,
		SortOption: cfg.Sort(),
		OnChange: func() {
			logger.Debug("todos changed")
		},
	})

	// Cognito client + Auth service
	var authSvc *service.AuthService
	if cfg.Cognito.AppClientID != "" {
		cognitoClient, err := cognitopkg.NewDefaultAWSClient(
			ctx,
			cfg.Cognito.Region,
			cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret,
		)
		if err != nil {
			return err
		}
		authSvc = service.NewAuthService(cognitoClient, cfg.OwnerSub, logger)
		logger.Info("cognito client initialized", "region", cfg.Cognito.Region)
	} else {
		logger.Warn("cognito client not initialized: COGNITO_APP_CLIENT_ID not set")
	}

	authCfg := middleware.AuthConfig{
		DevMode:  cfg.AuthDevMode,
		OwnerSub: cfg.OwnerSub,
		Logger:   logger,
	}
	if !cfg.AuthDevMode {
		authCfg.Keys = middleware.NewJWKSClient(middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID))
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	srv := todohttp.NewServer(cfg.ServerPort, logger, todohttp.RouterConfig{
		Store:   store,
		AuthSvc: authSvc,
		Storage: storageName(storage),
	}, auth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// storageName reports the backend Open actually chose, which differs from
// the configured one after a fallback.
func storageName(s repository.Storage) string {
	switch s.(type) {
	case *repository.SQLStorage:
		return string(repository.BackendSQL)
	case *repository.BlobStorage:
		return string(repository.BackendBlob)
	case *repository.MemoryStorage:
		return string(repository.BackendMemory)
	default:
		return "unknown"
	}
}
