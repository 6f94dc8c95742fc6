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

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/application"
	"github.com/example/eventlist/internal/config"
	httptransport "github.com/example/eventlist/internal/http"
	"github.com/example/eventlist/internal/persistence/sqlite"
	"github.com/example/eventlist/internal/ratelimit"
	"github.com/example/eventlist/internal/record"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	hash := application.NewPasswordHasher(cfg.PasswordSalt)
	projector := record.NewProjector(storage)

	eventRepo := sqlite.NewEventRepository(storage)
	categoryRepo := sqlite.NewCategoryRepository(storage)
	userRepo := sqlite.NewUserRepository(storage)

	eventService := application.NewEventService(eventRepo, categoryRepo, projector, uuid.NewString)
	categoryService := application.NewCategoryService(categoryRepo, projector, uuid.NewString)
	userService := application.NewUserService(userRepo, projector, hash, uuid.NewString)
	authService := application.NewAuthServiceWithLogger(userRepo, projector, hash, []byte(cfg.JWTSecret), cfg.TokenTTL, uuid.NewString, time.Now, logger)

	apiLimiter := ratelimit.New(ratelimit.Limit{Requests: cfg.APIRateLimit, Window: cfg.APIRateWindow})
	accountLimiter := ratelimit.New(ratelimit.Limit{Requests: cfg.AccountRateLimit, Window: cfg.AccountRateWindow})
	go pruneLimiters(ctx, apiLimiter, accountLimiter)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger, cfg.SecureCookies),
		Events:         httptransport.NewEventHandler(eventService, logger),
		Categories:     httptransport.NewCategoryHandler(categoryService, logger),
		Users:          httptransport.NewUserHandler(userService, logger),
		Resolver:       authService,
		Logger:         logger,
		APILimiter:     apiLimiter,
		AccountLimiter: accountLimiter,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("event listing API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// pruneLimiters keeps rate limiter memory bounded while the server runs.
func pruneLimiters(ctx context.Context, limiters ...*ratelimit.Limiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, limiter := range limiters {
				limiter.Prune(now)
			}
		}
	}
}
