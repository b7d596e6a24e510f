package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/loveeee/ledger/internal/auth"
	"github.com/loveeee/ledger/internal/config"
	"github.com/loveeee/ledger/internal/events"
	"github.com/loveeee/ledger/internal/httpapi"
	"github.com/loveeee/ledger/internal/middleware"
	"github.com/loveeee/ledger/internal/service"
	"github.com/loveeee/ledger/internal/storage/sqlite"
	"github.com/loveeee/ledger/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret()
		slog.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}
	jwtManager := auth.NewJWTManager(secret, cfg.TokenDuration)

	couples := service.NewCoupleService(store, publisher)
	expenses := service.NewExpenseService(store, couples, publisher, cfg.DefaultCurrency)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, slog.Default())

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, proxies)
	defer limiter.Stop()

	api := httpapi.New(httpapi.Config{
		Expenses:    expenses,
		Couples:     couples,
		Auth:        authService,
		JWT:         jwtManager,
		DB:          store,
		Metrics:     metrics.Handler(),
		RequireAuth: cfg.RequireAuth,
	})

	handler := middleware.Chain(api.Routes(),
		middleware.Trace(proxies),
		middleware.SecurityHeaders,
		middleware.CORS,
		limiter.Middleware(httpapi.RateLimited),
		metrics.Middleware,
	)

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr, "require_auth", cfg.RequireAuth, "events", cfg.EventsEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped gracefully")
	return nil
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if !cfg.EventsEnabled() {
		slog.Info("Event publishing disabled")
		return events.Noop{}, nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	slog.Info("Publishing events", "exchange", cfg.AMQPExchange)
	return publisher, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate secret: %v", err))
	}
	return hex.EncodeToString(b)
}
