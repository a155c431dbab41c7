package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/circles"
	"github.com/mmynk/circles/internal/config"
	"github.com/mmynk/circles/internal/middleware"
	"github.com/mmynk/circles/internal/service"
	"github.com/mmynk/circles/internal/storage/sqlstore"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default()

	store, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.DBDriver)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	rules := circles.NewService(store, cfg.CircleQuota)
	metrics := middleware.NewMetrics()

	mux := http.NewServeMux()
	service.Services{
		Auth:     service.NewAuthService(authenticator, jwtManager, store, logger),
		Circles:  service.NewCircleService(rules, logger),
		Expenses: service.NewExpenseService(rules, logger),
		Budgets:  service.NewBudgetService(rules, logger),
	}.Mount(mux, service.Interceptors{
		Metrics:   metrics.Interceptor(),
		RateLimit: middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst).Interceptor(),
		Auth:      middleware.RequireAuth(logger, jwtManager, store),
		Logging:   middleware.LoggingInterceptor(logger),
	})
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.HTTPLogging(logger, middleware.CORS(cfg.AllowedOrigin, mux))

	// h2c serves HTTP/2 without TLS, which gRPC clients need.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", srv.Addr, "circle_quota", rules.Quota())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
