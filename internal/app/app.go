// Package app wires configuration, logging, metrics, services, and the HTTP
// server into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"kabucli/internal/config"
	"kabucli/internal/infrastructure"
	"kabucli/internal/middleware"
	"kabucli/internal/portfolio"
	"kabucli/internal/services"
	transport "kabucli/internal/transport/http"
)

// Application holds all initialized components.
type Application struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	server  *http.Server
}

// New initializes the application: config, logger, metrics, services, and the
// HTTP server. version is stamped into health and metrics output.
func New(ctx context.Context, version string) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics, err := infrastructure.InitializeMetrics(version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	parser := portfolio.NewParser(nil, logger)
	portfolioSvc := services.NewPortfolioService(cfg.Upload, parser, metrics, logger)
	healthSvc := services.NewHealthService(version)

	adviceSvc, err := services.NewAdviceService(ctx, cfg.Advice, logger)
	if err != nil {
		// The server is useful without advice; log and continue disabled.
		logger.Warn("advice service unavailable", slog.String("error", err.Error()))
		disabled := cfg.Advice
		disabled.Enabled = false
		adviceSvc, _ = services.NewAdviceService(ctx, disabled, logger)
	}

	router := buildRouter(cfg, logger, metrics, portfolioSvc, adviceSvc, healthSvc)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return &Application{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		server:  server,
	}, nil
}

func buildRouter(
	cfg *config.Config,
	logger *slog.Logger,
	metrics *infrastructure.Metrics,
	portfolioSvc *services.PortfolioService,
	adviceSvc *services.AdviceService,
	healthSvc *services.HealthService,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	if cfg.Security.EnableCORS {
		r.Use(middleware.CORS(cfg.Security))
	}
	r.Use(middleware.Metrics(metrics))

	// Prometheus scrape endpoint stays outside the rate limited API group.
	r.Handle("/metrics", metrics.PrometheusHTTP)

	r.Route("/api", func(api chi.Router) {
		if cfg.Security.RateLimit.Enabled {
			api.Use(middleware.RateLimiter(cfg.Security, logger))
		}

		transport.NewHealthHandler(healthSvc).Routes(api)
		transport.NewPortfolioHandler(portfolioSvc, cfg.Upload, logger).Routes(api)
		transport.NewAdviceHandler(adviceSvc, logger).Routes(api)
	})

	return r
}

// Run starts the HTTP server and blocks until ctx is canceled, then shuts
// down gracefully within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down",
			slog.Duration("timeout", a.cfg.Server.ShutdownTimeout),
		)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		metricsCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(metricsCtx); err != nil {
			a.logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}
