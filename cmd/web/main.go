package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"sales-dashboard/internal/analytics"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

func analyticsOptions(cfg *config.Config) analytics.Options {
	opts := analytics.DefaultOptions()
	opts.OnlineBranch = cfg.Dashboard.OnlineBranch
	opts.NonMemberID = cfg.Dashboard.NonMemberID
	opts.TopN = cfg.Dashboard.TopN
	return opts
}

// buildHandler wires the routes behind the middleware chain.
func buildHandler(cfg *config.Config, svc *services.Analytics, logger *slog.Logger) (http.Handler, error) {
	srv := server.NewServer(svc, logger, nil)

	compression, err := middleware.Compression(cfg.Server.EnableGzip)
	if err != nil {
		return nil, err
	}

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		compression,
	)

	return middlewareChain(srv), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"address", cfg.Address(),
		"dataset", cfg.Dataset.Path,
	)

	presentation, err := config.LoadPresentation(cfg.Dashboard.PresentationFile)
	if err != nil {
		logger.Error("failed to load presentation settings", "error", err)
		os.Exit(1)
	}

	svc := services.NewAnalytics(analyticsOptions(cfg), presentation, logger)
	loader := dataset.NewLoader(logger, dataset.WithS3Region(cfg.Dataset.S3Region))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	err = svc.Load(ctx, loader, cfg.Dataset.Path)
	cancel()
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	handler, err := buildHandler(cfg, svc, logger)
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", svc.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
