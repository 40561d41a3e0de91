// Package main is the entry point for the Vibe Finder API.
//
// It loads the configuration, wires the provider clients, stores, event
// publisher and metrics collector into the recommendation pipeline, and
// serves the chi router either as a standalone HTTP server or behind an
// API Gateway HTTP API when running inside AWS Lambda.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
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

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"vibefinder/internal/api/handlers"
	"vibefinder/internal/config"
	"vibefinder/internal/core"
	"vibefinder/internal/db"
	"vibefinder/internal/external"
	"vibefinder/internal/metrics"
	"vibefinder/internal/queue"
	"vibefinder/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(config.NewEnvVarProvider())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("vibefinder API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := buildServer(ctx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}

	if isLambdaEnvironment() {
		logger.Info("starting in Lambda mode")
		lambda.Start(newLambdaHandler(srv.Handler()))
		return nil
	}

	return runHTTPServer(srv, cfg, logger)
}

// historyStore is satisfied by both the Postgres repository and the
// in-memory store.
type historyStore interface {
	recommend.HistoryRecorder
	handlers.HistoryStore
}

// metricsCollector records request and outcome metrics.
type metricsCollector interface {
	core.MetricsCollector
	recommend.OutcomeRecorder
}

// metricsFlushTimeout bounds the final CloudWatch flush on shutdown.
const metricsFlushTimeout = 5 * time.Second

// buildServer wires every dependency and mounts the routes. Resources that
// need closing are registered with srv.OnShutdown.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*core.Server, error) {
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	var (
		history   historyStore
		favorites handlers.FavoriteStore
	)
	if cfg.UsesDatabase() {
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		srv.OnShutdown(pool.Close)

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("applying schema: %w", err)
		}
		history = db.NewHistoryRepository(pool, nil)
		favorites = db.NewFavoriteRepository(pool, nil)
		srv.HealthProbes = append(srv.HealthProbes, db.NewHealthProbe(pool))
		logger.Info("using postgres stores")
	} else {
		history = db.NewMemoryHistoryStore(nil)
		favorites = db.NewMemoryFavoriteStore(nil)
		logger.Info("DATABASE_URL not set, using in-memory stores")
	}

	var (
		collector metricsCollector = metrics.NoopCollector{}
		events    recommend.EventPublisher
	)
	if cfg.Observability.EnableCloudWatchMetrics || cfg.AWS.RecommendationEventsQueue != "" {
		awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		if cfg.Observability.EnableCloudWatchMetrics {
			cw := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
				if cfg.AWS.EndpointURL != "" {
					o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
				}
			})
			cwCollector := metrics.NewCloudWatchCollector(cw, cfg.Observability.MetricNamespace, logger)
			srv.OnShutdown(func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), metricsFlushTimeout)
				defer cancel()
				if err := cwCollector.Close(flushCtx); err != nil {
					logger.Warn("metrics flush incomplete", "error", err, "dropped", cwCollector.Dropped())
				}
			})
			collector = cwCollector
		}
		if cfg.AWS.RecommendationEventsQueue != "" {
			sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
				if cfg.AWS.EndpointURL != "" {
					o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
				}
			})
			events = queue.NewEventPublisher(sqsClient, cfg.AWS, logger)
		}
	}
	srv.Metrics = collector

	location, err := time.LoadLocation(cfg.Suggestions.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading suggestions timezone: %w", err)
	}

	clients := external.NewClientRegistry(cfg, logger)
	engine := recommend.NewEngine(recommend.DefaultSettings().WithSearchWindow(cfg.Search.RadiusMeters, cfg.Search.Limit))
	svc := recommend.NewService(recommend.Dependencies{
		Geocoder: clients.Geocoder,
		Weather:  clients.Weather,
		Places:   clients.Places,
		History:  history,
		Events:   events,
		Outcomes: collector,
		Engine:   engine,
		Logger:   logger,
	})

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		handlers.NewSuggestHandler(svc, srv.Validator, logger).RegisterRoutes,
		handlers.NewSuggestionsHandler(recommend.NewSuggester(nil, location)).RegisterRoutes,
		handlers.NewFavoritesHandler(favorites, srv.Validator, logger).RegisterRoutes,
		handlers.NewHistoryHandler(history, logger).RegisterRoutes,
	)

	srv.MountRoutes()
	return srv, nil
}

// loadAWSConfig loads the default credential chain. A non-empty EndpointURL
// points the clients at LocalStack.
func loadAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return awsCfg, nil
}

// isLambdaEnvironment returns true if the process is running inside AWS Lambda.
func isLambdaEnvironment() bool {
	_, hasRuntimeAPI := os.LookupEnv("AWS_LAMBDA_RUNTIME_API")
	_, hasServerPort := os.LookupEnv("_LAMBDA_SERVER_PORT")
	return hasRuntimeAPI || hasServerPort
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a JSON slog.Logger on stdout at the given level.
// Unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
