package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/testgen/api/docs" // Swagger docs
	"github.com/testgen/api/internal/cache"
	"github.com/testgen/api/internal/config"
	"github.com/testgen/api/internal/eventbus"
	"github.com/testgen/api/internal/handlers"
	"github.com/testgen/api/internal/llm"
	"github.com/testgen/api/internal/middleware"
	"github.com/testgen/api/internal/telemetry"
	"github.com/testgen/api/internal/testgen"
)

const version = "0.1.0"

// @title testgen API
// @version 0.1.0
// @description Generates unit tests for code snippets with a completion service and estimates their coverage.
// @BasePath /
// @schemes http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	cfg := config.Load()

	logger.Info("testgen API starting",
		zap.String("version", version),
		zap.String("environment", cfg.Environment),
	)

	// run returns only after its deferred cleanup has finished
	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("server exited gracefully")
	_ = logger.Sync()
}

// run wires the service and serves until ctx is cancelled or the listener
// fails.
func run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	shutdownTelemetry, err := telemetry.InitTracer(ctx, "testgen-api", cfg.OTLPEndpoint)
	if err != nil {
		// tracing is optional; keep serving without it
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(flushCtx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	provider, err := llm.New(llm.Options{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
	})
	if err != nil {
		return fmt.Errorf("create completion provider: %w", err)
	}
	model := cfg.LLMModel
	if model == "" {
		model = llm.DefaultModel(cfg.LLMProvider)
	}
	if !provider.Configured() {
		// not fatal: the key is read per call and may be set later
		logger.Warn("completion provider has no api key", zap.String("provider", provider.Name()))
	}

	opts := testgen.Options{
		Model:           model,
		Timeout:         cfg.GenerationTimeout,
		CoverageEnabled: cfg.CoverageEnabled,
	}

	// nil interfaces mean "not configured" to the health handler
	var resultCache cache.Cache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Error("failed to connect to redis, caching disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			resultCache = rdb
			opts.Cache = rdb
			logger.Info("connected to redis", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	var events eventbus.Publisher
	if cfg.NATSURL != "" {
		nc, err := eventbus.Connect(cfg.NATSURL)
		if err != nil {
			logger.Error("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer nc.Close()
			events = nc
			opts.Events = nc
			logger.Info("connected to NATS")
		}
	}

	service := testgen.NewService(provider, opts, logger)

	breaker := middleware.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerTimeout)
	if breaker != nil {
		breaker.OnStateChange = func(from, to middleware.CircuitState) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:     logger,
		Health:     handlers.NewHealthHandler(provider, resultCache, events),
		Generation: handlers.NewGenerationHandler(service, logger),
		Breaker:    breaker,
	})

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// leave room for the completion call
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("provider", provider.Name()),
			zap.String("model", model),
			zap.Duration("generation_timeout", cfg.GenerationTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
