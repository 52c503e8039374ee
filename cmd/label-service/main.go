// cmd/label-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labelforge/internal/common/aws"
	"labelforge/internal/common/config"
	"labelforge/internal/common/database"
	"labelforge/internal/common/genai"
	"labelforge/internal/common/logger"
	"labelforge/internal/common/observability"
	"labelforge/internal/generation"
	"labelforge/internal/notify"
	"labelforge/internal/orchestrator"
	"labelforge/internal/server"
	"labelforge/internal/storage"
	"labelforge/internal/translation"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting label service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("label-service")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	// The cache is optional: the service runs uncached when it never comes up.
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, label cache disabled", zap.Error(err))
		redis = nil
	} else {
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch with retry ---
	// Search indexing is best-effort, missing ES only disables it.
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Warn("elasticsearch unavailable, search indexing disabled", zap.Error(err))
		esClient = nil
	} else {
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init alert clients ---
	var notifier *notify.Notifier
	if cfg.Alerts.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Alerts.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sesClient, err := aws.NewSESClient(ctx, cfg.Alerts.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		notifier = notify.NewNotifier(snsClient, sesClient, cfg.Alerts, log)
		zapLog.Info("Alert dispatch enabled", zap.String("region", cfg.Alerts.Region))
	}

	// --- Wire the pipeline ---
	genClient := genai.NewHTTPClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey)
	generator := generation.NewGenerator(genClient, log)
	translator := translation.NewTranslator(log)

	redisCacheTTL := time.Duration(cfg.Database.Redis.CacheTTL) * time.Second
	gateway := storage.NewGateway(pg, redis, esClient, log, redisCacheTTL, cfg.Database.Elasticsearch.Index)

	single := orchestrator.NewSingleOrchestrator(generator, translator, gateway, cfg, log)
	crisis := orchestrator.NewCrisisOrchestrator(generator, translator, gateway, notifier, cfg, log)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(single, crisis, gateway, cfg, log,
		server.WithTelemetry(obs),
		server.WithHealthCheck(func(ctx context.Context) map[string]string {
			deps := map[string]string{"postgres": "ok"}
			if err := pg.Ping(ctx); err != nil {
				deps["postgres"] = err.Error()
			}
			if redis != nil {
				deps["redis"] = "ok"
				if err := redis.Ping(ctx); err != nil {
					deps["redis"] = err.Error()
				}
			}
			return deps
		}),
	)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	drain := time.Duration(cfg.Server.ShutdownTimeout) * time.Millisecond
	if drain <= 0 {
		drain = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
