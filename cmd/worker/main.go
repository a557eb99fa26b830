package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fluentvox/internal/config"
	"fluentvox/internal/engine"
	"fluentvox/internal/queue"
	"fluentvox/internal/worker"
	"fluentvox/pkg/cache"
	"fluentvox/pkg/logger"
	"fluentvox/pkg/resilience"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Initialize logger
	debug := os.Getenv("DEBUG") != ""
	if err := logger.Init(debug); err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Starting fluentvox worker service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
		return
	}

	// Build the scoring engine
	eng := engine.New(cfg.EngineConfig(), logger.Logger)

	logger.Info("Scoring engine initialized")

	retryCfg := resilience.DefaultRetryConfig()

	// Initialize Redis result cache (optional)
	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		var redisCache *cache.RedisCache
		err := resilience.RetryWithExponentialBackoff(context.Background(), retryCfg, func() error {
			var connErr error
			redisCache, connErr = cache.NewRedisCache(
				cfg.Redis.Addr,
				cfg.Redis.Password,
				cfg.Redis.DB,
				cfg.CacheTTL(),
			)
			return connErr
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
			return
		}
		resultCache = redisCache
		defer redisCache.Close()

		logger.Info("Redis cache connection established")
	}

	// Connect to RabbitMQ
	var rabbitMQ *queue.RabbitMQ
	err = resilience.RetryWithExponentialBackoff(context.Background(), retryCfg, func() error {
		var connErr error
		rabbitMQ, connErr = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		return connErr
	})
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		return
	}
	defer rabbitMQ.Close()

	logger.Info("RabbitMQ connection established")

	// Pathological batches are already bounded per submission; the limiter
	// bounds throughput across tasks
	var limiter *resilience.RateLimiter
	if cfg.Worker.TasksPerMinute > 0 {
		limiter = resilience.NewRateLimiter(
			cfg.Worker.TasksPerMinute,
			time.Minute/time.Duration(cfg.Worker.TasksPerMinute),
		)
	}

	processor := worker.NewProcessor(eng, resultCache, rabbitMQ, limiter)

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start consuming messages
	go func() {
		logger.Info("Starting to consume messages from queue")
		if err := rabbitMQ.Consume(queue.QueueNameEvaluation, processor.ProcessTask); err != nil {
			logger.Error("Failed to consume messages", zap.Error(err))
			cancel()
		}
	}()

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Worker service shutdown complete")
}
