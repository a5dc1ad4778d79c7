package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitanest/vitanest-platform/cmd/mainconfig"
	"github.com/vitanest/vitanest-platform/internal/assistant"
	appconfig "github.com/vitanest/vitanest-platform/internal/config"
	"github.com/vitanest/vitanest-platform/internal/observability/metrics"
	"github.com/vitanest/vitanest-platform/internal/profile"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Drains the follow-up SQS queue and appends tips to chat history. Only
// needed when the API runs with USE_MEMORY_QUEUE=false.
func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.FollowUpQueue == "" {
		logger.Error("FOLLOWUP_QUEUE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	queue := assistant.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.FollowUpQueue)
	history := assistant.NewHistoryStore(pool, nil, logger.Logger)
	profiles := profile.NewRepository(sqlDB)
	chatMetrics := metrics.NewChatMetrics(prometheus.NewRegistry())

	logger.Info("starting follow-up worker", "workers", cfg.FollowUpWorkers)

	var wg sync.WaitGroup
	for i := 0; i < cfg.FollowUpWorkers; i++ {
		worker := assistant.NewFollowUpWorker(queue, history, profiles, chatMetrics, logger.Logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("follow-up worker stopped", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down follow-up worker...")
	wg.Wait()
	logger.Info("follow-up worker stopped")
}
