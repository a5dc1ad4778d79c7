package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vitanest/vitanest-platform/cmd/mainconfig"
	"github.com/vitanest/vitanest-platform/internal/api/router"
	"github.com/vitanest/vitanest-platform/internal/appointments"
	"github.com/vitanest/vitanest-platform/internal/assistant"
	"github.com/vitanest/vitanest-platform/internal/billing"
	appconfig "github.com/vitanest/vitanest-platform/internal/config"
	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/internal/ledger"
	"github.com/vitanest/vitanest-platform/internal/medications"
	"github.com/vitanest/vitanest-platform/internal/notify"
	"github.com/vitanest/vitanest-platform/internal/observability/metrics"
	"github.com/vitanest/vitanest-platform/internal/profile"
	"github.com/vitanest/vitanest-platform/internal/speech"
	"github.com/vitanest/vitanest-platform/internal/video"
	"github.com/vitanest/vitanest-platform/internal/webchat"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting vitanest API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// database/sql handle for the lib/pq array helpers used by profiles.
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	redisClient := buildRedisClient(ctx, cfg, logger)

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	chatMetrics := metrics.NewChatMetrics(registry)

	// Stores
	historyStore := assistant.NewHistoryStore(pool, redisClient, logger.Logger)
	profileRepo := profile.NewRepository(sqlDB)
	medicationStore := medications.NewStore(pool)
	appointmentStore := appointments.NewStore(pool)

	// Follow-up queue
	var queue assistant.Queue
	if cfg.UseMemoryQueue {
		queue = assistant.NewMemoryQueue(64)
	} else {
		if cfg.FollowUpQueue == "" {
			logger.Error("FOLLOWUP_QUEUE_URL is required when USE_MEMORY_QUEUE is false")
			os.Exit(1)
		}
		queue = assistant.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.FollowUpQueue)
	}
	followUps := assistant.NewFollowUpPublisher(queue, cfg.FollowUpDelay, logger.Logger)

	// Chat service
	serviceOpts := []assistant.ServiceOption{
		assistant.WithProfiles(profileRepo),
		assistant.WithFollowUps(followUps),
		assistant.WithMetrics(chatMetrics),
	}
	if llmClient, model := buildLLMClient(ctx, cfg, awsCfg, logger); llmClient != nil {
		serviceOpts = append(serviceOpts, assistant.WithLLM(
			llmClient, model, int32(cfg.LLMMaxTokens), float32(cfg.LLMTemperature)))
	}
	chatService := assistant.NewService(historyStore, logger.Logger, serviceOpts...)

	// The in-memory queue only works with workers in the same process. The SQS
	// queue is drained by the followup-worker binary instead.
	if cfg.UseMemoryQueue {
		for i := 0; i < cfg.FollowUpWorkers; i++ {
			worker := assistant.NewFollowUpWorker(queue, historyStore, profileRepo, chatMetrics, logger.Logger)
			go func() {
				if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
					logger.Error("follow-up worker stopped", "error", err)
				}
			}()
		}
	}

	// Appointment reminders
	sender := buildEmailSender(cfg, awsCfg, logger)
	reminders := notify.NewReminderService(appointmentStore, notify.NewDirectory(pool), sender, cfg.ReminderWindow, logger)
	go reminders.Run(ctx, 15*time.Minute)

	// Ledger (optional)
	ledgerClient, err := ledger.NewClient(ledger.Config{
		Token:    cfg.AlgodToken,
		Address:  cfg.AlgodAddress,
		AppID:    cfg.LedgerAppID,
		Mnemonic: cfg.LedgerMnemonic,
	}, logger)
	if err != nil {
		logger.Warn("ledger disabled", "error", err)
		ledgerClient = nil
	}

	billingClient := billing.NewClient(cfg.RevenueCatAPIKey, cfg.RevenueCatBaseURL, logger)

	synthesizer := speech.NewSynthesizer(speech.SynthesizerConfig{
		APIKey:  cfg.ElevenLabsAPIKey,
		BaseURL: cfg.ElevenLabsBaseURL,
		VoiceID: cfg.ElevenLabsVoiceID,
	}, logger)
	audioStore := speech.NewAudioStore(s3.NewFromConfig(awsCfg), cfg.AudioBucket, logger)

	videoClient := video.NewClient(video.ClientConfig{
		APIKey:  cfg.TavusAPIKey,
		BaseURL: cfg.TavusBaseURL,
	}, logger)

	// Handlers
	var medicationsHandler *medications.Handler
	var appointmentsHandler *appointments.Handler
	if ledgerClient != nil {
		medicationsHandler = medications.NewHandler(medicationStore, ledgerClient, logger)
		appointmentsHandler = appointments.NewHandler(appointmentStore, ledgerClient, logger)
	} else {
		medicationsHandler = medications.NewHandler(medicationStore, nil, logger)
		appointmentsHandler = appointments.NewHandler(appointmentStore, nil, logger)
	}

	routerCfg := &router.Config{
		Logger:              logger,
		ChatHandler:         assistant.NewHandler(chatService, logger),
		WebChatHandler:      webchat.NewHandler(chatService, cfg.JWTSecret, logger),
		ProfileHandler:      profile.NewHandler(profileRepo, logger),
		MedicationsHandler:  medicationsHandler,
		AppointmentsHandler: appointmentsHandler,
		BillingHandler:      billing.NewHandler(billingClient, logger),
		SpeechHandler:       speech.NewHandler(synthesizer, audioStore, billingClient, logger),
		VideoHandler:        video.NewHandler(videoClient, billingClient, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  splitOrigins(cfg.CORSAllowedOrigins),
		RateLimiter:         httpmiddleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		JWTSecret:           cfg.JWTSecret,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRedisClient returns a configured Redis client or nil when unavailable.
// The history store degrades to Postgres-only reads without it.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, history mirror disabled", "error", err)
		return nil
	}
	return client
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (assistant.LLMClient, string) {
	var gemini assistant.LLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := assistant.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("failed to initialize Gemini client", "error", err)
		} else {
			gemini = client
		}
	}

	var bedrock assistant.LLMClient
	if cfg.BedrockModelID != "" {
		bedrock = assistant.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
	}

	switch cfg.LLMProvider {
	case "bedrock":
		if bedrock != nil {
			if gemini != nil {
				return assistant.NewFallbackLLMClient(bedrock, gemini, logger.Logger), cfg.BedrockModelID
			}
			return bedrock, cfg.BedrockModelID
		}
	default:
		if gemini != nil {
			if bedrock != nil {
				return assistant.NewFallbackLLMClient(gemini, bedrock, logger.Logger), cfg.GeminiModelID
			}
			return gemini, cfg.GeminiModelID
		}
	}

	logger.Info("no LLM provider configured, replies use the rule composer only")
	return nil, ""
}

func buildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
	case "ses":
		if cfg.SESFromEmail != "" {
			return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SESFromName,
			}, logger)
		}
	}
	logger.Warn("no email provider configured, appointment reminders are logged only")
	return notify.NewStubEmailSender(logger)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
