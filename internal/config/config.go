package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Auth
	JWTSecret string

	// CORS
	CORSAllowedOrigins string

	// Rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int

	// LLM providers
	LLMProvider     string
	GeminiAPIKey    string
	GeminiModelID   string
	BedrockModelID  string
	LLMMaxTokens    int
	LLMTemperature  float64
	FollowUpDelay   time.Duration
	FollowUpQueue   string
	UseMemoryQueue  bool
	FollowUpWorkers int

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Email
	EmailProvider     string
	SESFromEmail      string
	SESFromName       string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	ReminderWindow    time.Duration

	// Billing (subscription status SaaS)
	RevenueCatAPIKey  string
	RevenueCatBaseURL string

	// Speech synthesis
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	ElevenLabsVoiceID string
	AudioBucket       string

	// Video generation
	TavusAPIKey  string
	TavusBaseURL string

	// Public ledger
	AlgodToken     string
	AlgodAddress   string
	LedgerAppID    uint64
	LedgerMnemonic string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		LLMProvider:     getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:   getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", ""),
		LLMMaxTokens:    getEnvAsInt("LLM_MAX_TOKENS", 800),
		LLMTemperature:  getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		FollowUpDelay:   getEnvAsDuration("FOLLOWUP_DELAY", 8*time.Second),
		FollowUpQueue:   getEnv("FOLLOWUP_QUEUE_URL", ""),
		UseMemoryQueue:  getEnvAsBool("USE_MEMORY_QUEUE", true),
		FollowUpWorkers: getEnvAsInt("FOLLOWUP_WORKERS", 2),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:     getEnv("EMAIL_PROVIDER", "ses"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "VitaNest"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "VitaNest"),
		ReminderWindow:    getEnvAsDuration("REMINDER_WINDOW", 24*time.Hour),

		RevenueCatAPIKey:  getEnv("REVENUECAT_API_KEY", ""),
		RevenueCatBaseURL: getEnv("REVENUECAT_BASE_URL", "https://api.revenuecat.com/v1"),

		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", "pNInz6obpgDQGcFmaJgB"),
		AudioBucket:       getEnv("AUDIO_BUCKET", ""),

		TavusAPIKey:  getEnv("TAVUS_API_KEY", ""),
		TavusBaseURL: getEnv("TAVUS_BASE_URL", "https://tavusapi.com/v2"),

		AlgodToken:     getEnv("ALGOD_TOKEN", ""),
		AlgodAddress:   getEnv("ALGOD_ADDRESS", ""),
		LedgerAppID:    getEnvAsUint("LEDGER_APP_ID", 0),
		LedgerMnemonic: getEnv("LEDGER_MNEMONIC", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
