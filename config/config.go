package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

const (
	StoreBackendDynamoDB = "dynamodb"
	StoreBackendPostgres = "postgres"
)

type AppConfig struct {
	Env      string
	Port     string
	LogLevel string

	StoreBackend      string
	AWSEndpoint       string
	AWSRegion         string
	FeedbackTableName string
	AnalysisTableName string
	DatabaseURL       string

	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAICompletionModel string
	OpenAIEmbeddingModel  string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	QuotaMonthlyLimit int64

	KafkaBroker string
	KafkaTopic  string

	EmbedConcurrency    int
	AnalysisConcurrency int
	MaxBatchSize        int
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

// Load builds the application config from the environment. Call LoadEnv first
// so values from the .env file are visible.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Env:      getEnv("APP_ENV", "dev"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreBackendDynamoDB)),
		AWSEndpoint:       os.Getenv("AWS_ENDPOINT"),
		AWSRegion:         getEnv("AWS_REGION", "us-west-2"),
		FeedbackTableName: getEnv("FEEDBACK_TABLE_NAME", "Feedback"),
		AnalysisTableName: getEnv("ANALYSIS_TABLE_NAME", "FeedbackAnalysis"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),

		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:         os.Getenv("OPENAI_BASE_URL"),
		OpenAICompletionModel: getEnv("OPENAI_COMPLETION_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel:  getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",

		QuotaMonthlyLimit: int64(getEnvInt("QUOTA_MONTHLY_LIMIT", 100)),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "feedback-analysis-results"),

		EmbedConcurrency:    getEnvInt("EMBED_CONCURRENCY", 5),
		AnalysisConcurrency: getEnvInt("ANALYSIS_CONCURRENCY", 3),
		MaxBatchSize:        getEnvInt("MAX_BATCH_SIZE", 200),
	}

	if cfg.OpenAIAPIKey == "" {
		return cfg, errors.New("missing OPENAI_API_KEY in environment variables")
	}

	switch cfg.StoreBackend {
	case StoreBackendDynamoDB:
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return cfg, errors.New("STORE_BACKEND must be 'dynamodb' or 'postgres'")
	}

	return cfg, nil
}
