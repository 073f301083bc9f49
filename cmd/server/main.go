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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/api"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/logging"
	"github.com/spacesedan/feedbackflow/internal/monitoring"
	"github.com/spacesedan/feedbackflow/internal/pipeline"
	"github.com/spacesedan/feedbackflow/internal/quota"
)

type publisher interface {
	api.EventPublisher
	Close()
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Server] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		slog.Error("[Server] Exiting", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run owns every collaborator so its deferred closes happen before main
// decides the exit code.
func run(ctx context.Context, cfg config.AppConfig) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	store, storeCheck, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closeStore()

	openai, err := clients.NewOpenAIClient(clients.OpenAIConfig{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		CompletionModel: cfg.OpenAICompletionModel,
		EmbeddingModel:  cfg.OpenAIEmbeddingModel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	valkey, err := clients.NewValkeyClient(clients.ValkeyConfig{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		UseTLS:   cfg.ValkeyTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Valkey: %w", err)
	}
	defer valkey.Close()

	events := newPublisher(cfg)
	defer events.Close()

	p := pipeline.New(store, openai, openai, pipeline.Options{
		EmbedConcurrency:    cfg.EmbedConcurrency,
		AnalysisConcurrency: cfg.AnalysisConcurrency,
		MaxBatchSize:        cfg.MaxBatchSize,
	})

	health := monitoring.NewHealth(monitoring.HealthcheckInterval)
	health.Register("store", storeCheck)
	health.Register("valkey", valkey.Ping)
	go health.Run(ctx)

	handler := api.NewHandler(p, quota.NewService(valkey, cfg.QuotaMonthlyLimit), events).
		WithReadiness(health)
	server := api.NewServer(handler, cfg.Port)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Server] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Server] Graceful shutdown failed", slog.String("error", err.Error()))
	}
	handler.Wait()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	default:
		return nil
	}
}

func newStore(ctx context.Context, cfg config.AppConfig) (pipeline.Store, monitoring.Check, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := clients.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return db.NewPostgresStore(pool), pool.Ping, pool.Close, nil
	default:
		client, err := clients.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, nil, nil, err
		}
		check := func(ctx context.Context) error {
			_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
				TableName: aws.String(cfg.FeedbackTableName),
			})
			return err
		}
		return db.NewDynamoStore(client, cfg.FeedbackTableName, cfg.AnalysisTableName), check, func() {}, nil
	}
}

// newPublisher falls back to a no-op when no broker is configured or the
// producer cannot be created. Batch events are best effort.
func newPublisher(cfg config.AppConfig) publisher {
	if cfg.KafkaBroker == "" {
		slog.Info("[Server] KAFKA_BROKER not set, batch events disabled")
		return clients.NoopPublisher{}
	}

	kp, err := clients.NewKafkaPublisher(clients.KafkaConfig{
		Broker: cfg.KafkaBroker,
		Topic:  cfg.KafkaTopic,
	})
	if err != nil {
		slog.Warn("[Server] Kafka unavailable, batch events disabled", slog.String("error", err.Error()))
		return clients.NoopPublisher{}
	}
	return kp
}
