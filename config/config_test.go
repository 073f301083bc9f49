package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("EMBED_CONCURRENCY", "")
	t.Setenv("ANALYSIS_CONCURRENCY", "")
	t.Setenv("MAX_BATCH_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendDynamoDB, cfg.StoreBackend)
	assert.Equal(t, 5, cfg.EmbedConcurrency)
	assert.Equal(t, 3, cfg.AnalysisConcurrency)
	assert.Equal(t, 200, cfg.MaxBatchSize)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/feedback")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendPostgres, cfg.StoreBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORE_BACKEND", "dynamodb")
	t.Setenv("ANALYSIS_CONCURRENCY", "7")
	t.Setenv("QUOTA_MONTHLY_LIMIT", "500")
	t.Setenv("VALKEY_TLS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.AnalysisConcurrency)
	assert.Equal(t, int64(500), cfg.QuotaMonthlyLimit)
	assert.True(t, cfg.ValkeyTLS)
}
