package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Feed.DefaultSize)
	assert.Equal(t, 0.75, cfg.Feed.PersonalRatio)
	assert.Equal(t, 0.15, cfg.Feed.CategoryRatio)
	assert.Equal(t, 0.10, cfg.Feed.FreshRatio)
	assert.Equal(t, 5000, cfg.Feed.PopularLimit)
	assert.Equal(t, 1000, cfg.Feed.RecentLimit)
	assert.Equal(t, 24, cfg.Feed.RecentHours)
	assert.Equal(t, 2*time.Second, cfg.Feed.SourceTimeout)
	assert.Equal(t, "fashion_ranking", cfg.Monolith.ModelName)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_MissingDatabasePassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_KafkaEnabledNeedsBrokers(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_BrokerListParsing(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "broker-1:9092, broker-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.BootstrapServers)
}

func TestLoad_InvalidSizeConfiguration(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_DEFAULT_SIZE", "100")
	t.Setenv("FEED_MAX_SIZE", "10")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_NegativeRatioRejected(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_RATIO_FRESH", "-0.1")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_InvalidIntRejected(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_POPULAR_LIMIT", "lots")

	_, err := Load()

	assert.Error(t, err)
}
