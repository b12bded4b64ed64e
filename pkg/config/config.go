package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	BigQuery BigQueryConfig
	Kafka    KafkaConfig
	Monolith MonolithConfig
	Feed     FeedConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type BigQueryConfig struct {
	Project       string
	Dataset       string
	ProductsTable string
}

type KafkaConfig struct {
	Enabled          bool
	BootstrapServers []string
	APIKey           string
	APISecret        string
}

type MonolithConfig struct {
	Enabled   bool
	Host      string
	Port      string
	ModelName string
	Timeout   time.Duration
}

type FeedConfig struct {
	DefaultSize   int
	MaxSize       int
	PersonalRatio float64
	CategoryRatio float64
	FreshRatio    float64
	PopularLimit  int
	RecentLimit   int
	RecentHours   int
	CategoryLimit int
	SourceTimeout time.Duration
	HistoryTTL    time.Duration
	StubOnMiss    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	feed, err := loadFeedConfig()
	if err != nil {
		return nil, err
	}

	monolithTimeout, err := getEnvDuration("MONOLITH_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "lookFeed Ranker API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "product"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		BigQuery: BigQueryConfig{
			Project:       getEnv("BQ_PROJECT", ""),
			Dataset:       getEnv("BQ_DATASET", ""),
			ProductsTable: getEnv("BQ_TABLE_PRODUCTS", "products"),
		},
		Kafka: KafkaConfig{
			Enabled:          getEnvBool("KAFKA_ENABLED", false),
			BootstrapServers: splitList(getEnv("KAFKA_BOOTSTRAP_SERVERS", "")),
			APIKey:           getEnv("KAFKA_API_KEY", ""),
			APISecret:        getEnv("KAFKA_API_SECRET", ""),
		},
		Monolith: MonolithConfig{
			Enabled:   getEnvBool("MONOLITH_ENABLED", false),
			Host:      getEnv("MONOLITH_HOST", "localhost"),
			Port:      getEnv("MONOLITH_PORT", "8501"),
			ModelName: getEnv("MONOLITH_MODEL_NAME", "fashion_ranking"),
			Timeout:   monolithTimeout,
		},
		Feed: feed,
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Kafka.Enabled && len(cfg.Kafka.BootstrapServers) == 0 {
		return nil, errors.New("kafka enabled but no bootstrap servers configured")
	}

	return cfg, nil
}

func loadFeedConfig() (FeedConfig, error) {
	defaultSize, err := getEnvInt("FEED_DEFAULT_SIZE", 50)
	if err != nil {
		return FeedConfig{}, err
	}
	maxSize, err := getEnvInt("FEED_MAX_SIZE", 500)
	if err != nil {
		return FeedConfig{}, err
	}
	personal, err := getEnvFloat("FEED_RATIO_PERSONAL", 0.75)
	if err != nil {
		return FeedConfig{}, err
	}
	category, err := getEnvFloat("FEED_RATIO_CATEGORY", 0.15)
	if err != nil {
		return FeedConfig{}, err
	}
	fresh, err := getEnvFloat("FEED_RATIO_FRESH", 0.10)
	if err != nil {
		return FeedConfig{}, err
	}
	popularLimit, err := getEnvInt("FEED_POPULAR_LIMIT", 5000)
	if err != nil {
		return FeedConfig{}, err
	}
	recentLimit, err := getEnvInt("FEED_RECENT_LIMIT", 1000)
	if err != nil {
		return FeedConfig{}, err
	}
	recentHours, err := getEnvInt("FEED_RECENT_HOURS", 24)
	if err != nil {
		return FeedConfig{}, err
	}
	categoryLimit, err := getEnvInt("FEED_CATEGORY_LIMIT", 200)
	if err != nil {
		return FeedConfig{}, err
	}
	sourceTimeout, err := getEnvDuration("FEED_SOURCE_TIMEOUT", 2*time.Second)
	if err != nil {
		return FeedConfig{}, err
	}
	historyTTL, err := getEnvDuration("FEED_HISTORY_TTL", 30*24*time.Hour)
	if err != nil {
		return FeedConfig{}, err
	}

	cfg := FeedConfig{
		DefaultSize:   defaultSize,
		MaxSize:       maxSize,
		PersonalRatio: personal,
		CategoryRatio: category,
		FreshRatio:    fresh,
		PopularLimit:  popularLimit,
		RecentLimit:   recentLimit,
		RecentHours:   recentHours,
		CategoryLimit: categoryLimit,
		SourceTimeout: sourceTimeout,
		HistoryTTL:    historyTTL,
		StubOnMiss:    getEnvBool("FEED_STUB_ON_MISS", false),
	}

	if cfg.DefaultSize <= 0 || cfg.MaxSize <= 0 || cfg.DefaultSize > cfg.MaxSize {
		return FeedConfig{}, errors.New("invalid feed size configuration")
	}
	if cfg.PersonalRatio < 0 || cfg.CategoryRatio < 0 || cfg.FreshRatio < 0 {
		return FeedConfig{}, errors.New("bucket ratios must be non-negative")
	}
	if cfg.PopularLimit <= 0 || cfg.RecentLimit <= 0 || cfg.RecentHours <= 0 || cfg.CategoryLimit <= 0 {
		return FeedConfig{}, errors.New("candidate source limits must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return f, nil
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}

	return b
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return d, nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}

	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
