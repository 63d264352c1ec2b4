package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DispatchBackendMemory = "memory"
	DispatchBackendKafka  = "kafka"
)

type Config struct {
	HTTPPort  string
	LogLevel  string
	LogFormat string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int
	SQLitePath     string
	SeedDemoData   bool

	DispatchBackend        string
	DispatchWorkers        int
	DispatchQueueSize      int
	DispatchMaxConflicts   int
	DispatchMaxRetries     uint64
	DispatchInitialBackoff time.Duration
	DispatchMaxBackoff     time.Duration

	SweepSchedule   string
	SweepStaleAfter time.Duration
	SweepLimit      int

	KafkaBrokers       string
	KafkaConsumerGroup string
	KafkaDispatchTopic string
	KafkaDLQEnabled    bool
	KafkaDLQTopic      string

	RabbitMQURL      string
	RabbitMQExchange string

	ShutdownTimeout time.Duration
}

// LoadConfig reads the environment, after loading envFile if it exists.
// Unset variables take their defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var env envReader
	cfg := Config{
		HTTPPort:  env.str("HTTP_PORT", "8082"),
		LogLevel:  env.str("LOG_LEVEL", "info"),
		LogFormat: env.str("LOG_FORMAT", "json"),

		DBDriver:       env.str("DB_DRIVER", "postgres"),
		DBHost:         env.str("DB_HOST", "localhost"),
		DBPort:         env.str("DB_PORT", "5432"),
		DBUser:         env.str("DB_USER", "postgres"),
		DBPassword:     env.str("DB_PASSWORD", ""),
		DBName:         env.str("DB_NAME", "marketplace"),
		DBSslMode:      env.str("DB_SSLMODE", "disable"),
		DBMaxOpenConns: env.integer("DB_MAX_OPEN_CONNS", 10),
		SQLitePath:     env.str("SQLITE_PATH", "marketplace.db"),
		SeedDemoData:   env.boolean("SEED_DEMO_DATA", false),

		DispatchBackend:        env.str("DISPATCH_BACKEND", DispatchBackendMemory),
		DispatchWorkers:        env.integer("DISPATCH_WORKERS", 4),
		DispatchQueueSize:      env.integer("DISPATCH_QUEUE_SIZE", 256),
		DispatchMaxConflicts:   env.integer("DISPATCH_MAX_CONFLICTS", 3),
		DispatchMaxRetries:     uint64(env.integer("DISPATCH_MAX_RETRIES", 5)),
		DispatchInitialBackoff: env.duration("DISPATCH_INITIAL_BACKOFF", time.Second),
		DispatchMaxBackoff:     env.duration("DISPATCH_MAX_BACKOFF", 30*time.Second),

		SweepSchedule:   env.str("SWEEP_SCHEDULE", "*/30 * * * * *"),
		SweepStaleAfter: env.duration("SWEEP_STALE_AFTER", 2*time.Minute),
		SweepLimit:      env.integer("SWEEP_LIMIT", 100),

		KafkaBrokers:       env.str("KAFKA_HOST", "localhost:9092"),
		KafkaConsumerGroup: env.str("KAFKA_CONSUMER_GROUP", "marketplace-dispatch"),
		KafkaDispatchTopic: env.str("KAFKA_DISPATCH_TOPIC", "marketplace.dispatch"),
		KafkaDLQEnabled:    env.boolean("KAFKA_DLQ_ENABLED", false),
		KafkaDLQTopic:      env.str("KAFKA_DLQ_TOPIC", "marketplace.dispatch.dlq"),

		RabbitMQURL:      env.str("RABBITMQ_URL", ""),
		RabbitMQExchange: env.str("RABBITMQ_EXCHANGE", "marketplace.orders"),

		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if err := errors.Join(append(env.errs, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver))
	}
	switch c.DispatchBackend {
	case DispatchBackendMemory, DispatchBackendKafka:
	default:
		errs = append(errs, fmt.Errorf("DISPATCH_BACKEND must be memory or kafka, got %q", c.DispatchBackend))
	}
	if c.DispatchWorkers < 1 {
		errs = append(errs, errors.New("DISPATCH_WORKERS must be at least 1"))
	}
	if c.DispatchQueueSize < 1 {
		errs = append(errs, errors.New("DISPATCH_QUEUE_SIZE must be at least 1"))
	}
	if c.DispatchMaxConflicts < 1 {
		errs = append(errs, errors.New("DISPATCH_MAX_CONFLICTS must be at least 1"))
	}
	if c.DispatchInitialBackoff <= 0 || c.DispatchMaxBackoff < c.DispatchInitialBackoff {
		errs = append(errs, errors.New("dispatch backoff must satisfy 0 < DISPATCH_INITIAL_BACKOFF <= DISPATCH_MAX_BACKOFF"))
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envReader struct {
	errs []error
}

func (r *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (r *envReader) boolean(key string, def bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
