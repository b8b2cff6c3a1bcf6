package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Security event sinks.
const (
	EventSinkMemory   = "memory"
	EventSinkPostgres = "postgres"
	EventSinkKafka    = "kafka"
)

// Config captures everything the binaries need, read once from the environment.
type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	HIBP      HIBPConfig
	Checks    CheckConfig
	Retention RetentionConfig

	ResultStore string
	EventSink   string
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
}

// HIBPConfig holds provider credentials and endpoints.
type HIBPConfig struct {
	APIKey           string
	UserAgent        string
	BaseURL          string
	PasswordsBaseURL string
	HTTPTimeout      time.Duration
}

// CheckConfig tunes caching and batch pacing.
type CheckConfig struct {
	StalenessThreshold time.Duration
	BulkDelay          time.Duration
	BulkMaxBatch       int
	RedisTTL           time.Duration
}

type RetentionConfig struct {
	MaxAge   time.Duration
	Interval time.Duration
}

// RedisConfig configures the shared go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ClientID      string
	ConsumerGroup string
}

// FromEnv builds a Config from environment variables so main stays lean.
// Malformed numeric or duration values are reported, not silently defaulted.
func FromEnv() (Config, error) {
	r := envReader{}
	cfg := Config{
		Addr:      r.str("BREACHWATCH_ADDR", ":8080"),
		LogLevel:  r.str("LOG_LEVEL", "info"),
		LogFormat: r.str("LOG_FORMAT", "text"),
		HIBP: HIBPConfig{
			APIKey:           r.str("HIBP_API_KEY", ""),
			UserAgent:        r.str("HIBP_USER_AGENT", "breachwatch"),
			BaseURL:          r.str("HIBP_BASE_URL", "https://haveibeenpwned.com/api/v3"),
			PasswordsBaseURL: r.str("PWNED_PASSWORDS_BASE_URL", "https://api.pwnedpasswords.com"),
			HTTPTimeout:      r.duration("HIBP_HTTP_TIMEOUT", 10*time.Second),
		},
		Checks: CheckConfig{
			StalenessThreshold: r.duration("CHECK_STALENESS_THRESHOLD", 24*time.Hour),
			BulkDelay:          r.duration("BULK_DELAY", 1500*time.Millisecond),
			BulkMaxBatch:       r.integer("BULK_MAX_BATCH", 10),
			RedisTTL:           r.duration("REDIS_RESULT_TTL", 7*24*time.Hour),
		},
		Retention: RetentionConfig{
			MaxAge:   r.duration("RETENTION_MAX_AGE", 90*24*time.Hour),
			Interval: r.duration("RETENTION_INTERVAL", 24*time.Hour),
		},
		ResultStore: strings.ToLower(r.str("RESULT_STORE", StoreMemory)),
		EventSink:   strings.ToLower(r.str("EVENT_SINK", EventSinkMemory)),
		DatabaseURL: r.str("DATABASE_URL", ""),
		Redis: RedisConfig{
			URL:          r.str("REDIS_URL", ""),
			PoolSize:     r.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       r.list("KAFKA_BROKERS"),
			Topic:         r.str("KAFKA_SECURITY_EVENTS_TOPIC", "breachwatch.security-events"),
			ClientID:      r.str("KAFKA_CLIENT_ID", "breachwatch"),
			ConsumerGroup: r.str("KAFKA_CONSUMER_GROUP", "breachwatch-relay"),
		},
	}
	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements: each selected backend must have
// its connection settings.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HIBP.APIKey) == "" {
		errs = append(errs, errors.New("HIBP_API_KEY is required"))
	}
	if strings.TrimSpace(c.HIBP.UserAgent) == "" {
		errs = append(errs, errors.New("HIBP_USER_AGENT is required"))
	}
	switch c.ResultStore {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres result store"))
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis result store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RESULT_STORE %q", c.ResultStore))
	}
	switch c.EventSink {
	case EventSinkMemory:
	case EventSinkPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres event sink"))
		}
	case EventSinkKafka:
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka event sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENT_SINK %q", c.EventSink))
	}
	if c.Checks.BulkMaxBatch < 0 {
		errs = append(errs, errors.New("BULK_MAX_BATCH must not be negative"))
	}
	return errors.Join(errs...)
}

// ValidateRelay checks the settings the event relay needs, which are
// independent of the configured sink.
func (c Config) ValidateRelay() error {
	var errs []error
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required for the event relay"))
	}
	if c.Kafka.ConsumerGroup == "" {
		errs = append(errs, errors.New("KAFKA_CONSUMER_GROUP is required for the event relay"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required for the event relay"))
	}
	return errors.Join(errs...)
}

type envReader struct {
	errs []error
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
