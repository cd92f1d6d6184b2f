package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SinkConfig identifies the telemetry backend. An empty APIKey means no
// sink is configured and the pipeline stays uninitialized.
type SinkConfig struct {
	APIKey   string
	Endpoint string
}

// RedisConfig captures connection settings for the preference store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the audit trail broker settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Relay captures all relay configuration.
type Relay struct {
	Addr          string
	OnlyAnonymous bool
	JWTSigningKey string
	// IngestKeyHash is the bcrypt hash of the static ingest key; empty
	// disables static-key auth.
	IngestKeyHash string
	Sink          SinkConfig
	Redis         RedisConfig
	PostgresURL   string
	Kafka         KafkaConfig
}

// FromEnv builds a Relay config from environment variables so main stays lean.
func FromEnv() Relay {
	addr := os.Getenv("VEIL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("VEIL_KAFKA_TOPIC")
	if topic == "" {
		topic = "telemetry-decisions"
	}
	var brokers []string
	if raw := os.Getenv("VEIL_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Relay{
		Addr:          addr,
		OnlyAnonymous: os.Getenv("VEIL_ONLY_ANONYMOUS") == "true",
		JWTSigningKey: os.Getenv("VEIL_JWT_SIGNING_KEY"),
		IngestKeyHash: os.Getenv("VEIL_INGEST_KEY_HASH"),
		Sink: SinkConfig{
			APIKey:   os.Getenv("VEIL_SINK_API_KEY"),
			Endpoint: os.Getenv("VEIL_SINK_ENDPOINT"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("VEIL_REDIS_URL"),
			PoolSize:     envInt("VEIL_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VEIL_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		PostgresURL: os.Getenv("VEIL_POSTGRES_URL"),
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
