package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"3000"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"shiftly"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"shiftly-notifications"`

	OutboxPollInterval int `envconfig:"OUTBOX_POLL_INTERVAL_SECONDS" default:"3"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
