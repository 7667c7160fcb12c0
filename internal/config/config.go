package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"

	platformkafka "github.com/shestoi/paygate/platform/kafka"
)

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// Config содержит конфигурацию платёжного шлюза.
// Пустые адреса после чтения env заполняются дефолтами выбранного окружения.
type Config struct {
	AppEnv          Env           `env:"APP_ENV" envDefault:"local"`
	HTTPAddr        string        `env:"HTTP_ADDR"`
	BankBaseURL     string        `env:"BANK_BASE_URL"`
	BankTimeout     time.Duration `env:"BANK_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	OTelEnabled       bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint      string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`

	// PaymentEventsEnabled включает публикацию payment.processed в Kafka
	PaymentEventsEnabled bool `env:"PAYMENT_EVENTS_ENABLED" envDefault:"false"`
	Kafka                platformkafka.Config
}

// Load загружает конфигурацию из переменных окружения
// Читает APP_ENV и устанавливает дефолты в зависимости от окружения
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AppEnv != EnvLocal && cfg.AppEnv != EnvDocker {
		return Config{}, fmt.Errorf("invalid APP_ENV: %s (must be 'local' or 'docker')", cfg.AppEnv)
	}

	cfg.applyEnvDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvDefaults() {
	local := c.AppEnv == EnvLocal

	if c.HTTPAddr == "" {
		c.HTTPAddr = pick(local, "127.0.0.1:8080", "0.0.0.0:8080")
	}
	if c.BankBaseURL == "" {
		c.BankBaseURL = pick(local, "http://127.0.0.1:8081", "http://bank_simulator:8080")
	}
	if c.OTelEndpoint == "" {
		c.OTelEndpoint = pick(local, "127.0.0.1:4317", "otel-collector:4317")
	}
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{pick(local, "localhost:19092", "kafka:9092")}
	}
}

func pick(local bool, localValue, dockerValue string) string {
	if local {
		return localValue
	}
	return dockerValue
}

// Validate проверяет корректность конфигурации
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if err := validateBaseURL(c.BankBaseURL); err != nil {
		return err
	}
	if c.BankTimeout <= 0 {
		return fmt.Errorf("BANK_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be within [0, 1], got %v", c.OTelSamplingRatio)
	}
	if c.OTelEnabled && c.OTelEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED=true")
	}
	if c.PaymentEventsEnabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when PAYMENT_EVENTS_ENABLED=true")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_TOPIC is required when PAYMENT_EVENTS_ENABLED=true")
		}
		if c.Kafka.WriteTimeout <= 0 {
			return fmt.Errorf("KAFKA_WRITE_TIMEOUT must be positive")
		}
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid BANK_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid BANK_BASE_URL: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid BANK_BASE_URL: host is required")
	}
	return nil
}

// Log выводит конфигурацию в лог
func (c Config) Log(logger *zap.Logger) {
	logger.Info("config loaded",
		zap.String("app_env", string(c.AppEnv)),
		zap.String("http_addr", c.HTTPAddr),
		zap.String("bank_base_url", c.BankBaseURL),
		zap.Duration("bank_timeout", c.BankTimeout),
		zap.Duration("shutdown_timeout", c.ShutdownTimeout),
		zap.String("log_level", c.LogLevel),
		zap.Bool("otel_enabled", c.OTelEnabled),
		zap.String("otel_endpoint", c.OTelEndpoint),
		zap.Float64("otel_sampling_ratio", c.OTelSamplingRatio),
		zap.Bool("payment_events_enabled", c.PaymentEventsEnabled),
		zap.String("kafka_brokers", strings.Join(c.Kafka.Brokers, ",")),
		zap.String("kafka_topic", c.Kafka.Topic),
	)
}
