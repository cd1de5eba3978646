package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port                   string  `mapstructure:"PORT"`
	LogJSON                bool    `mapstructure:"LOG_JSON"`
	StoreBackend           string  `mapstructure:"STORE_BACKEND"`
	StateFile              string  `mapstructure:"STATE_FILE"`
	RedisAddr              string  `mapstructure:"REDIS_ADDR"`
	RedisPassword          string  `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int     `mapstructure:"REDIS_DB"`
	RedisKey               string  `mapstructure:"REDIS_KEY"`
	PostgresURL            string  `mapstructure:"POSTGRES_URL"`
	DeliveryMode           string  `mapstructure:"DELIVERY_MODE"`
	DeliveryTimeoutMs      int     `mapstructure:"DELIVERY_TIMEOUT_MS"`
	DeliveryMaxConcurrency int     `mapstructure:"DELIVERY_MAX_CONCURRENCY"`
	SimulatedSuccessRate   float64 `mapstructure:"SIMULATED_SUCCESS_RATE"`
	EventLogLimit          int     `mapstructure:"EVENT_LOG_LIMIT"`
	SubscriptionsFile      string  `mapstructure:"SUBSCRIPTIONS_FILE"`
}

// Store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Delivery modes
const (
	DeliveryHTTP      = "http"
	DeliverySimulated = "simulated"
)

var keys = []string{
	"PORT", "LOG_JSON", "STORE_BACKEND", "STATE_FILE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_KEY", "POSTGRES_URL",
	"DELIVERY_MODE", "DELIVERY_TIMEOUT_MS", "DELIVERY_MAX_CONCURRENCY",
	"SIMULATED_SUCCESS_RATE", "EVENT_LOG_LIMIT", "SUBSCRIPTIONS_FILE",
}

func GetConfig() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.AutomaticEnv()
	// Unmarshal only sees env vars for keys viper already knows about
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("binding %s: %w", k, err)
		}
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects values no component could run with
func (c *Config) Validate() error {
	switch c.GetStoreBackend() {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORE_BACKEND: %s", c.StoreBackend)
	}
	switch c.GetDeliveryMode() {
	case DeliveryHTTP, DeliverySimulated:
	default:
		return fmt.Errorf("unknown DELIVERY_MODE: %s", c.DeliveryMode)
	}
	if c.GetStoreBackend() == BackendPostgres && c.PostgresURL == "" {
		return fmt.Errorf("POSTGRES_URL is required for the postgres backend")
	}
	if c.SimulatedSuccessRate < 0 || c.SimulatedSuccessRate > 1 {
		return fmt.Errorf("SIMULATED_SUCCESS_RATE must be between 0 and 1")
	}
	return nil
}

func (c *Config) GetPort() string {
	if c.Port == "" {
		return "8080"
	}
	return c.Port
}

func (c *Config) GetStoreBackend() string {
	if c.StoreBackend == "" {
		return BackendMemory
	}
	return c.StoreBackend
}

func (c *Config) GetStateFile() string {
	if c.StateFile == "" {
		return "webhook-state.json"
	}
	return c.StateFile
}

func (c *Config) GetRedisAddr() string {
	if c.RedisAddr == "" {
		return "localhost:6379"
	}
	return c.RedisAddr
}

func (c *Config) GetDeliveryMode() string {
	if c.DeliveryMode == "" {
		return DeliveryHTTP
	}
	return c.DeliveryMode
}

// GetDeliveryTimeout returns the per-attempt timeout (default: 5s)
func (c *Config) GetDeliveryTimeout() time.Duration {
	if c.DeliveryTimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.DeliveryTimeoutMs) * time.Millisecond
}

// GetSimulatedSuccessRate returns the simulated success probability (default: 0.9)
func (c *Config) GetSimulatedSuccessRate() float64 {
	if c.SimulatedSuccessRate == 0 {
		return 0.9
	}
	return c.SimulatedSuccessRate
}

// GetEventLogLimit returns how many log entries are retained (default: 100)
func (c *Config) GetEventLogLimit() int {
	if c.EventLogLimit <= 0 {
		return 100
	}
	return c.EventLogLimit
}
