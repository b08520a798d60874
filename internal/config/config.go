package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage driver names.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config is the client configuration, loaded from YAML with environment
// variable overrides.
type Config struct {
	BackendURL string `yaml:"backendURL"`

	StorageDriver string `yaml:"storageDriver"`
	StoragePath   string `yaml:"storagePath"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	PostgresURL   string `yaml:"postgresURL"`

	KafkaBrokers []string `yaml:"kafkaBrokers"`
	KafkaTopic   string   `yaml:"kafkaTopic"`

	PollInterval time.Duration `yaml:"pollInterval"`
	OfflineLogin bool          `yaml:"offlineLogin"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BackendURL:    "http://localhost:8080",
		StorageDriver: DriverFile,
		StoragePath:   defaultStoragePath(),
		KafkaTopic:    "bookshop-cart-changes",
		PollInterval:  time.Second,
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookshop-state.json"
	}
	return home + "/.bookshop/state.json"
}

// Load reads the config file when it exists and applies env overrides. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOOKSHOP_BACKEND_URL"); v != "" {
		cfg.BackendURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSHOP_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSHOP_STORAGE_PATH"); v != "" {
		cfg.StoragePath = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSHOP_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSHOP_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("BOOKSHOP_POSTGRES_URL"); v != "" {
		cfg.PostgresURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSHOP_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("BOOKSHOP_KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSHOP_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			cfg.PollInterval = d
		}
	}
	if v := os.Getenv("BOOKSHOP_OFFLINE_LOGIN"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.OfflineLogin = b
		}
	}
}

func validate(cfg Config) error {
	switch cfg.StorageDriver {
	case DriverMemory, DriverFile, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == DriverRedis && cfg.RedisAddr == "" {
		return fmt.Errorf("redis storage driver requires redisAddr")
	}
	if cfg.StorageDriver == DriverPostgres && cfg.PostgresURL == "" {
		return fmt.Errorf("postgres storage driver requires postgresURL")
	}
	return nil
}
