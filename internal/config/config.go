package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

const envPrefix = "STOREFRONT"

type Config struct {
	APIBaseURL     string        `split_words:"true" default:"http://localhost:8000"`
	RequestTimeout time.Duration `split_words:"true" default:"10s"`
	PageSize       int           `split_words:"true" default:"12"`

	Storage StorageConfig
	Breaker BreakerConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Kafka   KafkaConfig
}

type StorageConfig struct {
	Driver        string `split_words:"true" default:"file"`
	Path          string `split_words:"true" default:".storefront"`
	RedisAddr     string `split_words:"true" default:"localhost:6379"`
	RedisPassword string `split_words:"true"`
	RedisDB       int    `split_words:"true" default:"0"`
	RedisPrefix   string `split_words:"true" default:"storefront"`
}

type BreakerConfig struct {
	ConsecutiveFailures uint32        `split_words:"true" default:"5"`
	OpenTimeout         time.Duration `split_words:"true" default:"30s"`
	HalfOpenRequests    uint32        `split_words:"true" default:"1"`
}

type LogConfig struct {
	Level  string `split_words:"true" default:"info"`
	Format string `split_words:"true" default:"text"`
}

type HTTPConfig struct {
	Addr            string        `split_words:"true" default:":8080"`
	RequestTimeout  time.Duration `split_words:"true" default:"30s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	MaxBodyBytes    int64         `split_words:"true" default:"10485760"`
}

type KafkaConfig struct {
	Brokers       []string      `split_words:"true"`
	IncidentTopic string        `split_words:"true" default:"checkout-incidents"`
	FlushInterval time.Duration `split_words:"true" default:"30s"`
}

// Load reads an optional .env file and then the STOREFRONT_* environment.
// Variables already set in the environment win over the file. Nested
// sections use their own prefix, e.g. STOREFRONT_STORAGE_DRIVER.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	switch c.Storage.Driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite, storage.DriverRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:        c.Storage.Driver,
		Path:          c.Storage.Path,
		RedisAddr:     c.Storage.RedisAddr,
		RedisPassword: c.Storage.RedisPassword,
		RedisDB:       c.Storage.RedisDB,
		RedisPrefix:   c.Storage.RedisPrefix,
	}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format}
}
