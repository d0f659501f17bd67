package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logging struct {
		Level          string        `yaml:"level"`
		Format         string        `yaml:"format"`
		Output         string        `yaml:"output"`
		CollectorTopic string        `yaml:"collector_topic"`
		FlushInterval  time.Duration `yaml:"flush_interval"`
	} `yaml:"logging"`
	Ephemeris struct {
		URL         string        `yaml:"url"`
		HouseSystem string        `yaml:"house_system"`
		Timeout     time.Duration `yaml:"timeout"`
		MaxRetries  int           `yaml:"max_retries"`
	} `yaml:"ephemeris"`
	Geocoding struct {
		BaseURL  string        `yaml:"base_url"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"geocoding"`
	Narrative struct {
		BaseURL     string        `yaml:"base_url"`
		Model       string        `yaml:"model"`
		Temperature float64       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
		CacheTTL    time.Duration `yaml:"cache_ttl"`
	} `yaml:"narrative"`
	Cache struct {
		Redis struct {
			Enabled bool   `yaml:"enabled"`
			Addr    string `yaml:"addr"`
			DB      int    `yaml:"db"`
			Prefix  string `yaml:"prefix"`
		} `yaml:"redis"`
		MemoryTTL     time.Duration `yaml:"memory_ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
	} `yaml:"cache"`
	Archive struct {
		Backend      string        `yaml:"backend"`
		BufferSize   int           `yaml:"buffer_size"`
		RetryBackoff time.Duration `yaml:"retry_backoff"`
	} `yaml:"archive"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"ratelimit"`

	Secrets Secrets `yaml:"-"`
}

// Secrets never live in the YAML file. They come from the process
// environment, optionally seeded from a .env file.
type Secrets struct {
	GoogleMapsAPIKey   string `envconfig:"GOOGLE_MAPS_API_KEY"`
	AnthropicAPIKey    string `envconfig:"ANTHROPIC_API_KEY"`
	ClickHousePassword string `envconfig:"CLICKHOUSE_PASSWORD"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML, then applies .env, secrets and
// environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// .env is optional; production injects the environment directly
	_ = godotenv.Load()

	if err := envconfig.Process("", &c.Secrets); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	if v := os.Getenv("ARCHIVE_BACKEND"); v != "" {
		c.Archive.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("EPHEMERIS_URL"); v != "" {
		c.Ephemeris.URL = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Ephemeris.HouseSystem == "" {
		c.Ephemeris.HouseSystem = "P"
	}
	if c.Ephemeris.Timeout == 0 {
		c.Ephemeris.Timeout = 10 * time.Second
	}
	if c.Geocoding.BaseURL == "" {
		c.Geocoding.BaseURL = "https://maps.googleapis.com/maps/api"
	}
	if c.Geocoding.CacheTTL == 0 {
		c.Geocoding.CacheTTL = 24 * time.Hour
	}
	if c.Narrative.BaseURL == "" {
		c.Narrative.BaseURL = "https://api.anthropic.com"
	}
	if c.Narrative.Model == "" {
		c.Narrative.Model = "claude-sonnet-4-20250514"
	}
	if c.Narrative.Temperature == 0 {
		c.Narrative.Temperature = 0.7
	}
	if c.Narrative.Timeout == 0 {
		c.Narrative.Timeout = 60 * time.Second
	}
	if c.Archive.Backend == "" {
		c.Archive.Backend = "none"
	}
	if c.Archive.BufferSize == 0 {
		c.Archive.BufferSize = 1000
	}
	if c.Archive.RetryBackoff == 0 {
		c.Archive.RetryBackoff = time.Second
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 5
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 0.1
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Ephemeris.URL == "" {
		return fmt.Errorf("ephemeris.url is required")
	}
	switch c.Archive.Backend {
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.brokers and kafka.topic are required for the kafka archive backend")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for the clickhouse archive backend")
		}
	case "none":
	default:
		return fmt.Errorf("archive.backend must be 'kafka', 'clickhouse' or 'none', got '%s'", c.Archive.Backend)
	}
	if c.RateLimit.Capacity < 1 {
		return fmt.Errorf("ratelimit.capacity must be at least 1")
	}
	return nil
}
