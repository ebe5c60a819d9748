package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

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
	Postgres struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		Database        string        `yaml:"database"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		SSLMode         string        `yaml:"ssl_mode"`
		MaxConns        int           `yaml:"max_conns"`
		MinConns        int           `yaml:"min_conns"`
		MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"events"`
	Scheduler struct {
		Windows      []Window      `yaml:"windows"`
		PollInterval time.Duration `yaml:"poll_interval"`
		LockTTL      time.Duration `yaml:"lock_ttl"`
		UserTimeout  time.Duration `yaml:"user_timeout"`
		Workers      int           `yaml:"workers"`
	} `yaml:"scheduler"`
	Projection struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"projection"`
}

// Window is one daily signal time slot. StartHour is the hour the slot
// becomes due; EndLabel is the display form of the slot end ("14:30").
type Window struct {
	Label     string `yaml:"label"`
	StartHour int    `yaml:"start_hour"`
	EndLabel  string `yaml:"end_label"`
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

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if len(c.Scheduler.Windows) == 0 {
		c.Scheduler.Windows = []Window{
			{Label: "morning", StartHour: 14, EndLabel: "14:30"},
			{Label: "evening", StartHour: 19, EndLabel: "19:30"},
		}
	}
	if c.Scheduler.PollInterval <= 0 {
		c.Scheduler.PollInterval = time.Minute
	}
	if c.Scheduler.LockTTL <= 0 {
		c.Scheduler.LockTTL = 5 * time.Minute
	}
	if c.Scheduler.UserTimeout <= 0 {
		c.Scheduler.UserTimeout = 15 * time.Second
	}
	if c.Scheduler.Workers <= 0 {
		c.Scheduler.Workers = 1
	}
	if c.Projection.CacheTTL <= 0 {
		c.Projection.CacheTTL = time.Minute
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "captrack.trades"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("postgres.database is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	seen := make(map[int]string, len(c.Scheduler.Windows))
	for _, w := range c.Scheduler.Windows {
		if w.Label == "" {
			return fmt.Errorf("scheduler window label is required")
		}
		if w.StartHour < 0 || w.StartHour > 23 {
			return fmt.Errorf("scheduler window %q start_hour out of range", w.Label)
		}
		if other, dup := seen[w.StartHour]; dup {
			return fmt.Errorf("scheduler windows %q and %q share start_hour %d", other, w.Label, w.StartHour)
		}
		seen[w.StartHour] = w.Label
	}
	return nil
}
