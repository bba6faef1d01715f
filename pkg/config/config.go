package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"
)

// Defaults for optional settings.
const (
	DefaultDriver          = "sqlite"
	DefaultPrefix          = "/"
	DefaultBind            = "0.0.0.0:9556"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	DB              string        `yaml:"db"`
	Driver          string        `yaml:"driver"`
	Prefix          string        `yaml:"prefix"`
	Bind            string        `yaml:"bind"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	AdminAddr       string        `yaml:"admin_addr"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns a Config with every optional setting at its default.
func Default() *Config {
	return &Config{
		Driver:          DefaultDriver,
		Prefix:          DefaultPrefix,
		Bind:            DefaultBind,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadConfig loads configuration from a YAML file if path is provided,
// then applies environment variable overrides on top of it.
// The result is not validated, callers apply flags first and then Validate.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("KVLOOKUP_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("KVLOOKUP_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("KVLOOKUP_PREFIX"); v != "" {
		cfg.Prefix = v
	}
	if v := os.Getenv("KVLOOKUP_BIND"); v != "" {
		cfg.Bind = v
	}
	if v := os.Getenv("KVLOOKUP_GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}
	if v := os.Getenv("KVLOOKUP_ADMIN_ADDR"); v != "" {
		cfg.AdminAddr = v
	}
	if v := os.Getenv("KVLOOKUP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KVLOOKUP_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid KVLOOKUP_SHUTDOWN_TIMEOUT value: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

// Validate checks required fields and value formats.
func (c *Config) Validate() error {
	if c.DB == "" {
		return errors.New("db is required (set via flag, environment or config file)")
	}
	if !strings.HasPrefix(c.Prefix, "/") {
		return fmt.Errorf("prefix must start with \"/\", got %q", c.Prefix)
	}
	if c.Bind == "" {
		return errors.New("bind is required")
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must be >= 0, got %s", c.ShutdownTimeout)
	}
	return nil
}
