package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}

	if cfg.Prefix != "/" {
		t.Errorf("expected Prefix to be '/', got '%s'", cfg.Prefix)
	}
	if cfg.Bind != "0.0.0.0:9556" {
		t.Errorf("expected Bind to be '0.0.0.0:9556', got '%s'", cfg.Bind)
	}
	if cfg.Driver != "sqlite" {
		t.Errorf("expected Driver to be 'sqlite', got '%s'", cfg.Driver)
	}
	if cfg.GRPCAddr != "" || cfg.AdminAddr != "" {
		t.Errorf("expected optional listeners to be disabled, got grpc=%q admin=%q", cfg.GRPCAddr, cfg.AdminAddr)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected ShutdownTimeout to be 10s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
db: /var/lib/kv.sqlite
prefix: /kv/
bind: 127.0.0.1:8080
grpc_addr: 127.0.0.1:9090
log_level: debug
shutdown_timeout: 3s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}

	if cfg.DB != "/var/lib/kv.sqlite" {
		t.Errorf("expected DB to be '/var/lib/kv.sqlite', got '%s'", cfg.DB)
	}
	if cfg.Prefix != "/kv/" {
		t.Errorf("expected Prefix to be '/kv/', got '%s'", cfg.Prefix)
	}
	if cfg.Bind != "127.0.0.1:8080" {
		t.Errorf("expected Bind to be '127.0.0.1:8080', got '%s'", cfg.Bind)
	}
	if cfg.GRPCAddr != "127.0.0.1:9090" {
		t.Errorf("expected GRPCAddr to be '127.0.0.1:9090', got '%s'", cfg.GRPCAddr)
	}
	if cfg.Driver != "sqlite" {
		t.Errorf("expected Driver to keep its default, got '%s'", cfg.Driver)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected ShutdownTimeout to be 3s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
db: /from/file.sqlite
prefix: /file/
`)
	t.Setenv("KVLOOKUP_DB", "/from/env.db")
	t.Setenv("KVLOOKUP_DRIVER", "bolt")
	t.Setenv("KVLOOKUP_ADMIN_ADDR", "127.0.0.1:9557")
	t.Setenv("KVLOOKUP_SHUTDOWN_TIMEOUT", "1m")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}

	if cfg.DB != "/from/env.db" {
		t.Errorf("expected DB from environment, got '%s'", cfg.DB)
	}
	if cfg.Driver != "bolt" {
		t.Errorf("expected Driver from environment, got '%s'", cfg.Driver)
	}
	if cfg.Prefix != "/file/" {
		t.Errorf("expected Prefix from file, got '%s'", cfg.Prefix)
	}
	if cfg.AdminAddr != "127.0.0.1:9557" {
		t.Errorf("expected AdminAddr from environment, got '%s'", cfg.AdminAddr)
	}
	if cfg.ShutdownTimeout != time.Minute {
		t.Errorf("expected ShutdownTimeout to be 1m, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfig_InvalidEnvDuration(t *testing.T) {
	t.Setenv("KVLOOKUP_SHUTDOWN_TIMEOUT", "soon")

	_, err := LoadConfig("")
	if err == nil {
		t.Fatal("expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid KVLOOKUP_SHUTDOWN_TIMEOUT value") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("expected error message to contain 'failed to read config file', got: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "db: [unterminated")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected error message to contain 'failed to parse config file', got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectedErr string
	}{
		{
			name:        "missing db",
			modify:      func(c *Config) { c.DB = "" },
			expectedErr: "db is required",
		},
		{
			name:        "relative prefix",
			modify:      func(c *Config) { c.Prefix = "kv/" },
			expectedErr: `prefix must start with "/"`,
		},
		{
			name:        "empty prefix",
			modify:      func(c *Config) { c.Prefix = "" },
			expectedErr: `prefix must start with "/"`,
		},
		{
			name:        "empty bind",
			modify:      func(c *Config) { c.Bind = "" },
			expectedErr: "bind is required",
		},
		{
			name:        "bad log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			expectedErr: `invalid log_level "loud"`,
		},
		{
			name:        "negative shutdown timeout",
			modify:      func(c *Config) { c.ShutdownTimeout = -time.Second },
			expectedErr: "shutdown_timeout must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DB = "/tmp/kv.sqlite"
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectedErr) {
				t.Errorf("expected error containing '%s', got '%s'", tt.expectedErr, err.Error())
			}
		})
	}

	cfg := Default()
	cfg.DB = "/tmp/kv.sqlite"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults plus db to be valid, got %v", err)
	}
}
