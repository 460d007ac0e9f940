package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
  timeout_seconds: 45
auth:
  enabled: true
  api_key: secret
db:
  dsn: postgres://localhost/recipes
  max_conns: 12
  min_conns: 2
scrape:
  user_agent: recipe-agent
  timeout_seconds: 20
  overall_budget_seconds: 40
  headless_enabled: true
  headless_timeout_seconds: 30
ical:
  product_id: "-//example//cal//EN"
  calendar_name: Dinner plan
  base_url: https://recipes.example.com
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != "secret" {
		t.Fatalf("expected auth enabled with secret key")
	}
	if cfg.DB.DSN != "postgres://localhost/recipes" || cfg.DB.MaxConns != 12 {
		t.Fatalf("expected db overrides to apply: %+v", cfg.DB)
	}
	if !cfg.Scrape.HeadlessEnabled || cfg.Scrape.UserAgent != "recipe-agent" {
		t.Fatalf("expected scrape overrides to apply: %+v", cfg.Scrape)
	}
	if cfg.ICal.BaseURL != "https://recipes.example.com" {
		t.Fatalf("expected ical base url override, got %q", cfg.ICal.BaseURL)
	}
	if cfg.Logging.Development {
		t.Fatalf("expected logging.development override to false")
	}
	if got := cfg.ServerTimeout(); got != 45*time.Second {
		t.Fatalf("expected server timeout 45s, got %v", got)
	}
	if got := cfg.ScrapeBudget(); got != 40*time.Second {
		t.Fatalf("expected scrape budget 40s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("db:\n  dsn: postgres://localhost/recipes\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Scrape.OverallBudgetSec != 30 {
		t.Fatalf("expected default scrape budget 30s, got %d", cfg.Scrape.OverallBudgetSec)
	}
	if cfg.ICal.CalendarName != "Recipes" {
		t.Fatalf("expected default calendar name, got %q", cfg.ICal.CalendarName)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server: ServerConfig{Port: 8080, TimeoutSeconds: 60},
		DB:     DBConfig{DSN: "postgres://localhost/recipes", MaxConns: 4},
		Scrape: ScrapeConfig{TimeoutSeconds: 15},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "missing dsn",
			cfg: func() Config {
				c := base
				c.DB.DSN = ""
				return c
			}(),
			want: "db.dsn",
		},
		{
			name: "invalid scrape timeout",
			cfg: func() Config {
				c := base
				c.Scrape.TimeoutSeconds = 0
				return c
			}(),
			want: "scrape.timeout_seconds",
		},
		{
			name: "headless missing timeout",
			cfg: func() Config {
				c := base
				c.Scrape.HeadlessEnabled = true
				c.Scrape.HeadlessTimeoutSec = 0
				return c
			}(),
			want: "scrape.headless_timeout_seconds",
		},
		{
			name: "auth missing api key",
			cfg: func() Config {
				c := base
				c.Auth.Enabled = true
				return c
			}(),
			want: "auth.api_key",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
