package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/quizium/internal/models"
	pkgconfig "github.com/starford/quizium/pkg/config"
)

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth enabled by default")
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	t.Setenv("QZ_TOKEN", "sekret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  log_level: -4
  http:
    port: 9999
vault:
  path: /tmp/vault
sqlite:
  path: /tmp/q.db
auth:
  mode: token
  token: ${QZ_TOKEN}
topics:
  - hashtag: "#math"
    name: Math
review:
  easy_days: 10
  moderate_days: 5
  challenging_days: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9999 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Auth.Token != "sekret" {
		t.Errorf("token = %q, want env-expanded", cfg.Auth.Token)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("auth not enabled")
	}
	if len(cfg.Topics) != 1 || cfg.Topics[0].Hashtag != "#math" {
		t.Errorf("topics = %v", cfg.Topics)
	}
	if cfg.Review.EasyDays != 10 {
		t.Errorf("easy_days = %d", cfg.Review.EasyDays)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.App.HTTP.Port = 0 }},
		{"empty vault", func(c *Config) { c.Vault.Path = "" }},
		{"empty sqlite", func(c *Config) { c.SQLite.Path = "" }},
		{"token mode without token", func(c *Config) { c.Auth.Mode = AuthModeToken }},
		{"bad auth mode", func(c *Config) { c.Auth.Mode = "basic" }},
		{"topic without name", func(c *Config) { c.Topics = append(c.Topics, models.Topic{Hashtag: "#x"}) }},
		{"hashtag without #", func(c *Config) { c.Topics = append(c.Topics, models.Topic{Name: "X", Hashtag: "x"}) }},
		{"duplicate hashtag", func(c *Config) {
			c.Topics = append(c.Topics,
				models.Topic{Name: "A", Hashtag: "#a"},
				models.Topic{Name: "B", Hashtag: "#a"})
		}},
		{"negative review window", func(c *Config) { c.Review.EasyDays = -1 }},
	}
	for _, tc := range cases {
		cfg := NewDefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: accepted", tc.name)
		}
	}
}

func TestConfig_EmptyAuthModeNormalized(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Auth.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want normalized to disabled", cfg.Auth.Mode)
	}
}
