package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.yml", `
stream:
  url: https://example.com/stream
  retry: 2s
  with_credentials: true
logging:
  level: debug
  format: json
telemetry:
  enabled: true
  endpoint: collector:4318
`)

	var cfg Config
	if err := Load("ssetail", &cfg, WithConfigFile(file)); err != nil {
		t.Fatal(err)
	}

	if cfg.Stream.URL != "https://example.com/stream" {
		t.Errorf("url = %q", cfg.Stream.URL)
	}
	if cfg.Stream.Retry != 2*time.Second {
		t.Errorf("retry = %v", cfg.Stream.Retry)
	}
	if !cfg.Stream.WithCredentials {
		t.Error("with_credentials not set")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "collector:4318" {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.yml", `
stream:
  url: https://file.example.com/stream
`)
	t.Setenv("STREAM_URL", "https://env.example.com/stream")

	var cfg Config
	if err := Load("ssetail", &cfg, WithConfigFile(file)); err != nil {
		t.Fatal(err)
	}
	if cfg.Stream.URL != "https://env.example.com/stream" {
		t.Errorf("url = %q, want env override", cfg.Stream.URL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, ".env", "STREAM_URL=https://dotenv.example.com/stream\n")

	var cfg Config
	if err := Load("ssetail", &cfg, WithEnvFile(env)); err != nil {
		t.Fatal(err)
	}
	if cfg.Stream.URL != "https://dotenv.example.com/stream" {
		t.Errorf("url = %q, want .env value", cfg.Stream.URL)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" {
		t.Errorf("telemetry endpoint = %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("sample rate = %v", cfg.Telemetry.SampleRate)
	}
	if cfg.Telemetry.Interval != 15*time.Second {
		t.Errorf("interval = %v", cfg.Telemetry.Interval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing url", func(c *Config) { c.Stream.URL = "" }, true},
		{"not a url", func(c *Config) { c.Stream.URL = "not a url" }, true},
		{"bad sample rate", func(c *Config) { c.Telemetry.SampleRate = 2.0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Stream: StreamConfig{URL: "https://example.com/stream"}}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
