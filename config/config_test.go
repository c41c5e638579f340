package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat106/the-financial-blueprint/factory"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(Options{
		EnvFile: filepath.Join(dir, "missing.env"),
		Getenv:  envMap(map[string]string{"FINANCE_CONFIG": ""}),
	})

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.Interval.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	// GIVEN: A TOML file, a .env file and real environment variables
	dir := t.TempDir()
	tomlPath := writeFile(t, dir, "finance.toml", `
[server]
port = "9000"

[storage]
backend = "memory"

[scheduler]
enabled = true
interval = "30s"

[kafka]
brokers = ["toml:9092"]

[[benchmarks]]
name = "urban"
categories = [
  { category = "Housing", average = 2400, color = "#000000" },
  { category = "Food", average = 900 },
]
`)
	envPath := writeFile(t, dir, ".env", "PORT=9100\nLOG_LEVEL=debug\nKAFKA_TOPIC=from-dotenv\n")
	env := map[string]string{
		"LOG_LEVEL":     "warn",
		"KAFKA_BROKERS": "a:9092, b:9092",
	}

	// WHEN: Loading
	cfg, err := Load(Options{ConfigFile: tomlPath, EnvFile: envPath, Getenv: envMap(env)})

	// THEN: env > .env > TOML > defaults
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval.Duration)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "from-dotenv", cfg.Kafka.Topic)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())

	set, err := cfg.BenchmarkSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"national", "urban"}, set.Names())
	assert.Equal(t, "#000000", set.Get("urban").Entries[0].Color)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.toml"), Getenv: envMap(nil)})
	assert.Error(t, err)
}

func TestLoad_BadEnvValues(t *testing.T) {
	dir := t.TempDir()
	for key, value := range map[string]string{
		"SCHEDULER_ENABLED":  "maybe",
		"SCHEDULER_INTERVAL": "soon",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := Load(Options{
				EnvFile: filepath.Join(dir, "missing.env"),
				Getenv:  envMap(map[string]string{key: value, "FINANCE_CONFIG": ""}),
			})
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name        string
		edit        func(c *Config)
		errorString string
	}{
		{"non-numeric port", func(c *Config) { c.Server.Port = "abc" }, "invalid port 'abc': must be a number"},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }, "invalid port 70000: must be between 1 and 65535"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "invalid data backend 'postgres'"},
		{"empty sqlite path", func(c *Config) { c.Storage.SQLitePath = "" }, "SQLite database path cannot be empty"},
		{"interval too short", func(c *Config) { c.Scheduler.Interval = Duration{time.Millisecond} }, "must be at least 1 second"},
		{"kafka without topic", func(c *Config) { c.Kafka.Brokers = []string{"x:9092"}; c.Kafka.Topic = "" }, "Kafka topic cannot be empty"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level 'loud'"},
		{"bad benchmark", func(c *Config) { c.Benchmarks = []factory.BenchmarkJSON{{Name: ""}} }, "invalid benchmark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.edit(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}

	t.Run("disabled scheduler ignores interval", func(t *testing.T) {
		cfg := valid
		cfg.Scheduler = SchedulerConfig{Enabled: false}
		assert.NoError(t, cfg.Validate())
	})
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "nested", "finance.db")

	require.NoError(t, cfg.EnsureDataDir())

	info, err := os.Stat(filepath.Dir(cfg.Storage.SQLitePath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
