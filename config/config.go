/*
Package config loads server configuration.

SOURCES (later wins):
  1. DefaultConfig()
  2. TOML file: --config flag, else $FINANCE_CONFIG, else ./finance.toml
     if present
  3. .env file in the working directory (never overrides real env vars)
  4. Environment variables

ENVIRONMENT VARIABLES:
  PORT, DATA_BACKEND (memory|sqlite), SQLITE_DB_PATH, CORS_ORIGINS
  (comma-separated), SCHEDULER_ENABLED, SCHEDULER_INTERVAL (Go duration),
  KAFKA_BROKERS (comma-separated), KAFKA_TOPIC, LOG_LEVEL

EXAMPLE finance.toml:
  [server]
  port = "8080"
  cors_origins = ["http://localhost:3000"]

  [storage]
  backend = "sqlite"
  sqlite_path = "./data/finance.db"

  [scheduler]
  enabled = true
  interval = "5m"

  [[benchmarks]]
  name = "urban"
  categories = [
    { category = "Housing", average = 2400 },
    { category = "Food", average = 900 },
  ]
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/shashwat106/the-financial-blueprint/factory"
)

const (
	DefaultFile = "finance.toml"
	EnvFile     = ".env"
)

// Config holds all server configuration.
type Config struct {
	Server     ServerConfig            `toml:"server"`
	Storage    StorageConfig           `toml:"storage"`
	Scheduler  SchedulerConfig         `toml:"scheduler"`
	Kafka      KafkaConfig             `toml:"kafka"`
	Log        LogConfig               `toml:"log"`
	Benchmarks []factory.BenchmarkJSON `toml:"benchmarks"`
}

type ServerConfig struct {
	Port        string   `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type StorageConfig struct {
	Backend    string `toml:"backend"` // memory, sqlite
	SQLitePath string `toml:"sqlite_path"`
}

// SchedulerConfig controls the periodic achievement check.
type SchedulerConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// KafkaConfig enables achievement events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Duration is a time.Duration written as "30s" / "5m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			Backend:    "sqlite",
			SQLitePath: "./data/finance.db",
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: Duration{5 * time.Minute},
		},
		Kafka: KafkaConfig{
			Topic: "finance.achievements",
		},
		Log: LogConfig{Level: "info"},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Options locate the files Load reads. Zero values use the defaults.
type Options struct {
	ConfigFile string // explicit TOML path; missing file is an error
	EnvFile    string // dotenv path; missing file is ignored
	Getenv     func(string) string
}

// Load builds the configuration from defaults, the TOML file, the .env file
// and the environment.
func Load(opts Options) (Config, error) {
	cfg := DefaultConfig()

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if err := loadFile(&cfg, opts.ConfigFile, getenv); err != nil {
		return cfg, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = EnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("reading %s: %w", envFile, err)
	}

	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string, getenv func(string) string) error {
	explicit := path != ""
	if !explicit {
		path = getenv("FINANCE_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultFile
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) string) error {
	if v := lookup("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := lookup("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := lookup("DATA_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := lookup("SQLITE_DB_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := lookup("SCHEDULER_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_ENABLED %q: %w", v, err)
		}
		cfg.Scheduler.Enabled = b
	}
	if v := lookup("SCHEDULER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_INTERVAL %q: %w", v, err)
		}
		cfg.Scheduler.Interval = Duration{d}
	}
	if v := lookup("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := lookup("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := lookup("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Storage.Backend {
	case "memory":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.Storage.Backend))
	}

	if c.Scheduler.Enabled {
		if c.Scheduler.Interval.Duration < time.Second {
			problems = append(problems, fmt.Sprintf("invalid scheduler interval %v: must be at least 1 second", c.Scheduler.Interval.Duration))
		} else if c.Scheduler.Interval.Duration > 24*time.Hour {
			problems = append(problems, fmt.Sprintf("invalid scheduler interval %v: must be at most 24 hours", c.Scheduler.Interval.Duration))
		}
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		problems = append(problems, "Kafka topic cannot be empty when brokers are configured")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if _, err := c.BenchmarkSet(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid benchmark: %v", err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// EnsureDataDir creates the directory holding the SQLite file.
func (c Config) EnsureDataDir() error {
	if c.Storage.Backend != "sqlite" {
		return nil
	}
	dir := filepath.Dir(c.Storage.SQLitePath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}

// BenchmarkSet returns the national benchmark plus every configured one.
func (c Config) BenchmarkSet() (*factory.BenchmarkSet, error) {
	set := factory.NewBenchmarkSet()
	if err := set.RegisterJSON(c.Benchmarks...); err != nil {
		return nil, err
	}
	return set, nil
}

// LogLevel maps the configured level; unknown values fall back to info.
func (c Config) LogLevel() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", s)
	}
	return l, nil
}
