package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"

	DefaultPath = "console.yaml"
)

type Config struct {
	Server struct {
		Port               string        `yaml:"port"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Backend struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`

	Session struct {
		Store         string        `yaml:"store"`
		TTL           time.Duration `yaml:"ttl"`
		Secret        string        `yaml:"secret"`
		Table         string        `yaml:"table"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
	} `yaml:"session"`

	Events struct {
		NATSURL       string `yaml:"nats_url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"events"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Display struct {
		Timezone   string `yaml:"timezone"`
		DateLayout string `yaml:"date_layout"`
	} `yaml:"display"`
}

// Default returns the configuration used when neither file nor environment
// say otherwise.
func Default() *Config {
	var c Config
	c.Server.Port = "8080"
	c.Server.CORSAllowedOrigins = []string{"*"}
	c.Server.ShutdownTimeout = 15 * time.Second
	c.Backend.URL = "http://localhost:8081"
	c.Backend.Timeout = 30 * time.Second
	c.Session.Store = SessionStoreMemory
	c.Session.TTL = 12 * time.Hour
	c.Session.Table = "console_sessions"
	c.Session.SweepInterval = 5 * time.Minute
	c.Events.SubjectPrefix = "league.console"
	c.Log.Level = "info"
	c.Display.Timezone = "Local"
	return &c
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Backend.URL = getEnv("BACKEND_URL", c.Backend.URL)
	c.Session.Store = getEnv("SESSION_STORE", c.Session.Store)
	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Events.NATSURL = getEnv("NATS_URL", c.Events.NATSURL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Display.Timezone = getEnv("CONSOLE_TIMEZONE", c.Display.Timezone)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.CORSAllowedOrigins = splitList(origins)
	}

	ttl, err := getEnvAsDuration("SESSION_TTL", c.Session.TTL)
	if err != nil {
		return err
	}
	c.Session.TTL = ttl

	timeout, err := getEnvAsDuration("BACKEND_TIMEOUT", c.Backend.Timeout)
	if err != nil {
		return err
	}
	c.Backend.Timeout = timeout
	return nil
}

// Validate checks the settings that would otherwise fail at start-up.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("backend url is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Server.Port, err)
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if c.Session.Secret == "" {
			return errors.New("session secret is required for the postgres session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session ttl must not be negative: %s", c.Session.TTL)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured zerolog level
func (c *Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Location resolves the display time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" || c.Display.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90m") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
