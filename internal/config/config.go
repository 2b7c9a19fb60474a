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
	Env      string        `yaml:"env"`
	HTTPAddr string        `yaml:"http_addr"`
	Parser   ParserConfig  `yaml:"parser"`
	Fetch    FetchConfig   `yaml:"fetch"`
	Enrich   EnrichConfig  `yaml:"enrich"`
	Logging  LoggingConfig `yaml:"logging"`
}

type ParserConfig struct {
	// Order lists parser names by priority.
	Order []string `yaml:"order"`
	// Timezone is the IANA zone floating and UTC calendar times resolve
	// against. Empty means the process local zone.
	Timezone string `yaml:"timezone"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"`
	RPS       float64       `yaml:"rps"`
	Burst     int           `yaml:"burst"`
	UserAgent string        `yaml:"user_agent"`
}

type EnrichConfig struct {
	// PerMinute caps title lookups per client in the API.
	PerMinute int `yaml:"per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Env:      "dev",
		HTTPAddr: ":8080",
		Parser: ParserConfig{
			Order: []string{"calendar", "uri"},
		},
		Fetch: FetchConfig{
			Timeout: 8 * time.Second,
			Retries: 1,
			RPS:     1,
			Burst:   2,
		},
		Enrich: EnrichConfig{PerMinute: 30},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.Env = getenv("APP_ENV", cfg.Env)
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	if v := os.Getenv("PARSER_ORDER"); v != "" {
		cfg.Parser.Order = splitList(v)
	}
	cfg.Parser.Timezone = getenv("PARSER_TIMEZONE", cfg.Parser.Timezone)
	cfg.Fetch.Timeout = getenvDuration("FETCH_TIMEOUT", cfg.Fetch.Timeout)
	cfg.Fetch.Retries = getenvInt("FETCH_RETRIES", cfg.Fetch.Retries)
	cfg.Fetch.RPS = getenvFloat("FETCH_RPS", cfg.Fetch.RPS)
	cfg.Fetch.Burst = getenvInt("FETCH_BURST", cfg.Fetch.Burst)
	cfg.Fetch.UserAgent = getenv("FETCH_USER_AGENT", cfg.Fetch.UserAgent)
	cfg.Enrich.PerMinute = getenvInt("ENRICH_PER_MINUTE", cfg.Enrich.PerMinute)
	cfg.Logging.Level = getenv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getenv("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.File = getenv("LOG_FILE", cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if len(c.Parser.Order) == 0 {
		return fmt.Errorf("parser order is empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Enrich.PerMinute < 0 {
		return fmt.Errorf("enrich per_minute must not be negative")
	}
	return nil
}

// Location resolves Parser.Timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Parser.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid parser timezone %q: %w", tz, err)
	}
	return loc, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return parsed
}

func splitList(val string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
