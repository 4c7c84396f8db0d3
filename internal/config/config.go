// Package config loads Cinescope configuration from command-line flags, environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sort policies for appended search pages.
const (
	SortPolicyPerPage = "per_page"
	SortPolicyGlobal  = "global"
)

// DefaultTrendingTitles is the curated list the carousel fetches when TRENDING_TITLES is unset.
var DefaultTrendingTitles = []string{
	"The Shawshank Redemption",
	"The Godfather",
	"The Dark Knight",
	"Pulp Fiction",
	"Forrest Gump",
	"Inception",
	"Fight Club",
	"The Matrix",
	"Goodfellas",
	"Interstellar",
	"Parasite",
	"Spirited Away",
}

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Catalog  CatalogConfig
	Search   SearchConfig
	Trending TrendingConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string

	// File enables rotating file output in addition to stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // default: 8080
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 60s, SSE streams reset their own deadline
	IdleTimeout  time.Duration // default: 60s
	CORSOrigins  []string
	RateLimit    int // requests per minute per client IP
	RateBurst    int
}

// CatalogConfig holds remote movie catalog configuration.
type CatalogConfig struct {
	BaseURL string
	APIKey  string

	// Timeout bounds each catalog request. Zero means no timeout.
	Timeout       time.Duration
	EnrichWorkers int
}

// SearchConfig holds result aggregator configuration.
type SearchConfig struct {
	SortPolicy         string
	SessionIdleTimeout time.Duration
}

// TrendingConfig holds carousel configuration.
type TrendingConfig struct {
	Titles   []string
	Interval time.Duration
	Viewport int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return loadConfig(flag.CommandLine, os.Args[1:])
}

func loadConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Rotating log file path (default: stdout only)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	catalogURL := fs.String("catalog-url", "", "Movie catalog base URL")
	catalogKey := fs.String("catalog-api-key", "", "Movie catalog API key")
	catalogTimeout := fs.String("catalog-timeout", "", "Catalog request timeout, 0 disables (default: 30s)")

	sortPolicy := fs.String("sort-policy", "", "Sort policy for appended pages: per_page or global")
	trendingTitles := fs.String("trending-titles", "", "Comma-separated trending titles")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:      getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:       getConfigValue(*logFile, "LOG_FILE", ""),
			MaxSizeMB:  getIntConfigValue("", "LOG_MAX_SIZE_MB", 50),
			MaxBackups: getIntConfigValue("", "LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getIntConfigValue("", "LOG_MAX_AGE_DAYS", 14),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue("", "CORS_ORIGINS", "*")),
			RateLimit:   getIntConfigValue("", "API_RATE_LIMIT", 300),
			RateBurst:   getIntConfigValue("", "API_RATE_BURST", 60),
		},
		Catalog: CatalogConfig{
			BaseURL:       getConfigValue(*catalogURL, "CATALOG_BASE_URL", "https://www.omdbapi.com/"),
			APIKey:        getConfigValue(*catalogKey, "CATALOG_API_KEY", ""),
			EnrichWorkers: getIntConfigValue("", "CATALOG_ENRICH_WORKERS", 10),
		},
		Search: SearchConfig{
			SortPolicy: strings.ToLower(getConfigValue(*sortPolicy, "SEARCH_SORT_POLICY", SortPolicyPerPage)),
		},
		Trending: TrendingConfig{
			Titles:   splitList(getConfigValue(*trendingTitles, "TRENDING_TITLES", "")),
			Viewport: getIntConfigValue("", "TRENDING_VIEWPORT", 4),
		},
	}

	if len(cfg.Trending.Titles) == 0 {
		cfg.Trending.Titles = append([]string(nil), DefaultTrendingTitles...)
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*catalogTimeout, "CATALOG_TIMEOUT", "30s", &cfg.Catalog.Timeout},
		{"", "SESSION_IDLE_TIMEOUT", "30m", &cfg.Search.SessionIdleTimeout},
		{"", "TRENDING_INTERVAL", "5s", &cfg.Trending.Interval},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Catalog.APIKey == "" {
		return errors.New("CATALOG_API_KEY is required")
	}
	if c.Catalog.BaseURL == "" {
		return errors.New("CATALOG_BASE_URL cannot be empty")
	}
	if c.Catalog.Timeout < 0 {
		return errors.New("CATALOG_TIMEOUT cannot be negative")
	}
	if c.Catalog.EnrichWorkers < 1 {
		return fmt.Errorf("CATALOG_ENRICH_WORKERS must be at least 1, got %d", c.Catalog.EnrichWorkers)
	}

	if c.Search.SortPolicy != SortPolicyPerPage && c.Search.SortPolicy != SortPolicyGlobal {
		return fmt.Errorf("invalid sort policy: %q (must be %s or %s)", c.Search.SortPolicy, SortPolicyPerPage, SortPolicyGlobal)
	}

	if c.Trending.Interval <= 0 {
		return errors.New("TRENDING_INTERVAL must be positive")
	}
	if c.Trending.Viewport < 1 {
		return fmt.Errorf("TRENDING_VIEWPORT must be at least 1, got %d", c.Trending.Viewport)
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
