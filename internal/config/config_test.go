package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Catalog: CatalogConfig{
			BaseURL:       "https://www.omdbapi.com/",
			APIKey:        "key",
			Timeout:       30 * time.Second,
			EnrichWorkers: 10,
		},
		Search: SearchConfig{SortPolicy: SortPolicyPerPage},
		Trending: TrendingConfig{
			Interval: 5 * time.Second,
			Viewport: 4,
		},
	}
}

// load runs loadConfig against a fresh flag set and an absent .env file.
func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args = append([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	return loadConfig(fs, args)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing api key", func(c *Config) { c.Catalog.APIKey = "" }, "CATALOG_API_KEY"},
		{"empty base url", func(c *Config) { c.Catalog.BaseURL = "" }, "CATALOG_BASE_URL"},
		{"negative timeout", func(c *Config) { c.Catalog.Timeout = -time.Second }, "CATALOG_TIMEOUT"},
		{"zero workers", func(c *Config) { c.Catalog.EnrichWorkers = 0 }, "CATALOG_ENRICH_WORKERS"},
		{"unknown sort policy", func(c *Config) { c.Search.SortPolicy = "sometimes" }, "sort policy"},
		{"zero interval", func(c *Config) { c.Trending.Interval = 0 }, "TRENDING_INTERVAL"},
		{"zero viewport", func(c *Config) { c.Trending.Viewport = 0 }, "TRENDING_VIEWPORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ZeroTimeoutDisables(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Timeout = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CATALOG_API_KEY", "abc123")

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://www.omdbapi.com/", cfg.Catalog.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 10, cfg.Catalog.EnrichWorkers)
	assert.Equal(t, SortPolicyPerPage, cfg.Search.SortPolicy)
	assert.Equal(t, 30*time.Minute, cfg.Search.SessionIdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.Trending.Interval)
	assert.Equal(t, 4, cfg.Trending.Viewport)
	assert.Equal(t, DefaultTrendingTitles, cfg.Trending.Titles)
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv("CATALOG_API_KEY", "from-env")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := load(t, "-catalog-api-key", "from-flag", "-port", "9100")
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Catalog.APIKey)
	assert.Equal(t, "9100", cfg.Server.Port)
}

func TestLoadConfig_EnvValues(t *testing.T) {
	t.Setenv("CATALOG_API_KEY", "abc123")
	t.Setenv("CATALOG_TIMEOUT", "0")
	t.Setenv("SEARCH_SORT_POLICY", "GLOBAL")
	t.Setenv("TRENDING_TITLES", "Alien, Heat ,,Up")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://cinescope.app")

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Zero(t, cfg.Catalog.Timeout)
	assert.Equal(t, SortPolicyGlobal, cfg.Search.SortPolicy)
	assert.Equal(t, []string{"Alien", "Heat", "Up"}, cfg.Trending.Titles)
	assert.Equal(t, []string{"http://localhost:3000", "https://cinescope.app"}, cfg.Server.CORSOrigins)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("CATALOG_API_KEY", "abc123")
	t.Setenv("TRENDING_INTERVAL", "often")

	_, err := load(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRENDING_INTERVAL")
}

func TestLoadConfig_MissingAPIKey(t *testing.T) {
	t.Setenv("CATALOG_API_KEY", "")

	_, err := load(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_API_KEY")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nCINESCOPE_TEST_A=alpha\nCINESCOPE_TEST_B=\"quoted\"\n\nCINESCOPE_TEST_C=keep\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CINESCOPE_TEST_C", "existing")
	// Registered so t.Setenv restores the unset state after the test.
	t.Setenv("CINESCOPE_TEST_A", "")
	t.Setenv("CINESCOPE_TEST_B", "")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "alpha", os.Getenv("CINESCOPE_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("CINESCOPE_TEST_B"))
	assert.Equal(t, "existing", os.Getenv("CINESCOPE_TEST_C"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	err := loadEnvFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
