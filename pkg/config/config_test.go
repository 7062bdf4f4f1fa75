package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "OVERVIEW", cfg.AlphaVantage.Function)
	assert.Equal(t, "https://data.sec.gov", cfg.SEC.BaseURL)
	assert.Equal(t, "10-K", cfg.SEC.FormType)
	assert.NotEmpty(t, cfg.SEC.UserAgent)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("ALPHAVANTAGE_API_KEY", "secret")
	t.Setenv("SEC_USER_AGENT", "Acme Research ops@acme.test")
	t.Setenv("SEC_FORM_TYPE", "10-Q")
	t.Setenv("SEC_RATE_LIMIT", "2.5")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "secret", cfg.AlphaVantage.APIKey)
	assert.Equal(t, "Acme Research ops@acme.test", cfg.SEC.UserAgent)
	assert.Equal(t, "10-Q", cfg.SEC.FormType)
	assert.Equal(t, 2.5, cfg.SEC.RateLimit)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRelativeBaseURL(t *testing.T) {
	t.Setenv("SEC_BASE_URL", "data.sec.gov")

	_, err := Load()
	assert.ErrorContains(t, err, "SEC_BASE_URL")
}

func TestValidateNegativeRateLimit(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_RATE_LIMIT", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateBlankUserAgent(t *testing.T) {
	cfg := validConfig()
	cfg.SEC.UserAgent = "   "

	assert.ErrorContains(t, cfg.validate(), "SEC_USER_AGENT")
}

func TestValidateTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Timeout = 0

	assert.Error(t, cfg.validate())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")
	assert.Equal(t, 2*time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))

	t.Setenv("TEST_DURATION", "garbage")
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")
	assert.Equal(t, 100, getEnvAsInt("TEST_INT", 50))

	t.Setenv("TEST_INT", "abc")
	assert.Equal(t, 50, getEnvAsInt("TEST_INT", 50))
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.5")
	assert.Equal(t, 0.5, getEnvAsFloat("TEST_FLOAT", 1))

	t.Setenv("TEST_FLOAT", "x")
	assert.Equal(t, 1.0, getEnvAsFloat("TEST_FLOAT", 1))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))
}

func validConfig() *Config {
	return &Config{
		Env:  "test",
		HTTP: HTTPConfig{Timeout: time.Second},
		AlphaVantage: AlphaVantageConfig{
			BaseURL:  "https://www.alphavantage.co/query",
			Function: "OVERVIEW",
		},
		SEC: SECConfig{
			BaseURL:        "https://data.sec.gov",
			ArchiveBaseURL: "https://www.sec.gov/Archives",
			UserAgent:      "test test@example.com",
			FormType:       "10-K",
		},
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SEC_FORM_TYPE=20-F\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "7100")
	t.Cleanup(func() { os.Unsetenv("SEC_FORM_TYPE") })

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "20-F", cfg.SEC.FormType)
	assert.Equal(t, "7100", cfg.Port, "process environment wins over the file")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}
