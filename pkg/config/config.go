package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production, test

	// Outbound HTTP
	HTTP HTTPConfig

	// Redis (optional, distributed rate limiting only)
	Redis RedisConfig

	// External APIs
	AlphaVantage AlphaVantageConfig
	SEC          SECConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// AlphaVantageConfig holds market-data provider configuration
type AlphaVantageConfig struct {
	APIKey    string
	BaseURL   string
	Function  string  // overview function name, OVERVIEW
	RateLimit float64 // requests per second, 0 disables
}

// SECConfig holds EDGAR filings registry configuration
type SECConfig struct {
	BaseURL        string
	ArchiveBaseURL string
	UserAgent      string // required by SEC fair access policy
	FormType       string
	RateLimit      float64 // requests per second, 0 disables
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("ENV", "development"),

		HTTP: HTTPConfig{
			Timeout:         getEnvAsDuration("HTTP_TIMEOUT", "10s"),
			MaxIdleConns:    getEnvAsInt("HTTP_MAX_IDLE_CONNS", 20),
			IdleConnTimeout: getEnvAsDuration("HTTP_IDLE_CONN_TIMEOUT", "90s"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		AlphaVantage: AlphaVantageConfig{
			APIKey:    getEnv("ALPHAVANTAGE_API_KEY", "demo"),
			BaseURL:   getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			Function:  getEnv("ALPHAVANTAGE_FUNCTION", "OVERVIEW"),
			RateLimit: getEnvAsFloat("ALPHAVANTAGE_RATE_LIMIT", 1),
		},

		SEC: SECConfig{
			BaseURL:        getEnv("SEC_BASE_URL", "https://data.sec.gov"),
			ArchiveBaseURL: getEnv("SEC_ARCHIVE_BASE_URL", "https://www.sec.gov/Archives"),
			UserAgent:      getEnv("SEC_USER_AGENT", "CompanyDataAPI admin@example.com"),
			FormType:       getEnv("SEC_FORM_TYPE", "10-K"),
			RateLimit:      getEnvAsFloat("SEC_RATE_LIMIT", 10),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile loads environment variables from path before reading config.
// Variables already set in the process environment take precedence.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return Load()
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if err := validateURL("ALPHAVANTAGE_BASE_URL", c.AlphaVantage.BaseURL); err != nil {
		return err
	}
	if err := validateURL("SEC_BASE_URL", c.SEC.BaseURL); err != nil {
		return err
	}
	if err := validateURL("SEC_ARCHIVE_BASE_URL", c.SEC.ArchiveBaseURL); err != nil {
		return err
	}

	if strings.TrimSpace(c.AlphaVantage.Function) == "" {
		return fmt.Errorf("ALPHAVANTAGE_FUNCTION is required")
	}

	// SEC rejects requests without a declared contact
	if strings.TrimSpace(c.SEC.UserAgent) == "" {
		return fmt.Errorf("SEC_USER_AGENT is required")
	}

	if strings.TrimSpace(c.SEC.FormType) == "" {
		return fmt.Errorf("SEC_FORM_TYPE is required")
	}

	if c.AlphaVantage.RateLimit < 0 || c.SEC.RateLimit < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL: %q", key, raw)
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
