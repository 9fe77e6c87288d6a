package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// AI providers
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Config holds the process configuration read from the environment
type Config struct {
	GRPCAddr    string
	APIToken    string
	MetricsAddr string

	LogLevel  string
	LogFormat string

	Timezone         string
	Locale           string
	HistoryTotalMode string

	StoreDriver    string
	SQLitePath     string
	DBConnStr      string
	RedisAddr      string
	RedisPoolSize  int
	StoreKeyPrefix string

	ExtractionProvider string
	AnalysisProvider   string
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIBaseURL      string
	OpenAIAPIKey       string
	OpenAIModel        string
	DeepSeekAPIKey     string
	DeepSeekModel      string
	AITimeout          time.Duration
}

// Load reads a .env file if present and then the environment
// Variables already set in the environment win over the .env file
func Load() *Config {
	_ = godotenv.Load()

	token := os.Getenv("API_TOKEN")
	cfg := &Config{
		GRPCAddr:    getEnv("GRPC_ADDR", defaultGRPCAddr(token)),
		APIToken:    token,
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Timezone:         os.Getenv("TIMEZONE"),
		Locale:           getEnv("LOCALE", "zh"),
		HistoryTotalMode: getEnv("HISTORY_TOTAL_MODE", "recomputed"),

		StoreDriver:    getEnv("STORE_DRIVER", StoreSQLite),
		SQLitePath:     getEnv("SQLITE_PATH", "data/wealthsnap.db"),
		DBConnStr:      dbConnStr(),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPoolSize:  getEnvInt("REDIS_POOL_SIZE", 4),
		StoreKeyPrefix: os.Getenv("STORE_KEY_PREFIX"),

		ExtractionProvider: getEnv("EXTRACTION_PROVIDER", ProviderGemini),
		AnalysisProvider:   getEnv("ANALYSIS_PROVIDER", ProviderGemini),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        os.Getenv("OPENAI_MODEL"),
		DeepSeekAPIKey:     os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekModel:      os.Getenv("DEEPSEEK_MODEL"),
		AITimeout:          getEnvDuration("AI_TIMEOUT", 90*time.Second),
	}

	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	cfg.ExtractionProvider = strings.ToLower(cfg.ExtractionProvider)
	cfg.AnalysisProvider = strings.ToLower(cfg.AnalysisProvider)

	return cfg
}

// defaultGRPCAddr listens on every interface only when requests are authorized
func defaultGRPCAddr(token string) string {
	if token == "" {
		return "localhost:8080"
	}
	return ":8080"
}

// dbConnStr uses DB_CONN_STR or builds it from individual vars (Docker friendly)
func dbConnStr() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "wealthsnap"),
	)
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of memory, sqlite, postgres, redis, got %q", c.StoreDriver))
	}

	switch c.HistoryTotalMode {
	case "recomputed", "legacy":
	default:
		errs = append(errs, fmt.Errorf("HISTORY_TOTAL_MODE must be recomputed or legacy, got %q", c.HistoryTotalMode))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if c.StoreDriver == StoreSQLite && strings.TrimSpace(c.SQLitePath) == "" {
		errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
	}

	switch c.ExtractionProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("EXTRACTION_PROVIDER must be gemini or openai, got %q", c.ExtractionProvider))
	}

	switch c.AnalysisProvider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek:
	default:
		errs = append(errs, fmt.Errorf("ANALYSIS_PROVIDER must be gemini, openai or deepseek, got %q", c.AnalysisProvider))
	}

	if c.AITimeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// ValidateProviders checks that the selected AI providers have credentials
// Only commands that call the services need this
func (c *Config) ValidateProviders() error {
	var errs []error
	for _, provider := range uniq(c.ExtractionProvider, c.AnalysisProvider) {
		if key := c.apiKeyFor(provider); key == "" {
			errs = append(errs, fmt.Errorf("%s_API_KEY is required for provider %s", strings.ToUpper(provider), provider))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) apiKeyFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderDeepSeek:
		return c.DeepSeekAPIKey
	default:
		return ""
	}
}

// Location resolves TIMEZONE; empty means the local zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func uniq(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		seen := false
		for _, o := range out {
			if o == v {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return out
}
