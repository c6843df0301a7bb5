package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Dictionary DictionaryConfig
	Evaluation EvaluationConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Typesense  TypesenseConfig
	OTEL       OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Env string
}

// DictionaryConfig points at the dictionary data files
type DictionaryConfig struct {
	Path         string
	VariantsPath string
}

// EvaluationConfig holds evaluation run settings
type EvaluationConfig struct {
	GoldenQueriesPath string
	Systems           []string
	Depth             int
	MaxK              int
	Workers           int
	OutputDir         string
	CacheTTLSeconds   int
}

// DatabaseConfig holds database configuration. Persistence is off when
// Enabled is false.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	Enabled bool
	URL     string
	APIKey  string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// DefaultSystems is the fixed set of ranking systems compared by default.
var DefaultSystems = []string{"ratio", "stripped", "variants", "spread"}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Dictionary: DictionaryConfig{
			Path:         getEnv("DICTIONARY_PATH", "./ChamorroDictionary.json"),
			VariantsPath: getEnv("VARIANTS_PATH", "./ChamorroVariants.json"),
		},
		Evaluation: EvaluationConfig{
			GoldenQueriesPath: getEnv("GOLDEN_QUERIES_PATH", "config/golden_queries.json"),
			Systems:           getEnvAsList("EVAL_SYSTEMS", DefaultSystems),
			Depth:             getEnvAsInt("EVAL_DEPTH", 10),
			MaxK:              getEnvAsInt("EVAL_MAX_K", 10),
			Workers:           getEnvAsInt("EVAL_WORKERS", 4),
			OutputDir:         getEnv("EVAL_OUTPUT_DIR", "out"),
			CacheTTLSeconds:   getEnvAsInt("EVAL_CACHE_TTL_SECONDS", 3600),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "chamorro_search"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "chamorro-search-eval"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.Evaluation.MaxK < 1 {
		return fmt.Errorf("EVAL_MAX_K must be at least 1, got %d", c.Evaluation.MaxK)
	}
	if c.Evaluation.Depth < 1 {
		return fmt.Errorf("EVAL_DEPTH must be at least 1, got %d", c.Evaluation.Depth)
	}
	if len(c.Evaluation.Systems) == 0 {
		return fmt.Errorf("EVAL_SYSTEMS must name at least one system")
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseList splits a comma separated list, dropping blanks and repeats.
// The first occurrence keeps its position.
func ParseList(value string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if list := ParseList(os.Getenv(key)); len(list) > 0 {
		return list
	}
	out := make([]string, len(defaultValue))
	copy(out, defaultValue)
	return out
}
