package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// CORS
	AllowedOrigins []string

	LLM     LLMConfig
	Planner PlannerConfig
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	llm, err := LoadLLMConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM configuration: %w", err)
	}
	cfg.LLM = llm

	planner, err := LoadPlannerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load planner configuration: %w", err)
	}
	cfg.Planner = planner

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads everything from environment variables; CI has no secrets mount
func loadCIConfig(cfg *Config) error {
	loadCommonEnv(cfg)

	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		cfg.DBPassword = os.Getenv("DB_PASSWORD")
	}
	if cfg.DBPassword == "" && cfg.DBDriver == "postgres" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = firstNonEmpty(os.Getenv("TEST_JWT_SECRET"), os.Getenv("JWT_SECRET"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("TEST_REDIS_PASSWORD"), os.Getenv("REDIS_PASSWORD"))
	cfg.RedisURL = firstNonEmpty(os.Getenv("TEST_REDIS_URL"), cfg.RedisURL)

	return nil
}

// loadDevConfig prefers Docker secrets and falls back to plain environment variables
func loadDevConfig(cfg *Config) error {
	loadCommonEnv(cfg)

	cfg.DBUser = secretOrEnv("db_user", "DB_USER")
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD")
	cfg.JWTSecret = secretOrEnv("jwt_secret", "JWT_SECRET")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD")

	return nil
}

// loadProdConfig loads sensitive values using ONLY Docker secrets
func loadProdConfig(cfg *Config) error {
	loadCommonEnv(cfg)

	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
	if url := readSecret("redis_url"); url != "" {
		cfg.RedisURL = url
	}

	return nil
}

func loadCommonEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	cfg.DBPath = getEnv("DB_PATH", "nutriplan.db")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBName = getEnv("DB_NAME", "nutriplan")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisDB, _ = strconv.Atoi(getEnv("REDIS_DB", "0"))
	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))
}

// RedisAddress returns the URL used to connect to Redis, built from host and port when
// no explicit URL is configured.
func (c *Config) RedisAddress() string {
	if c.RedisURL != "" {
		return c.RedisURL
	}
	if c.RedisPassword != "" {
		return fmt.Sprintf("redis://:%s@%s:%s/%d", c.RedisPassword, c.RedisHost, c.RedisPort, c.RedisDB)
	}
	return fmt.Sprintf("redis://%s:%s/%d", c.RedisHost, c.RedisPort, c.RedisDB)
}

// DatabaseDSN returns the lib/pq connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func secretOrEnv(secret, envKey string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(envKey)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
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
