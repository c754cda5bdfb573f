package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	SSLMode   string
	OpTimeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// EngineConfig holds the attendance engine tunables.
type EngineConfig struct {
	AutoCheckoutLinger  time.Duration
	ReconcileInterval   time.Duration
	MinOfficeConfidence float64
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbOpTimeout, err := time.ParseDuration(getEnv("DB_OP_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_OP_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:      getEnv("DB_HOST", "localhost"),
		Port:      dbPort,
		User:      getEnv("DB_USER", "postgres"),
		Password:  getEnv("DB_PASSWORD", ""),
		Name:      getEnv("DB_NAME", "attendance"),
		SSLMode:   getEnv("DB_SSL_MODE", "disable"),
		OpTimeout: dbOpTimeout,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Engine configuration
	linger, err := time.ParseDuration(getEnv("AUTO_CHECKOUT_LINGER", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_CHECKOUT_LINGER: %w", err)
	}
	reconcile, err := time.ParseDuration(getEnv("TIMER_RECONCILE_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMER_RECONCILE_INTERVAL: %w", err)
	}
	minConfidence, err := strconv.ParseFloat(getEnv("MIN_OFFICE_CONFIDENCE", "30"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_OFFICE_CONFIDENCE: %w", err)
	}

	config.Engine = EngineConfig{
		AutoCheckoutLinger:  linger,
		ReconcileInterval:   reconcile,
		MinOfficeConfidence: minConfidence,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
