package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Secrets  SecretsConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds LiqPay gateway configuration. The key pair may come
// from the environment directly or from a secret backend (see SecretsConfig);
// environment keys win when both are set.
type GatewayConfig struct {
	BaseURL    string // Base URL for the LiqPay API (default: https://www.liqpay.ua)
	PublicKey  string // Merchant public key ("sandbox_..." targets the sandbox)
	PrivateKey string // Merchant private key, used for signing only
	Timeout    int    // Request timeout in seconds (default: 30)
}

// SecretsConfig selects the secret backend for the merchant key pair
type SecretsConfig struct {
	// Backend: "env", "local", "aws", "vault"
	Backend string

	// Paths of the two key secrets within the backend
	PublicKeyPath  string
	PrivateKeyPath string

	// local backend
	LocalPath string

	// aws backend
	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	// vault backend
	VaultAddress   string
	VaultToken     string
	VaultMountPath string

	CacheTTL time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "liqpay_client"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			BaseURL:    getEnv("LIQPAY_BASE_URL", "https://www.liqpay.ua"),
			PublicKey:  getEnv("LIQPAY_PUBLIC_KEY", ""),
			PrivateKey: getEnv("LIQPAY_PRIVATE_KEY", ""),
			Timeout:    getEnvAsInt("LIQPAY_TIMEOUT", 30),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRETS_BACKEND", "env"),
			PublicKeyPath:  getEnv("SECRETS_PUBLIC_KEY_PATH", "liqpay-client/public_key"),
			PrivateKeyPath: getEnv("SECRETS_PRIVATE_KEY_PATH", "liqpay-client/private_key"),
			LocalPath:      getEnv("SECRETS_LOCAL_PATH", "./secrets"),
			AWSRegion:      getEnv("AWS_REGION", "eu-central-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_ENDPOINT", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
			CacheTTL:       time.Duration(getEnvAsInt("SECRETS_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Secrets.Backend == "env" {
		if cfg.Gateway.PublicKey == "" {
			return nil, fmt.Errorf("LIQPAY_PUBLIC_KEY is required")
		}
		if cfg.Gateway.PrivateKey == "" {
			return nil, fmt.Errorf("LIQPAY_PRIVATE_KEY is required")
		}
	}

	return cfg, nil
}

// ConnectionString returns the PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

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
