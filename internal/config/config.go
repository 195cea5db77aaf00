// Package config reads the runtime configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"sharedledger/internal/identity"

	"github.com/joho/godotenv"
)

// Storage backends for the local store.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds every setting the server and the CLI need.
type Config struct {
	Port string

	Store    string
	DataPath string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsPath string

	SyncURL string

	KafkaBrokers []string
	KafkaTopic   string

	RefreshInterval  time.Duration
	WriteReloadDelay time.Duration

	CORSOrigins []string

	Provider identity.Account
	Client   identity.Account
}

// Load reads .env files (when present) and the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	provider, client := identity.DefaultAccounts()

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Store:          strings.ToLower(getEnvOrDefault("LEDGER_STORE", StoreFile)),
		DataPath:       getEnvOrDefault("LEDGER_DATA_PATH", "data/ledger.json"),
		DBHost:         getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:         getEnvOrDefault("DB_PORT", "5432"),
		DBUser:         getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:     getEnvOrDefault("DB_PASSWORD", "password"),
		DBName:         getEnvOrDefault("DB_NAME", "sharedledger"),
		DBSSLMode:      getEnvOrDefault("DB_SSLMODE", "disable"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "db/migrations"),
		SyncURL:        strings.TrimSpace(os.Getenv("LEDGER_SYNC_URL")),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnvOrDefault("KAFKA_TOPIC", "ledger_changes"),
		CORSOrigins:    splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),
		Provider: identity.Account{
			Identity: identity.Identity{
				Role:  identity.RoleProvider,
				Name:  getEnvOrDefault("PROVIDER_NAME", provider.Name),
				Email: getEnvOrDefault("PROVIDER_EMAIL", provider.Email),
			},
			Passcode: getEnvOrDefault("PROVIDER_PASSCODE", provider.Passcode),
		},
		Client: identity.Account{
			Identity: identity.Identity{
				Role:  identity.RoleClient,
				Name:  getEnvOrDefault("CLIENT_NAME", client.Name),
				Email: getEnvOrDefault("CLIENT_EMAIL", client.Email),
			},
			Passcode: getEnvOrDefault("CLIENT_PASSCODE", client.Passcode),
		},
	}

	var err error
	if cfg.RefreshInterval, err = durationEnv("REFRESH_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteReloadDelay, err = durationEnv("WRITE_RELOAD_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Store != StoreFile && cfg.Store != StorePostgres {
		return nil, fmt.Errorf("LEDGER_STORE must be %q or %q, got %q", StoreFile, StorePostgres, cfg.Store)
	}
	return cfg, nil
}

// DatabaseURL is the connection string for both pgx and lib/pq.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Directory returns the identity directory built from the configured accounts.
func (c *Config) Directory() *identity.Directory {
	return identity.NewDirectory(c.Provider, c.Client)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
