package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Registration RegistrationConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string

	// SeedDemoAccounts enables the dev-only startup seeder that creates one
	// sender and one runner account.
	SeedDemoAccounts bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
}

type StorageConfig struct {
	RootDir string
}

type RegistrationConfig struct {
	// AvatarFailurePolicy is "abort" or "skip": whether a failed
	// profile-picture upload aborts registration or degrades to a
	// profile without an avatar.
	AvatarFailurePolicy string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:          opt("APP_NAME", "errandgo"),
		Environment:      opt("APP_ENV", "development"),
		HTTPPort:         req("HTTP_PORT"),
		SeedDemoAccounts: opt("SEED_DEMO_ACCOUNTS", "false") == "true",
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	cfg.JWT = JWTConfig{
		Secret:     req("JWT_SECRET"),
		SessionTTL: durationSeconds(opt("SESSION_TTL_SECONDS", "3600")),
	}

	cfg.Storage = StorageConfig{
		RootDir: opt("STORAGE_ROOT", "./data/storage"),
	}

	cfg.Registration = RegistrationConfig{
		AvatarFailurePolicy: opt("REGISTRATION_AVATAR_FAILURE", "abort"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func durationSeconds(raw string) time.Duration {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return time.Hour
	}
	return time.Duration(v) * time.Second
}
