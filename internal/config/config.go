package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config groups the application configuration, read via Viper from the
// environment and optionally from a config.yaml in the working directory.
type Config struct {
	Env             string
	ServerAddr      string
	DatabaseURL     string
	RedisAddr       string
	JWTSecret       string
	AdminSecretHash string // bcrypt hash of the shared admin action secret
	Locations       []string
	LogLevel        string
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("env", "development")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("redis_addr", "inventory-redis:6379")
	v.SetDefault("log_level", "info")
	v.SetDefault("locations", []string{"HYD", "BLR", "CHN"})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// The config file is optional; env vars alone are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		Env:             v.GetString("env"),
		ServerAddr:      v.GetString("server_addr"),
		DatabaseURL:     v.GetString("database_url"),
		RedisAddr:       v.GetString("redis_addr"),
		JWTSecret:       v.GetString("jwt_secret"),
		AdminSecretHash: v.GetString("admin_secret_hash"),
		Locations:       v.GetStringSlice("locations"),
		LogLevel:        v.GetString("log_level"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}
