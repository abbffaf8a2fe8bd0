package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once at
// startup and passed explicitly to the components that need it.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
	Mode string // gin mode: debug, release, test
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

type AIConfig struct {
	DeepSeekAPIKey string
	Model          string
	BaseURL        string
	MaxTokens      int
}

type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("GIN_MODE", "debug")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "taskpilot")
	v.SetDefault("DB_PASSWORD", "taskpilot")
	v.SetDefault("DB_NAME", "taskpilot")
	v.SetDefault("DB_SSL_MODE", "disable")

	v.SetDefault("ACCESS_TOKEN_TTL", "60m")

	v.SetDefault("DEEPSEEK_API_KEY", "")
	v.SetDefault("DEEPSEEK_MODEL", "deepseek-chat")
	v.SetDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1")
	v.SetDefault("AI_MAX_TOKENS", 500)

	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Mode: v.GetString("GIN_MODE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("SECRET_KEY"),
			AccessTokenTTL: v.GetDuration("ACCESS_TOKEN_TTL"),
		},
		AI: AIConfig{
			DeepSeekAPIKey: v.GetString("DEEPSEEK_API_KEY"),
			Model:          v.GetString("DEEPSEEK_MODEL"),
			BaseURL:        v.GetString("DEEPSEEK_BASE_URL"),
			MaxTokens:      v.GetInt("AI_MAX_TOKENS"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	return cfg, nil
}
