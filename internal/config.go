package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// DatabaseUrl is optional; when empty the server runs on the seeded
	// in-memory catalog.
	DatabaseUrl string

	BaseURL        string
	AllowedOrigins []string

	Shop        ShopConfig
	MercadoPago MercadoPagoConfig
	Email       EmailConfig
}

// ShopConfig identifies the shop in notifications and receipts.
type ShopConfig struct {
	Name          string
	Address       string
	WhatsAppPhone string
}

// MercadoPagoConfig holds hosted checkout credentials. An empty AccessToken
// disables the integration; cash and transfer orders still work.
type MercadoPagoConfig struct {
	AccessToken string
	BackURL     string
}

// EmailConfig holds SMTP settings for operator order notifications. An empty
// Host disables email; orders are then logged instead.
type EmailConfig struct {
	Host          string
	Port          uint16
	Username      string
	Password      string
	From          string
	FromName      string
	OperatorEmail string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnvInt("PORT", 3000),
		DatabaseUrl:    getEnv("DATABASE_URL", ""),
		BaseURL:        getEnv("BASE_URL", "http://localhost:3000"),
		AllowedOrigins: []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173")},
		Shop: ShopConfig{
			Name:          getEnv("SHOP_NAME", "La Picada"),
			Address:       getEnv("SHOP_ADDRESS", ""),
			WhatsAppPhone: getEnv("SHOP_WHATSAPP_PHONE", ""),
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken: getEnv("MP_ACCESS_TOKEN", ""),
			BackURL:     getEnv("MP_BACK_URL", getEnv("BASE_URL", "http://localhost:3000")),
		},
		Email: EmailConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnvInt("SMTP_PORT", 587),
			Username:      getEnv("SMTP_USERNAME", ""),
			Password:      getEnv("SMTP_PASSWORD", ""),
			From:          getEnv("SMTP_FROM", "pedidos@lapicada.local"),
			FromName:      getEnv("EMAIL_FROM_NAME", "La Picada"),
			OperatorEmail: getEnv("OPERATOR_EMAIL", ""),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" && cfg.Shop.WhatsAppPhone == "" {
		return nil, fmt.Errorf("SHOP_WHATSAPP_PHONE must be set in production environment")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
