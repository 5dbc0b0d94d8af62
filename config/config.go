package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	Admin    AdminConfig
	Report   ReportConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// PaymentConfig controls donation confirmation. AutoConfirm stubs the payment
// gateway: donations complete immediately on creation instead of waiting for
// the confirmation webhook.
type PaymentConfig struct {
	WebhookSecret string
	AutoConfirm   bool
}

// AdminConfig is the seeded administrator account used for disbursements and
// report generation until real accounts exist.
type AdminConfig struct {
	Email    string
	Password string
}

type ReportConfig struct {
	// MonthlySchedule is a cron expression (with seconds) for generating the
	// previous month's platform-wide report.
	MonthlySchedule string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "danakita:danakita@tcp(localhost:3306)/danakita?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			Expiry: 24 * time.Hour,
			Issuer: "danakita",
		},
		Payment: PaymentConfig{
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			AutoConfirm:   getEnvBool("PAYMENT_AUTO_CONFIRM", true),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@danakita.local"),
			Password: getEnv("ADMIN_PASSWORD", "admin12345"),
		},
		Report: ReportConfig{
			MonthlySchedule: getEnv("REPORT_MONTHLY_SCHEDULE", "0 10 0 1 * *"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
