package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Redis        RedisConfig
	Payroll      PayrollConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Env            string
	Port           int
	Version        string
	LogLevel       string
	Timezone       string
	Currency       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	// Disabled runs the service on in-memory repositories.
	Disabled bool
	// AutoMigrate applies the embedded schema on startup.
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// RedisConfig holds the report cache configuration. An empty Addr disables caching.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	ReportTTL time.Duration
}

type PayrollConfig struct {
	StandardWorkDays   int
	GenerateSchedule   string
	CommissionSchedule string
	CronEnabled        bool
}

type NotificationConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	WorkerCount   int
	QueueSize     int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var (
		p      parser
		config = &Config{}
	)

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "gym-payroll"),
		Env:            getEnv("APP_ENV", "development"),
		Port:           p.int("APP_PORT", 8080),
		Version:        getEnv("APP_VERSION", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		Currency:       getEnv("APP_CURRENCY", "VND"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     p.int("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "gym_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: p.int("DB_MAX_CONNS", 25),
		Disabled: p.bool("DB_DISABLED", false),

		AutoMigrate: p.bool("DB_AUTO_MIGRATE", true),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: p.duration("JWT_ACCESS_EXPIRATION_TIME", time.Hour),
	}

	config.Redis = RedisConfig{
		Addr:      getEnv("REDIS_ADDR", ""),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        p.int("REDIS_DB", 0),
		ReportTTL: p.duration("REPORT_CACHE_TTL", 10*time.Minute),
	}

	config.Payroll = PayrollConfig{
		StandardWorkDays:   p.int("PAYROLL_STANDARD_WORK_DAYS", 26),
		GenerateSchedule:   getEnv("PAYROLL_GENERATE_SCHEDULE", "0 1 1 * *"),
		CommissionSchedule: getEnv("PAYROLL_COMMISSION_SCHEDULE", "0 2 * * *"),
		CronEnabled:        p.bool("CRON_ENABLED", true),
	}

	config.Notification = NotificationConfig{
		BatchSize:     p.int("NOTIFICATION_BATCH_SIZE", 100),
		FlushInterval: p.duration("NOTIFICATION_FLUSH_INTERVAL", 5*time.Second),
		WorkerCount:   p.int("NOTIFICATION_WORKERS", 2),
		QueueSize:     p.int("NOTIFICATION_QUEUE_SIZE", 1000),
	}

	config.RateLimit = RateLimitConfig{
		RequestsPerMinute: p.int("RATE_LIMIT_PER_MINUTE", 100),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.IsProduction() && !c.Database.Disabled && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Payroll.StandardWorkDays <= 0 || c.Payroll.StandardWorkDays > 31 {
		return fmt.Errorf("PAYROLL_STANDARD_WORK_DAYS must be between 1 and 31")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location returns the business timezone; Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
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

// parser collects conversion errors so Load reports every bad variable at once.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
