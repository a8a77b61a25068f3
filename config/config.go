package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	RateLimit  RateLimitConfig
	JWT        JWTConfig
	Webhook    WebhookConfig
	Payment    PaymentConfig
	Notify     NotifyConfig
	Telegram   TelegramConfig
	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig
	Sweep      SweepConfig
	Admin      AdminConfig
}

// AdminConfig seeds a bootstrap admin account on startup. Both fields
// empty disables seeding.
type AdminConfig struct {
	Email    string
	Password string
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig bounds requests per client IP over a sliding window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// WebhookConfig carries the shared secrets used to verify gateway callbacks.
// An empty secret disables signature verification for that event family.
type WebhookConfig struct {
	PaymentSecret      string
	SubscriptionSecret string
}

type PaymentConfig struct {
	// PaymentExpiry is how long a pending payment stays claimable before
	// the sweeper marks it expired.
	PaymentExpiry time.Duration
}

// NotifyConfig controls the dispatcher retry loop and which channels are
// switched on at runtime. A channel must also have a configured adapter
// before it is considered enabled.
type NotifyConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	BackoffMultiplier float64
	MaxDelay          time.Duration
	EnabledChannels   []string
}

type TelegramConfig struct {
	BotToken   string
	APIBaseURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type SweepConfig struct {
	Interval time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "subpay:subpay@tcp(localhost:3306)/subpay?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "subpay",
		},
		Webhook: WebhookConfig{
			PaymentSecret:      getEnv("WEBHOOK_PAYMENT_SECRET", ""),
			SubscriptionSecret: getEnv("WEBHOOK_SUBSCRIPTION_SECRET", ""),
		},
		Payment: PaymentConfig{
			PaymentExpiry: getDuration("PAYMENT_EXPIRY", 30*time.Minute),
		},
		Notify: NotifyConfig{
			MaxRetries:        getInt("NOTIFY_MAX_RETRIES", 3),
			InitialDelay:      getDuration("NOTIFY_INITIAL_DELAY", 500*time.Millisecond),
			BackoffMultiplier: 2.0,
			MaxDelay:          getDuration("NOTIFY_MAX_DELAY", 10*time.Second),
			EnabledChannels:   getList("NOTIFY_CHANNELS", []string{"telegram", "email", "inapp"}),
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Subpay"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Sweep: SweepConfig{
			Interval: getDuration("SWEEP_INTERVAL", 5*time.Minute),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
