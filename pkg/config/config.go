package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Inquiry   InquiryConfig
	Relay     RelayConfig
	Email     EmailConfig
	NATS      NATSConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	NotifyPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	AllowOrigins []string
}

type InquiryConfig struct {
	ConfirmMode   string // optimistic or strict
	NotifyTimeout time.Duration
	LookAhead     int // pixels added to the scroll offset before comparing anchors
}

type RelayConfig struct {
	Transport string // http, nats or log
	URL       string
	Path      string
	Secret    string
	TokenTTL  time.Duration
}

type EmailConfig struct {
	Provider      string // dev, smtp, mailersend or ses
	FromName      string
	FromEmail     string
	StaffEmail    string
	StaffFrom     string
	HotelPhone    string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SMTPUseTLS    bool
	MailerSendKey string
	SESRegion     string
}

type NATSConfig struct {
	URL   string
	Queue string
}

type RedisConfig struct {
	URL            string
	IdempotencyTTL time.Duration
}

type DatabaseConfig struct {
	URL         string // empty disables the rate-limit store
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// LoadDotEnv reads a .env file into the process environment when one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			NotifyPort:   getEnv("NOTIFY_PORT", "8086"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			AllowOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:4321", "https://lighthousepointhotel.com"}),
		},
		Inquiry: InquiryConfig{
			ConfirmMode:   getEnv("INQUIRY_CONFIRM_MODE", "optimistic"),
			NotifyTimeout: getDuration("INQUIRY_NOTIFY_TIMEOUT", 10*time.Second),
			LookAhead:     getInt("INQUIRY_STEP_LOOKAHEAD", 200),
		},
		Relay: RelayConfig{
			Transport: getEnv("RELAY_TRANSPORT", "http"),
			URL:       getEnv("RELAY_URL", "http://localhost:8086"),
			Path:      getEnv("RELAY_PATH", "/api/booking-notify"),
			Secret:    getEnv("RELAY_SECRET", "dev-only-secret-change-in-prod"),
			TokenTTL:  getDuration("RELAY_TOKEN_TTL", 5*time.Minute),
		},
		Email: EmailConfig{
			Provider:      getEnv("EMAIL_PROVIDER", "dev"),
			FromName:      getEnv("MAILER_FROM_NAME", "Lighthouse Point Hotel"),
			FromEmail:     getEnv("MAILER_FROM", "reservations@lighthousepointhotel.com"),
			StaffEmail:    getEnv("STAFF_EMAIL", "reservations@lighthousepointhotel.com"),
			StaffFrom:     getEnv("STAFF_FROM", "noreply@lighthousepointhotel.com"),
			HotelPhone:    getEnv("HOTEL_PHONE", "(954) 555-0123"),
			SMTPHost:      getEnv("SMTP_HOST", "localhost"),
			SMTPPort:      getInt("SMTP_PORT", 1025),
			SMTPUser:      getEnv("SMTP_USER", ""),
			SMTPPass:      getEnv("SMTP_PASS", ""),
			SMTPUseTLS:    getBool("SMTP_USE_TLS", false),
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
			SESRegion:     getEnv("AWS_REGION", "us-east-1"),
		},
		NATS: NATSConfig{
			URL:   getEnv("NATS_URL", "nats://localhost:4222"),
			Queue: getEnv("NATS_QUEUE", "booking-notify"),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    getInt("DB_MAX_CONNS", 10),
			MinConns:    getInt("DB_MIN_CONNS", 1),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 10),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
