package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	ServiceName string
	// CORS / proxy
	AllowedOrigin  string
	TrustedProxies []string
	// SMTP relay
	SMTPHost           string
	SMTPPort           string
	SMTPSecure         bool   // implicit TLS (usually port 465)
	SMTPUsername       string // also the envelope sender
	SMTPPassword       string
	ContactEmailTo     string
	SMTPTimeoutSeconds int
	SMTPMaxSendsPerSec float64 // 0 disables the outbound throttle
	SMTPBurst          int
	// Rate limiting
	RateLimitWindowMs        int
	RateLimitMax             int
	RateLimitStandardHeaders bool
	// Optional shared limiter store
	RedisURL      string
	RedisPassword string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; missing .env is fine in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "3000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		ServiceName: getEnv("SERVICE_NAME", "contact-relay"),
		// Strip trailing slash so it compares equal to the browser Origin header
		AllowedOrigin:  strings.TrimRight(getEnv("CORS_ALLOWED_ORIGIN", "https://allwebsvs.netlify.app"), "/"),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		// SMTP
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPSecure:         getEnvBool("SMTP_SECURE", false),
		SMTPUsername:       getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASS", ""),
		ContactEmailTo:     getEnv("TO_EMAIL", ""),
		SMTPTimeoutSeconds: getEnvInt("SMTP_TIMEOUT_SECONDS", 15),
		SMTPMaxSendsPerSec: getEnvFloat("SMTP_MAX_SENDS_PER_SECOND", 1),
		SMTPBurst:          getEnvInt("SMTP_BURST", 5),
		// Rate limiting (5 requests per IP per minute)
		RateLimitWindowMs:        getEnvInt("RATE_LIMIT_WINDOW_MS", 60_000),
		RateLimitMax:             getEnvInt("RATE_LIMIT_MAX", 5),
		RateLimitStandardHeaders: getEnvBool("RATE_LIMIT_STANDARD_HEADERS", true),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" || cfg.ContactEmailTo == "" {
		log.Println("WARNING: SMTP_HOST, SMTP_USER or TO_EMAIL missing. Contact submissions will fail to send.")
	}
	if cfg.RedisURL == "" {
		log.Println("INFO: REDIS_URL not configured. Rate limiting uses the in-memory store.")
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return errors.New("config: PORT must be a valid TCP port")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return errors.New("config: GIN_MODE must be debug, release or test")
	}
	if c.RateLimitWindowMs <= 0 {
		return errors.New("config: RATE_LIMIT_WINDOW_MS must be positive")
	}
	if c.RateLimitMax <= 0 {
		return errors.New("config: RATE_LIMIT_MAX must be positive")
	}
	if c.SMTPTimeoutSeconds <= 0 {
		return errors.New("config: SMTP_TIMEOUT_SECONDS must be positive")
	}
	if c.SMTPMaxSendsPerSec < 0 {
		return errors.New("config: SMTP_MAX_SENDS_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMs) * time.Millisecond
}

func (c *Config) SMTPTimeout() time.Duration {
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
