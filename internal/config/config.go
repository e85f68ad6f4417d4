package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	RedisURL        string
	LogstashTCPAddr string
	LogLevel        string
	AllowOrigins    []string

	JWTAccessSecret     string
	JWTRefreshSecret    string
	JWTAccessExpiresIn  string
	JWTRefreshExpiresIn string
	AuthCookieName      string

	BcryptCost    int
	EncryptionKey string
	EncryptionIV  string

	OTPCooldown      time.Duration
	OTPTTL           time.Duration
	PasswordResetTTL time.Duration
	CleanupInterval  time.Duration
	CleanupUsedGrace time.Duration

	BaseURL      string
	MailTimeout  time.Duration
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseTLS   bool
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		Environment:     getenv("APP_ENV", "development"),
		DatabaseURL:     must("DATABASE_URL"),
		RedisURL:        getenv("REDIS_URL", ""),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),

		JWTAccessSecret:     must("JWT_ACCESS_TOKEN_SECRET"),
		JWTRefreshSecret:    must("JWT_REFRESH_TOKEN_SECRET"),
		JWTAccessExpiresIn:  getenv("JWT_ACCESS_EXPIRES_IN", "15m"),
		JWTRefreshExpiresIn: getenv("JWT_REFRESH_EXPIRES_IN", "1d"),
		AuthCookieName:      getenv("AUTH_COOKIE_NAME", "access_token"),

		BcryptCost:    positiveInt("SALT_ROUNDS", 12),
		EncryptionKey: must("SECRET_KEY"),
		EncryptionIV:  must("IV"),

		OTPCooldown:      time.Duration(positiveInt("OTP_COOLDOWN_SECONDS", 45)) * time.Second,
		OTPTTL:           time.Duration(positiveInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		PasswordResetTTL: time.Duration(positiveInt("PASSWORD_RESET_TTL_HOURS", 1)) * time.Hour,
		CleanupInterval:  time.Duration(positiveInt("CLEANUP_INTERVAL_MINUTES", 10)) * time.Minute,
		CleanupUsedGrace: time.Duration(nonNegativeInt("CLEANUP_USED_GRACE_MINUTES", 0)) * time.Minute,

		BaseURL:      strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		MailTimeout:  time.Duration(positiveInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", ""),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		SMTPUseTLS:   getenv("SMTP_USE_TLS", "false") == "true",
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func positiveInt(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func nonNegativeInt(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v >= 0 {
		return v
	}
	return d
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
