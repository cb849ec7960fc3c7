package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	GoogleAudience  string
	AllowOrigins    []string
	LogstashTCPAddr string
	CookieSecure    bool
	FrontendBaseURL string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SMTPFrom        string

	// SessionTTL drives both the JWT exp and the cookie Max-Age; the two
	// are never configured apart.
	SessionTTL       time.Duration
	VerificationTTL  time.Duration
	PasswordResetTTL time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      must("DATABASE_URL"),
		JWTSecret:        must("JWT_SECRET"),
		GoogleAudience:   getenv("GOOGLE_AUDIENCE", ""),
		AllowOrigins:     splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:  getenv("LOGSTASH_TCP_ADDR", ""),
		CookieSecure:     getenv("COOKIE_SECURE", "true") == "true",
		FrontendBaseURL:  getenv("FRONTEND_BASE_URL", ""),
		SMTPHost:         getenv("SMTP_HOST", ""),
		SMTPPort:         getenv("SMTP_PORT", ""),
		SMTPUsername:     getenv("SMTP_USERNAME", ""),
		SMTPPassword:     getenv("SMTP_PASSWORD", ""),
		SMTPFrom:         getenv("SMTP_FROM", ""),
		SessionTTL:       duration("SESSION_TTL", time.Hour),
		VerificationTTL:  duration("VERIFICATION_TTL", time.Hour),
		PasswordResetTTL: duration("PASSWORD_RESET_TTL", time.Hour),
	}
}

func duration(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", k, raw, d)
		return d
	}
	return v
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
