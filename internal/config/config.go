package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL     string
	RedisAddr string

	// Ticket artifacts are written under this directory.
	TicketsDir string

	// SMTP delivery. Disabled means the notifier is a no-op that always
	// succeeds (test/offline environments).
	EmailDisabled bool
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	EmailFrom     string

	JWTSecret           string
	JWTAccessTTLMinutes int

	AdminEmail    string
	AdminPassword string
	AdminName     string

	OTLPEndpoint string
}

func Load() Config {
	return Config{
		Env:       getEnv("APP_ENV", "dev"),
		Port:      getEnvInt("PORT", 8080),
		DBURL:     buildDBURL(),
		RedisAddr: getEnv("REDIS_ADDR", ""),

		TicketsDir: getEnv("TICKETS_DIR", "tickets"),

		EmailDisabled: getEnv("EMAIL_DISABLE", "") == "true",
		SMTPHost:      getEnv("SMTP_HOST", "127.0.0.1"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      getEnv("EMAIL_USER", ""),
		SMTPPassword:  getEnv("EMAIL_PASS", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "Event Portal <no-reply@eventpass.local>"),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "eventpass")
	pass := getEnv("DB_PASSWORD", "eventpass")
	name := getEnv("DB_NAME", "eventpass")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
