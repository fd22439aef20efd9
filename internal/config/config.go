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
	Env             string
	DatabaseURL     string
	JWTSecret       string
	AllowOrigins    []string
	LogstashTCPAddr string
	SessionStore    string
	RedisAddr       string
	PlanTableFile   string
	StoreTimeout    time.Duration
}

// IsProduction controls cookie Secure attributes among other things.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	storeTimeout := 5 * time.Second
	if raw := getenv("STORE_TIMEOUT", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			storeTimeout = d
		} else {
			log.Printf("Warning: invalid STORE_TIMEOUT %q, using %s", raw, storeTimeout)
		}
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		Env:             getenv("ENV", "development"),
		DatabaseURL:     must("DATABASE_URL"),
		JWTSecret:       must("JWT_SECRET"),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		SessionStore:    getenv("SESSION_STORE", "postgres"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		PlanTableFile:   getenv("PLAN_TABLE_FILE", ""),
		StoreTimeout:    storeTimeout,
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
