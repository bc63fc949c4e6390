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
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseDriver string
	DatabaseURL    string

	JWTSecret    []byte
	JWTTTL       time.Duration
	CookieSecure bool

	GoogleClientID string

	KafkaBrokers []string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CORSOrigins   []string
	AuthRateLimit int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: .env not loaded (%v), using process environment", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "shopcart"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 5000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseDriver: EnvDefault("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:       EnvDurationDefault("JWT_TTL", 7*24*time.Hour),
		CookieSecure: EnvBoolDefault("COOKIE_SECURE", false),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         EnvIntDefault("REDIS_DB", 0),
		ProductCacheTTL: EnvDurationDefault("PRODUCT_CACHE_TTL", 5*time.Minute),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		CORSOrigins:   CSV(EnvDefault("CORS_ORIGINS", "http://localhost:5173")),
		AuthRateLimit: EnvIntDefault("AUTH_RATE_LIMIT", 10),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
