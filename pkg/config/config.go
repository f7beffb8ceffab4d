package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	JWTSecret       []byte
	SessionTTLHours int

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string

	RedisAddr string

	CartTTLHours int

	LogLevel string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		SessionTTLHours: EnvIntDefault("SESSION_TTL_HOURS", 168),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		CartTTLHours: EnvIntDefault("CART_TTL_HOURS", 24),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
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
	if os.Getenv(key) != "" {
		return os.Getenv(key)
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
