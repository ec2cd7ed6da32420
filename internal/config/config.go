package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Redis (verification / password-reset codes)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// NATS (notification events); empty disables publishing
	NATSURL string

	// Verification / reset code lifetimes
	VerifyCodeTTL time.Duration
	ResetCodeTTL  time.Duration

	// Trending feed
	TrendingWindow time.Duration
	TrendingLimit  int

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port           string
	CORSOrigins    string
	BaseURL        string
	RequestTimeout time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "jellup"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		NATSURL: getEnv("NATS_URL", ""),

		VerifyCodeTTL: parseDuration(getEnv("VERIFY_CODE_TTL", "24h"), 24*time.Hour),
		ResetCodeTTL:  parseDuration(getEnv("RESET_CODE_TTL", "1h"), time.Hour),

		TrendingWindow: parseDuration(getEnv("TRENDING_WINDOW", "168h"), 168*time.Hour),
		TrendingLimit:  4,

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "10s"), 10*time.Second),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
