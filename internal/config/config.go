package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Schedule ScheduleConfig
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret       string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port            string
	GinMode         string
	Env             string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig configures the booking slot hold. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	HoldTTL  time.Duration
}

// KafkaConfig configures the surgery event producer. No brokers disables it.
type KafkaConfig struct {
	Brokers      []string
	SurgeryTopic string
}

type ScheduleConfig struct {
	Timezone          string
	ReconcileInterval time.Duration
}

// Location resolves the schedule timezone, falling back to UTC.
func (s ScheduleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig reads the environment, loading a .env file first if one exists.
// Malformed values are reported through log and replaced by their defaults.
func LoadConfig(log *zap.Logger) *Config {
	_ = godotenv.Load()

	if log == nil {
		log = zap.NewNop()
	}
	p := parser{log: log}

	return &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "3306"),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "hospital_or"),
			MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			AccessTokenExpiry:  p.duration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry: p.duration("REFRESH_TOKEN_EXPIRY", 168*time.Hour),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       p.int("REDIS_DB", 0),
			HoldTTL:  p.duration("BOOKING_HOLD_TTL", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(getEnv("KAFKA_BROKERS", "")),
			SurgeryTopic: getEnv("KAFKA_SURGERY_TOPIC", "surgery-events"),
		},
		Schedule: ScheduleConfig{
			Timezone:          getEnv("SCHEDULE_TIMEZONE", "UTC"),
			ReconcileInterval: p.duration("ROOM_RECONCILE_INTERVAL", time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type parser struct {
	log *zap.Logger
}

func (p parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		p.log.Warn("invalid duration, using default",
			zap.String("key", key), zap.String("value", raw), zap.Duration("default", def))
		return def
	}
	return d
}

func (p parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.log.Warn("invalid integer, using default",
			zap.String("key", key), zap.String("value", raw), zap.Int("default", def))
		return def
	}
	return n
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
