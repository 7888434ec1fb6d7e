package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"merchant-console/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Server
	Port        string
	Environment string
	CORSOrigins []string

	// Marketplace backend
	APIURL       string
	APITimeout   time.Duration
	APIRateLimit float64

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisURL string

	// NATS
	NATSURL string

	// JWT
	JWTSecret string
	JWTTTL    time.Duration

	// Console settings
	MaxOptionAxes    int
	DraftTTL         time.Duration
	CategoryCacheTTL time.Duration
	LoginRateLimit   float64
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	apiRateLimit, _ := strconv.ParseFloat(getEnv("API_RATE_LIMIT", "20"), 64)
	loginRateLimit, _ := strconv.ParseFloat(getEnv("LOGIN_RATE_LIMIT", "0.2"), 64)
	maxOptionAxes, _ := strconv.Atoi(getEnv("MAX_OPTION_AXES", "3"))
	if maxOptionAxes <= 0 {
		maxOptionAxes = 3
	}

	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		// Marketplace backend
		APIURL:       strings.TrimSuffix(getEnv("API_URL", "http://localhost:8080"), "/"),
		APITimeout:   getDuration("API_TIMEOUT", 10*time.Second),
		APIRateLimit: apiRateLimit,

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "merchant_console_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// NATS, empty disables events
		NATSURL: os.Getenv("NATS_URL"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),
		JWTTTL:    getDuration("JWT_TTL", 12*time.Hour),

		// Console settings
		MaxOptionAxes:    maxOptionAxes,
		DraftTTL:         getDuration("DRAFT_TTL", 24*time.Hour),
		CategoryCacheTTL: getDuration("CATEGORY_CACHE_TTL", 30*time.Minute),
		LoginRateLimit:   loginRateLimit,
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Running auto-migrations...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	log.Println("Auto-migrations completed successfully")

	return db, nil
}

// Migrate brings the console-owned tables up to date
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Notice{},
		&models.SalesRecord{},
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("30m") or a plain number of seconds
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("WARNING: invalid duration %s=%q, using %s", key, raw, defaultValue)
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
