package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI     string
	DBName       string
	Port         string
	GinMode      string
	CORSOrigins  []string
	SiteURL      string
	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	// Media pipeline
	MaxUploadFiles        int
	MaxFileSize           int64
	MaxImagePixels        int
	MediaMaxDocumentBytes int64
	UploadConcurrency     int

	// Redis Configuration
	RedisURL          string
	RedisPassword     string
	RedisDB           int
	RenditionCacheTTL time.Duration

	// Contact form rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
	SMTPFrom       string
	ContactEmailTo string

	// OpenTelemetry
	OTELEnabled     bool
	OTELEndpoint    string
	OTELSampleRatio float64
	ServiceName     string
}

// MongoDB caps a single document at 16MB; stored renditions stay under this ceiling.
const DefaultMediaMaxDocumentBytes = 15 * 1024 * 1024

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017/ppsg-cms"),
		DBName:       getEnv("DB_NAME", "ppsg-cms"),
		Port:         getEnv("PORT", "3000"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		SiteURL:      getEnv("SITE_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost:   getEnvInt("BCRYPT_COST", 12),

		MaxUploadFiles:        getEnvInt("MAX_UPLOAD_FILES", 10),
		MaxFileSize:           getEnvInt64("MAX_FILE_SIZE", 26214400), // 25MB per raw upload
		MaxImagePixels:        getEnvInt("MAX_IMAGE_PIXELS", 268402689),
		MediaMaxDocumentBytes: getEnvInt64("MEDIA_MAX_DOCUMENT_BYTES", DefaultMediaMaxDocumentBytes),
		UploadConcurrency:     getEnvInt("UPLOAD_CONCURRENCY", 4),

		RedisURL:          getEnv("REDIS_URL", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RenditionCacheTTL: getEnvDuration("RENDITION_CACHE_TTL", 24*time.Hour),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 5),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPass:       getEnv("SMTP_PASS", ""),
		SMTPFrom:       getEnv("SMTP_FROM", ""),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),

		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELSampleRatio: getEnvFloat64("OTEL_SAMPLE_RATIO", 0.1),
		ServiceName:     getEnv("SERVICE_NAME", "ppsg-cms"),
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is required and must be at least 32 characters")
	}
	if c.MediaMaxDocumentBytes <= 0 || c.MediaMaxDocumentBytes >= 16*1024*1024 {
		return fmt.Errorf("MEDIA_MAX_DOCUMENT_BYTES must be between 1 and 16MB")
	}
	if c.MaxUploadFiles <= 0 {
		return fmt.Errorf("MAX_UPLOAD_FILES must be positive")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive")
	}
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = 1
	}
	return nil
}

// EmailEnabled reports whether an SMTP relay is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.ContactEmailTo != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
