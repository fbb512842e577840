package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultMaxDocumentSize is the upload ceiling for FICA documents (5MB)
	DefaultMaxDocumentSize = 5 * 1024 * 1024
	// DefaultTypingTTL is how long a typing indicator lives without a refresh
	DefaultTypingTTL = 3 * time.Second
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	// Risk assessment service
	RiskServiceURL string
	RiskServiceKey string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Limits
	MaxDocumentSize int64
	TypingTTL       time.Duration
	// Other
	AllowedOrigins []string
	SeedDemoData   bool
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "db/app.db"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		RiskServiceURL:  getEnv("RISK_SERVICE_URL", ""),
		RiskServiceKey:  getEnv("RISK_SERVICE_KEY", ""),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", "noreply@ficaflow.example"),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "FICA Flow"),
		EmailTestMode:   getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		MaxDocumentSize: getEnvInt64("MAX_DOCUMENT_SIZE", DefaultMaxDocumentSize),
		TypingTTL:       getEnvDuration("TYPING_TTL", DefaultTypingTTL),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		SeedDemoData:    getEnvBool("SEED_DEMO_DATA", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("[WARNING] Invalid value for %s: %s, using default", key, value)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[WARNING] Invalid duration for %s: %s, using default", key, value)
		return defaultValue
	}
	return parsed
}
