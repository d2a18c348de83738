package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// VisaConfig holds Visa Payment Account Validation credentials. The client
// is constructed from this at startup; nothing is written back into the
// process environment.
type VisaConfig struct {
	UserID              string
	Password            string
	CertPath            string
	KeyPath             string
	CAPath              string
	BaseURL             string
	AcquiringBIN        string
	AcquirerCountryCode string
}

// Configured reports whether enough credentials are present to call the API.
func (v VisaConfig) Configured() bool {
	return v.UserID != "" && v.Password != ""
}

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database. Driver is "sqlite" (DBPath) or "postgres" (host/port/etc).
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Provider export paths used by the sync endpoint.
	PlaidExportPath string
	BillsExportPath string

	// AI assistant
	GeminiAPIKey string
	GeminiModel  string

	// Card verification
	Visa VisaConfig
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "db.sqlite3"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "trove"),
		DBPassword: getEnv("DB_PASSWORD", "trove"),
		DBName:     getEnv("DB_NAME", "trove"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Provider exports
		PlaidExportPath: getEnv("PLAID_EXPORT_PATH", "plaid_latest.json"),
		BillsExportPath: getEnv("BILLS_EXPORT_PATH", "bills.json"),

		// AI assistant
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		Visa: VisaConfig{
			UserID:              getEnv("VISA_PAV_USER_ID", ""),
			Password:            getEnv("VISA_PAV_PASSWORD", ""),
			CertPath:            getEnv("VISA_CERT_PATH", ""),
			KeyPath:             getEnv("VISA_KEY_PATH", ""),
			CAPath:              getEnv("VISA_CA_PATH", ""),
			BaseURL:             getEnv("VISA_PAV_BASE_URL", "https://sandbox.api.visa.com"),
			AcquiringBIN:        getEnv("VISA_PAV_ACQUIRING_BIN", "408999"),
			AcquirerCountryCode: getEnv("VISA_PAV_ACQUIRER_COUNTRY_CODE", "840"),
		},
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
