package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// SignCare e-signature provider
	SignCareBaseURL string
	SignCareAPIKey  string
	SignCareAppID   string

	// Rule-matching oracle (OpenAI-compatible endpoint)
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	// Cron expression for the background workflow reconciliation sweep
	ReconcileSchedule string

	// County registry export (PostgreSQL). Empty disables the export.
	RegistryDSN string

	// Outbound email
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "go-court"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-court"),

		SignCareBaseURL: getEnv("SIGNCARE_BASE_URL", "https://uat-ext.signcare.io/api/v1"),
		SignCareAPIKey:  getEnv("SIGNCARE_API_KEY", ""),
		SignCareAppID:   getEnv("SIGNCARE_APP_ID", ""),

		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "*/5 * * * *"),

		RegistryDSN: getEnv("REGISTRY_PG_DSN", ""),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "noreply@sfcourt.local"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
