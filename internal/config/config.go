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
	PostgresDSN string
	SkipAuth    bool
	Environment string
	AppId       string

	// Sync pipeline tuning
	SyncIntervalMinutes int
	SyncBatchSize       int
	BatchDelayMs        int
	TenantDelaySeconds  int
	FetchPageLimit      int
	FetchMaxRetries     int
	PersistMaxRetries   int
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
		DBName:      getEnv("DB_NAME", "go-synchub"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=synchub sslmode=disable"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-synchub"),

		SyncIntervalMinutes: getEnvInt("SYNC_INTERVAL_MINUTES", 1),
		SyncBatchSize:       getEnvInt("SYNC_BATCH_SIZE", 100),
		BatchDelayMs:        getEnvInt("SYNC_BATCH_DELAY_MS", 300),
		TenantDelaySeconds:  getEnvInt("SYNC_TENANT_DELAY_SECONDS", 30),
		FetchPageLimit:      getEnvInt("SYNC_FETCH_PAGE_LIMIT", 100),
		FetchMaxRetries:     getEnvInt("SYNC_FETCH_MAX_RETRIES", 3),
		PersistMaxRetries:   getEnvInt("SYNC_PERSIST_MAX_RETRIES", 3),
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
