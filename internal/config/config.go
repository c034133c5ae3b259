package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Default administrator created by bootstrap when absent.
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 720)) * time.Hour, // 30 days
		BcryptCost:    getEnvInt("BCRYPT_COST", 12),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "go-school"),
		SkipAuth:      getEnv("SKIP_AUTH", "false") == "true",
		Environment:   getEnv("ENVIRONMENT", "development"),
		AppId:         getEnv("APP_ID", "go-school"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@school.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
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
		log.Printf("Invalid integer for %s, using default %d\n", key, fallback)
	}
	return fallback
}
