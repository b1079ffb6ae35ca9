package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all runtime settings for the dashboard service.
type Config struct {
	Addr                string
	LoanDataPath        string
	TransactionDataPath string
	Username            string
	Password            string
	SessionTTL          time.Duration
}

// Load reads configuration from a .env file (if present) and the environment.
// Every setting has a fallback so the service can start with zero config.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		// A missing .env is the normal case outside local development.
		log.Debugf("No .env file loaded: %v", err)
	}

	return Config{
		Addr:                getEnv("DASHBOARD_ADDR", ":8080"),
		LoanDataPath:        getEnv("LOAN_DATA_PATH", "loan_applications.csv"),
		TransactionDataPath: getEnv("TXN_DATA_PATH", "transactions.csv"),
		Username:            getEnv("DASHBOARD_USERNAME", "admin"),
		Password:            getEnv("DASHBOARD_PASSWORD", "1234"),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable or returns a default value.
func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("Invalid integer for %s (%q), using fallback %d", key, value, fallback)
		return fallback
	}
	return n
}
