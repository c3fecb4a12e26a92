package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	HFToken    string
	CalendarID string

	// Google Calendar credentials
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// Optional with defaults
	HFModel         string
	HFTemperature   float64
	HFMaxTokens     int
	Timezone        string
	HTTPPort        int
	SearchDays      int
	DurationMinutes int
	DBPath          string

	// Email confirmations (disabled when unset)
	ResendAPIKey string
	EmailFrom    string
	EmailTo      string
}

func LoadFromEnv() *Config {
	return &Config{
		// Required
		HFToken:    os.Getenv("HF_TOKEN"),
		CalendarID: getEnvOrDefault("CALENDAR_ID", "primary"),

		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),

		// Optional with defaults
		HFModel:         getEnvOrDefault("TAILORTALK_HF_MODEL", "HuggingFaceH4/zephyr-7b-beta"),
		HFTemperature:   getEnvAsFloatOrDefault("TAILORTALK_HF_TEMPERATURE", 0.3),
		HFMaxTokens:     getEnvAsIntOrDefault("TAILORTALK_HF_MAX_TOKENS", 300),
		Timezone:        getEnvOrDefault("TAILORTALK_TIMEZONE", "Asia/Kolkata"),
		HTTPPort:        getEnvAsIntOrDefault("TAILORTALK_HTTP_PORT", 8080),
		SearchDays:      getEnvAsIntOrDefault("TAILORTALK_SEARCH_DAYS", 14),
		DurationMinutes: getEnvAsIntOrDefault("TAILORTALK_DEFAULT_DURATION", 30),
		DBPath:          getEnvOrDefault("TAILORTALK_DB_PATH", "./tailortalk.db"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("TAILORTALK_EMAIL_FROM"),
		EmailTo:      os.Getenv("TAILORTALK_EMAIL_TO"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
