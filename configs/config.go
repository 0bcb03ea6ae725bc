// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	// AI provider selection: "openai" or "gemini"
	AI_PROVIDER string

	// OpenAI-compatible chat API configuration
	OPENAI_API_KEY  string
	OPENAI_BASE_URL string
	OPENAI_MODEL    string

	// Gemini configuration
	GEMINI_API_KEY string
	GEMINI_MODEL   string

	// Pricing configuration (per 1M tokens in USD)
	AI_INPUT_PRICE_PER_MILLION  float64
	AI_OUTPUT_PRICE_PER_MILLION float64

	// Server configuration
	PORT            string
	ALLOWED_ORIGINS string
	JWT_SECRET      string

	// MongoDB configuration
	MONGO_URI     string
	MONGO_DB_NAME string

	// OpenFoodFacts catalog API
	OFF_BASE_URL string

	// Image preprocessing settings
	ENABLE_IMAGE_PREPROCESSING bool
	MAX_IMAGE_DIMENSION        int

	// Timeouts (seconds)
	ANALYZE_TIMEOUT int
	CATALOG_TIMEOUT int
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AI_PROVIDER = getEnv("AI_PROVIDER", "openai")

	OPENAI_API_KEY = getEnv("OPENAI_API_KEY", "")
	OPENAI_BASE_URL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	OPENAI_MODEL = getEnv("OPENAI_MODEL", "gpt-4o-mini")

	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	GEMINI_MODEL = getEnv("GEMINI_MODEL", "gemini-2.5-flash")

	if OPENAI_API_KEY == "" && GEMINI_API_KEY == "" {
		log.Fatal("at least one of OPENAI_API_KEY or GEMINI_API_KEY is required")
	}

	AI_INPUT_PRICE_PER_MILLION = getEnvFloat("AI_INPUT_PRICE_PER_MILLION", 0.15)
	AI_OUTPUT_PRICE_PER_MILLION = getEnvFloat("AI_OUTPUT_PRICE_PER_MILLION", 0.60)

	PORT = getEnv("PORT", "8080")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")
	JWT_SECRET = getEnv("JWT_SECRET", "")
	if JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	MONGO_URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	MONGO_DB_NAME = getEnv("MONGO_DB_NAME", "nutrilens")

	OFF_BASE_URL = getEnv("OFF_BASE_URL", "https://world.openfoodfacts.org")

	ENABLE_IMAGE_PREPROCESSING = getEnvBool("ENABLE_IMAGE_PREPROCESSING", true)
	MAX_IMAGE_DIMENSION = getEnvInt("MAX_IMAGE_DIMENSION", 1600)

	ANALYZE_TIMEOUT = getEnvInt("ANALYZE_TIMEOUT", 120)
	CATALOG_TIMEOUT = getEnvInt("CATALOG_TIMEOUT", 15)

	log.Println("Configuration loaded")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
