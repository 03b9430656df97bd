package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	AppPort    string
	CORSOrigin string

	// StorageDriver selects the durable key-value backend:
	// memory, file, redis or postgres.
	StorageDriver string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string

	JWTSecret string

	GeminiAPIKey string
	GeminiModel  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		AppPort:       getEnv("APP_PORT", "8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		StorageDriver: getEnv("STORAGE_DRIVER", "file"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DatabaseURL:   os.Getenv("DB_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "storefront-dev-secret"),
		GeminiAPIKey:  os.Getenv("API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
