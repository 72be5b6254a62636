package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/workdiary/backend/pkg/utils"
)

// Config holds runtime settings read from the environment
type Config struct {
	DatabaseURL      string
	Port             string
	Env              string
	Timezone         string
	OversightWorkers int
	CORSOrigins      string
}

// Load reads a .env file when present, then the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only
func FromEnv() *Config {
	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("GO_ENV", "development"),
		Timezone:         getEnv("FATIGUE_TIMEZONE", "Australia/Sydney"),
		OversightWorkers: utils.Clamp(getEnvInt("OVERSIGHT_WORKERS", 4), 1, 64),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
	}
}

// Location resolves Timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
