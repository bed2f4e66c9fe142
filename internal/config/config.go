package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	RedisHost        string
	RedisPort        string
	SessionSecret    string
	JWTSecret        string
	JWTTTLHours      int
	AdminInviteToken string
	OpenAIAPIKey     string
	LogLevel         string
	LogFile          string
	CORSOrigins      []string
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are applied first without overriding real variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "taskuser"),
		DBPassword:       getEnv("DB_PASSWORD", "taskpassword"),
		DBName:           getEnv("DB_NAME", "task_tracker"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		SessionSecret:    getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:        getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		JWTTTLHours:      getEnvInt("JWT_TTL_HOURS", 24*7),
		AdminInviteToken: getEnv("ADMIN_INVITE_TOKEN", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174"),
	}
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated variable, dropping blank entries
func getEnvList(key, defaultValue string) []string {
	var list []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
