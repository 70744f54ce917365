package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	APIBaseURL          string
	FrontendURL         string
	LoginURL            string
	StateBackend        string // "file", "mongo" or "redis"
	StateFile           string
	MongoDBURI          string
	MongoDBDatabase     string
	RedisAddr           string
	RedisPassword       string
	StateTTL            time.Duration // 0 keeps credentials until logout
	PageSize            int
	HTTPTimeout         time.Duration
	DefaultRange        string
	AutoRefreshInterval time.Duration
	DateLabelLayout     string
}

func Load() *Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "15s"))
	if err != nil {
		timeout = 15 * time.Second
	}
	autoRefresh, err := time.ParseDuration(getEnv("AUTO_REFRESH_INTERVAL", "0s"))
	if err != nil {
		autoRefresh = 0
	}
	stateTTL, err := time.ParseDuration(getEnv("STATE_TTL", "0s"))
	if err != nil || stateTTL < 0 {
		stateTTL = 0
	}
	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	return &Config{
		Port:                getEnv("PORT", "8090"),
		APIBaseURL:          getEnv("API_BASE_URL", "http://localhost:5000"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		LoginURL:            getEnv("LOGIN_URL", "/login.html"),
		StateBackend:        getEnv("STATE_BACKEND", "file"),
		StateFile:           getEnv("STATE_FILE", ".journal-dashboard/state.json"),
		MongoDBURI:          getEnv("MONGODB_URI", ""),
		MongoDBDatabase:     getEnv("MONGODB_DATABASE", "journal_dashboard"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		StateTTL:            stateTTL,
		PageSize:            pageSize,
		HTTPTimeout:         timeout,
		DefaultRange:        getEnv("DEFAULT_RANGE", "30d"),
		AutoRefreshInterval: autoRefresh,
		DateLabelLayout:     getEnv("DATE_LABEL_LAYOUT", "1/2/2006"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
