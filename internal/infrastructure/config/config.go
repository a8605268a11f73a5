package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the backend server configuration.
type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DataDir        string   // question files, e.g. "data"
	DatabasePath   string   // SQLite file, e.g. "drillroom.db"
	AllowedTokens  []string // bearer tokens accepted by the API
	CatalogWorkers int      // goroutines used to parse question files
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DataDir:         getenvDefault("DATA_DIR", "data"),
		DatabasePath:    getenvDefault("DATABASE_PATH", "drillroom.db"),
		AllowedTokens:   splitList(mustGetenv("ALLOWED_TOKENS")),
		CatalogWorkers:  getIntDefault("CATALOG_WORKERS", 4),
	}
}

// ClientConfig is the terminal practice client configuration.
type ClientConfig struct {
	ServerURL      string
	Token          string
	LogFile        string
	RequestTimeout time.Duration // 0 = wait forever
}

func LoadClient() *ClientConfig {
	_ = godotenv.Load()
	return &ClientConfig{
		ServerURL:      strings.TrimRight(getenvDefault("PRACTICE_SERVER_URL", "http://localhost:8080"), "/"),
		Token:          mustGetenv("PRACTICE_TOKEN"),
		LogFile:        getenvDefault("PRACTICE_LOG_FILE", "practice.log"),
		RequestTimeout: getDurationDefault("PRACTICE_REQUEST_TIMEOUT", 0),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
