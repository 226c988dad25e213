package app

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"catalog-studio/service"
)

// Config holds the runtime configuration read from the environment
type Config struct {
	Port             string
	BaseURL          string
	DatabaseURL      string
	ChromePath       string
	ExportScale      float64
	FontShrink       float64
	ExportTimeout    time.Duration
	ImageCacheDir    string
	RedisURL         string
	DriveCredentials string
	PNGSessionTTL    time.Duration
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() Config {
	port := strings.TrimPrefix(os.Getenv("PORT"), ":")
	if port == "" {
		port = "8080"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	cacheDir := os.Getenv("IMAGE_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "cache/images"
	}

	return Config{
		Port:             port,
		BaseURL:          strings.TrimRight(baseURL, "/"),
		DatabaseURL:      databaseURL(),
		ChromePath:       os.Getenv("CHROME_PATH"),
		ExportScale:      envFloat("EXPORT_SCALE", service.DefaultCaptureScale),
		FontShrink:       envFloat("FONT_SHRINK", service.DefaultFontScale),
		ExportTimeout:    envDuration("EXPORT_PAGE_TIMEOUT", 60*time.Second),
		ImageCacheDir:    cacheDir,
		RedisURL:         os.Getenv("REDIS_URL"),
		DriveCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		PNGSessionTTL:    envDuration("PNG_SESSION_TTL", 10*time.Minute),
	}
}

// databaseURL prefers DATABASE_URL and otherwise builds a DSN from DB_* variables
func databaseURL() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, os.Getenv("DB_PASSWORD"), dbname, sslmode)
}

// ExportConfig derives the export tuning from the configuration
func (c Config) ExportConfig() service.ExportConfig {
	cfg := service.DefaultExportConfig()
	cfg.CaptureScale = c.ExportScale
	cfg.Corrections.FontScale = c.FontShrink
	return cfg
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return v
}
