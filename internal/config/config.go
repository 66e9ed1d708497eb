package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port string

	// Database
	DBPath string

	// Vision model service
	VisionBaseURL    string
	VisionAPIKey     string
	VisionTimeout    time.Duration
	ScanTimeout      time.Duration
	DetectConfidence float64

	// Feed tuning
	InitialPageSize int
	RefillPageSize  int
	RefillThreshold int
	MaxLoadItems    int
	MaxLoadAttempts int
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "./seligo.db"),
		VisionBaseURL:    getEnv("VISION_BASE_URL", ""),
		VisionAPIKey:     getEnv("VISION_API_KEY", ""),
		VisionTimeout:    getDuration("VISION_TIMEOUT", 30*time.Second),
		ScanTimeout:      getDuration("SCAN_TIMEOUT", 25*time.Second),
		DetectConfidence: getFloat("DETECT_CONFIDENCE", 0.45),
		InitialPageSize:  getInt("FEED_INITIAL_PAGE_SIZE", 30),
		RefillPageSize:   getInt("FEED_REFILL_PAGE_SIZE", 20),
		RefillThreshold:  getInt("FEED_REFILL_THRESHOLD", 5),
		MaxLoadItems:     getInt("FEED_MAX_LOAD_ITEMS", 150),
		MaxLoadAttempts:  getInt("FEED_MAX_LOAD_ATTEMPTS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
