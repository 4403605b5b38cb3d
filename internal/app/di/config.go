// Package di provides dependency injection factories for creating application components.
package di

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port         string        // HTTP listen port
	WorkDir      string        // transient working directory for uploads and annotated copies
	OCREngine    string        // text recognizer backend: vision | tesseract | rekognition | gemini
	DetectLabels []string      // optional object-localization label filter
	GeminiModel  string        // Gemini model name for the gemini engine
	TessLanguage string        // Tesseract language for the tesseract engine
	CacheTTL     time.Duration // Redis cache TTL for detection/OCR results
	RateLimit    int           // external API calls per minute
}

// LoadConfig loads application configuration from environment variables,
// falling back to defaults suitable for local development.
func LoadConfig() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		WorkDir:      getEnv("WORK_DIR", "temp"),
		OCREngine:    getEnv("OCR_ENGINE", "vision"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		TessLanguage: os.Getenv("TESSERACT_LANG"),
		CacheTTL:     15 * time.Minute,
		RateLimit:    60,
	}

	if v := os.Getenv("DETECT_LABELS"); v != "" {
		cfg.DetectLabels = strings.Split(v, ",")
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit = n
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
