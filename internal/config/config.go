package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"invoice-recon/internal/match"
)

type Config struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowOrigins   []string `toml:"allow_origins"`
	LogLevel       string   `toml:"log_level"`
	LogFile        string   `toml:"log_file"`
	MaxUploadMB    int      `toml:"max_upload_mb"`
	OCRURL         string   `toml:"ocr_url"`
	OCRAPIKey      string   `toml:"ocr_api_key"`
	OCRTimeoutSec  int      `toml:"ocr_timeout_sec"`
	MatchThreshold float64  `toml:"match_threshold"`
}

func defaults() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8082,
		AllowOrigins:   []string{"*"},
		LogLevel:       "info",
		LogFile:        "logs/invoice-recon.log",
		MaxUploadMB:    256,
		OCRURL:         "http://127.0.0.1:9090",
		OCRTimeoutSec:  120,
		MatchThreshold: match.DefaultThreshold,
	}
}

// Load — дефолты, поверх них TOML-файл (CONFIG_FILE, опционально),
// поверх него переменные окружения. Явно указанный, но нечитаемый или
// битый файл — ошибка, а не тихий откат на дефолты.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.Host = getenv("HOST", cfg.Host)
	cfg.Port = getenvInt("PORT", cfg.Port)
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = strings.Split(v, ",")
	}
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getenv("LOG_FILE", cfg.LogFile)
	cfg.MaxUploadMB = getenvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.OCRURL = getenv("OCR_URL", cfg.OCRURL)
	cfg.OCRAPIKey = getenv("OCR_API_KEY", cfg.OCRAPIKey)
	cfg.OCRTimeoutSec = getenvInt("OCR_TIMEOUT_SEC", cfg.OCRTimeoutSec)
	cfg.MatchThreshold = getenvFloat("MATCH_THRESHOLD", cfg.MatchThreshold)

	return cfg, nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
