package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIImageModel  string
	OpenAIImageSize   string
	MaskDir           string
	MaxImageBytes     int64
	ImageFetchTimeout time.Duration
	OpenAITimeout     time.Duration
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// A missing OPENAI_API_KEY is not an error here; requests report it instead.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIImageModel:  getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIImageSize:   getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
		MaskDir:           getEnv("MASK_DIR", "masks"),
		MaxImageBytes:     int64(getEnvInt("MAX_IMAGE_BYTES", 20<<20)),
		ImageFetchTimeout: time.Second * time.Duration(getEnvInt("IMAGE_FETCH_TIMEOUT_SECONDS", 20)),
		OpenAITimeout:     time.Second * time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 120)),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 150)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	durations := map[string]time.Duration{
		"IMAGE_FETCH_TIMEOUT_SECONDS": cfg.ImageFetchTimeout,
		"OPENAI_TIMEOUT_SECONDS":      cfg.OpenAITimeout,
		"HTTP_READ_TIMEOUT_SECONDS":   cfg.HTTPReadTimeout,
		"HTTP_WRITE_TIMEOUT_SECONDS":  cfg.HTTPWriteTimeout,
		"HTTP_IDLE_TIMEOUT_SECONDS":   cfg.HTTPIdleTimeout,
	}
	for key, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be positive", key)
		}
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}

	// The write deadline covers the whole remix call chain.
	if cfg.HTTPWriteTimeout <= cfg.ImageFetchTimeout+cfg.OpenAITimeout {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT_SECONDS (%s) must exceed image fetch + openai timeouts (%s)",
			cfg.HTTPWriteTimeout, cfg.ImageFetchTimeout+cfg.OpenAITimeout)
	}

	return cfg, nil
}

// HasOpenAIKey reports whether the upstream credential is configured.
func (c *Config) HasOpenAIKey() bool {
	return c != nil && c.OpenAIAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
