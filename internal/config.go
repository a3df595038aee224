package internal

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	defaultPort           = 8080
	defaultMaxUploadBytes = 32 << 20
	defaultServerURL      = "http://localhost:8080"
)

type Config struct {
	Port             int
	MaxUploadBytes   int64
	CompressionLevel int
	Workers          int
	ServerURL        string
}

// LoadConfig reads the FASTBLUR_* environment variables, falling back to
// defaults for any that are unset. Call it after godotenv has loaded .env.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           defaultPort,
		MaxUploadBytes: defaultMaxUploadBytes,
		Workers:        runtime.NumCPU(),
		ServerURL:      defaultServerURL,
	}

	var err error
	if cfg.Port, err = envInt("FASTBLUR_PORT", cfg.Port); err != nil {
		return nil, err
	}
	maxUpload, err := envInt("FASTBLUR_MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes))
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)
	if cfg.CompressionLevel, err = envInt("FASTBLUR_COMPRESSION_LEVEL", cfg.CompressionLevel); err != nil {
		return nil, err
	}
	if cfg.Workers, err = envInt("FASTBLUR_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(os.Getenv("FASTBLUR_SERVER_URL")); v != "" {
		cfg.ServerURL = strings.TrimRight(v, "/")
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("FASTBLUR_PORT out of range: %d", cfg.Port)
	}
	if cfg.MaxUploadBytes < 1 {
		return nil, fmt.Errorf("FASTBLUR_MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("FASTBLUR_WORKERS must be at least 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

func envInt(name string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s=%q as integer: %w", name, v, err)
	}
	return n, nil
}
