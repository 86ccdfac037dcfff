package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config is the process-level environment configuration: where logic and
// tuning files live, how the cache is backed, and how we log. Per-run
// generation settings live in Settings, loaded from a YAML file.
type Config struct {
	Environment string
	LogLevel    slog.Level

	// LogicDir and TuningDir hold external (user-supplied) event logs, in
	// addition to whatever ships bundled with the program.
	LogicDir  string
	TuningDir string

	// CacheBackend selects the record-cache implementation: "file", "redis",
	// or "none".
	CacheBackend string
	CacheDir     string
	RedisURL     string

	// RelayPort is where the live event relay listens.
	RelayPort string
}

func Load() *Config {
	dataDir := getEnv("WADRANDO_DATA_DIR", defaultDataDir())
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogicDir:     getEnv("WADRANDO_LOGIC_DIR", filepath.Join(dataDir, "logic")),
		TuningDir:    getEnv("WADRANDO_TUNING_DIR", filepath.Join(dataDir, "tuning")),
		CacheBackend: getEnv("WADRANDO_CACHE", "file"),
		CacheDir:     getEnv("WADRANDO_CACHE_DIR", filepath.Join(dataDir, "cache")),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		RelayPort:    getEnv("RELAY_PORT", "8090"),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wadrando"
	}
	return filepath.Join(home, "wadrando")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
