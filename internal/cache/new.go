package cache

import (
	"log/slog"

	"github.com/wadrando/wadrando/internal/config"
)

// New builds the cache selected by configuration. An unknown backend falls
// back to the disabled cache with a warning rather than failing the load.
func New(cfg *config.Config, logger *slog.Logger) (Cache, error) {
	switch cfg.CacheBackend {
	case "file":
		return NewFileCache(cfg.CacheDir, logger)
	case "redis":
		return NewRedisCache(cfg.RedisURL, logger)
	case "none":
		return Nop{}, nil
	default:
		logger.Warn("unknown cache backend, caching disabled", "backend", cfg.CacheBackend)
		return Nop{}, nil
	}
}
