package cache

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// FileCache stores one zstd-compressed gob blob per key under a cache
// directory.
type FileCache struct {
	dir    string
	logger *slog.Logger
}

var _ Cache = (*FileCache)(nil)

func NewFileCache(dir string, logger *slog.Logger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return &FileCache{dir: dir, logger: logger}, nil
}

func (c *FileCache) path(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return filepath.Join(c.dir, replacer.Replace(key)+".zst")
}

func (c *FileCache) Load(_ context.Context, key string, sourceTime time.Time) ([]Record, bool, error) {
	f, err := os.Open(c.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("opening cache %s: %w", key, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, false, fmt.Errorf("reading cache %s: %w", key, err)
	}
	defer zr.Close()

	var e entry
	if err := gob.NewDecoder(zr).Decode(&e); err != nil {
		// A corrupt cache file is a miss, not an error; it gets rewritten.
		c.logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return nil, false, nil
	}
	if !e.SourceTime.Equal(sourceTime) {
		return nil, false, nil
	}
	return e.Records, true, nil
}

func (c *FileCache) Store(_ context.Context, key string, sourceTime time.Time, records []Record) error {
	tmp, err := os.CreateTemp(c.dir, "cache-*")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("compressing cache %s: %w", key, err)
	}
	if err := gob.NewEncoder(zw).Encode(entry{SourceTime: sourceTime, Records: records}); err != nil {
		zw.Close()
		tmp.Close()
		return fmt.Errorf("encoding cache %s: %w", key, err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compressing cache %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func (c *FileCache) Close() error { return nil }
