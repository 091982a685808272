package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/maypok86/otter"
	"go.uber.org/zap"
)

// memoryCache memoises response bodies for the lifetime of a Client.
type memoryCache struct {
	cache otter.Cache[string, []byte]
}

func newMemoryCache(capacity int, ttl time.Duration) (*memoryCache, error) {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	cache, err := otter.MustBuilder[string, []byte](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}
	return &memoryCache{cache: cache}, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	return m.cache.Get(key)
}

func (m *memoryCache) Set(key string, body []byte) {
	m.cache.Set(key, body)
}

func (m *memoryCache) Close() {
	m.cache.Close()
}

// diskCache stores one file per asset: <dir>/<safe-id>.<ext>.
// Writes hold an advisory lock so parallel runs sharing a directory do not
// interleave partial files.
type diskCache struct {
	dir    string
	logger *zap.Logger
}

func newDiskCache(dir string, logger *zap.Logger) *diskCache {
	return &diskCache{dir: dir, logger: logger}
}

func (d *diskCache) path(id, ext string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(id)
	return filepath.Join(d.dir, fmt.Sprintf("%s.%s", safe, ext))
}

// Read returns the cached body, if any. Read errors are logged and treated as
// a miss.
func (d *diskCache) Read(id, ext string) ([]byte, bool) {
	p := d.path(id, ext)
	data, err := os.ReadFile(p)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn("failed to read cache", zap.String("path", p), zap.Error(err))
		}
		return nil, false
	}
	d.logger.Debug("disk cache hit", zap.String("path", p))
	return data, true
}

// Write stores body. Failures are logged, never returned.
func (d *diskCache) Write(id, ext string, body []byte) {
	p := d.path(id, ext)
	if err := d.write(p, ext, body); err != nil {
		d.logger.Warn("failed to write cache", zap.String("path", p), zap.Error(err))
		return
	}
	d.logger.Debug("cached", zap.String("path", p))
}

func (d *diskCache) write(p, ext string, body []byte) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	lock := flock.New(p + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer lock.Unlock()

	if ext == kindComponent {
		body = prettyJSON(body)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}
