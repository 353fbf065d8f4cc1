// Package store persists the device table between runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
)

var logger = logging.New("store")

const DefaultCacheFile = "wiz_bulb_cache.json"

// Cache loads and saves a device table.
type Cache interface {
	Load() (lights.DeviceTable, bool, error)
	Save(table lights.DeviceTable) error
}

// FileCache keeps the table as a JSON object keyed by host.
type FileCache struct {
	mu       sync.Mutex
	filePath string
}

var _ Cache = (*FileCache)(nil)

func NewFileCache(filePath string) *FileCache {
	if filePath == "" {
		filePath = DefaultCacheFile
	}
	return &FileCache{filePath: filePath}
}

func (c *FileCache) Path() string {
	return c.filePath
}

// Load reports false when there is no usable cache. Unreadable or invalid
// content is a miss, not an error.
func (c *FileCache) Load() (lights.DeviceTable, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		logger.With(zap.String("path", c.filePath), zap.Error(err)).Warn("Could not read cache")
		return nil, false, nil
	}

	var table lights.DeviceTable
	if err := json.Unmarshal(data, &table); err != nil {
		logger.With(zap.String("path", c.filePath), zap.Error(err)).Warn("Ignoring invalid cache")
		return nil, false, nil
	}
	if len(table) == 0 {
		return nil, false, nil
	}
	return table, true, nil
}

// Save writes the table atomically.
func (c *FileCache) Save(table lights.DeviceTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if dir := filepath.Dir(c.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}

	tmp := c.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp, c.filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing cache: %w", err)
	}
	return nil
}
