// Package config reads settings from the environment and the persisted
// config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
)

var logger = logging.New("config")

const DefaultBaseIP = "192.168.1"

type Config struct {
	// BaseIP overrides the prefix stored in the config file when set.
	BaseIP     string `env:"WIZ_BASE_IP"`
	ConfigFile string `env:"WIZ_CONFIG_FILE" envDefault:"wiz_config.yaml"`
	CacheFile  string `env:"WIZ_CACHE_FILE" envDefault:"wiz_bulb_cache.json"`

	ScanStart    int           `env:"SCAN_START" envDefault:"0"`
	ScanEnd      int           `env:"SCAN_END" envDefault:"255"`
	ScanWorkers  int           `env:"SCAN_WORKERS" envDefault:"80"`
	ScanAttempts int           `env:"SCAN_ATTEMPTS" envDefault:"1"`
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT" envDefault:"350ms"`

	SendTimeout    time.Duration `env:"SEND_TIMEOUT" envDefault:"500ms"`
	StopGrace      time.Duration `env:"STOP_GRACE" envDefault:"2s"`
	EffectDuration time.Duration `env:"EFFECT_DURATION" envDefault:"0s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	LifxGroupName string  `env:"LIFX_GROUP_NAME"`
	MinBrightness float64 `env:"MIN_BRIGHTNESS" envDefault:"0"`
	MaxBrightness float64 `env:"MAX_BRIGHTNESS" envDefault:"1"`

	CaptureInterval time.Duration `env:"CAPTURE_INTERVAL" envDefault:"80ms"`
	ColorAlgo       string        `env:"COLOR_ALGO" envDefault:"AVERAGE"`
	PixelGridSize   int           `env:"PIXEL_GRID_SIZE" envDefault:"5"`
	ScreenNumber    int           `env:"SCREEN_NUMBER" envDefault:"0"`
}

// File is the persisted part of the configuration.
type File struct {
	BaseIP string `yaml:"base_ip"`
}

// Load parses the environment, then fills BaseIP from the config file
// unless the environment already set it.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parsing environment: %w", err)
	}

	if strings.TrimSpace(c.BaseIP) == "" {
		f, err := LoadFile(c.ConfigFile)
		if err != nil {
			return c, err
		}
		c.BaseIP = f.BaseIP
	}
	c.BaseIP = strings.TrimSuffix(strings.TrimSpace(c.BaseIP), ".")

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := c.ScanRange().Validate(); err != nil {
		return fmt.Errorf("scan range: %w", err)
	}
	if c.MinBrightness < 0 || c.MaxBrightness > 1 || c.MinBrightness > c.MaxBrightness {
		return fmt.Errorf("brightness bounds must satisfy 0 <= MIN_BRIGHTNESS <= MAX_BRIGHTNESS <= 1, got %v and %v", c.MinBrightness, c.MaxBrightness)
	}
	return nil
}

func (c Config) ScanRange() lights.AddressRange {
	return lights.AddressRange{Prefix: c.BaseIP, Start: c.ScanStart, End: c.ScanEnd}
}

// LoadFile reads path, creating it with the default prefix when missing.
// An unreadable or incomplete file falls back to the default.
func LoadFile(path string) (File, error) {
	def := File{BaseIP: DefaultBaseIP}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := SaveFile(path, def); err != nil {
			logger.With(zap.String("path", path), zap.Error(err)).Warn("Could not create config file")
		}
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		logger.With(zap.String("path", path), zap.Error(err)).Warn("Could not parse config file, using defaults")
		return def, nil
	}
	if strings.TrimSpace(f.BaseIP) == "" {
		f.BaseIP = DefaultBaseIP
	}
	return f, nil
}

func SaveFile(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
