package utils

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the simulator
type Config struct {
	Rows                int           `json:"rows" yaml:"rows"`
	Columns             int           `json:"columns" yaml:"columns"`
	Pattern             string        `json:"pattern" yaml:"pattern"` // empty starts with a blank grid
	FrameRate           time.Duration `json:"frame_rate" yaml:"frame_rate"` // YAML takes "40ms"; JSON takes nanoseconds
	MaxGenerations      int           `json:"max_generations" yaml:"max_generations"` // 0 = unlimited
	StagnationThreshold int           `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	StopOnStagnation    bool          `json:"stop_on_stagnation" yaml:"stop_on_stagnation"`
	UseParallel         bool          `json:"use_parallel" yaml:"use_parallel"`
	UseMemoryPool       bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	Headless            bool          `json:"headless" yaml:"headless"`
	StatsFile           string        `json:"stats_file" yaml:"stats_file"`
	CellSize            int           `json:"cell_size" yaml:"cell_size"` // pixels, graphical mode
	LogLevel            string        `json:"log_level" yaml:"log_level"`
	LogFormat           string        `json:"log_format" yaml:"log_format"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:                40,
		Columns:             60,
		Pattern:             "Glider",
		FrameRate:           40 * time.Millisecond,
		MaxGenerations:      0,
		StagnationThreshold: 5,
		StopOnStagnation:    false,
		UseParallel:         true,
		UseMemoryPool:       true,
		Headless:            false,
		CellSize:            12,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// LoadConfig loads configuration from a JSON or YAML file over the defaults. The format is
// picked from the extension; anything but .yaml/.yml is read as JSON.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate checks that the values can drive a simulation
func (c Config) Validate() error {
	switch {
	case c.Rows < 1 || c.Columns < 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] grid must be at least 1x1, got %dx%d", c.Rows, c.Columns)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] negative frame rate %v", c.FrameRate)
	case c.MaxGenerations < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] negative max generations %d", c.MaxGenerations)
	case c.StagnationThreshold < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] negative stagnation threshold %d", c.StagnationThreshold)
	case c.CellSize < 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] cell size must be positive, got %d", c.CellSize)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] unknown log format %q", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(ErrInvalidConfig, "[SlogLevel] unknown log level %q", c.LogLevel)
	}
	return level, nil
}
