package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path wins over the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot produce a usable walkthrough.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Corridor.SegmentLength <= 0 {
		errs = append(errs, fmt.Errorf("corridor: segment_length must be positive, got %g", c.Corridor.SegmentLength))
	}
	if c.Corridor.CorridorWidth <= 0 {
		errs = append(errs, fmt.Errorf("corridor: corridor_width must be positive, got %g", c.Corridor.CorridorWidth))
	}
	if c.Player.ZoomMinFOV > c.Player.ZoomMaxFOV {
		errs = append(errs, fmt.Errorf("player: zoom_min_fov %g above zoom_max_fov %g", c.Player.ZoomMinFOV, c.Player.ZoomMaxFOV))
	}
	if c.World.CellSize < 0 {
		errs = append(errs, fmt.Errorf("world: cell_size must not be negative, got %g", c.World.CellSize))
	}
	if c.Feed.Enabled && c.Feed.Addr == "" {
		errs = append(errs, errors.New("feed: enabled without an address"))
	}
	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./officewalk.yaml",
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "OfficeWalk")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "OfficeWalk")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "officewalk")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "officewalk")
	}
}

// loadFromFile merges a YAML file over the existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
