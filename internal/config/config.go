// Package config handles application configuration loading and management.
package config

import (
	"github.com/Faultbox/officewalk/internal/feed"
	"github.com/Faultbox/officewalk/internal/game/session"
	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/internal/world/doorway"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/internal/world/player"
)

// Config holds all settings.
type Config struct {
	Graphics  GraphicsConfig           `yaml:"graphics"`
	Player    player.Config            `yaml:"player"`
	Corridor  layout.Config            `yaml:"corridor"`
	Collision collision.ResolverConfig `yaml:"collision"`
	Doors     doorway.DoorConfig       `yaml:"doors"`
	World     WorldConfig              `yaml:"world"`
	Feed      feed.Config              `yaml:"feed"`
	Data      DataConfig               `yaml:"data"`
	Logging   LoggingConfig            `yaml:"logging"`
}

// DataConfig holds blueprint locations.
type DataConfig struct {
	Dirs      []string `yaml:"dirs"`      // Extra directories searched before the embedded floor
	Blueprint string   `yaml:"blueprint"` // Blueprint file name within Dirs; empty = embedded office
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`
	Wireframe  bool `yaml:"wireframe"` // Draw collidable boxes over the scene
}

// WorldConfig holds spatial index settings.
type WorldConfig struct {
	CellSize      float32 `yaml:"cell_size"`
	OverlapMargin float32 `yaml:"overlap_margin"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	sc := session.DefaultConfig()
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Player:    sc.Player,
		Corridor:  sc.Layout,
		Collision: sc.Collision,
		Doors:     sc.Doors,
		World: WorldConfig{
			CellSize:      sc.CellSize,
			OverlapMargin: sc.OverlapMargin,
		},
		Feed: feed.DefaultConfig(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Session returns the tuning handed to a walkthrough session.
func (c *Config) Session() session.Config {
	return session.Config{
		Layout:        c.Corridor,
		Collision:     c.Collision,
		Player:        c.Player,
		Doors:         c.Doors,
		CellSize:      c.World.CellSize,
		OverlapMargin: c.World.OverlapMargin,
	}
}
