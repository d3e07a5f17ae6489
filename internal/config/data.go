package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/assets"
	"github.com/Faultbox/officewalk/internal/game/session"
	"github.com/Faultbox/officewalk/internal/logger"
)

// BlueprintSource layers the embedded office under the configured data
// directories and returns the blueprint name to load from it. A blueprint
// given as a path to an existing file has its directory added on top.
func (c *Config) BlueprintSource() (*assets.Manager, string) {
	m := assets.NewManager()
	m.AddFS("embedded", session.EmbeddedSource())

	for _, dir := range c.Data.Dirs {
		if err := m.AddDir(dir); err != nil {
			logger.Warn("skipping blueprint directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	name := c.Data.Blueprint
	if name == "" {
		return m, session.DefaultBlueprintName
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		if err := m.AddDir(filepath.Dir(name)); err == nil {
			name = filepath.Base(name)
		}
	}
	return m, filepath.ToSlash(name)
}
