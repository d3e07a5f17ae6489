package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/officewalk/internal/assets"
	"github.com/Faultbox/officewalk/internal/game/session"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test world defaults
	if cfg.Corridor.SegmentLength != 5 {
		t.Errorf("expected segment length 5, got %g", cfg.Corridor.SegmentLength)
	}
	if cfg.Corridor.CorridorWidth != 2 {
		t.Errorf("expected corridor width 2, got %g", cfg.Corridor.CorridorWidth)
	}
	if cfg.Player.EyeHeight != 1.6 {
		t.Errorf("expected eye height 1.6, got %g", cfg.Player.EyeHeight)
	}
	if cfg.World.CellSize != 4 {
		t.Errorf("expected cell size 4, got %g", cfg.World.CellSize)
	}

	// Test feed defaults
	if cfg.Feed.Enabled {
		t.Error("expected feed to be disabled by default")
	}
	if cfg.Feed.WriteTimeout != 3*time.Second {
		t.Errorf("expected feed write timeout 3s, got %v", cfg.Feed.WriteTimeout)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestSessionMapping(t *testing.T) {
	cfg := Default()
	cfg.Corridor.CorridorWidth = 3
	cfg.Player.WalkSpeed = 4
	cfg.World.CellSize = 8
	cfg.World.OverlapMargin = 0.2

	sc := cfg.Session()
	if sc.Layout.CorridorWidth != 3 {
		t.Errorf("expected layout corridor width 3, got %g", sc.Layout.CorridorWidth)
	}
	if sc.Player.WalkSpeed != 4 {
		t.Errorf("expected walk speed 4, got %g", sc.Player.WalkSpeed)
	}
	if sc.CellSize != 8 || sc.OverlapMargin != 0.2 {
		t.Errorf("expected cell 8 margin 0.2, got %g %g", sc.CellSize, sc.OverlapMargin)
	}
	if sc.Collision.PlayerRadius != cfg.Collision.PlayerRadius {
		t.Errorf("collision settings not carried over")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

corridor:
  segment_length: 6
  corridor_width: 2.5

player:
  walk_speed: 2.5
  max_pitch: 1.2

feed:
  enabled: true
  addr: "0.0.0.0:9000"
  write_timeout: 5s

data:
  dirs: ["floors"]
  blueprint: "tower.yaml"

logging:
  level: "debug"
  log_file: "walk.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Corridor.SegmentLength != 6 {
		t.Errorf("expected segment length 6, got %g", cfg.Corridor.SegmentLength)
	}
	// Keys absent from the file keep their defaults
	if cfg.Corridor.WallHeight != 3 {
		t.Errorf("expected wall height 3 to survive the merge, got %g", cfg.Corridor.WallHeight)
	}
	if cfg.Player.WalkSpeed != 2.5 {
		t.Errorf("expected walk speed 2.5, got %g", cfg.Player.WalkSpeed)
	}
	if cfg.Player.RunSpeed != 6 {
		t.Errorf("expected run speed 6 to survive the merge, got %g", cfg.Player.RunSpeed)
	}

	if !cfg.Feed.Enabled || cfg.Feed.Addr != "0.0.0.0:9000" {
		t.Errorf("expected feed enabled on 0.0.0.0:9000, got %v %s", cfg.Feed.Enabled, cfg.Feed.Addr)
	}
	if cfg.Feed.WriteTimeout != 5*time.Second {
		t.Errorf("expected write timeout 5s, got %v", cfg.Feed.WriteTimeout)
	}

	if len(cfg.Data.Dirs) != 1 || cfg.Data.Dirs[0] != "floors" {
		t.Errorf("expected data dirs [floors], got %v", cfg.Data.Dirs)
	}
	if cfg.Data.Blueprint != "tower.yaml" {
		t.Errorf("expected blueprint tower.yaml, got %s", cfg.Data.Blueprint)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "walk.log" {
		t.Errorf("expected log file 'walk.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"negative segment length", func(c *Config) { c.Corridor.SegmentLength = -1 }},
		{"zero corridor width", func(c *Config) { c.Corridor.CorridorWidth = 0 }},
		{"inverted zoom", func(c *Config) { c.Player.ZoomMinFOV = 90 }},
		{"negative cell size", func(c *Config) { c.World.CellSize = -2 }},
		{"feed without address", func(c *Config) { c.Feed.Enabled = true; c.Feed.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Keep the user's real config dir out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %q", path)
	}

	// The project-named file takes precedence
	if err := os.WriteFile(filepath.Join(tmpDir, "officewalk.yaml"), []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./officewalk.yaml" {
		t.Errorf("expected ./officewalk.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowFPS || !cfg.Graphics.Wireframe {
					t.Error("expected fps and wireframe overlays with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "layout flag",
			setup: func() {
				*flagLayout = "annex.yaml"
			},
			verify: func(cfg *Config) {
				if cfg.Data.Blueprint != "annex.yaml" {
					t.Errorf("expected blueprint annex.yaml, got %s", cfg.Data.Blueprint)
				}
			},
			teardown: func() {
				*flagLayout = ""
			},
		},
		{
			name: "feed flag",
			setup: func() {
				*flagFeed = ":9999"
			},
			verify: func(cfg *Config) {
				if !cfg.Feed.Enabled || cfg.Feed.Addr != ":9999" {
					t.Errorf("expected feed enabled on :9999, got %v %s", cfg.Feed.Enabled, cfg.Feed.Addr)
				}
			},
			teardown: func() {
				*flagFeed = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("corridor:\n  corridor_width: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject a zero corridor width")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 1024
	cfg.Corridor.JunctionSize = 4
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Graphics.Width != 1024 || loaded.Corridor.JunctionSize != 4 {
		t.Errorf("saved values not restored: width %d junction %g", loaded.Graphics.Width, loaded.Corridor.JunctionSize)
	}
}

func TestBlueprintSource(t *testing.T) {
	dir := t.TempDir()
	floor := `name: annex
graph:
  nodes:
    - {id: A, pos: [0, 0]}
    - {id: B, pos: [0, -1]}
  edges:
    - {from: A, to: B}
spawn: {node: A}
`
	if err := os.WriteFile(filepath.Join(dir, "annex.yaml"), []byte(floor), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("default is embedded office", func(t *testing.T) {
		cfg := Default()
		m, name := cfg.BlueprintSource()
		bp, err := session.LoadBlueprint(m, name)
		if err != nil {
			t.Fatalf("LoadBlueprint() error = %v", err)
		}
		if bp.Name != "office" {
			t.Errorf("blueprint = %q, want office", bp.Name)
		}
	})

	t.Run("name inside data dir", func(t *testing.T) {
		cfg := Default()
		cfg.Data.Dirs = []string{dir, filepath.Join(dir, "missing")}
		cfg.Data.Blueprint = "annex.yaml"
		m, name := cfg.BlueprintSource()
		bp, err := session.LoadBlueprint(m, name)
		if err != nil {
			t.Fatalf("LoadBlueprint() error = %v", err)
		}
		if bp.Name != "annex" {
			t.Errorf("blueprint = %q, want annex", bp.Name)
		}
	})

	t.Run("direct file path", func(t *testing.T) {
		cfg := Default()
		cfg.Data.Blueprint = filepath.Join(dir, "annex.yaml")
		m, name := cfg.BlueprintSource()
		if name != "annex.yaml" {
			t.Errorf("name = %q, want annex.yaml", name)
		}
		if _, err := session.LoadBlueprint(m, name); err != nil {
			t.Errorf("LoadBlueprint() error = %v", err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		cfg := Default()
		cfg.Data.Blueprint = "nowhere.yaml"
		m, name := cfg.BlueprintSource()
		if _, err := session.LoadBlueprint(m, name); !errors.Is(err, assets.ErrNotFound) {
			t.Errorf("LoadBlueprint() error = %v, want ErrNotFound", err)
		}
	})
}
