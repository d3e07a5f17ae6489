package session

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/officewalk/internal/assets"
	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/doorway"
	"github.com/Faultbox/officewalk/internal/world/graph"
)

// DefaultBlueprintName is the file name of the built-in office floor.
const DefaultBlueprintName = "office.yaml"

//go:embed office.yaml
var officeYAML []byte

//go:embed office.yaml
var officeFS embed.FS

// SpawnSpec places the player relative to a graph node. Yaw is in degrees.
type SpawnSpec struct {
	Node   string     `yaml:"node"`
	Offset [3]float32 `yaml:"offset,flow,omitempty"`
	Yaw    float32    `yaml:"yaw,omitempty"`
}

// Blueprint is the declarative description of one environment.
type Blueprint struct {
	Name  string             `yaml:"name"`
	Graph graph.Map          `yaml:"graph"`
	Rooms []doorway.RoomSpec `yaml:"rooms,omitempty"`
	Doors []doorway.DoorSpec `yaml:"doors,omitempty"`
	Spawn SpawnSpec          `yaml:"spawn"`
}

// ParseBlueprint decodes a blueprint from YAML.
func ParseBlueprint(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("parsing blueprint: %w", err)
	}
	if len(bp.Graph.Nodes) == 0 {
		return nil, fmt.Errorf("blueprint %q: %w", bp.Name, graph.ErrEmptyGraph)
	}
	return &bp, nil
}

// LoadBlueprintFile reads a blueprint from disk.
func LoadBlueprintFile(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blueprint: %w", err)
	}
	bp, err := ParseBlueprint(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bp, nil
}

// DefaultBlueprint returns the embedded office floor.
func DefaultBlueprint() *Blueprint {
	bp, err := ParseBlueprint(officeYAML)
	if err != nil {
		// Embedded data is covered by tests
		panic(err)
	}
	return bp
}

// DefaultBlueprintYAML returns the raw embedded office floor.
func DefaultBlueprintYAML() []byte {
	return officeYAML
}

// LoadBlueprints parses every named blueprint found in the manager's sources.
// A file that is missing or malformed is reported in the joined error and
// the remaining files are still loaded.
func LoadBlueprints(m *assets.Manager, names []string) ([]*Blueprint, error) {
	results, _ := m.LoadAll(names)

	var (
		out  []*Blueprint
		errs []error
	)
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		bp, err := ParseBlueprint(r.Data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, err))
			continue
		}
		if bp.Name == "" {
			bp.Name = r.Path
		}
		out = append(out, bp)
	}

	if len(errs) > 0 {
		logger.Warn("some blueprints failed to load",
			zap.Int("loaded", len(out)),
			zap.Int("failed", len(errs)))
	}
	return out, errors.Join(errs...)
}

// EmbeddedSource exposes the built-in floor as an asset layer holding
// DefaultBlueprintName.
func EmbeddedSource() fs.FS {
	return officeFS
}

// LoadBlueprint reads one blueprint from the manager. An empty name selects
// the built-in office.
func LoadBlueprint(m *assets.Manager, name string) (*Blueprint, error) {
	if name == "" {
		name = DefaultBlueprintName
	}
	bps, err := LoadBlueprints(m, []string{name})
	if err != nil {
		return nil, err
	}
	return bps[0], nil
}
