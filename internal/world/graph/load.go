package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a graph description from YAML (JSON is valid YAML too).
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing graph: %w", err)
	}
	if len(m.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	return &m, nil
}

// LoadFile reads and parses a graph description file.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
