// Package layout turns a corridor graph into concrete geometry: corridor
// segments, junctions and walls with doorway cutouts. Every solid surface it
// emits is registered with the collision world.
package layout

// Config holds corridor dimensions and generation tolerances.
type Config struct {
	SegmentLength float32 `yaml:"segment_length"`
	CorridorWidth float32 `yaml:"corridor_width"`
	WallHeight    float32 `yaml:"wall_height"`
	WallThickness float32 `yaml:"wall_thickness"`
	JunctionSize  float32 `yaml:"junction_size"`

	// JunctionProximity is how close a segment end must be to a junction
	// centre for the junction radius to be subtracted from it.
	JunctionProximity float32 `yaml:"junction_proximity"`

	DoorWidth float32 `yaml:"door_width"`

	// Empirically tuned; kept configurable.
	DoorLateralThreshold float32 `yaml:"door_lateral_threshold"`
	MinWallSegment       float32 `yaml:"min_wall_segment"`

	TrimHeight float32 `yaml:"trim_height"`
}

// DefaultConfig returns the office corridor dimensions.
func DefaultConfig() Config {
	return Config{
		SegmentLength:        5,
		CorridorWidth:        2,
		WallHeight:           3,
		WallThickness:        0.1,
		JunctionSize:         3,
		JunctionProximity:    0.5,
		DoorWidth:            1.2,
		DoorLateralThreshold: 1.0,
		MinWallSegment:       0.1,
		TrimHeight:           0.1,
	}
}

// JunctionRadius is half the junction footprint; it is the offset subtracted
// from segment ends that meet a junction.
func (c Config) JunctionRadius() float32 {
	return c.JunctionSize / 2
}

// withDefaults fills non-positive fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float32, def float32) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&c.SegmentLength, d.SegmentLength)
	fill(&c.CorridorWidth, d.CorridorWidth)
	fill(&c.WallHeight, d.WallHeight)
	fill(&c.WallThickness, d.WallThickness)
	fill(&c.JunctionSize, d.JunctionSize)
	fill(&c.JunctionProximity, d.JunctionProximity)
	fill(&c.DoorWidth, d.DoorWidth)
	fill(&c.DoorLateralThreshold, d.DoorLateralThreshold)
	fill(&c.MinWallSegment, d.MinWallSegment)
	fill(&c.TrimHeight, d.TrimHeight)
	return c
}
