package doorway

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

// DoorConfig tunes door animation.
type DoorConfig struct {
	SwingSpeed float32 `yaml:"swing_speed"` // Radians per second
	OpenAngle  float32 `yaml:"open_angle"`  // Radians
}

// DefaultDoorConfig returns a quarter-turn swing taking about 0.6s.
func DefaultDoorConfig() DoorConfig {
	return DoorConfig{SwingSpeed: 2.5, OpenAngle: math.Pi / 2}
}

// Door is an interactive door. Angles are radians around the pivot.
type Door struct {
	Name          string
	Position      math.Vec3
	Width         float32
	Yaw           float32
	Room          string
	IsOpen        bool
	CurrentAngle  float32
	TargetAngle   float32
	OpenDirection int // +1 or -1
}

// Settled reports whether the swing animation has reached its target.
func (d Door) Settled() bool {
	return d.CurrentAngle == d.TargetAngle
}

// DoorListener receives door open state changes.
type DoorListener interface {
	OnDoorChanged(d Door)
}

// DoorSet owns every door of one environment.
type DoorSet struct {
	cfg       DoorConfig
	doors     map[string]*Door
	listeners []DoorListener
}

// NewDoorSet creates an empty set.
func NewDoorSet(cfg DoorConfig) *DoorSet {
	def := DefaultDoorConfig()
	if cfg.SwingSpeed <= 0 {
		cfg.SwingSpeed = def.SwingSpeed
	}
	if cfg.OpenAngle <= 0 {
		cfg.OpenAngle = def.OpenAngle
	}
	return &DoorSet{cfg: cfg, doors: make(map[string]*Door)}
}

// Add registers a door. Names are unique.
func (s *DoorSet) Add(d Door) error {
	if d.Name == "" {
		return fmt.Errorf("door has no name")
	}
	if _, dup := s.doors[d.Name]; dup {
		return fmt.Errorf("duplicate door %q", d.Name)
	}
	if d.OpenDirection >= 0 {
		d.OpenDirection = 1
	} else {
		d.OpenDirection = -1
	}
	s.doors[d.Name] = &d
	return nil
}

// Get returns a copy of a door by name.
func (s *DoorSet) Get(name string) (Door, bool) {
	d, ok := s.doors[name]
	if !ok {
		return Door{}, false
	}
	return *d, true
}

// Len returns the number of doors.
func (s *DoorSet) Len() int {
	return len(s.doors)
}

// Names returns door names, sorted.
func (s *DoorSet) Names() []string {
	names := make([]string, 0, len(s.doors))
	for name := range s.doors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops every door. Listeners stay attached.
func (s *DoorSet) Clear() {
	s.doors = make(map[string]*Door)
}

// AddListener attaches a listener for open state changes.
func (s *DoorSet) AddListener(l DoorListener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// Toggle flips a door's open state and retargets its swing.
func (s *DoorSet) Toggle(name string) (Door, bool) {
	d, ok := s.doors[name]
	if !ok {
		logger.Warn("Toggle on unknown door", zap.String("door", name))
		return Door{}, false
	}
	d.IsOpen = !d.IsOpen
	if d.IsOpen {
		d.TargetAngle = s.cfg.OpenAngle * float32(d.OpenDirection)
	} else {
		d.TargetAngle = 0
	}
	logger.Debug("Door toggled", zap.String("door", name), zap.Bool("open", d.IsOpen))
	for _, l := range s.listeners {
		l.OnDoorChanged(*d)
	}
	return *d, true
}

// Update advances every swing toward its target at the configured speed.
func (s *DoorSet) Update(dt float32) {
	if dt <= 0 {
		return
	}
	step := s.cfg.SwingSpeed * dt
	for _, d := range s.doors {
		diff := d.TargetAngle - d.CurrentAngle
		if math.Abs(diff) <= step {
			d.CurrentAngle = d.TargetAngle
			continue
		}
		if diff > 0 {
			d.CurrentAngle += step
		} else {
			d.CurrentAngle -= step
		}
	}
}

// Positions returns door placements for wall cutout generation.
func (s *DoorSet) Positions() []layout.DoorPlacement {
	out := make([]layout.DoorPlacement, 0, len(s.doors))
	for _, name := range s.Names() {
		d := s.doors[name]
		out = append(out, layout.DoorPlacement{Name: d.Name, Position: d.Position, Width: d.Width})
	}
	return out
}

// Nearest returns the closest door within maxDist of pos on the ground plane.
// Ties go to the alphabetically first name.
func (s *DoorSet) Nearest(pos math.Vec3, maxDist float32) (Door, float32, bool) {
	var best *Door
	var bestDist float32
	for _, name := range s.Names() {
		d := s.doors[name]
		dist := pos.XZ().Distance(d.Position.XZ())
		if dist > maxDist {
			continue
		}
		if best == nil || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	if best == nil {
		return Door{}, 0, false
	}
	return *best, bestDist, true
}

// NearestInteractable implements player.InteractableProvider.
func (s *DoorSet) NearestInteractable(pos math.Vec3, maxDist float32) (player.Interactable, bool) {
	d, _, ok := s.Nearest(pos, maxDist)
	if !ok {
		return player.Interactable{}, false
	}
	return interactable(d), true
}

// Interact implements player.InteractableProvider by toggling the door.
func (s *DoorSet) Interact(name string) (player.Interactable, bool) {
	d, ok := s.Toggle(name)
	if !ok {
		return player.Interactable{}, false
	}
	return interactable(d), true
}

func interactable(d Door) player.Interactable {
	return player.Interactable{Name: d.Name, Position: d.Position, Open: d.IsOpen}
}
