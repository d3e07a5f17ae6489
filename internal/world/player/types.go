package player

import (
	"sort"

	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/pkg/math"
)

// InputState is one frame of sampled input.
type InputState struct {
	Forward     bool
	Backward    bool
	Left        bool
	Right       bool
	Run         bool
	RotateLeft  bool
	RotateRight bool
	Interact    bool

	MouseDX float32
	MouseDY float32
	Wheel   float32 // Positive zooms in
}

// State is the controller's mutable player state.
type State struct {
	Position          math.Vec3 // Eye position
	Yaw               float32
	Pitch             float32 // Positive looks up
	Velocity          math.Vec3
	IsRunning         bool
	HeadBobPhase      float32
	CurrentSegmentID  string
	LastSegmentChange float64 // Controller clock, seconds
}

// Frame is what the controller publishes after a completed update.
type Frame struct {
	Position       math.Vec3
	CameraPosition math.Vec3 // Position plus bob and breathing
	Yaw            float32
	Pitch          float32
	FOV            float32
	SegmentID      string
	Running        bool
	Focusing       bool
	Disorientation float32
}

// CameraEffects holds camera hints raised by gameplay.
type CameraEffects struct {
	// TargetFocus, when set, briefly turns the view toward a point.
	TargetFocus *math.Vec3
}

// MovementPermission is the session-owned switch deciding whether the
// player may move. Any outstanding denial blocks movement.
type MovementPermission struct {
	denied map[string]bool
}

// NewMovementPermission returns a permission that allows movement.
func NewMovementPermission() *MovementPermission {
	return &MovementPermission{denied: make(map[string]bool)}
}

// Deny blocks movement for a reason until Allow is called with it.
func (p *MovementPermission) Deny(reason string) {
	if p.denied == nil {
		p.denied = make(map[string]bool)
	}
	p.denied[reason] = true
}

// Allow lifts the denial for a reason.
func (p *MovementPermission) Allow(reason string) {
	delete(p.denied, reason)
}

// CanMove reports whether no denial is outstanding. A nil permission
// allows movement.
func (p *MovementPermission) CanMove() bool {
	return p == nil || len(p.denied) == 0
}

// Reasons returns the outstanding denials, sorted.
func (p *MovementPermission) Reasons() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.denied))
	for r := range p.denied {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// CollidableProvider supplies collision surfaces near a point.
type CollidableProvider interface {
	CollidablesNear(pos math.Vec3, radius float32) []collision.Collidable
}

// Interactable is something the player can use, such as a door.
type Interactable struct {
	Name     string
	Position math.Vec3
	Open     bool
}

// InteractableProvider finds and activates interactables.
type InteractableProvider interface {
	NearestInteractable(pos math.Vec3, maxDist float32) (Interactable, bool)
	Interact(name string) (Interactable, bool)
}

// SegmentLocator maps a position to the layout location containing it.
type SegmentLocator interface {
	Locate(pos math.Vec3) (layout.Location, bool)
}

// LocationListener is told when the player enters a new location.
// from is empty for the first location after spawn.
type LocationListener interface {
	OnSegmentChanged(from, to string, pos math.Vec3)
}
