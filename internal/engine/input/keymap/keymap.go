// Package keymap turns raw key and mouse activity into controller input.
// It holds no SDL state so bindings can be tested headless.
package keymap

import "github.com/Faultbox/officewalk/internal/world/player"

// Key is a physical key code (an SDL scancode in the viewer).
type Key uint32

// Action is a movement-layer command.
type Action int

const (
	MoveForward Action = iota
	MoveBackward
	StrafeLeft
	StrafeRight
	Run
	RotateLeft
	RotateRight
	Interact
)

var actionNames = [...]string{"forward", "backward", "left", "right", "run", "rotate_left", "rotate_right", "interact"}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Bindings maps each action to the keys that trigger it.
type Bindings map[Action][]Key

// Tracker records held movement keys and accumulates mouse input between
// frames. Keys it is bound to are consumed and never reach the generic
// event stream.
type Tracker struct {
	bindings Bindings
	byKey    map[Key]Action
	held     map[Key]bool

	mouseDX, mouseDY float32
	wheel            float32
}

// NewTracker creates a tracker. A key bound to several actions keeps the
// first binding seen in action order.
func NewTracker(b Bindings) *Tracker {
	t := &Tracker{
		bindings: b,
		byKey:    make(map[Key]Action),
		held:     make(map[Key]bool),
	}
	for a := MoveForward; a <= Interact; a++ {
		for _, k := range b[a] {
			if _, dup := t.byKey[k]; !dup {
				t.byKey[k] = a
			}
		}
	}
	return t
}

// Bound reports whether k belongs to the movement layer.
func (t *Tracker) Bound(k Key) bool {
	_, ok := t.byKey[k]
	return ok
}

// KeyDown marks k held. It returns true when the key was consumed.
func (t *Tracker) KeyDown(k Key) bool {
	if !t.Bound(k) {
		return false
	}
	t.held[k] = true
	return true
}

// KeyUp releases k. It returns true when the key was consumed.
func (t *Tracker) KeyUp(k Key) bool {
	if !t.Bound(k) {
		return false
	}
	delete(t.held, k)
	return true
}

// MouseMotion accumulates relative pointer movement in pixels.
func (t *Tracker) MouseMotion(dx, dy float32) {
	t.mouseDX += dx
	t.mouseDY += dy
}

// Wheel accumulates scroll steps; positive scrolls away from the user.
func (t *Tracker) Wheel(dy float32) {
	t.wheel += dy
}

// Reset releases every key and drops pending mouse input, e.g. when the
// window loses focus.
func (t *Tracker) Reset() {
	clear(t.held)
	t.mouseDX, t.mouseDY, t.wheel = 0, 0, 0
}

// Active reports whether any key bound to a is held.
func (t *Tracker) Active(a Action) bool {
	for _, k := range t.bindings[a] {
		if t.held[k] && t.byKey[k] == a {
			return true
		}
	}
	return false
}

// State returns this frame's controller input and clears the accumulated
// mouse and wheel deltas.
func (t *Tracker) State() player.InputState {
	in := player.InputState{
		Forward:     t.Active(MoveForward),
		Backward:    t.Active(MoveBackward),
		Left:        t.Active(StrafeLeft),
		Right:       t.Active(StrafeRight),
		Run:         t.Active(Run),
		RotateLeft:  t.Active(RotateLeft),
		RotateRight: t.Active(RotateRight),
		Interact:    t.Active(Interact),
		MouseDX:     t.mouseDX,
		MouseDY:     t.mouseDY,
		Wheel:       t.wheel,
	}
	t.mouseDX, t.mouseDY, t.wheel = 0, 0, 0
	return in
}
