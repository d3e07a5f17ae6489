// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/officewalk/internal/engine/input/keymap"
	"github.com/Faultbox/officewalk/internal/world/player"
)

// Event types for viewer use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event that the movement layer did
// not consume.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// DefaultBindings returns WASD movement, arrow rotation, Shift to run and
// E to interact.
func DefaultBindings() keymap.Bindings {
	return keymap.Bindings{
		keymap.MoveForward:  {keymap.Key(sdl.SCANCODE_W), keymap.Key(sdl.SCANCODE_UP)},
		keymap.MoveBackward: {keymap.Key(sdl.SCANCODE_S), keymap.Key(sdl.SCANCODE_DOWN)},
		keymap.StrafeLeft:   {keymap.Key(sdl.SCANCODE_A)},
		keymap.StrafeRight:  {keymap.Key(sdl.SCANCODE_D)},
		keymap.Run:          {keymap.Key(sdl.SCANCODE_LSHIFT), keymap.Key(sdl.SCANCODE_RSHIFT)},
		keymap.RotateLeft:   {keymap.Key(sdl.SCANCODE_LEFT)},
		keymap.RotateRight:  {keymap.Key(sdl.SCANCODE_RIGHT)},
		keymap.Interact:     {keymap.Key(sdl.SCANCODE_E)},
	}
}

// Input handles all input processing.
type Input struct {
	events  []Event
	tracker *keymap.Tracker
}

// New creates an input handler with the given movement bindings.
func New(b keymap.Bindings) *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		tracker: keymap.NewTracker(b),
	}
}

// Update polls SDL events. Movement keys and mouse look go to the tracker;
// everything else becomes an Event. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.tracker.Reset()
			}

		case *sdl.KeyboardEvent:
			key := keymap.Key(e.Keysym.Scancode)
			if e.Type == sdl.KEYDOWN {
				if i.tracker.KeyDown(key) || e.Repeat != 0 {
					continue
				}
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				if i.tracker.KeyUp(key) {
					continue
				}
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			i.tracker.MouseMotion(float32(e.XRel), float32(e.YRel))

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			i.tracker.Wheel(dy)

		case *sdl.MouseButtonEvent:
			typ := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				typ = EventMouseDown
			}
			i.events = append(i.events, Event{
				Type:   typ,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		}
	}

	return false
}

// Events returns the unconsumed events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Movement returns the controller input gathered since the last call.
func (i *Input) Movement() player.InputState {
	return i.tracker.State()
}

// IsKeyPressed checks if a specific non-movement key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// SetRelativeMouse captures the pointer for mouse look.
func SetRelativeMouse(on bool) {
	sdl.SetRelativeMouseMode(on)
}
