// Package feed publishes player location and door changes to websocket
// clients such as map and UI overlays.
package feed

import "time"

// Message types.
const (
	TypeSegmentChanged = "segment_changed"
	TypeDoorChanged    = "door_changed"
	TypePosition       = "position"
)

// Envelope wraps every message sent to clients.
type Envelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

// SegmentChanged reports the player entering a new location.
type SegmentChanged struct {
	From     string     `json:"from,omitempty"`
	To       string     `json:"to"`
	Position [3]float32 `json:"position"`
}

// DoorChanged reports a door opening or closing.
type DoorChanged struct {
	Name string `json:"name"`
	Room string `json:"room,omitempty"`
	Open bool   `json:"open"`
}

// Position is a throttled player pose update.
type Position struct {
	Position [3]float32 `json:"position"`
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
	Segment  string     `json:"segment,omitempty"`
}

// Config configures the feed server.
type Config struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	QueueSize    int           `yaml:"queue_size"`
	MinMove      float32       `yaml:"min_move"` // Distance between position updates
}

// DefaultConfig returns a disabled feed on localhost:8787/feed.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		Addr:         "127.0.0.1:8787",
		Path:         "/feed",
		WriteTimeout: 3 * time.Second,
		QueueSize:    256,
		MinMove:      0.25,
	}
}
