package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/doorway"
	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

// Conn is the write side of a feed client. *websocket.Conn implements it.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// queued is one encoded envelope waiting for delivery.
type queued struct {
	typ string
	seq uint64
	msg []byte
}

// client remembers which sequence number of each type its replay covered.
type client struct {
	replayed map[string]uint64
}

// Hub fans envelopes out to connected clients. Publishing never blocks the
// frame loop: envelopes are queued and written by Run, and writes happen
// without holding the state lock.
type Hub struct {
	cfg Config

	// sendMu orders replays against broadcasts; Publish never takes it.
	sendMu sync.Mutex

	mu        sync.Mutex
	clients   map[Conn]*client
	latest    map[string][]byte // Last envelope per type, replayed to new clients
	latestSeq map[string]uint64
	seq       uint64

	queue chan queued

	lastPos math.Vec3
	havePos bool
}

// NewHub creates a hub. Call Run to start delivery.
func NewHub(cfg Config) *Hub {
	def := DefaultConfig()
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MinMove <= 0 {
		cfg.MinMove = def.MinMove
	}
	return &Hub{
		cfg:       cfg,
		clients:   make(map[Conn]*client),
		latest:    make(map[string][]byte),
		latestSeq: make(map[string]uint64),
		queue:     make(chan queued, cfg.QueueSize),
	}
}

// Add replays the latest envelope of each type to conn and then registers
// it. Queued envelopes the replay already covers are not sent again, so a
// client never sees an older state after a newer one. A failed replay leaves
// conn unregistered.
func (h *Hub) Add(ctx context.Context, conn Conn) error {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	c := &client{replayed: make(map[string]uint64)}
	h.mu.Lock()
	snapshot := make([][]byte, 0, len(h.latest))
	for _, t := range []string{TypeSegmentChanged, TypeDoorChanged, TypePosition} {
		if msg, ok := h.latest[t]; ok {
			snapshot = append(snapshot, msg)
			c.replayed[t] = h.latestSeq[t]
		}
	}
	h.mu.Unlock()

	for _, msg := range snapshot {
		wctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
		err := conn.Write(wctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			return fmt.Errorf("replaying feed state: %w", err)
		}
	}

	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	return nil
}

// Remove drops a client.
func (h *Hub) Remove(conn Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes and queues an envelope. It returns the sequence number.
func (h *Hub) Publish(msgType string, payload any) (uint64, error) {
	h.mu.Lock()
	h.seq++
	env := Envelope{Sequence: h.seq, Type: msgType, Payload: payload}
	msg, err := json.Marshal(env)
	if err != nil {
		h.mu.Unlock()
		return 0, err
	}
	h.latest[msgType] = msg
	h.latestSeq[msgType] = env.Sequence
	h.mu.Unlock()

	select {
	case h.queue <- queued{typ: msgType, seq: env.Sequence, msg: msg}:
	default:
		logger.Warn("Feed queue full, dropping message", zap.String("type", msgType), zap.Uint64("seq", env.Sequence))
	}
	return env.Sequence, nil
}

// Run delivers queued envelopes until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case q := <-h.queue:
			h.broadcast(ctx, q)
		}
	}
}

func (h *Hub) broadcast(ctx context.Context, q queued) {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	h.mu.Lock()
	targets := make([]Conn, 0, len(h.clients))
	for conn, c := range h.clients {
		if q.seq > c.replayed[q.typ] {
			targets = append(targets, conn)
		}
	}
	h.mu.Unlock()

	var failed []Conn
	for _, conn := range targets {
		wctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
		err := conn.Write(wctx, websocket.MessageText, q.msg)
		cancel()
		if err != nil {
			logger.Debug("Feed client dropped", zap.Error(err))
			_ = conn.Close(websocket.StatusNormalClosure, "")
			failed = append(failed, conn)
		}
	}
	if len(failed) == 0 {
		return
	}
	h.mu.Lock()
	for _, conn := range failed {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, "shutting down")
		delete(h.clients, conn)
	}
}

// OnSegmentChanged implements player.LocationListener.
func (h *Hub) OnSegmentChanged(from, to string, pos math.Vec3) {
	if _, err := h.Publish(TypeSegmentChanged, SegmentChanged{From: from, To: to, Position: vec(pos)}); err != nil {
		logger.Warn("Failed to publish segment change", zap.Error(err))
	}
}

// OnDoorChanged implements doorway.DoorListener.
func (h *Hub) OnDoorChanged(d doorway.Door) {
	if _, err := h.Publish(TypeDoorChanged, DoorChanged{Name: d.Name, Room: d.Room, Open: d.IsOpen}); err != nil {
		logger.Warn("Failed to publish door change", zap.Error(err))
	}
}

// OnFrame publishes the player pose once it has moved MinMove since the last
// update. Called from the frame loop only.
func (h *Hub) OnFrame(f player.Frame) {
	if h.havePos && f.Position.Distance(h.lastPos) < h.cfg.MinMove {
		return
	}
	h.lastPos = f.Position
	h.havePos = true
	payload := Position{Position: vec(f.Position), Yaw: f.Yaw, Pitch: f.Pitch, Segment: f.SegmentID}
	if _, err := h.Publish(TypePosition, payload); err != nil {
		logger.Warn("Failed to publish position", zap.Error(err))
	}
}

func vec(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
