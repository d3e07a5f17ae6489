package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/Faultbox/officewalk/internal/world/doorway"
	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

type rawEnvelope struct {
	Sequence uint64          `json:"seq"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

func startServer(t *testing.T, h *Hub) (string, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	srv := httptest.NewServer(Handler(h))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), ctx
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) rawEnvelope {
	t.Helper()
	rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(rctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return env
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Len() = %d, want %d", h.Len(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_ReplaysLatestToNewClient(t *testing.T) {
	h := NewHub(DefaultConfig())
	h.OnSegmentChanged("", "ELV-C1", math.Vec3{Y: 1.6, Z: 1})
	h.OnSegmentChanged("ELV-C1", "C1-C2", math.Vec3{Y: 1.6, Z: 6})
	url, ctx := startServer(t, h)

	conn := dial(t, ctx, url)
	env := read(t, ctx, conn)

	if env.Type != TypeSegmentChanged || env.Sequence != 2 {
		t.Fatalf("envelope = %s #%d, want %s #2", env.Type, env.Sequence, TypeSegmentChanged)
	}
	var p SegmentChanged
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.From != "ELV-C1" || p.To != "C1-C2" || p.Position[2] != 6 {
		t.Errorf("payload = %+v, want ELV-C1 -> C1-C2 at z=6", p)
	}
}

func TestHub_BroadcastsDoorChanges(t *testing.T) {
	h := NewHub(DefaultConfig())
	url, ctx := startServer(t, h)
	conn := dial(t, ctx, url)
	waitClients(t, h, 1)

	h.OnDoorChanged(doorway.Door{Name: "Interaction_Design", Room: "Interaction_Design", IsOpen: true})
	env := read(t, ctx, conn)

	if env.Type != TypeDoorChanged {
		t.Fatalf("Type = %s, want %s", env.Type, TypeDoorChanged)
	}
	var p DoorChanged
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "Interaction_Design" || !p.Open {
		t.Errorf("payload = %+v, want Interaction_Design open", p)
	}
}

func TestHub_PositionThrottled(t *testing.T) {
	h := NewHub(Config{MinMove: 1})

	h.OnFrame(player.Frame{Position: math.Vec3{Z: 0}})
	h.OnFrame(player.Frame{Position: math.Vec3{Z: 0.5}})
	h.OnFrame(player.Frame{Position: math.Vec3{Z: 1.2}, SegmentID: "ELV-C1"})

	if got := len(h.queue); got != 2 {
		t.Fatalf("queued = %d, want 2", got)
	}
	<-h.queue
	var env rawEnvelope
	if err := json.Unmarshal((<-h.queue).msg, &env); err != nil {
		t.Fatal(err)
	}
	var p Position
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.Position[2] != 1.2 || p.Segment != "ELV-C1" {
		t.Errorf("payload = %+v, want z=1.2 in ELV-C1", p)
	}
}

func TestHub_QueueFullDrops(t *testing.T) {
	h := NewHub(Config{QueueSize: 1})

	if _, err := h.Publish(TypeDoorChanged, DoorChanged{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	seq, err := h.Publish(TypeDoorChanged, DoorChanged{Name: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if seq != 2 {
		t.Errorf("seq = %d, want 2", seq)
	}
	if len(h.queue) != 1 {
		t.Errorf("queued = %d, want 1", len(h.queue))
	}
	// The dropped message is still the latest snapshot
	if !strings.Contains(string(h.latest[TypeDoorChanged]), `"b"`) {
		t.Errorf("latest = %s, want door b", h.latest[TypeDoorChanged])
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	h := NewHub(DefaultConfig())
	url, ctx := startServer(t, h)
	conn := dial(t, ctx, url)
	waitClients(t, h, 1)

	conn.Close(websocket.StatusNormalClosure, "bye")
	waitClients(t, h, 0)
}

// stalledConn accepts no data: every write blocks until its deadline.
type stalledConn struct {
	writing chan struct{}
	closed  chan struct{}
	once    sync.Once
}

func newStalledConn() *stalledConn {
	return &stalledConn{writing: make(chan struct{}, 1), closed: make(chan struct{})}
}

func (c *stalledConn) Write(ctx context.Context, _ websocket.MessageType, _ []byte) error {
	select {
	case c.writing <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *stalledConn) Close(websocket.StatusCode, string) error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// recordingConn keeps every message written to it.
type recordingConn struct {
	mu   sync.Mutex
	msgs []rawEnvelope
}

func (c *recordingConn) Write(_ context.Context, _ websocket.MessageType, p []byte) error {
	var env rawEnvelope
	if err := json.Unmarshal(p, &env); err != nil {
		return err
	}
	c.mu.Lock()
	c.msgs = append(c.msgs, env)
	c.mu.Unlock()
	return nil
}

func (c *recordingConn) Close(websocket.StatusCode, string) error { return nil }

func (c *recordingConn) sequences() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint64, 0, len(c.msgs))
	for _, m := range c.msgs {
		out = append(out, m.Sequence)
	}
	return out
}

func TestHub_StalledClientDoesNotBlockPublish(t *testing.T) {
	h := NewHub(Config{WriteTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stalled := newStalledConn()
	if err := h.Add(ctx, stalled); err != nil {
		t.Fatal(err)
	}
	go h.Run(ctx)

	if _, err := h.Publish(TypeDoorChanged, DoorChanged{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-stalled.writing:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast never reached the client")
	}

	// The broadcast is stuck in Write; the frame loop side must not wait
	start := time.Now()
	for i := 0; i < 10; i++ {
		h.OnFrame(player.Frame{Position: math.Vec3{Z: float32(i)}})
	}
	if _, err := h.Publish(TypeDoorChanged, DoorChanged{Name: "b"}); err != nil {
		t.Fatal(err)
	}
	h.Len()
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("publishing took %v while a client stalled", elapsed)
	}

	select {
	case <-stalled.closed:
	case <-time.After(3 * time.Second):
		t.Fatal("stalled client was not closed after the write timeout")
	}
	waitClients(t, h, 0)
}

func TestHub_ReplayNotFollowedByOlderState(t *testing.T) {
	h := NewHub(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Both are queued but not yet delivered when the client joins
	h.OnSegmentChanged("", "ELV-C1", math.Vec3{Z: 1})
	h.OnSegmentChanged("ELV-C1", "C1-C2", math.Vec3{Z: 6})

	rec := &recordingConn{}
	if err := h.Add(ctx, rec); err != nil {
		t.Fatal(err)
	}
	go h.Run(ctx)
	h.OnSegmentChanged("C1-C2", "C2", math.Vec3{Z: 10})

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.sequences()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("received %v, want 2 envelopes", rec.sequences())
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Let any stale broadcast land before checking
	time.Sleep(50 * time.Millisecond)

	got := rec.sequences()
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("sequences = %v, want [2 3]", got)
	}
}
