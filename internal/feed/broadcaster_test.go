package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/binance-spread/internal/model"
)

func dial(t *testing.T, b *Broadcaster) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(b.Handler())
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for b.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestBroadcasterPublish(t *testing.T) {
	b := NewBroadcaster(nil)
	conn := dial(t, b)

	id := uuid.New()
	b.Publish(model.DeltaCycle{
		ID:      id,
		Asset:   "USDT",
		Field:   "count",
		TakenAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Deltas:  model.DeltaMap{"BTCUSDT": 0.2},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Update
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.CycleID != id.String() {
		t.Errorf("CycleID = %q, want %q", got.CycleID, id.String())
	}
	if got.Asset != "USDT" || got.Field != "count" {
		t.Errorf("Asset/Field = %q/%q, want USDT/count", got.Asset, got.Field)
	}
	if got.Deltas["BTCUSDT"] != 0.2 {
		t.Errorf("Deltas[BTCUSDT] = %v, want 0.2", got.Deltas["BTCUSDT"])
	}
}

func TestBroadcasterDisconnect(t *testing.T) {
	b := NewBroadcaster(nil)
	conn := dial(t, b)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for b.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Clients = %d after disconnect, want 0", b.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Publishing with no clients is a no-op.
	b.Publish(model.DeltaCycle{ID: uuid.New()})
}

func TestBroadcasterClose(t *testing.T) {
	b := NewBroadcaster(nil)
	dial(t, b)

	b.Close()
	if b.Clients() != 0 {
		t.Errorf("Clients = %d after Close, want 0", b.Clients())
	}
}

// serverConn returns the server side of a fresh websocket connection.
func serverConn(t *testing.T) *websocket.Conn {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(server.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { peer.Close() })

	select {
	case conn := <-conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no server connection")
		return nil
	}
}

func TestBroadcasterStalledClient(t *testing.T) {
	b := NewBroadcaster(nil)
	healthy := dial(t, b)

	// A client whose writer never drains its queue.
	stalled := &client{conn: serverConn(t), send: make(chan []byte, 1)}
	b.add(stalled)

	start := time.Now()
	for i := 0; i < 3; i++ {
		b.Publish(model.DeltaCycle{ID: uuid.New(), Asset: "USDT"})
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Publish took %v with a stalled client", elapsed)
	}

	if b.Clients() != 1 {
		t.Errorf("Clients = %d, want 1 after dropping the stalled client", b.Clients())
	}

	healthy.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 3; i++ {
		var got Update
		if err := healthy.ReadJSON(&got); err != nil {
			t.Fatalf("ReadJSON %d: %v", i, err)
		}
	}
}
