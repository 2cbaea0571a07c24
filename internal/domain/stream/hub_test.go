package stream

import (
	"encoding/json"
	"testing"
	"time"
)

func newLocalHub(clients int) (*Hub, []*Connection) {
	h := NewHub()
	conns := make([]*Connection, clients)
	for i := range conns {
		conns[i] = &Connection{Send: make(chan []byte, 4)}
		h.connections[conns[i]] = true
	}
	return h, conns
}

func waitEvent(t *testing.T, ch <-chan []byte) map[string]interface{} {
	t.Helper()
	select {
	case msg := <-ch:
		var event map[string]interface{}
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal stream event: %v", err)
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting stream event")
	}
	return nil
}

func TestPublishReachesEveryClient(t *testing.T) {
	hub, conns := newLocalHub(2)

	hub.Publish(map[string]interface{}{
		"type": "booking:new",
		"data": map[string]string{"id": "b1"},
	})

	for _, conn := range conns {
		event := waitEvent(t, conn.Send)
		if event["type"] != "booking:new" {
			t.Fatalf("expected booking:new, got %v", event["type"])
		}
	}
}

func TestPublishSkipsFullBuffers(t *testing.T) {
	hub, conns := newLocalHub(1)
	for i := 0; i < cap(conns[0].Send); i++ {
		hub.Publish(map[string]string{"type": "toast"})
	}

	// One more must not block even though the client is not reading.
	done := make(chan struct{})
	go func() {
		hub.Publish(map[string]string{"type": "toast"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full client buffer")
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{Send: make(chan []byte, 4)}
	hub.Register(conn)
	deadline := time.After(2 * time.Second)
	for hub.ConnectionCount() != 1 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting register")
		case <-time.After(5 * time.Millisecond):
		}
	}

	hub.Unregister(conn)
	for hub.ConnectionCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting unregister")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if _, ok := <-conn.Send; ok {
		t.Fatal("expected send channel closed on unregister")
	}
}
