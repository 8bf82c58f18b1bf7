package websocket

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// recordLogger satisfies logger.ILogger and remembers error calls so tests
// can assert on the marshal-failure path.
type recordLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *recordLogger) Info(module, message string, details map[string]interface{})  {}
func (l *recordLogger) Warn(module, message string, details map[string]interface{})  {}
func (l *recordLogger) Error(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	l.errors = append(l.errors, message)
	l.mu.Unlock()
}
func (l *recordLogger) Sync() error { return nil }

func (l *recordLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

// attach registers a client directly on the hub map. The tests never start
// Run, so map access is single-goroutine and the Send buffers are kept roomy
// enough that the slow-client eviction branch is never taken.
func attach(h *Hub, userID uuid.UUID) *Client {
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 8)}
	h.clients[userID] = append(h.clients[userID], client)
	return client
}

func receiveFrame(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case data := <-c.Send:
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		return frame
	default:
		t.Fatal("no frame queued on client")
	}
	return Frame{}
}

func TestHubSendReachesEveryDeviceOfUser(t *testing.T) {
	hub := NewHub(nil, &recordLogger{})

	userID := uuid.New()
	otherID := uuid.New()
	laptop := attach(hub, userID)
	phone := attach(hub, userID)
	other := attach(hub, otherID)

	hub.Send(userID, Frame{Type: "assist", Data: map[string]string{"event": "fragment", "text": "hello"}})

	for _, client := range []*Client{laptop, phone} {
		frame := receiveFrame(t, client)
		if frame.Type != "assist" {
			t.Errorf("frame.Type = %q, want %q", frame.Type, "assist")
		}
		data, ok := frame.Data.(map[string]interface{})
		if !ok {
			t.Fatalf("frame.Data type = %T, want map", frame.Data)
		}
		if data["event"] != "fragment" || data["text"] != "hello" {
			t.Errorf("frame.Data = %v, want event=fragment text=hello", data)
		}
	}

	select {
	case data := <-other.Send:
		t.Errorf("unrelated user received frame %s", data)
	default:
	}
}

func TestHubSendUnknownUserIsNoop(t *testing.T) {
	hub := NewHub(nil, &recordLogger{})
	attach(hub, uuid.New())

	// Must neither panic nor block when nobody is connected under that id.
	hub.Send(uuid.New(), Frame{Type: "notification", Data: "ping"})
}

func TestHubBroadcastReachesAllUsers(t *testing.T) {
	hub := NewHub(nil, &recordLogger{})

	clients := []*Client{
		attach(hub, uuid.New()),
		attach(hub, uuid.New()),
		attach(hub, uuid.New()),
	}

	hub.Broadcast(Frame{Type: "broadcast", Data: "maintenance at noon"})

	for i, client := range clients {
		frame := receiveFrame(t, client)
		if frame.Type != "broadcast" {
			t.Errorf("client %d frame.Type = %q, want %q", i, frame.Type, "broadcast")
		}
		if frame.Data != "maintenance at noon" {
			t.Errorf("client %d frame.Data = %v, want maintenance notice", i, frame.Data)
		}
	}
}

func TestHubSendUnmarshalableFrameIsDropped(t *testing.T) {
	log := &recordLogger{}
	hub := NewHub(nil, log)

	userID := uuid.New()
	client := attach(hub, userID)

	// Channels cannot be marshalled to JSON.
	hub.Send(userID, Frame{Type: "assist", Data: make(chan int)})

	select {
	case data := <-client.Send:
		t.Errorf("client received frame %s, want nothing", data)
	default:
	}
	if log.errorCount() != 1 {
		t.Errorf("logged errors = %d, want 1", log.errorCount())
	}
}
