// internal/push/hub_test.go
package push

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		server.Close()
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func TestBroadcastDeliversToClient(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()

	hub.Broadcast([]byte(`{"type":"reservation.created"}`))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(payload) != `{"type":"reservation.created"}` {
		t.Errorf("unexpected payload: %s", payload)
	}
}

// 多个事务同时提交时，发布适配器会从不同 goroutine 并发调用 Broadcast；
// 每条连接必须只有一个写入者，所有消息都要完整送达。
func TestConcurrentBroadcastsSingleWriter(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()

	const publishers = 8
	const perPublisher = 25

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				hub.Broadcast([]byte(fmt.Sprintf(`{"publisher":%d,"seq":%d}`, p, i)))
			}
		}(p)
	}

	received := make(map[string]struct{})
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for len(received) < publishers*perPublisher {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed after %d messages: %v", len(received), err)
		}
		received[string(payload)] = struct{}{}
	}
	wg.Wait()

	if len(received) != publishers*perPublisher {
		t.Errorf("expected %d distinct messages, got %d", publishers*perPublisher, len(received))
	}
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Broadcast([]byte(`{}`))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no connected clients")
	}
}
