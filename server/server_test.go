package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"agar/utils"
)

func subscriberCount(s *Server) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// A closed connection must unregister its subscriber; otherwise the writer
// goroutine keeps feeding a dead socket for the life of the server.
func TestSubscriberDrainsOnDisconnect(t *testing.T) {
	s := NewServer(utils.Default())
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws://"+srv.Listener.Addr().String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, "subscriber registration", func() bool {
		return subscriberCount(s) == 1
	})

	c.Close(websocket.StatusNormalClosure, "")
	waitFor(t, "subscriber removal", func() bool {
		return subscriberCount(s) == 0
	})
}
