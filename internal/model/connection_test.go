package model

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbeisheim/chessbot-backend/internal/ws"
)

// recordingConn flags any write that starts while another is in flight.
type recordingConn struct {
	inFlight    atomic.Int32
	overlaps    atomic.Int32
	writes      atomic.Int32
	closeCalled atomic.Bool
}

func (c *recordingConn) write() error {
	if c.inFlight.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	time.Sleep(100 * time.Microsecond)
	c.inFlight.Add(-1)
	c.writes.Add(1)
	return nil
}

func (c *recordingConn) WriteJSON(v interface{}) error { return c.write() }

func (c *recordingConn) WriteMessage(messageType int, data []byte) error { return c.write() }

func (c *recordingConn) Close() error {
	c.closeCalled.Store(true)
	return nil
}

func TestSendSerialisedWithBroadcast(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	conn := &recordingConn{}
	if err := game.RegisterConnection("alice", conn); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			game.broadcastState()
		}()
		go func() {
			defer wg.Done()
			if err := game.Send(conn, ws.Message{
				Type:    ws.MessageTypeError,
				Payload: ws.ErrorPayload("not your turn"),
			}); err != nil {
				t.Errorf("Send: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := conn.overlaps.Load(); got != 0 {
		t.Errorf("%d overlapping writes", got)
	}
	if got := conn.writes.Load(); got < 2*n {
		t.Errorf("writes = %d, want at least %d", got, 2*n)
	}
}

func TestDuplicateConnectionRejected(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	first := &recordingConn{}
	second := &recordingConn{}
	if err := game.RegisterConnection("alice", first); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if err := game.RegisterConnection("alice", second); err != nil {
		t.Fatalf("duplicate RegisterConnection: %v", err)
	}
	if !second.closeCalled.Load() {
		t.Error("duplicate connection was not closed")
	}
	if first.closeCalled.Load() {
		t.Error("original connection was closed")
	}

	// a stale connection must not evict the live one
	game.UnregisterConnection("alice", second)
	game.connections.mu.RLock()
	current := game.connections.connections["alice"]
	game.connections.mu.RUnlock()
	if current != Conn(first) {
		t.Error("unregistering the duplicate dropped the live connection")
	}
}

func TestRegisterConnectionUnauthorized(t *testing.T) {
	game := newTwoPlayerGame(t, GameOptions{})
	if err := game.RegisterConnection("mallory", &recordingConn{}); err != ErrNotAuthorized {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}
}
