package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monmon-1020/CampusFlow/logging"
)

type fakeConn struct {
	events   []Event
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestHubBroadcast(t *testing.T) {
	logging.Log = logrus.New()

	t.Run("Happy path - every registered connection receives the event", func(t *testing.T) {
		hub := NewHub()
		a, b := &fakeConn{}, &fakeConn{}
		hub.Register("s1", "user-a", a)
		hub.Register("s1", "user-b", b)
		other := &fakeConn{}
		hub.Register("s2", "user-c", other)

		hub.Broadcast("s1", NewEvent("idea:new"))

		assert.Len(t, a.events, 1)
		assert.Equal(t, "idea:new", a.events[0].Type)
		assert.Len(t, b.events, 1)
		assert.Empty(t, other.events, "other sessions must not hear the event")
	})

	t.Run("Happy path - a failing connection does not block the rest", func(t *testing.T) {
		hub := NewHub()
		broken := &fakeConn{writeErr: errors.New("broken pipe")}
		healthy := &fakeConn{}
		hub.Register("s1", "user-a", broken)
		hub.Register("s1", "user-b", healthy)

		hub.Broadcast("s1", NewEvent("session:phase"))

		assert.Len(t, healthy.events, 1)
	})

	t.Run("Happy path - broadcasting to an unknown session is a no-op", func(t *testing.T) {
		NewHub().Broadcast("nobody-home", NewEvent("session:deleted"))
	})
}

// TestHubConcurrentBroadcast fans overlapping broadcasts into one real gorilla
// connection; without per-connection write serialization gorilla panics on the
// concurrent writer.
func TestHubConcurrentBroadcast(t *testing.T) {
	logging.Log = logrus.New()
	hub := NewHub()

	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register("s1", "user-a", conn)
		close(registered)
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("server connection was never registered")
	}

	const writers, eventsPerWriter = 8, 200
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerWriter; j++ {
				hub.Broadcast("s1", NewEvent("vote:cast"))
			}
		}()
	}

	for received := 0; received < writers*eventsPerWriter; received++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var event Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, "vote:cast", event.Type)
	}
	wg.Wait()
}

func TestHubRegister(t *testing.T) {
	logging.Log = logrus.New()

	t.Run("Happy path - a reconnect replaces and closes the old connection", func(t *testing.T) {
		hub := NewHub()
		old, replacement := &fakeConn{}, &fakeConn{}
		hub.Register("s1", "user-a", old)
		hub.Register("s1", "user-a", replacement)

		assert.True(t, old.closed)
		assert.Equal(t, 1, hub.ConnectionCount("s1"))

		hub.Broadcast("s1", NewEvent("vote:cast"))
		assert.Empty(t, old.events)
		assert.Len(t, replacement.events, 1)
	})

	t.Run("Happy path - unregistering a stale connection keeps the current one", func(t *testing.T) {
		hub := NewHub()
		old, replacement := &fakeConn{}, &fakeConn{}
		hub.Register("s1", "user-a", old)
		hub.Register("s1", "user-a", replacement)

		hub.Unregister("s1", "user-a", old)
		assert.Equal(t, 1, hub.ConnectionCount("s1"))

		hub.Unregister("s1", "user-a", replacement)
		assert.Zero(t, hub.ConnectionCount("s1"))
	})

	t.Run("Happy path - unregistering from an unknown session is a no-op", func(t *testing.T) {
		NewHub().Unregister("missing", "user-a", &fakeConn{})
	})
}
