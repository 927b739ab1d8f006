package ws

import (
	"sync"
	"time"

	"github.com/Monmon-1020/CampusFlow/brainstorm"
	"github.com/Monmon-1020/CampusFlow/logging"
)

// Conn is the slice of a websocket connection the hub needs. gorilla's
// *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Event is one broadcast message. Only the fields relevant to the event type
// are populated; the rest are omitted from the JSON.
type Event struct {
	Type           string                `json:"type"`
	Timestamp      time.Time             `json:"timestamp"`
	SessionID      string                `json:"session_id,omitempty"`
	Phase          brainstorm.Phase      `json:"phase,omitempty"`
	Idea           *brainstorm.Idea      `json:"idea,omitempty"`
	Group          *brainstorm.Group     `json:"group,omitempty"`
	IdeaID         string                `json:"idea_id,omitempty"`
	Patch          map[string]string     `json:"patch,omitempty"`
	TargetID       string                `json:"target_id,omitempty"`
	TargetType     brainstorm.TargetType `json:"target_type,omitempty"`
	Summary        *brainstorm.Summary   `json:"summary,omitempty"`
	AnnouncementID string                `json:"announcement_id,omitempty"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType string) Event {
	return Event{Type: eventType, Timestamp: time.Now().UTC()}
}

// client pairs a connection with the lock that serializes writes to it.
// gorilla allows at most one concurrent writer per connection, and two
// overlapping broadcasts to the same session would otherwise race on it.
type client struct {
	writeMu sync.Mutex
	conn    Conn
}

func (c *client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks live connections per session and fans events out to them. It is
// in-memory and per-process: a restart drops the registry and clients must
// reconnect. One connection per (session, user); a newer connection replaces
// and closes the older one.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*client
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[string]*client)}
}

func (h *Hub) Register(sessionID, userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[sessionID]
	if !ok {
		clients = make(map[string]*client)
		h.sessions[sessionID] = clients
	}
	if old, ok := clients[userID]; ok {
		_ = old.conn.Close()
	}
	clients[userID] = &client{conn: conn}
}

// Unregister removes the connection only if it is still the registered one,
// so a reconnect racing its predecessor's cleanup is not dropped.
func (h *Hub) Unregister(sessionID, userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	if current, ok := clients[userID]; !ok || current.conn != conn {
		return
	}
	delete(clients, userID)
	if len(clients) == 0 {
		delete(h.sessions, sessionID)
	}
}

// Broadcast pushes the event to every connection registered for the session.
// Individual send failures are logged and skipped; one half-closed connection
// must not block delivery to the rest.
func (h *Hub) Broadcast(sessionID string, event Event) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.sessions[sessionID]))
	for _, c := range h.sessions[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(event); err != nil {
			logging.Log.Warnf("WS: dropped %s event for session %s: %v", event.Type, sessionID, err)
		}
	}
}

// ConnectionCount reports how many connections a session currently has.
func (h *Hub) ConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
