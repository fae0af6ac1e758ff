package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/hypersystems/hyperguard/violation"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans recorded violations out to connected websocket clients. The
// engine hands alerts to a worker before they reach the hub, so a slow
// client never stalls the sampling loop.
type Hub struct {
	log *logrus.Logger

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

var _ violation.Alerter = (*Hub)(nil)

type subscriber struct {
	conn *websocket.Conn

	mu     sync.Mutex
	alerts bool
}

// alertMessage is the wire form of a fanned-out violation.
type alertMessage struct {
	Type       string              `json:"type"`
	Violation  violation.Violation `json:"violation"`
	ServerTime int64               `json:"serverTime"`
}

// clientMessage is a control message read from a client. Clients pause and
// resume their alert stream without reconnecting; the hub acknowledges the
// toggle by echoing it.
type clientMessage struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// NewHub ...
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{log: log, subs: make(map[*subscriber]struct{})}
}

// Alert implements violation.Alerter by broadcasting the violation to every
// client that has not paused its stream.
func (h *Hub) Alert(v violation.Violation) {
	data, err := json.Marshal(alertMessage{
		Type:       "violation",
		Violation:  v,
		ServerTime: time.Now().UnixMilli(),
	})
	if err != nil {
		h.log.Errorf("failed to marshal alert: %v", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		if !sub.alerts {
			sub.mu.Unlock()
			continue
		}
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.drop(sub)
		}
	}
}

// Handle upgrades the request and serves the client until it leaves.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugf("alert stream upgrade failed: %v", err)
		return
	}

	sub := &subscriber{conn: conn, alerts: true}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.drop(sub)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.log.Debugf("discarding malformed alert stream message: %v", err)
			continue
		}
		if msg.Type != "alerts" {
			continue
		}

		sub.mu.Lock()
		sub.alerts = msg.Enabled
		ack, _ := json.Marshal(msg)
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = sub.conn.WriteMessage(websocket.TextMessage, ack)
		sub.mu.Unlock()
		if err != nil {
			h.drop(sub)
			return
		}
	}
}

// Clients returns the number of connected alert stream clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every client. Websocket connections are hijacked from
// the HTTP server, so its shutdown does not reach them.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.Close()
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}
