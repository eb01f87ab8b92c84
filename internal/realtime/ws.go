package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
)

const (
	msgTick    = "tick"
	msgSession = "session"
	msgError   = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Local tool; displays may be served from any port.
	},
}

// wsMessage is the envelope for everything pushed to a display.
type wsMessage struct {
	Type      string           `json:"type"`
	SessionID string           `json:"sessionId"`
	Tick      *tickPayload     `json:"tick,omitempty"`
	Session   *sessionResponse `json:"session,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type tickPayload struct {
	Status    string    `json:"status"`
	ElapsedMs int64     `json:"elapsedMs"`
	Clock     string    `json:"clock"`
	At        time.Time `json:"at"`
}

// client is one display mount: one connection, one ticker.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

func (c *client) push(msg wsMessage) {
	msg.SessionID = c.sessionID
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		// Display is behind; the next tick supersedes this one.
	}
}

func (c *client) publishTick(t timer.Tick) {
	c.push(wsMessage{Type: msgTick, Tick: &tickPayload{
		Status:    string(t.Status),
		ElapsedMs: t.Elapsed.Milliseconds(),
		Clock:     t.Clock,
		At:        t.At,
	}})
}

// handleWebSocket streams live ticks for one session. The session is
// refetched every refresh interval so pauses made elsewhere show up.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}
	view, err := s.timers.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "websocket_upgrade_failed", "error", err.Error())
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16), sessionID: id}
	resp := viewResponse(view)
	c.push(wsMessage{Type: msgSession, Session: &resp})

	ticker := timer.NewTicker(view.TickInput(), c.publishTick,
		timer.WithInterval(s.tickInterval),
		timer.WithClock(s.now),
	)

	ctx, cancel := context.WithCancel(context.Background())
	refreshDone := make(chan struct{})
	readDone := make(chan struct{})

	go c.writePump()
	go func() {
		defer close(readDone)
		c.readPump()
	}()
	ticker.Start()
	go func() {
		defer close(refreshDone)
		s.refreshLoop(ctx, c, ticker, view)
	}()

	go func() {
		<-readDone
		cancel()
		<-refreshDone
		ticker.Stop()
		close(c.send)
	}()
}

// refreshLoop refetches the session and feeds the ticker until the session
// stops or ctx is cancelled.
func (s *Server) refreshLoop(ctx context.Context, c *client, ticker *timer.Ticker, last *service.SessionView) {
	refresh := time.NewTicker(s.refreshInterval)
	defer refresh.Stop()

	for !last.Snapshot.IsTerminal() {
		select {
		case <-ctx.Done():
			return
		case <-refresh.C:
		}

		view, err := s.timers.Get(ctx, c.sessionID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.push(wsMessage{Type: msgError, Error: err.Error()})
			continue
		}

		ticker.Update(view.TickInput())
		if view.Snapshot.Status != last.Snapshot.Status || view.Session.EventLog != last.Session.EventLog {
			resp := viewResponse(view)
			c.push(wsMessage{Type: msgSession, Session: &resp})
		}
		last = view
	}
}

// readPump drains the connection so pings and closes are handled. Displays
// do not send commands over the socket.
func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *client) writePump() {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
