package consult

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/adermis/adermis/internal/errors"
	"github.com/gorilla/websocket"
)

// envelope is the wire format for signaling messages. Clients send join and
// signal events; the hub answers with room_joined and relayed signal events.
type envelope struct {
	Event      string `json:"event"`
	Room       string `json:"room,omitempty"`
	Message    string `json:"message,omitempty"`
	SignalData any    `json:"signalData,omitempty"`
}

const (
	eventJoin       = "join"
	eventSignal     = "signal"
	eventRoomJoined = "room_joined"
)

// SignalHub relays WebRTC signaling payloads between the members of a room.
// It never inspects signalData; offers, answers and ICE candidates pass
// through unchanged. Each signal is relayed to every room member except the
// sender.
type SignalHub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]map[*peer]struct{}
}

type peer struct {
	conn *websocket.Conn
	room string

	writeMu sync.Mutex
	once    sync.Once
}

func NewSignalHub(logger *slog.Logger) *SignalHub {
	return &SignalHub{
		logger: logger.With(slog.String("source", "signalhub")),
		upgrader: websocket.Upgrader{ //nolint:exhaustruct // this is better for readability
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Same-host pages only; the consultation page is the sole client.
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				parsed, err := url.Parse(origin)
				return err == nil && parsed.Host == r.Host
			},
		},
		rooms: make(map[string]map[*peer]struct{}),
	}
}

func (h *SignalHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelWarn, "websocket upgrade failed", errors.SlogError(err))
		return
	}
	p := &peer{conn: conn}
	defer h.disconnect(p)

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.LogAttrs(r.Context(), slog.LevelDebug, "websocket read failed", errors.SlogError(err))
			}
			return
		}

		switch env.Event {
		case eventJoin:
			if env.Room == "" {
				continue
			}
			h.join(p, env.Room)
		case eventSignal:
			h.relay(p, env)
		}
	}
}

// join places the peer in a room and announces the arrival to every member,
// the newcomer included. Joining a second room moves the peer.
func (h *SignalHub) join(p *peer, room string) {
	h.mu.Lock()
	if p.room != "" && p.room != room {
		h.removeLocked(p)
	}
	p.room = room
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*peer]struct{})
		h.rooms[room] = members
	}
	members[p] = struct{}{}
	recipients := make([]*peer, 0, len(members))
	for member := range members {
		recipients = append(recipients, member)
	}
	h.mu.Unlock()

	announcement := envelope{Event: eventRoomJoined, Room: room, Message: "User joined room " + room}
	for _, member := range recipients {
		h.send(member, announcement)
	}
}

// relay forwards a signal to the other members of the sender's room.
func (h *SignalHub) relay(sender *peer, env envelope) {
	h.mu.Lock()
	var recipients []*peer
	for member := range h.rooms[env.Room] {
		if member != sender {
			recipients = append(recipients, member)
		}
	}
	h.mu.Unlock()

	forwarded := envelope{Event: eventSignal, Room: env.Room, SignalData: env.SignalData}
	for _, member := range recipients {
		h.send(member, forwarded)
	}
}

func (h *SignalHub) send(p *peer, env envelope) {
	p.writeMu.Lock()
	err := p.conn.WriteJSON(env)
	p.writeMu.Unlock()
	if err != nil {
		h.disconnect(p)
	}
}

// disconnect removes the peer from its room and closes the connection. Safe
// to call more than once; later calls are no-ops.
func (h *SignalHub) disconnect(p *peer) {
	p.once.Do(func() {
		h.mu.Lock()
		h.removeLocked(p)
		h.mu.Unlock()
		if err := p.conn.Close(); err != nil {
			h.logger.LogAttrs(context.Background(), slog.LevelDebug, "websocket close failed", errors.SlogError(err))
		}
	})
}

func (h *SignalHub) removeLocked(p *peer) {
	if members, ok := h.rooms[p.room]; ok {
		delete(members, p)
		if len(members) == 0 {
			delete(h.rooms, p.room)
		}
	}
}

// RoomSize reports the member count of a room.
func (h *SignalHub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
