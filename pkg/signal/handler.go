package signal

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/metrics"
)

const (
	// writeWait is the deadline for one socket write.
	writeWait = 10 * time.Second

	// maxFrameSize bounds inbound frames; SDP offers are a few KiB.
	maxFrameSize = 64 << 10
)

// roomTakenFrame is the only server-originated payload.
const roomTakenFrame = `{"type":"error","message":"room_taken"}`

// ReceiverStateMarker is the transfer-side hook driven by receiver
// join/leave. Satisfied by *transfer.Service.
type ReceiverStateMarker interface {
	MarkReceiverState(id string, using bool, rid string)
}

// Handler upgrades signaling connections and runs their pumps.
type Handler struct {
	rooms     *Rooms
	transfers ReceiverStateMarker
	upgrader  websocket.Upgrader
	m         *metrics.SignalMetrics
}

// NewHandler creates a signaling handler. transfers receives receiver
// claim updates; m may be nil.
func NewHandler(transfers ReceiverStateMarker, m *metrics.SignalMetrics) *Handler {
	return &Handler{
		rooms:     NewRooms(m),
		transfers: transfers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The relay carries no credentials and rooms are guarded
			// by their unguessable IDs; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		m: m,
	}
}

// Rooms exposes the registry, mainly for tests and introspection.
func (h *Handler) Rooms() *Rooms {
	return h.rooms
}

// Serve validates the role/rid query, upgrades the connection and
// services it until either side closes.
//
// Validation failures respond 400 before upgrading. A full slot is
// reported in-band with the room_taken frame followed by a close.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, roomID string) {
	role, ok := ParseRole(r.URL.Query().Get("role"))
	if !ok {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	rid := r.URL.Query().Get("rid")
	if role == RoleReceiver && rid == "" {
		http.Error(w, "missing rid", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("signal upgrade failed", "room", roomID, "error", err)
		return
	}

	peer := h.rooms.NewPeer()

	if !h.rooms.Register(roomID, role, peer) {
		logger.Debug("signal slot taken", "room", roomID, "role", role.String())
		h.m.ObserveRoomTaken()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(roomTakenFrame))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room_taken"))
		_ = conn.Close()
		return
	}

	logger.Debug("signal peer joined", "room", roomID, "role", role.String(), "conn", peer.id)
	h.m.PeerConnected()

	if role == RoleReceiver {
		h.transfers.MarkReceiverState(roomID, true, rid)
	}

	// The write pump and the read loop race; whichever finishes first
	// triggers cleanup of both via the peer's done channel.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writePump(conn, peer)
	}()

	h.readLoop(conn, roomID, role)

	close(peer.done)
	_ = conn.Close()
	wg.Wait()

	// Only the peer that still held the slot clears the claim; a
	// replacement receiver that registered in the meantime owns it now.
	held := h.rooms.Unregister(roomID, role, peer)
	if role == RoleReceiver && held {
		h.transfers.MarkReceiverState(roomID, false, "")
	}

	h.m.PeerDisconnected()
	logger.Debug("signal peer left", "room", roomID, "role", role.String(), "conn", peer.id)
}

// readLoop forwards inbound text frames to the opposite peer until the
// socket errors or the client sends a close frame. Binary and other
// control frames are ignored.
func (h *Handler) readLoop(conn *websocket.Conn, roomID string, role Role) {
	conn.SetReadLimit(maxFrameSize)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if !h.rooms.Forward(roomID, role, data) {
			logger.Debug("signal frame dropped", "room", roomID, "from", role.String())
		}
	}
}

// writePump drains the peer's outbound queue onto the socket.
func (h *Handler) writePump(conn *websocket.Conn, peer *Peer) {
	for {
		select {
		case frame := <-peer.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-peer.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
