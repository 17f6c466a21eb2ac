// Package signal implements the WebRTC signaling channel: per-room
// pairing of one sender and one receiver, with opaque text frames
// relayed between them.
//
// A room is keyed by the access ID of the transfer it coordinates.
// Rooms are created lazily on first join and deleted when both slots
// empty. Payloads are never parsed or transformed; the only
// server-originated frame is the room_taken rejection.
package signal

import (
	"sync"
	"sync/atomic"

	"github.com/fileflow/fileflow/pkg/metrics"
)

// Role identifies which slot of a room a peer occupies.
type Role int

const (
	RoleSender Role = iota
	RoleReceiver
)

func (r Role) String() string {
	if r == RoleReceiver {
		return "receiver"
	}
	return "sender"
}

// ParseRole parses the role query parameter.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "sender":
		return RoleSender, true
	case "receiver":
		return RoleReceiver, true
	default:
		return 0, false
	}
}

// sendBufferSize bounds each peer's outbound queue. Signaling traffic
// is a handful of SDP/ICE frames; on overflow frames are dropped
// rather than blocking the relaying peer.
const sendBufferSize = 64

// Peer is one connected side of a room.
type Peer struct {
	id   uint64
	send chan []byte
	done chan struct{}
}

func (p *Peer) enqueue(frame []byte) bool {
	select {
	case p.send <- frame:
		return true
	default:
		return false
	}
}

type room struct {
	sender   *Peer
	receiver *Peer
}

func (r *room) empty() bool {
	return r.sender == nil && r.receiver == nil
}

func (r *room) slot(role Role) **Peer {
	if role == RoleReceiver {
		return &r.receiver
	}
	return &r.sender
}

// Rooms is the registry of live signaling rooms.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]*room
	nextID atomic.Uint64
	m      *metrics.SignalMetrics
}

// NewRooms creates an empty registry. m may be nil.
func NewRooms(m *metrics.SignalMetrics) *Rooms {
	return &Rooms{
		rooms: make(map[string]*room),
		m:     m,
	}
}

// NewPeer allocates a peer with a fresh connection ID.
func (rs *Rooms) NewPeer() *Peer {
	return &Peer{
		id:   rs.nextID.Add(1),
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Register places p into the given slot, creating the room if needed.
// Returns false when the slot is already occupied.
func (rs *Rooms) Register(roomID string, role Role, p *Peer) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rm, ok := rs.rooms[roomID]
	if !ok {
		rm = &room{}
		rs.rooms[roomID] = rm
	}

	slot := rm.slot(role)
	if *slot != nil {
		return false
	}
	*slot = p

	rs.m.SetRooms(len(rs.rooms))
	return true
}

// Unregister clears the slot only if p still occupies it, guarding
// against a re-joined peer of the same role having replaced it. Empty
// rooms are deleted. Reports whether p was the occupant.
func (rs *Rooms) Unregister(roomID string, role Role, p *Peer) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rm, ok := rs.rooms[roomID]
	if !ok {
		return false
	}

	held := false
	slot := rm.slot(role)
	if *slot != nil && (*slot).id == p.id {
		*slot = nil
		held = true
	}

	if rm.empty() {
		delete(rs.rooms, roomID)
	}
	rs.m.SetRooms(len(rs.rooms))
	return held
}

// Forward enqueues frame onto the peer opposite to role in the room.
// Returns false when there is no opposite peer or its queue is full.
func (rs *Rooms) Forward(roomID string, from Role, frame []byte) bool {
	rs.mu.RLock()
	rm, ok := rs.rooms[roomID]
	var target *Peer
	if ok {
		if from == RoleSender {
			target = rm.receiver
		} else {
			target = rm.sender
		}
	}
	rs.mu.RUnlock()

	if target == nil {
		return false
	}
	if target.enqueue(frame) {
		rs.m.ObserveForward()
		return true
	}
	return false
}

// Count returns the number of live rooms.
func (rs *Rooms) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.rooms)
}
