package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// SessionReader is the narrow session-read collaborator used by status
// queries. It must enforce ownership and raise coded domain errors.
type SessionReader interface {
	SessionStatus(ctx context.Context, sessionID string, userID int64) (interview.SessionStatus, error)
}

// room is the set of live connections attached to one session. Every member
// belongs to the session's single owner; two rooms never share a connection
// set even when owned by the same user.
type room struct {
	sessionID string
	ownerID   int64
	conns     map[uuid.UUID]*Conn
}

type connEntry struct {
	conn     *Conn
	ownerID  int64
	sessions map[string]bool
}

// RoomManager tracks session-room membership and mediates realtime
// operations. It never touches session business state; it only authorizes,
// broadcasts, and keeps the membership maps consistent. All map mutation
// happens under mu, which also serializes per-session broadcast ordering.
type RoomManager struct {
	mu     sync.RWMutex
	log    *logger.Logger
	reader SessionReader
	rooms  map[string]*room
	conns  map[uuid.UUID]*connEntry
}

func NewRoomManager(log *logger.Logger, reader SessionReader) *RoomManager {
	return &RoomManager{
		log:    log.With("component", "RoomManager"),
		reader: reader,
		rooms:  make(map[string]*room),
		conns:  make(map[uuid.UUID]*connEntry),
	}
}

// NewConn mints a connection handle not yet attached to any room.
func (m *RoomManager) NewConn() *Conn {
	return newConn(m.log)
}

// Join attaches conn to the session's room on behalf of ownerID. The caller
// must have verified session ownership first; Join still refuses to mix
// owners within one room.
func (m *RoomManager) Join(conn *Conn, sessionID string, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.conns[conn.ID]
	if !ok {
		entry = &connEntry{conn: conn, ownerID: ownerID, sessions: make(map[string]bool)}
		m.conns[conn.ID] = entry
	}
	if entry.ownerID != ownerID {
		return interview.UnauthorizedError("Unauthorized session access")
	}

	rm, ok := m.rooms[sessionID]
	if !ok {
		rm = &room{sessionID: sessionID, ownerID: ownerID, conns: make(map[uuid.UUID]*Conn)}
		m.rooms[sessionID] = rm
	}
	if rm.ownerID != ownerID {
		return interview.UnauthorizedError("Unauthorized session access")
	}

	rm.conns[conn.ID] = conn
	entry.sessions[sessionID] = true
	m.log.Debug("Connection joined session room", "conn_id", conn.ID.String(), "session_id", sessionID)
	return nil
}

// Leave detaches conn from one room, deleting the room when it empties.
func (m *RoomManager) Leave(conn *Conn, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(conn.ID, sessionID)
}

func (m *RoomManager) leaveLocked(connID uuid.UUID, sessionID string) {
	if rm, ok := m.rooms[sessionID]; ok {
		delete(rm.conns, connID)
		if len(rm.conns) == 0 {
			delete(m.rooms, sessionID)
		}
	}
	if entry, ok := m.conns[connID]; ok {
		delete(entry.sessions, sessionID)
	}
}

// Disconnect removes conn from every room that references it and closes the
// handle. Already-dispatched sends are not retracted.
func (m *RoomManager) Disconnect(conn *Conn) {
	m.mu.Lock()
	entry, ok := m.conns[conn.ID]
	if ok {
		for sessionID := range entry.sessions {
			m.leaveLocked(conn.ID, sessionID)
		}
		delete(m.conns, conn.ID)
	}
	m.mu.Unlock()

	if ok {
		conn.close()
		m.log.Debug("Connection disconnected", "conn_id", conn.ID.String())
	}
}

// authorizeLocked resolves the caller's owner id and the target room.
// A missing room and an owner mismatch produce the same wording so callers
// cannot distinguish "not found" from "not yours".
func (m *RoomManager) authorizeLocked(connID uuid.UUID, sessionID string) (*connEntry, *room, error) {
	entry, ok := m.conns[connID]
	if !ok {
		return nil, nil, interview.UnauthorizedError("Unauthorized")
	}
	rm, ok := m.rooms[sessionID]
	if !ok {
		return entry, nil, interview.UnauthorizedError("Unauthorized session access")
	}
	if rm.ownerID != entry.ownerID {
		return entry, nil, interview.UnauthorizedError("Unauthorized session access")
	}
	return entry, rm, nil
}

// Typing authorizes the indicator and fans it out to every other member of
// the session room; the sender never receives its own indicator. The
// broadcast happens under the manager lock, so indicators for one session
// are delivered in authorization order.
func (m *RoomManager) Typing(connID uuid.UUID, ind TypingIndicator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, rm, err := m.authorizeLocked(connID, ind.SessionID)
	if err != nil {
		m.deliverError(entry, ind.SessionID, err)
		return err
	}
	if ind.Timestamp.IsZero() {
		ind.Timestamp = time.Now().UTC()
	}
	env := Envelope{SessionID: ind.SessionID, Event: EventTypingIndicator, Data: ind}
	for id, member := range rm.conns {
		if id == connID {
			continue
		}
		member.send(env)
	}
	return nil
}

// SessionStatus authorizes the query, fetches the current status through the
// session-read collaborator, and replies to the requesting connection only.
func (m *RoomManager) SessionStatus(ctx context.Context, connID uuid.UUID, sessionID string) error {
	m.mu.RLock()
	entry, _, err := m.authorizeLocked(connID, sessionID)
	m.mu.RUnlock()
	if err != nil {
		m.deliverError(entry, sessionID, err)
		return err
	}

	status, err := m.reader.SessionStatus(ctx, sessionID, entry.ownerID)
	if err != nil {
		m.deliverError(entry, sessionID, err)
		return err
	}
	entry.conn.send(Envelope{
		SessionID: sessionID,
		Event:     EventStatusChanged,
		Data: StatusChanged{
			SessionID: sessionID,
			Status:    status,
			Timestamp: time.Now().UTC(),
		},
	})
	return nil
}

// Broadcast delivers an envelope to every member of the session's room,
// optionally excluding the originating connection. Used by the lifecycle
// notifier and the cross-process bus forwarder; no authorization applies
// because the payload originates server-side.
func (m *RoomManager) Broadcast(env Envelope, exclude uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.rooms[env.SessionID]
	if !ok {
		return
	}
	for id, member := range rm.conns {
		if id == exclude {
			continue
		}
		member.send(env)
	}
}

// MemberFor resolves one of ownerID's live connections in the session's
// room, for callers that arrive over plain HTTP without a connection handle.
// The missing-room and foreign-room cases share one wording.
func (m *RoomManager) MemberFor(sessionID string, ownerID int64) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rm, ok := m.rooms[sessionID]
	if !ok || rm.ownerID != ownerID {
		return uuid.Nil, interview.UnauthorizedError("Unauthorized session access")
	}
	for id := range rm.conns {
		return id, nil
	}
	return uuid.Nil, interview.UnauthorizedError("Unauthorized session access")
}

// RoomSize reports current membership; zero when the room does not exist.
func (m *RoomManager) RoomSize(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rm, ok := m.rooms[sessionID]
	if !ok {
		return 0
	}
	return len(rm.conns)
}

// deliverError surfaces a failure to the offending connection only. Other
// members of the room never observe it and membership state is untouched.
func (m *RoomManager) deliverError(entry *connEntry, sessionID string, err error) {
	if entry == nil || entry.conn == nil {
		return
	}
	entry.conn.send(Envelope{SessionID: sessionID, Event: EventError, Data: ErrorPayloadFor(err)})
}
