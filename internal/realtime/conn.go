package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// outboundBuffer bounds per-connection delivery; slow consumers drop.
const outboundBuffer = 16

// Conn is one live realtime connection. Delivery is fire-and-forget through
// the buffered Outbound channel; a full buffer drops the message rather than
// blocking the broadcaster. mu serializes send against close so a reply
// racing a disconnect drops instead of hitting a closed channel.
type Conn struct {
	ID       uuid.UUID
	Outbound chan Envelope
	done     chan struct{}
	log      *logger.Logger

	mu     sync.Mutex
	closed bool
}

func newConn(log *logger.Logger) *Conn {
	id := uuid.New()
	return &Conn{
		ID:       id,
		Outbound: make(chan Envelope, outboundBuffer),
		done:     make(chan struct{}),
		log:      log.With("conn_id", id.String()),
	}
}

// Done is closed when the connection is disconnected from the manager.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) send(env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.log.Debug("Dropping realtime message; connection closed", "event", env.Event, "session_id", env.SessionID)
		return
	}
	select {
	case c.Outbound <- env:
	default:
		c.log.Warn("Dropping realtime message; outbound buffer full", "event", env.Event, "session_id", env.SessionID)
	}
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	close(c.Outbound)
}
