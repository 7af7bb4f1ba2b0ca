package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime/bus"
)

// SessionNotifier bridges lifecycle transitions into the realtime layer.
type SessionNotifier interface {
	StatusChanged(ctx context.Context, sessionID string, status interview.SessionStatus, reason string)
}

type sessionNotifier struct {
	log   *logger.Logger
	rooms *realtime.RoomManager
	bus   bus.Bus
}

// NewSessionNotifier wires room broadcasts and, when a bus is configured,
// cross-process replication. A nil bus keeps delivery local to this process.
func NewSessionNotifier(log *logger.Logger, rooms *realtime.RoomManager, b bus.Bus) SessionNotifier {
	return &sessionNotifier{
		log:   log.With("service", "SessionNotifier"),
		rooms: rooms,
		bus:   b,
	}
}

func (n *sessionNotifier) StatusChanged(ctx context.Context, sessionID string, status interview.SessionStatus, reason string) {
	if n == nil || n.rooms == nil || sessionID == "" {
		return
	}
	env := realtime.Envelope{
		SessionID: sessionID,
		Event:     realtime.EventStatusChanged,
		Data: realtime.StatusChanged{
			SessionID: sessionID,
			Status:    status,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		},
	}
	// With a bus, local delivery happens through the forwarder subscription;
	// broadcasting here as well would deliver twice.
	if n.bus != nil {
		if err := n.bus.Publish(ctx, bus.Message{Envelope: env}); err != nil {
			n.log.Warn("Failed to publish status change", "session_id", sessionID, "error", err)
			n.rooms.Broadcast(env, uuid.Nil)
		}
		return
	}
	n.rooms.Broadcast(env, uuid.Nil)
}

// StartBusForwarder subscribes the room manager to bus traffic from other
// processes. Envelopes that originated from a local connection are excluded
// by that connection's id.
func StartBusForwarder(ctx context.Context, b bus.Bus, rooms *realtime.RoomManager, log *logger.Logger) error {
	if b == nil {
		return nil
	}
	return b.StartForwarder(ctx, func(m bus.Message) {
		exclude := uuid.Nil
		if m.Origin != "" {
			if id, err := uuid.Parse(m.Origin); err == nil {
				exclude = id
			}
		}
		rooms.Broadcast(m.Envelope, exclude)
	})
}
