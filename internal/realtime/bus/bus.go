package bus

import (
	"context"

	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime"
)

// Message is the cross-process fanout unit. Origin carries the connection id
// that produced the event so the originating process can skip re-delivering
// to that connection after the round trip.
type Message struct {
	Origin   string            `json:"origin,omitempty"`
	Envelope realtime.Envelope `json:"envelope"`
}

// Bus replicates realtime envelopes across backend instances so room members
// connected to different processes observe the same stream.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	StartForwarder(ctx context.Context, onMsg func(m Message)) error
	Close() error
}
