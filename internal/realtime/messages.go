package realtime

import (
	"time"

	"github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
)

// EventType names an event on the realtime channel.
type EventType string

const (
	EventTypingIndicator EventType = "typing_indicator"
	EventStatusChanged   EventType = "status_changed"
	EventError           EventType = "error"
)

// TypingStage hints at what the assistant is doing while typing.
type TypingStage string

const (
	StageAnalyzing  TypingStage = "analyzing"
	StageExtracting TypingStage = "extracting"
	StageGenerating TypingStage = "generating"
)

// Envelope is the unit of delivery on a connection's outbound channel.
type Envelope struct {
	SessionID string    `json:"sessionId,omitempty"`
	Event     EventType `json:"event"`
	Data      any       `json:"data,omitempty"`
}

// TypingIndicator is broadcast to every other member of the session room.
type TypingIndicator struct {
	SessionID     string      `json:"sessionId"`
	IsTyping      bool        `json:"isTyping"`
	EstimatedTime *int        `json:"estimatedTime,omitempty"`
	Stage         TypingStage `json:"stage,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// StatusChanged reports the session's lifecycle state.
type StatusChanged struct {
	SessionID string                  `json:"sessionId"`
	Status    interview.SessionStatus `json:"status"`
	Reason    string                  `json:"reason,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

// ErrorPayload is delivered to the offending connection only. Code is set
// when the failure maps to a classified domain error.
type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorPayloadFor builds the wire payload for err, attaching the domain code
// when one is present.
func ErrorPayloadFor(err error) ErrorPayload {
	p := ErrorPayload{Message: interview.MessageOf(err)}
	if code := interview.CodeOf(err); code != "" {
		p.Code = string(code)
	}
	return p
}
