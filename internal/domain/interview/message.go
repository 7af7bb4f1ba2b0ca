package interview

import (
	"strings"
	"time"
)

// MessageRole identifies which party produced a conversation turn.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

func (r MessageRole) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// MessageMetadata is a tagged bag with a fixed set of well-known optional
// keys plus an open extension map for forward-compatible serialization.
type MessageMetadata struct {
	Confidence *ConfidenceScore `json:"confidence,omitempty"`
	TokenCount *int             `json:"tokenCount,omitempty"`
	Intent     string           `json:"intent,omitempty"`
	Extra      map[string]any   `json:"extra,omitempty"`
}

func (m *MessageMetadata) clone() *MessageMetadata {
	if m == nil {
		return nil
	}
	out := &MessageMetadata{Intent: m.Intent}
	if m.Confidence != nil {
		c := *m.Confidence
		out.Confidence = &c
	}
	if m.TokenCount != nil {
		n := *m.TokenCount
		out.TokenCount = &n
	}
	if m.Extra != nil {
		out.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Message is one immutable turn in the dialogue. It is owned exclusively by
// the session that appended it.
type Message struct {
	id        string
	role      MessageRole
	content   MessageContent
	metadata  *MessageMetadata
	timestamp time.Time
}

// NewMessage stamps the turn with the current time.
func NewMessage(id string, role MessageRole, content MessageContent, metadata *MessageMetadata) (Message, error) {
	return NewMessageAt(id, role, content, metadata, time.Now().UTC())
}

// NewMessageAt is the deserialization path; it accepts an explicit timestamp.
func NewMessageAt(id string, role MessageRole, content MessageContent, metadata *MessageMetadata, ts time.Time) (Message, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Message{}, ValidationError("Message id must not be empty")
	}
	if !role.Valid() {
		return Message{}, ValidationError("Message role must be user, assistant or system")
	}
	if content.value == "" {
		return Message{}, ValidationError("Message content must not be empty")
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return Message{
		id:        id,
		role:      role,
		content:   content,
		metadata:  metadata.clone(),
		timestamp: ts.UTC(),
	}, nil
}

func (m Message) ID() string              { return m.id }
func (m Message) Role() MessageRole       { return m.role }
func (m Message) Content() MessageContent { return m.content }
func (m Message) Timestamp() time.Time    { return m.timestamp }

// Metadata returns a copy; the stored bag is never exposed.
func (m Message) Metadata() *MessageMetadata { return m.metadata.clone() }

// MessageSnapshot is the serialized form of a Message.
type MessageSnapshot struct {
	ID        string           `json:"id"`
	Role      MessageRole      `json:"role"`
	Content   MessageContent   `json:"content"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

func (m Message) Snapshot() MessageSnapshot {
	return MessageSnapshot{
		ID:        m.id,
		Role:      m.role,
		Content:   m.content,
		Metadata:  m.metadata.clone(),
		Timestamp: m.timestamp,
	}
}

// MessageFromSnapshot rebuilds a turn through the validating constructor.
func MessageFromSnapshot(sn MessageSnapshot) (Message, error) {
	return NewMessageAt(sn.ID, sn.Role, sn.Content, sn.Metadata, sn.Timestamp)
}
