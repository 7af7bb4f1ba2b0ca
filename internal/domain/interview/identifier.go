package interview

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// SessionID is a validated RFC 4122 identifier, stored in canonical form.
type SessionID struct {
	value string
}

// NewSessionID parses and canonicalizes raw. Non-conforming input is rejected.
func NewSessionID(raw string) (SessionID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SessionID{}, ValidationError("Session id must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return SessionID{}, ValidationError("Session id must be a valid UUID")
	}
	return SessionID{value: parsed.String()}, nil
}

// GenerateSessionID mints a fresh random identifier.
func GenerateSessionID() SessionID {
	return SessionID{value: uuid.NewString()}
}

func (id SessionID) String() string { return id.value }

func (id SessionID) IsZero() bool { return id.value == "" }

func (id SessionID) Equals(other SessionID) bool { return id.value == other.value }

func (id SessionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *SessionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewSessionID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
