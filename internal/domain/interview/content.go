package interview

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxMessageContentLength bounds a single conversation turn.
const maxMessageContentLength = 10000

// MessageContent is a validated, trimmed, non-empty text value.
// Length and word count are computed over the trimmed value.
type MessageContent struct {
	value string
}

func NewMessageContent(raw string) (MessageContent, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return MessageContent{}, ValidationError("Message content must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxMessageContentLength {
		return MessageContent{}, ValidationError(fmt.Sprintf("Message content must not exceed %d characters", maxMessageContentLength))
	}
	return MessageContent{value: trimmed}, nil
}

func (m MessageContent) String() string { return m.value }

func (m MessageContent) Length() int { return utf8.RuneCountInString(m.value) }

func (m MessageContent) WordCount() int { return len(strings.Fields(m.value)) }

// Equals is an exact, case-sensitive match.
func (m MessageContent) Equals(other MessageContent) bool { return m.value == other.value }

func (m MessageContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.value)
}

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	content, err := NewMessageContent(s)
	if err != nil {
		return err
	}
	*m = content
	return nil
}
