package interview

import (
	"encoding/json"
	"time"
)

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
	StatusExpired   SessionStatus = "expired"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether the state has no outgoing transitions.
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// DefaultSessionTTL is the default expiry horizon for a fresh session.
const DefaultSessionTTL = 60 * time.Minute

// Session is the aggregate root of one bounded, expiring conversation. All
// mutation goes through its methods; the conversation log is append-only and
// the status state machine gates every mutator.
type Session struct {
	id           SessionID
	userID       int64
	status       SessionStatus
	context      map[string]any
	conversation []Message
	requirements []Requirement
	template     *Recommendation
	createdAt    time.Time
	updatedAt    time.Time
	expiresAt    time.Time
}

// NewSession creates an active session owned by userID, expiring
// DefaultSessionTTL from now.
func NewSession(id SessionID, userID int64) (*Session, error) {
	if id.IsZero() {
		id = GenerateSessionID()
	}
	if userID <= 0 {
		return nil, ValidationError("Session owner id must be a positive integer")
	}
	now := time.Now().UTC()
	return &Session{
		id:        id,
		userID:    userID,
		status:    StatusActive,
		context:   map[string]any{},
		createdAt: now,
		updatedAt: now,
		expiresAt: now.Add(DefaultSessionTTL),
	}, nil
}

func (s *Session) ID() SessionID         { return s.id }
func (s *Session) UserID() int64         { return s.userID }
func (s *Session) Status() SessionStatus { return s.status }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Session) ExpiresAt() time.Time  { return s.expiresAt }

// Context returns a copy of the session context map.
func (s *Session) Context() map[string]any {
	out := make(map[string]any, len(s.context))
	for k, v := range s.context {
		out[k] = v
	}
	return out
}

// Conversation returns a copy of the ordered message log.
func (s *Session) Conversation() []Message {
	return append([]Message(nil), s.conversation...)
}

// Requirements returns a copy of the extracted requirement set.
func (s *Session) Requirements() []Requirement {
	return append([]Requirement(nil), s.requirements...)
}

func (s *Session) GeneratedTemplate() *Recommendation { return s.template }

// IsExpired compares the expiry horizon against now; expiry is enforced at
// each guarded mutation, not by a background timer in this core.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

func (s *Session) touch() { s.updatedAt = time.Now().UTC() }

// AddMessage appends one turn to the conversation log.
func (s *Session) AddMessage(m Message) error {
	if s.status != StatusActive {
		return StateConflictError("Cannot add message to inactive session")
	}
	s.conversation = append(s.conversation, m)
	s.touch()
	return nil
}

// UpdateContext merges the given keys into the session context.
func (s *Session) UpdateContext(patch map[string]any) error {
	if s.status != StatusActive {
		return StateConflictError("Cannot update context of inactive session")
	}
	for k, v := range patch {
		s.context[k] = v
	}
	s.touch()
	return nil
}

// AddRequirement records one extracted requirement.
func (s *Session) AddRequirement(r Requirement) error {
	if s.status != StatusActive {
		return StateConflictError("Cannot add requirement to inactive session")
	}
	s.requirements = append(s.requirements, r)
	s.touch()
	return nil
}

// AttachTemplate stores the generated recommendation on the session.
func (s *Session) AttachTemplate(t *Recommendation) error {
	if s.status != StatusActive {
		return StateConflictError("Cannot attach template to inactive session")
	}
	s.template = t
	s.touch()
	return nil
}

// Pause suspends an active session.
func (s *Session) Pause() error {
	if s.status != StatusActive {
		return StateConflictError("Cannot pause inactive session")
	}
	s.status = StatusPaused
	s.touch()
	return nil
}

// Resume reactivates a paused session unless its expiry horizon has passed.
func (s *Session) Resume() error {
	if s.status != StatusPaused {
		return StateConflictError("Cannot resume session that is not paused")
	}
	if s.IsExpired(time.Now().UTC()) {
		return StateConflictError("Cannot resume expired session")
	}
	s.status = StatusActive
	s.touch()
	return nil
}

// Complete moves an active session to its terminal completed state.
func (s *Session) Complete() error {
	if s.status != StatusActive {
		return StateConflictError("Cannot complete inactive session")
	}
	s.status = StatusCompleted
	s.touch()
	return nil
}

// Cancel aborts the session; completion blocks cancellation.
func (s *Session) Cancel() error {
	if s.status == StatusCompleted {
		return StateConflictError("Cannot cancel completed session")
	}
	s.status = StatusCancelled
	s.touch()
	return nil
}

// Expire marks the session expired. Terminal sessions stay as they ended.
func (s *Session) Expire() error {
	if s.status.Terminal() {
		return StateConflictError("Cannot expire session that already ended")
	}
	s.status = StatusExpired
	s.touch()
	return nil
}

// Extend pushes the expiry horizon out by the given minutes. Extensions
// compound: minutes are added to the current ExpiresAt, not to now.
func (s *Session) Extend(minutes int) error {
	if minutes <= 0 {
		return ValidationError("Extension minutes must be positive")
	}
	if s.status != StatusActive {
		return StateConflictError("Only active sessions can be extended")
	}
	s.expiresAt = s.expiresAt.Add(time.Duration(minutes) * time.Minute)
	s.touch()
	return nil
}

// SessionSnapshot is the serialized form of a Session. It round-trips
// exactly, including nested collections and RFC 3339 timestamps.
type SessionSnapshot struct {
	SessionID         string                  `json:"sessionId"`
	UserID            int64                   `json:"userId"`
	Status            SessionStatus           `json:"status"`
	Context           map[string]any          `json:"context"`
	Conversation      []MessageSnapshot       `json:"conversation"`
	Requirements      []RequirementSnapshot   `json:"extractedRequirements"`
	GeneratedTemplate *RecommendationSnapshot `json:"generatedTemplate,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
	ExpiresAt         time.Time               `json:"expiresAt"`
}

func (s *Session) Snapshot() SessionSnapshot {
	sn := SessionSnapshot{
		SessionID:    s.id.String(),
		UserID:       s.userID,
		Status:       s.status,
		Context:      s.Context(),
		Conversation: make([]MessageSnapshot, 0, len(s.conversation)),
		Requirements: make([]RequirementSnapshot, 0, len(s.requirements)),
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
		ExpiresAt:    s.expiresAt,
	}
	for _, m := range s.conversation {
		sn.Conversation = append(sn.Conversation, m.Snapshot())
	}
	for _, r := range s.requirements {
		sn.Requirements = append(sn.Requirements, r.Snapshot())
	}
	if s.template != nil {
		t := s.template.Snapshot()
		sn.GeneratedTemplate = &t
	}
	return sn
}

// SessionFromSnapshot rehydrates a session. This is the one path allowed to
// write a terminal status directly, since it restores persisted state rather
// than performing a transition.
func SessionFromSnapshot(sn SessionSnapshot) (*Session, error) {
	id, err := NewSessionID(sn.SessionID)
	if err != nil {
		return nil, err
	}
	if sn.UserID <= 0 {
		return nil, ValidationError("Session owner id must be a positive integer")
	}
	if !sn.Status.Valid() {
		return nil, ValidationError("Session status is invalid")
	}
	if sn.ExpiresAt.Before(sn.CreatedAt) {
		return nil, ValidationError("Session expiry must not precede creation")
	}
	s := &Session{
		id:        id,
		userID:    sn.UserID,
		status:    sn.Status,
		context:   map[string]any{},
		createdAt: sn.CreatedAt.UTC(),
		updatedAt: sn.UpdatedAt.UTC(),
		expiresAt: sn.ExpiresAt.UTC(),
	}
	for k, v := range sn.Context {
		s.context[k] = v
	}
	for _, msn := range sn.Conversation {
		m, err := MessageFromSnapshot(msn)
		if err != nil {
			return nil, err
		}
		s.conversation = append(s.conversation, m)
	}
	for _, rsn := range sn.Requirements {
		r, err := RequirementFromSnapshot(rsn)
		if err != nil {
			return nil, err
		}
		s.requirements = append(s.requirements, r)
	}
	if sn.GeneratedTemplate != nil {
		t, err := RecommendationFromSnapshot(*sn.GeneratedTemplate)
		if err != nil {
			return nil, err
		}
		s.template = t
	}
	return s, nil
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var sn SessionSnapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return err
	}
	restored, err := SessionFromSnapshot(sn)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}
