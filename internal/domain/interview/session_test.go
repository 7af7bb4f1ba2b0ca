package interview

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(GenerateSessionID(), 42)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func userMessage(t *testing.T, id, text string) Message {
	t.Helper()
	content, err := NewMessageContent(text)
	if err != nil {
		t.Fatalf("NewMessageContent: %v", err)
	}
	m, err := NewMessage(id, RoleUser, content, nil)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return m
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t)
	if s.Status() != StatusActive {
		t.Fatalf("new session must be active, got %s", s.Status())
	}
	ttl := s.ExpiresAt().Sub(s.CreatedAt())
	if ttl != DefaultSessionTTL {
		t.Fatalf("want default TTL %v, got %v", DefaultSessionTTL, ttl)
	}
	if _, err := NewSession(GenerateSessionID(), 0); err == nil {
		t.Fatalf("non-positive owner id should fail")
	}
	if _, err := NewSession(GenerateSessionID(), -3); err == nil {
		t.Fatalf("negative owner id should fail")
	}
}

func TestSessionMutatorsRequireActive(t *testing.T) {
	s := newTestSession(t)
	if err := s.Pause(); err != nil {
		t.Fatalf("pause active: %v", err)
	}

	if err := s.AddMessage(userMessage(t, "m1", "hi")); err == nil {
		t.Fatalf("addMessage on paused session should fail")
	} else if MessageOf(err) != "Cannot add message to inactive session" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}
	if err := s.UpdateContext(map[string]any{"k": "v"}); err == nil {
		t.Fatalf("updateContext on paused session should fail")
	} else if MessageOf(err) != "Cannot update context of inactive session" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}
	req := mustRequirement(t, "r1", PriorityHigh, 0.8)
	if err := s.AddRequirement(req); err == nil {
		t.Fatalf("addRequirement on paused session should fail")
	} else if MessageOf(err) != "Cannot add requirement to inactive session" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}
	if err := s.Extend(30); err == nil {
		t.Fatalf("extend on paused session should fail")
	} else if MessageOf(err) != "Only active sessions can be extended" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}
}

func TestSessionPauseResume(t *testing.T) {
	s := newTestSession(t)
	if err := s.Resume(); err == nil {
		t.Fatalf("resume on active session should fail")
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if s.Status() != StatusPaused {
		t.Fatalf("want paused, got %s", s.Status())
	}
	if err := s.Pause(); err == nil {
		t.Fatalf("pause on paused session should fail")
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.Status() != StatusActive {
		t.Fatalf("want active, got %s", s.Status())
	}
}

func TestSessionResumeExpired(t *testing.T) {
	s := newTestSession(t)
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	s.expiresAt = time.Now().UTC().Add(-time.Minute)
	err := s.Resume()
	if err == nil {
		t.Fatalf("resume past expiry should fail")
	}
	if MessageOf(err) != "Cannot resume expired session" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}
	if !IsCode(err, CodeStateConflict) {
		t.Fatalf("want state conflict code, got %v", CodeOf(err))
	}
}

func TestSessionCancelRules(t *testing.T) {
	s := newTestSession(t)
	if err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	err := s.Cancel()
	if err == nil {
		t.Fatalf("cancel after complete should fail")
	}
	if MessageOf(err) != "Cannot cancel completed session" {
		t.Fatalf("unexpected message: %q", MessageOf(err))
	}

	s2 := newTestSession(t)
	if err := s2.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := s2.Cancel(); err != nil {
		t.Fatalf("cancel from paused: %v", err)
	}
	if s2.Status() != StatusCancelled {
		t.Fatalf("want cancelled, got %s", s2.Status())
	}
}

func TestSessionTerminalStates(t *testing.T) {
	s := newTestSession(t)
	if err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.Complete(); err == nil {
		t.Fatalf("complete is terminal")
	}
	if err := s.Expire(); err == nil {
		t.Fatalf("expire after complete should fail")
	}
	if err := s.Pause(); err == nil {
		t.Fatalf("pause after complete should fail")
	}
}

func TestSessionExtendCompounds(t *testing.T) {
	s := newTestSession(t)
	base := s.ExpiresAt()
	if err := s.Extend(30); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if err := s.Extend(15); err != nil {
		t.Fatalf("extend: %v", err)
	}
	want := base.Add(45 * time.Minute)
	if !s.ExpiresAt().Equal(want) {
		t.Fatalf("extensions must compound from current expiry: want %v got %v", want, s.ExpiresAt())
	}
	if err := s.Extend(0); err == nil {
		t.Fatalf("zero minutes should fail validation")
	}
}

func TestSessionMutationBumpsUpdatedAt(t *testing.T) {
	s := newTestSession(t)
	before := s.UpdatedAt()
	time.Sleep(2 * time.Millisecond)
	if err := s.AddMessage(userMessage(t, "m1", "hello")); err != nil {
		t.Fatalf("addMessage: %v", err)
	}
	if !s.UpdatedAt().After(before) {
		t.Fatalf("mutation must bump updatedAt")
	}
}

func TestSessionJSONRoundTrip(t *testing.T) {
	s := newTestSession(t)
	if err := s.AddMessage(userMessage(t, "m1", "I need an onboarding process")); err != nil {
		t.Fatalf("addMessage: %v", err)
	}
	tokens := 12
	conf := mustScore(t, 0.91)
	content, _ := NewMessageContent("Understood. What is the timeline?")
	reply, err := NewMessage("m2", RoleAssistant, content, &MessageMetadata{
		Confidence: &conf,
		TokenCount: &tokens,
		Intent:     "clarify",
		Extra:      map[string]any{"model": "kb-v2"},
	})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if err := s.AddMessage(reply); err != nil {
		t.Fatalf("addMessage: %v", err)
	}
	if err := s.AddRequirement(mustRequirement(t, "r1", PriorityCritical, 0.85)); err != nil {
		t.Fatalf("addRequirement: %v", err)
	}
	if err := s.UpdateContext(map[string]any{"industry": "logistics"}); err != nil {
		t.Fatalf("updateContext: %v", err)
	}
	rec := mustRecommendation(t, step(t, 1, 2), step(t, 2, 3, 1))
	if err := s.AttachTemplate(rec); err != nil {
		t.Fatalf("attachTemplate: %v", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Session
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !restored.ID().Equals(s.ID()) {
		t.Fatalf("session id mismatch")
	}
	if restored.UserID() != s.UserID() {
		t.Fatalf("owner mismatch")
	}
	if restored.Status() != StatusPaused {
		t.Fatalf("status mismatch: %s", restored.Status())
	}
	if len(restored.Conversation()) != 2 {
		t.Fatalf("conversation lost")
	}
	got := restored.Conversation()[1]
	if got.Role() != RoleAssistant || !got.Content().Equals(reply.Content()) {
		t.Fatalf("assistant turn mismatch")
	}
	md := got.Metadata()
	if md == nil || md.TokenCount == nil || *md.TokenCount != 12 || md.Intent != "clarify" {
		t.Fatalf("metadata mismatch: %+v", md)
	}
	if len(restored.Requirements()) != 1 || restored.Requirements()[0].ID() != "r1" {
		t.Fatalf("requirements lost")
	}
	if restored.GeneratedTemplate() == nil || restored.GeneratedTemplate().CriticalPathLength() != 5 {
		t.Fatalf("generated template lost")
	}
	if !restored.CreatedAt().Equal(s.CreatedAt()) || !restored.ExpiresAt().Equal(s.ExpiresAt()) {
		t.Fatalf("timestamps must round-trip exactly")
	}
}

func TestSessionSnapshotRejectsBadExpiry(t *testing.T) {
	s := newTestSession(t)
	sn := s.Snapshot()
	sn.ExpiresAt = sn.CreatedAt.Add(-time.Hour)
	if _, err := SessionFromSnapshot(sn); err == nil {
		t.Fatalf("expiry before creation should fail")
	}
}
