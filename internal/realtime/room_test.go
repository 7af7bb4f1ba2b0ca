package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type fakeReader struct {
	status interview.SessionStatus
	err    error
	calls  int
}

func (f *fakeReader) SessionStatus(_ context.Context, _ string, _ int64) (interview.SessionStatus, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.status, nil
}

func recvEnvelope(t *testing.T, ch <-chan Envelope, timeout time.Duration) Envelope {
	t.Helper()
	select {
	case env := <-ch:
		return env
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for realtime envelope")
	}
	return Envelope{}
}

func assertNoEnvelope(t *testing.T, ch <-chan Envelope) {
	t.Helper()
	select {
	case env := <-ch:
		t.Fatalf("unexpected envelope: %+v", env)
	case <-time.After(50 * time.Millisecond):
	}
}

func typing(sessionID string) TypingIndicator {
	return TypingIndicator{SessionID: sessionID, IsTyping: true}
}

func TestTypingBroadcastExcludesSender(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionID := uuid.NewString()

	sender := m.NewConn()
	peerA := m.NewConn()
	peerB := m.NewConn()
	for _, c := range []*Conn{sender, peerA, peerB} {
		if err := m.Join(c, sessionID, 7); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	if err := m.Typing(sender.ID, typing(sessionID)); err != nil {
		t.Fatalf("typing: %v", err)
	}

	for _, peer := range []*Conn{peerA, peerB} {
		env := recvEnvelope(t, peer.Outbound, time.Second)
		if env.Event != EventTypingIndicator {
			t.Fatalf("want typing indicator, got %s", env.Event)
		}
		ind, ok := env.Data.(TypingIndicator)
		if !ok || !ind.IsTyping || ind.SessionID != sessionID {
			t.Fatalf("bad payload: %+v", env.Data)
		}
		if ind.Timestamp.IsZero() {
			t.Fatalf("timestamp must be stamped")
		}
	}
	assertNoEnvelope(t, sender.Outbound)
}

func TestTypingOrderingPerSession(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionID := uuid.NewString()
	sender := m.NewConn()
	peer := m.NewConn()
	if err := m.Join(sender, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join(peer, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	first := typing(sessionID)
	first.Stage = StageAnalyzing
	second := typing(sessionID)
	second.Stage = StageGenerating
	if err := m.Typing(sender.ID, first); err != nil {
		t.Fatalf("typing: %v", err)
	}
	if err := m.Typing(sender.ID, second); err != nil {
		t.Fatalf("typing: %v", err)
	}

	gotFirst := recvEnvelope(t, peer.Outbound, time.Second).Data.(TypingIndicator)
	gotSecond := recvEnvelope(t, peer.Outbound, time.Second).Data.(TypingIndicator)
	if gotFirst.Stage != StageAnalyzing || gotSecond.Stage != StageGenerating {
		t.Fatalf("indicators delivered out of order: %s then %s", gotFirst.Stage, gotSecond.Stage)
	}
}

func TestUnknownConnectionIsUnauthorized(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionID := uuid.NewString()
	member := m.NewConn()
	if err := m.Join(member, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	stranger := m.NewConn() // never joined; not in the connection→owner map
	err := m.Typing(stranger.ID, typing(sessionID))
	if err == nil {
		t.Fatalf("unknown connection must be rejected")
	}
	if interview.MessageOf(err) != "Unauthorized" {
		t.Fatalf("want %q, got %q", "Unauthorized", interview.MessageOf(err))
	}
	assertNoEnvelope(t, member.Outbound)

	if err := m.SessionStatus(context.Background(), stranger.ID, sessionID); err == nil {
		t.Fatalf("unknown connection must be rejected for status queries too")
	}
}

func TestCrossOwnerAccessIsUnauthorized(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionA := uuid.NewString()
	sessionB := uuid.NewString()

	alice := m.NewConn()
	bob := m.NewConn()
	if err := m.Join(alice, sessionA, 1); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join(bob, sessionB, 2); err != nil {
		t.Fatalf("join: %v", err)
	}

	err := m.Typing(alice.ID, typing(sessionB))
	if err == nil {
		t.Fatalf("cross-owner access must be rejected")
	}
	if interview.MessageOf(err) != "Unauthorized session access" {
		t.Fatalf("want %q, got %q", "Unauthorized session access", interview.MessageOf(err))
	}
	// The offending connection gets the error envelope; the room stays quiet.
	env := recvEnvelope(t, alice.Outbound, time.Second)
	if env.Event != EventError {
		t.Fatalf("want error envelope, got %s", env.Event)
	}
	payload, ok := env.Data.(ErrorPayload)
	if !ok || payload.Message != "Unauthorized session access" {
		t.Fatalf("bad error payload: %+v", env.Data)
	}
	assertNoEnvelope(t, bob.Outbound)

	// Missing room answers with the same wording as an owner mismatch.
	err = m.Typing(alice.ID, typing(uuid.NewString()))
	if interview.MessageOf(err) != "Unauthorized session access" {
		t.Fatalf("missing room must be indistinguishable from foreign room")
	}
}

func TestSameOwnerSeparateRooms(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionA := uuid.NewString()
	sessionB := uuid.NewString()

	connA := m.NewConn()
	connB := m.NewConn()
	if err := m.Join(connA, sessionA, 7); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join(connB, sessionB, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	// connB is authorized for sessionB but its typing must not leak into
	// sessionA's room.
	if err := m.Typing(connB.ID, typing(sessionB)); err != nil {
		t.Fatalf("typing: %v", err)
	}
	assertNoEnvelope(t, connA.Outbound)
}

func TestSessionStatusRepliesToRequesterOnly(t *testing.T) {
	reader := &fakeReader{status: interview.StatusPaused}
	m := NewRoomManager(mustTestLogger(t), reader)
	sessionID := uuid.NewString()
	requester := m.NewConn()
	peer := m.NewConn()
	if err := m.Join(requester, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join(peer, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := m.SessionStatus(context.Background(), requester.ID, sessionID); err != nil {
		t.Fatalf("status: %v", err)
	}
	env := recvEnvelope(t, requester.Outbound, time.Second)
	if env.Event != EventStatusChanged {
		t.Fatalf("want status event, got %s", env.Event)
	}
	status, ok := env.Data.(StatusChanged)
	if !ok || status.Status != interview.StatusPaused {
		t.Fatalf("bad status payload: %+v", env.Data)
	}
	if reader.calls != 1 {
		t.Fatalf("want one collaborator call, got %d", reader.calls)
	}
	assertNoEnvelope(t, peer.Outbound)
}

func TestSessionStatusReaderErrorIsIsolated(t *testing.T) {
	reader := &fakeReader{err: interview.NotFoundError("Session not found")}
	m := NewRoomManager(mustTestLogger(t), reader)
	sessionID := uuid.NewString()
	requester := m.NewConn()
	peer := m.NewConn()
	if err := m.Join(requester, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join(peer, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := m.SessionStatus(context.Background(), requester.ID, sessionID); err == nil {
		t.Fatalf("reader error must propagate to caller")
	}
	env := recvEnvelope(t, requester.Outbound, time.Second)
	if env.Event != EventError {
		t.Fatalf("want error envelope, got %s", env.Event)
	}
	payload := env.Data.(ErrorPayload)
	if payload.Code != string(interview.CodeNotFound) || payload.Message != "Session not found" {
		t.Fatalf("bad error payload: %+v", payload)
	}
	assertNoEnvelope(t, peer.Outbound)

	// Membership survives the failure.
	if m.RoomSize(sessionID) != 2 {
		t.Fatalf("room membership must not change on error")
	}
}

type gatedReader struct {
	entered chan struct{}
	release chan struct{}
	status  interview.SessionStatus
}

func (g *gatedReader) SessionStatus(_ context.Context, _ string, _ int64) (interview.SessionStatus, error) {
	close(g.entered)
	<-g.release
	return g.status, nil
}

func TestSessionStatusSurvivesConcurrentDisconnect(t *testing.T) {
	reader := &gatedReader{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		status:  interview.StatusActive,
	}
	m := NewRoomManager(mustTestLogger(t), reader)
	sessionID := uuid.NewString()
	requester := m.NewConn()
	if err := m.Join(requester, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- m.SessionStatus(context.Background(), requester.ID, sessionID)
	}()

	// Tear the connection down while the collaborator call is in flight.
	<-reader.entered
	m.Disconnect(requester)
	close(reader.release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("status: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("status call did not return")
	}
	// The reply was racing the teardown; it either landed before the close
	// or was dropped. Either way the channel drains cleanly.
	for range requester.Outbound {
	}
}

func TestDisconnectCleansMembership(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionID := uuid.NewString()
	a := m.NewConn()
	b := m.NewConn()
	if err := m.Join(a, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join(b, sessionID, 7); err != nil {
		t.Fatalf("join: %v", err)
	}

	m.Disconnect(a)
	select {
	case _, ok := <-a.Outbound:
		if ok {
			t.Fatalf("outbound should be closed after disconnect")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for outbound close")
	}
	if m.RoomSize(sessionID) != 1 {
		t.Fatalf("want 1 member left, got %d", m.RoomSize(sessionID))
	}

	// Disconnected handle is unknown again.
	if err := m.Typing(a.ID, typing(sessionID)); interview.MessageOf(err) != "Unauthorized" {
		t.Fatalf("disconnected conn must be unauthorized, got %v", err)
	}

	m.Disconnect(b)
	if m.RoomSize(sessionID) != 0 {
		t.Fatalf("room must be deleted once empty")
	}
}

func TestJoinRefusesMixedOwners(t *testing.T) {
	m := NewRoomManager(mustTestLogger(t), &fakeReader{status: interview.StatusActive})
	sessionID := uuid.NewString()
	owner := m.NewConn()
	if err := m.Join(owner, sessionID, 1); err != nil {
		t.Fatalf("join: %v", err)
	}
	intruder := m.NewConn()
	if err := m.Join(intruder, sessionID, 2); err == nil {
		t.Fatalf("room must never mix owners")
	}
}
