package services

import (
	"context"
	"testing"
	"time"

	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
)

func newInterviewService(t *testing.T) (InterviewService, *fakeSessionRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeSessionRepo()
	notifier := &fakeNotifier{}
	svc := NewInterviewService(nil, serviceTestLogger(t), repo, notifier)
	return svc, repo, notifier
}

func TestStartCreatesActiveSession(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	sess, err := svc.Start(context.Background(), 42, map[string]any{"industry": "retail"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Status() != interview.StatusActive {
		t.Fatalf("want active, got %s", sess.Status())
	}
	if sess.Context()["industry"] != "retail" {
		t.Fatalf("initial context not applied")
	}
	if repo.saves != 1 {
		t.Fatalf("session must be persisted once, got %d saves", repo.saves)
	}
	if _, err := svc.Start(context.Background(), 0, nil); err == nil {
		t.Fatalf("non-positive owner must be rejected")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	sess := startedSession(t, repo, 1)

	if _, err := svc.Get(context.Background(), sess.ID().String(), 1); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	_, err := svc.Get(context.Background(), sess.ID().String(), 2)
	if !interview.IsCode(err, interview.CodeUnauthorized) {
		t.Fatalf("want unauthorized, got %v", err)
	}
	if interview.MessageOf(err) != "Unauthorized session access" {
		t.Fatalf("unexpected message %q", interview.MessageOf(err))
	}

	_, err = svc.Get(context.Background(), interview.GenerateSessionID().String(), 1)
	if !interview.IsCode(err, interview.CodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	if _, err := svc.Get(context.Background(), "not-a-uuid", 1); !interview.IsCode(err, interview.CodeValidation) {
		t.Fatalf("malformed id must fail validation, got %v", err)
	}
}

func TestAddMessagePersistsConversation(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	sess := startedSession(t, repo, 7)

	got, err := svc.AddMessage(context.Background(), sess.ID().String(), 7, MessageInput{
		Role:    "user",
		Content: "We need a faster onboarding process",
	})
	if err != nil {
		t.Fatalf("addMessage: %v", err)
	}
	if len(got.Conversation()) != 1 {
		t.Fatalf("conversation not appended")
	}
	if repo.convUpdates != 1 {
		t.Fatalf("conversation column must be written")
	}

	if _, err := svc.AddMessage(context.Background(), sess.ID().String(), 7, MessageInput{Role: "oracle", Content: "hi"}); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
}

func TestGuardMessagesPropagate(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	sess := startedSession(t, repo, 7)
	if _, err := svc.Pause(context.Background(), sess.ID().String(), 7); err != nil {
		t.Fatalf("pause: %v", err)
	}
	_, err := svc.AddMessage(context.Background(), sess.ID().String(), 7, MessageInput{Role: "user", Content: "hi"})
	if interview.MessageOf(err) != "Cannot add message to inactive session" {
		t.Fatalf("guard message lost: %q", interview.MessageOf(err))
	}
	_, err = svc.Extend(context.Background(), sess.ID().String(), 7, 30)
	if interview.MessageOf(err) != "Only active sessions can be extended" {
		t.Fatalf("guard message lost: %q", interview.MessageOf(err))
	}
}

func TestTransitionsNotify(t *testing.T) {
	svc, repo, notifier := newInterviewService(t)
	sess := startedSession(t, repo, 7)
	id := sess.ID().String()

	if _, err := svc.Pause(context.Background(), id, 7); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := svc.Resume(context.Background(), id, 7); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := svc.Complete(context.Background(), id, 7); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(notifier.changes) != 3 {
		t.Fatalf("want 3 status notifications, got %d", len(notifier.changes))
	}
	want := []interview.SessionStatus{interview.StatusPaused, interview.StatusActive, interview.StatusCompleted}
	for i, ch := range notifier.changes {
		if ch.status != want[i] || ch.sessionID != id {
			t.Fatalf("notification %d mismatch: %+v", i, ch)
		}
	}

	// A refused transition must not notify.
	if _, err := svc.Cancel(context.Background(), id, 7); err == nil {
		t.Fatalf("cancel after complete should fail")
	}
	if len(notifier.changes) != 3 {
		t.Fatalf("failed transition must not notify")
	}
}

func TestExtendPersistsNewHorizon(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	sess := startedSession(t, repo, 7)
	base := sess.ExpiresAt()

	got, err := svc.Extend(context.Background(), sess.ID().String(), 7, 45)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !got.ExpiresAt().Equal(base.Add(45 * time.Minute)) {
		t.Fatalf("extension not applied")
	}
	if repo.metaUpdates != 1 {
		t.Fatalf("metadata must be written")
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	sess := startedSession(t, repo, 7)

	if err := svc.Delete(context.Background(), sess.ID().String(), 8); !interview.IsCode(err, interview.CodeUnauthorized) {
		t.Fatalf("foreign delete must be rejected, got %v", err)
	}
	if err := svc.Delete(context.Background(), sess.ID().String(), 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deletes != 1 || len(repo.sessions) != 0 {
		t.Fatalf("session not removed")
	}
}

func TestReapExpiredReports(t *testing.T) {
	svc, repo, _ := newInterviewService(t)
	repo.markExpired = 3
	repo.deleteCount = 2
	report, err := svc.ReapExpired(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}
	if report.Expired != 3 || report.Deleted != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
