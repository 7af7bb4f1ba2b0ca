package interview_test

import (
	"context"
	"testing"
	"time"

	repointerview "github.com/toshikazuyokoi/process-interview-backend/internal/data/repos/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos/testutil"
	domain "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
)

func newSession(t *testing.T, userID int64) *domain.Session {
	t.Helper()
	s, err := domain.NewSession(domain.GenerateSessionID(), userID)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := repointerview.NewSessionRepo(db, log)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	sess := newSession(t, 42)
	if err := sess.UpdateContext(map[string]any{"industry": "logistics"}); err != nil {
		t.Fatalf("update context: %v", err)
	}
	content, err := domain.NewMessageContent("We need to speed up order fulfillment")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	msg, err := domain.NewMessage("m-1", domain.RoleUser, content, nil)
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if err := sess.AddMessage(msg); err != nil {
		t.Fatalf("add message: %v", err)
	}

	if err := repo.Save(dbc, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindByID(dbc, sess.ID().String())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatalf("session not found after save")
	}
	if got.UserID() != 42 || got.Status() != domain.StatusActive {
		t.Fatalf("identity lost in round trip: user=%d status=%s", got.UserID(), got.Status())
	}
	if got.Context()["industry"] != "logistics" {
		t.Fatalf("context lost in round trip")
	}
	if len(got.Conversation()) != 1 || got.Conversation()[0].Content().String() != "We need to speed up order fulfillment" {
		t.Fatalf("conversation lost in round trip")
	}
}

func TestFindByIDMissingIsNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := repointerview.NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	got, err := repo.FindByID(dbc, domain.GenerateSessionID().String())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatalf("missing session must read as nil, got %v", got)
	}

	got, err = repo.FindByID(dbc, "")
	if err != nil || got != nil {
		t.Fatalf("empty id must read as nil, got %v, %v", got, err)
	}
}

func TestUpdateMetadataTouchesCheapColumnsOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := repointerview.NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	sess := newSession(t, 7)
	content, _ := domain.NewMessageContent("hello")
	msg, _ := domain.NewMessage("m-1", domain.RoleUser, content, nil)
	if err := sess.AddMessage(msg); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if err := repo.Save(dbc, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := sess.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := repo.UpdateMetadata(dbc, sess); err != nil {
		t.Fatalf("update metadata: %v", err)
	}

	got, err := repo.FindByID(dbc, sess.ID().String())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status() != domain.StatusPaused {
		t.Fatalf("status not persisted, got %s", got.Status())
	}
	if len(got.Conversation()) != 1 {
		t.Fatalf("conversation must survive a metadata update")
	}
}

func TestMarkExpiredFlipsStaleSessions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := repointerview.NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	active := newSession(t, 7)
	paused := newSession(t, 7)
	if err := paused.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	fresh := newSession(t, 7)
	for _, s := range []*domain.Session{active, paused, fresh} {
		if err := repo.Save(dbc, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	// A sweep an hour past the default horizon catches active and paused.
	horizon := fresh.ExpiresAt().Add(time.Hour)
	n, err := repo.MarkExpired(dbc, horizon)
	if err != nil {
		t.Fatalf("mark expired: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 expired, got %d", n)
	}

	// A sweep at now catches nothing; the horizon is still ahead.
	n, err = repo.MarkExpired(dbc, time.Now().UTC())
	if err != nil {
		t.Fatalf("mark expired: %v", err)
	}
	if n != 0 {
		t.Fatalf("expired sessions are terminal, got %d more", n)
	}

	got, err := repo.FindByID(dbc, active.ID().String())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status() != domain.StatusExpired {
		t.Fatalf("want expired, got %s", got.Status())
	}
}

func TestDeleteExpiredSessionsPrunesTerminalRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := repointerview.NewSessionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	done := newSession(t, 7)
	if err := done.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	live := newSession(t, 7)
	for _, s := range []*domain.Session{done, live} {
		if err := repo.Save(dbc, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := repo.DeleteExpiredSessions(dbc, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 pruned row, got %d", n)
	}
	got, err := repo.FindByID(dbc, live.ID().String())
	if err != nil || got == nil {
		t.Fatalf("active session must survive pruning: %v, %v", got, err)
	}
}
