package services

import (
	"context"
	"testing"
	"time"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

func serviceTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type fakeSessionRepo struct {
	sessions map[string]*interview.Session

	saves        int
	metaUpdates  int
	convUpdates  int
	reqUpdates   int
	tmplUpdates  int
	deletes      int
	markExpired  int64
	deleteCount  int64
	failNextWith error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*interview.Session)}
}

func (f *fakeSessionRepo) takeErr() error {
	err := f.failNextWith
	f.failNextWith = nil
	return err
}

func (f *fakeSessionRepo) Save(_ dbctx.Context, s *interview.Session) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	f.saves++
	f.sessions[s.ID().String()] = s
	return nil
}

func (f *fakeSessionRepo) FindByID(_ dbctx.Context, id string) (*interview.Session, error) {
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) UpdateMetadata(_ dbctx.Context, s *interview.Session) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	f.metaUpdates++
	return nil
}

func (f *fakeSessionRepo) UpdateConversation(_ dbctx.Context, s *interview.Session) error {
	f.convUpdates++
	return nil
}

func (f *fakeSessionRepo) UpdateRequirements(_ dbctx.Context, s *interview.Session) error {
	f.reqUpdates++
	return nil
}

func (f *fakeSessionRepo) UpdateGeneratedTemplate(_ dbctx.Context, s *interview.Session) error {
	f.tmplUpdates++
	return nil
}

func (f *fakeSessionRepo) DeleteByID(_ dbctx.Context, id string) error {
	f.deletes++
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) MarkExpired(_ dbctx.Context, _ time.Time) (int64, error) {
	return f.markExpired, nil
}

func (f *fakeSessionRepo) DeleteExpiredSessions(_ dbctx.Context, _ time.Time) (int64, error) {
	return f.deleteCount, nil
}

type statusChange struct {
	sessionID string
	status    interview.SessionStatus
	reason    string
}

type fakeNotifier struct {
	changes []statusChange
}

func (f *fakeNotifier) StatusChanged(_ context.Context, sessionID string, status interview.SessionStatus, reason string) {
	f.changes = append(f.changes, statusChange{sessionID: sessionID, status: status, reason: reason})
}

type fakeBestPracticeRepo struct {
	rows        []*types.BestPractice
	bulkUpdates [][]repos.ConfidenceUpdate
	listCalls   int
}

func (f *fakeBestPracticeRepo) Create(_ dbctx.Context, row *types.BestPractice) error {
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeBestPracticeRepo) GetByID(_ dbctx.Context, id int64) (*types.BestPractice, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeBestPracticeRepo) List(_ dbctx.Context, _ repos.BestPracticeFilter) ([]*types.BestPractice, error) {
	f.listCalls++
	return f.rows, nil
}

func (f *fakeBestPracticeRepo) Update(_ dbctx.Context, _ *types.BestPractice) error { return nil }
func (f *fakeBestPracticeRepo) Delete(_ dbctx.Context, _ int64) error               { return nil }

func (f *fakeBestPracticeRepo) BulkUpdateConfidence(_ dbctx.Context, updates []repos.ConfidenceUpdate) error {
	f.bulkUpdates = append(f.bulkUpdates, updates)
	return nil
}

func (f *fakeBestPracticeRepo) Count(_ dbctx.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeTemplateRepo struct {
	rows []*types.IndustryTemplate
}

func (f *fakeTemplateRepo) Create(_ dbctx.Context, row *types.IndustryTemplate) error {
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeTemplateRepo) GetByID(_ dbctx.Context, id int64) (*types.IndustryTemplate, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplateRepo) ListByIndustry(_ dbctx.Context, industry string, _ int) ([]*types.IndustryTemplate, error) {
	var out []*types.IndustryTemplate
	for _, r := range f.rows {
		if industry == "" || r.Industry == industry {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ dbctx.Context, _ *types.IndustryTemplate) error { return nil }
func (f *fakeTemplateRepo) Delete(_ dbctx.Context, _ int64) error                   { return nil }

type fakeFeedbackRepo struct {
	rows   []*types.Feedback
	nextID int64
}

func (f *fakeFeedbackRepo) Create(_ dbctx.Context, row *types.Feedback) error {
	f.nextID++
	row.ID = f.nextID
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeFeedbackRepo) GetByID(_ dbctx.Context, id int64) (*types.Feedback, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedbackRepo) ListBySession(_ dbctx.Context, sessionID string) ([]*types.Feedback, error) {
	var out []*types.Feedback
	for _, r := range f.rows {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListUnprocessed(_ dbctx.Context, _ int) ([]*types.Feedback, error) {
	var out []*types.Feedback
	for _, r := range f.rows {
		if !r.Processed {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) MarkProcessed(_ dbctx.Context, id int64) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.Processed = true
		}
	}
	return nil
}

func startedSession(t *testing.T, repo *fakeSessionRepo, userID int64) *interview.Session {
	t.Helper()
	sess, err := interview.NewSession(interview.GenerateSessionID(), userID)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	repo.sessions[sess.ID().String()] = sess
	return sess
}
