package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// MessageInput is one inbound conversation turn.
type MessageInput struct {
	Role     string                     `json:"role"`
	Content  string                     `json:"content"`
	Metadata *interview.MessageMetadata `json:"metadata,omitempty"`
}

// RequirementInput is one extracted requirement in wire shape.
type RequirementInput struct {
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	Confidence    float64  `json:"confidence"`
	ExtractedFrom string   `json:"extractedFrom"`
	Entities      []string `json:"entities,omitempty"`
}

// ReapReport summarizes one expiry sweep.
type ReapReport struct {
	Expired int64 `json:"expired"`
	Deleted int64 `json:"deleted"`
}

type InterviewService interface {
	Start(ctx context.Context, userID int64, initialContext map[string]any) (*interview.Session, error)
	Get(ctx context.Context, sessionID string, userID int64) (*interview.Session, error)
	SessionStatus(ctx context.Context, sessionID string, userID int64) (interview.SessionStatus, error)
	AddMessage(ctx context.Context, sessionID string, userID int64, in MessageInput) (*interview.Session, error)
	AddRequirements(ctx context.Context, sessionID string, userID int64, inputs []RequirementInput) (*interview.Session, error)
	UpdateContext(ctx context.Context, sessionID string, userID int64, patch map[string]any) (*interview.Session, error)
	Pause(ctx context.Context, sessionID string, userID int64) (*interview.Session, error)
	Resume(ctx context.Context, sessionID string, userID int64) (*interview.Session, error)
	Complete(ctx context.Context, sessionID string, userID int64) (*interview.Session, error)
	Cancel(ctx context.Context, sessionID string, userID int64) (*interview.Session, error)
	Extend(ctx context.Context, sessionID string, userID int64, minutes int) (*interview.Session, error)
	Delete(ctx context.Context, sessionID string, userID int64) error
	ReapExpired(ctx context.Context, deleteEndedBefore time.Duration) (ReapReport, error)
}

type interviewService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.SessionRepo
	notifier SessionNotifier
}

func NewInterviewService(db *gorm.DB, baseLog *logger.Logger, sessions repos.SessionRepo, notifier SessionNotifier) InterviewService {
	return &interviewService{
		db:       db,
		log:      baseLog.With("service", "InterviewService"),
		sessions: sessions,
		notifier: notifier,
	}
}

func (s *interviewService) Start(ctx context.Context, userID int64, initialContext map[string]any) (*interview.Session, error) {
	sess, err := interview.NewSession(interview.GenerateSessionID(), userID)
	if err != nil {
		return nil, err
	}
	if len(initialContext) > 0 {
		if err := sess.UpdateContext(initialContext); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.Save(dbctx.Context{Ctx: ctx}, sess); err != nil {
		return nil, interview.Wrap("InterviewService.Start", err)
	}
	s.log.Info("Session started", "session_id", sess.ID().String(), "user_id", userID)
	return sess, nil
}

// load fetches the session and enforces ownership. A missing session and a
// foreign session produce distinct codes but the HTTP layer may collapse them.
func (s *interviewService) load(ctx context.Context, sessionID string, userID int64) (*interview.Session, error) {
	if _, err := interview.NewSessionID(sessionID); err != nil {
		return nil, err
	}
	sess, err := s.sessions.FindByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return nil, interview.Wrap("InterviewService.load", err)
	}
	if sess == nil {
		return nil, interview.NotFoundError("Session not found")
	}
	if sess.UserID() != userID {
		return nil, interview.UnauthorizedError("Unauthorized session access")
	}
	return sess, nil
}

func (s *interviewService) Get(ctx context.Context, sessionID string, userID int64) (*interview.Session, error) {
	return s.load(ctx, sessionID, userID)
}

// SessionStatus satisfies the realtime room manager's reader collaborator.
func (s *interviewService) SessionStatus(ctx context.Context, sessionID string, userID int64) (interview.SessionStatus, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return "", err
	}
	return sess.Status(), nil
}

func (s *interviewService) AddMessage(ctx context.Context, sessionID string, userID int64, in MessageInput) (*interview.Session, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	content, err := interview.NewMessageContent(in.Content)
	if err != nil {
		return nil, err
	}
	msg, err := interview.NewMessage(uuid.NewString(), interview.MessageRole(in.Role), content, in.Metadata)
	if err != nil {
		return nil, err
	}
	if err := sess.AddMessage(msg); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateConversation(dbctx.Context{Ctx: ctx}, sess); err != nil {
		return nil, interview.Wrap("InterviewService.AddMessage", err)
	}
	return sess, nil
}

func (s *interviewService) AddRequirements(ctx context.Context, sessionID string, userID int64, inputs []RequirementInput) (*interview.Session, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	for _, in := range inputs {
		conf, err := interview.NewConfidenceScore(in.Confidence)
		if err != nil {
			return nil, err
		}
		req, err := interview.NewRequirement(
			uuid.NewString(),
			interview.RequirementCategory(in.Category),
			in.Description,
			interview.RequirementPriority(in.Priority),
			conf,
			in.ExtractedFrom,
			in.Entities,
		)
		if err != nil {
			return nil, err
		}
		if err := sess.AddRequirement(req); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.UpdateRequirements(dbctx.Context{Ctx: ctx}, sess); err != nil {
		return nil, interview.Wrap("InterviewService.AddRequirements", err)
	}
	return sess, nil
}

func (s *interviewService) UpdateContext(ctx context.Context, sessionID string, userID int64, patch map[string]any) (*interview.Session, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.UpdateContext(patch); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateMetadata(dbctx.Context{Ctx: ctx}, sess); err != nil {
		return nil, interview.Wrap("InterviewService.UpdateContext", err)
	}
	return sess, nil
}

func (s *interviewService) transition(ctx context.Context, sessionID string, userID int64, reason string, apply func(*interview.Session) error) (*interview.Session, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := apply(sess); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateMetadata(dbctx.Context{Ctx: ctx}, sess); err != nil {
		return nil, interview.Wrap("InterviewService.transition", err)
	}
	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, sess.ID().String(), sess.Status(), reason)
	}
	s.log.Info("Session transitioned", "session_id", sess.ID().String(), "status", sess.Status(), "reason", reason)
	return sess, nil
}

func (s *interviewService) Pause(ctx context.Context, sessionID string, userID int64) (*interview.Session, error) {
	return s.transition(ctx, sessionID, userID, "paused_by_user", (*interview.Session).Pause)
}

func (s *interviewService) Resume(ctx context.Context, sessionID string, userID int64) (*interview.Session, error) {
	return s.transition(ctx, sessionID, userID, "resumed_by_user", (*interview.Session).Resume)
}

func (s *interviewService) Complete(ctx context.Context, sessionID string, userID int64) (*interview.Session, error) {
	return s.transition(ctx, sessionID, userID, "completed", (*interview.Session).Complete)
}

func (s *interviewService) Cancel(ctx context.Context, sessionID string, userID int64) (*interview.Session, error) {
	return s.transition(ctx, sessionID, userID, "cancelled_by_user", (*interview.Session).Cancel)
}

func (s *interviewService) Extend(ctx context.Context, sessionID string, userID int64, minutes int) (*interview.Session, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Extend(minutes); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateMetadata(dbctx.Context{Ctx: ctx}, sess); err != nil {
		return nil, interview.Wrap("InterviewService.Extend", err)
	}
	return sess, nil
}

func (s *interviewService) Delete(ctx context.Context, sessionID string, userID int64) error {
	if _, err := s.load(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.sessions.DeleteByID(dbctx.Context{Ctx: ctx}, sessionID); err != nil {
		return interview.Wrap("InterviewService.Delete", err)
	}
	s.log.Info("Session deleted", "session_id", sessionID, "user_id", userID)
	return nil
}

// ReapExpired marks past-expiry non-terminal sessions expired and prunes
// terminal sessions whose last activity is older than the retention window.
func (s *interviewService) ReapExpired(ctx context.Context, retention time.Duration) (ReapReport, error) {
	now := time.Now().UTC()
	dbc := dbctx.Context{Ctx: ctx}
	expired, err := s.sessions.MarkExpired(dbc, now)
	if err != nil {
		return ReapReport{}, interview.Wrap("InterviewService.ReapExpired", err)
	}
	deleted, err := s.sessions.DeleteExpiredSessions(dbc, now.Add(-retention))
	if err != nil {
		return ReapReport{Expired: expired}, interview.Wrap("InterviewService.ReapExpired", err)
	}
	if expired > 0 || deleted > 0 {
		s.log.Info("Expiry sweep finished", "expired", expired, "deleted", deleted)
	}
	return ReapReport{Expired: expired, Deleted: deleted}, nil
}
