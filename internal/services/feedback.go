package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	fbdomain "github.com/toshikazuyokoi/process-interview-backend/internal/domain/feedback"
	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// FeedbackInput is the submission payload.
type FeedbackInput struct {
	SessionID string         `json:"sessionId"`
	Type      string         `json:"type"`
	Category  string         `json:"category,omitempty"`
	Rating    int            `json:"rating"`
	Message   string         `json:"message,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type FeedbackService interface {
	Submit(ctx context.Context, userID int64, in FeedbackInput) (*types.Feedback, error)
	Queue(ctx context.Context, limit int) ([]*types.Feedback, error)
	MarkProcessed(ctx context.Context, id int64) error
}

type feedbackService struct {
	db       *gorm.DB
	log      *logger.Logger
	feedback repos.FeedbackRepo
	sessions repos.SessionRepo
}

func NewFeedbackService(db *gorm.DB, baseLog *logger.Logger, feedback repos.FeedbackRepo, sessions repos.SessionRepo) FeedbackService {
	return &feedbackService{
		db:       db,
		log:      baseLog.With("service", "FeedbackService"),
		feedback: feedback,
		sessions: sessions,
	}
}

// feedbackPriority ranks queue processing. Low-rated negative feedback jumps
// the queue; suggestions outrank routine positives.
func feedbackPriority(typ fbdomain.FeedbackType, rating int) int {
	switch {
	case typ == fbdomain.TypeNegative && rating <= 2:
		return 10
	case typ == fbdomain.TypeSuggestion:
		return 5
	case typ == fbdomain.TypePositive:
		return 3
	default:
		return 1
	}
}

func (s *feedbackService) Submit(ctx context.Context, userID int64, in FeedbackInput) (*types.Feedback, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, interview.ValidationError("Feedback rating must be between 1 and 5")
	}
	typ := fbdomain.FeedbackType(in.Type)
	switch typ {
	case fbdomain.TypePositive, fbdomain.TypeNegative, fbdomain.TypeNeutral, fbdomain.TypeSuggestion:
	default:
		return nil, interview.ValidationError("Feedback type is invalid")
	}
	if _, err := interview.NewSessionID(in.SessionID); err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	sess, err := s.sessions.FindByID(dbc, in.SessionID)
	if err != nil {
		return nil, interview.Wrap("FeedbackService.Submit", err)
	}
	if sess == nil {
		return nil, interview.NotFoundError("Session not found")
	}
	if sess.UserID() != userID {
		return nil, interview.UnauthorizedError("Unauthorized session access")
	}

	var metadata datatypes.JSON
	if len(in.Metadata) > 0 {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, interview.Wrap("FeedbackService.Submit", err)
		}
		metadata = datatypes.JSON(raw)
	}

	row := &types.Feedback{
		SessionID:   in.SessionID,
		UserID:      userID,
		Type:        typ,
		Category:    in.Category,
		Rating:      in.Rating,
		Message:     in.Message,
		Metadata:    metadata,
		Priority:    feedbackPriority(typ, in.Rating),
		Processed:   false,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.feedback.Create(dbc, row); err != nil {
		return nil, interview.Wrap("FeedbackService.Submit", err)
	}
	s.log.Info("Feedback submitted", "session_id", in.SessionID, "type", typ, "priority", row.Priority)
	return row, nil
}

func (s *feedbackService) Queue(ctx context.Context, limit int) ([]*types.Feedback, error) {
	return s.feedback.ListUnprocessed(dbctx.Context{Ctx: ctx}, limit)
}

func (s *feedbackService) MarkProcessed(ctx context.Context, id int64) error {
	if id <= 0 {
		return interview.ValidationError("Feedback id must be positive")
	}
	return s.feedback.MarkProcessed(dbctx.Context{Ctx: ctx}, id)
}
