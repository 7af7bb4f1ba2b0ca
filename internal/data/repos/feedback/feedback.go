package feedback

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(dbc dbctx.Context, row *types.Feedback) error
	GetByID(dbc dbctx.Context, id int64) (*types.Feedback, error)
	ListBySession(dbc dbctx.Context, sessionID string) ([]*types.Feedback, error)
	ListUnprocessed(dbc dbctx.Context, limit int) ([]*types.Feedback, error)
	MarkProcessed(dbc dbctx.Context, id int64) error
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *feedbackRepo) Create(dbc dbctx.Context, row *types.Feedback) error {
	if row == nil {
		return nil
	}
	if err := r.conn(dbc).Create(row).Error; err != nil {
		return fmt.Errorf("Failed to create feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepo) GetByID(dbc dbctx.Context, id int64) (*types.Feedback, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.Feedback
	err := r.conn(dbc).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *feedbackRepo) ListBySession(dbc dbctx.Context, sessionID string) ([]*types.Feedback, error) {
	if sessionID == "" {
		return nil, nil
	}
	var out []*types.Feedback
	err := r.conn(dbc).
		Where("session_id = ?", sessionID).
		Order("submitted_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnprocessed returns the processing queue, highest priority first.
func (r *feedbackRepo) ListUnprocessed(dbc dbctx.Context, limit int) ([]*types.Feedback, error) {
	q := r.conn(dbc).Where("processed = ?", false).Order("priority DESC, submitted_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Feedback
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedbackRepo) MarkProcessed(dbc dbctx.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	err := r.conn(dbc).Model(&types.Feedback{}).
		Where("id = ?", id).
		Update("processed", true).Error
	if err != nil {
		return fmt.Errorf("Failed to mark feedback processed: %w", err)
	}
	return nil
}
