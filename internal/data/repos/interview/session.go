package interview

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// SessionRecord is the persisted projection of the session aggregate. The
// nested collections live in JSONB columns in the snapshot wire shape.
type SessionRecord struct {
	ID                string         `gorm:"type:uuid;primaryKey;column:id"`
	UserID            int64          `gorm:"index;not null;column:user_id"`
	Status            string         `gorm:"index;not null;column:status"`
	Context           datatypes.JSON `gorm:"column:context"`
	Conversation      datatypes.JSON `gorm:"column:conversation"`
	Requirements      datatypes.JSON `gorm:"column:requirements"`
	GeneratedTemplate datatypes.JSON `gorm:"column:generated_template"`

	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
	ExpiresAt time.Time `gorm:"index;not null;column:expires_at"`
}

func (SessionRecord) TableName() string { return "interview_session" }

// RecordFromSession projects the aggregate into its persisted shape.
func RecordFromSession(s *domain.Session) (*SessionRecord, error) {
	sn := s.Snapshot()
	rec := &SessionRecord{
		ID:        sn.SessionID,
		UserID:    sn.UserID,
		Status:    string(sn.Status),
		CreatedAt: sn.CreatedAt,
		UpdatedAt: sn.UpdatedAt,
		ExpiresAt: sn.ExpiresAt,
	}
	var err error
	if rec.Context, err = json.Marshal(sn.Context); err != nil {
		return nil, err
	}
	if rec.Conversation, err = json.Marshal(sn.Conversation); err != nil {
		return nil, err
	}
	if rec.Requirements, err = json.Marshal(sn.Requirements); err != nil {
		return nil, err
	}
	if sn.GeneratedTemplate != nil {
		if rec.GeneratedTemplate, err = json.Marshal(sn.GeneratedTemplate); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// ToSession rehydrates the aggregate through its validating snapshot path.
func (rec *SessionRecord) ToSession() (*domain.Session, error) {
	sn := domain.SessionSnapshot{
		SessionID: rec.ID,
		UserID:    rec.UserID,
		Status:    domain.SessionStatus(rec.Status),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if len(rec.Context) > 0 {
		if err := json.Unmarshal(rec.Context, &sn.Context); err != nil {
			return nil, err
		}
	}
	if len(rec.Conversation) > 0 {
		if err := json.Unmarshal(rec.Conversation, &sn.Conversation); err != nil {
			return nil, err
		}
	}
	if len(rec.Requirements) > 0 {
		if err := json.Unmarshal(rec.Requirements, &sn.Requirements); err != nil {
			return nil, err
		}
	}
	if len(rec.GeneratedTemplate) > 0 {
		if err := json.Unmarshal(rec.GeneratedTemplate, &sn.GeneratedTemplate); err != nil {
			return nil, err
		}
	}
	return domain.SessionFromSnapshot(sn)
}

type SessionRepo interface {
	Save(dbc dbctx.Context, s *domain.Session) error
	FindByID(dbc dbctx.Context, id string) (*domain.Session, error)
	UpdateMetadata(dbc dbctx.Context, s *domain.Session) error
	UpdateConversation(dbc dbctx.Context, s *domain.Session) error
	UpdateRequirements(dbc dbctx.Context, s *domain.Session) error
	UpdateGeneratedTemplate(dbc dbctx.Context, s *domain.Session) error
	DeleteByID(dbc dbctx.Context, id string) error
	MarkExpired(dbc dbctx.Context, now time.Time) (int64, error)
	DeleteExpiredSessions(dbc dbctx.Context, endedBefore time.Time) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

// Save upserts the full persisted projection.
func (r *sessionRepo) Save(dbc dbctx.Context, s *domain.Session) error {
	rec, err := RecordFromSession(s)
	if err != nil {
		return fmt.Errorf("Failed to encode session: %w", err)
	}
	if err := r.conn(dbc).Save(rec).Error; err != nil {
		return fmt.Errorf("Failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) FindByID(dbc dbctx.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, nil
	}
	var rec SessionRecord
	err := r.conn(dbc).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return rec.ToSession()
}

// UpdateMetadata writes the cheap columns only: status, context and the
// timestamp pair. Collection columns are untouched.
func (r *sessionRepo) UpdateMetadata(dbc dbctx.Context, s *domain.Session) error {
	rawContext, err := json.Marshal(s.Context())
	if err != nil {
		return fmt.Errorf("Failed to encode session context: %w", err)
	}
	err = r.conn(dbc).Model(&SessionRecord{}).
		Where("id = ?", s.ID().String()).
		Updates(map[string]interface{}{
			"status":     string(s.Status()),
			"context":    datatypes.JSON(rawContext),
			"updated_at": s.UpdatedAt(),
			"expires_at": s.ExpiresAt(),
		}).Error
	if err != nil {
		return fmt.Errorf("Failed to update session metadata: %w", err)
	}
	return nil
}

func (r *sessionRepo) UpdateConversation(dbc dbctx.Context, s *domain.Session) error {
	sn := s.Snapshot()
	raw, err := json.Marshal(sn.Conversation)
	if err != nil {
		return fmt.Errorf("Failed to encode conversation: %w", err)
	}
	err = r.conn(dbc).Model(&SessionRecord{}).
		Where("id = ?", sn.SessionID).
		Updates(map[string]interface{}{
			"conversation": datatypes.JSON(raw),
			"updated_at":   sn.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("Failed to update conversation: %w", err)
	}
	return nil
}

func (r *sessionRepo) UpdateRequirements(dbc dbctx.Context, s *domain.Session) error {
	sn := s.Snapshot()
	raw, err := json.Marshal(sn.Requirements)
	if err != nil {
		return fmt.Errorf("Failed to encode requirements: %w", err)
	}
	err = r.conn(dbc).Model(&SessionRecord{}).
		Where("id = ?", sn.SessionID).
		Updates(map[string]interface{}{
			"requirements": datatypes.JSON(raw),
			"updated_at":   sn.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("Failed to update requirements: %w", err)
	}
	return nil
}

func (r *sessionRepo) UpdateGeneratedTemplate(dbc dbctx.Context, s *domain.Session) error {
	sn := s.Snapshot()
	var raw []byte
	if sn.GeneratedTemplate != nil {
		var err error
		if raw, err = json.Marshal(sn.GeneratedTemplate); err != nil {
			return fmt.Errorf("Failed to encode generated template: %w", err)
		}
	}
	err := r.conn(dbc).Model(&SessionRecord{}).
		Where("id = ?", sn.SessionID).
		Updates(map[string]interface{}{
			"generated_template": datatypes.JSON(raw),
			"updated_at":         sn.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("Failed to update generated template: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteByID(dbc dbctx.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.conn(dbc).Where("id = ?", id).Delete(&SessionRecord{}).Error; err != nil {
		return fmt.Errorf("Failed to delete session: %w", err)
	}
	return nil
}

// MarkExpired flips every non-terminal session whose horizon has passed.
func (r *sessionRepo) MarkExpired(dbc dbctx.Context, now time.Time) (int64, error) {
	res := r.conn(dbc).Model(&SessionRecord{}).
		Where("status IN ? AND expires_at < ?", []string{string(domain.StatusActive), string(domain.StatusPaused)}, now).
		Updates(map[string]interface{}{
			"status":     string(domain.StatusExpired),
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("Failed to mark expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteExpiredSessions removes terminal sessions whose last activity
// precedes the cutoff and reports how many rows went away.
func (r *sessionRepo) DeleteExpiredSessions(dbc dbctx.Context, endedBefore time.Time) (int64, error) {
	res := r.conn(dbc).
		Where("status IN ? AND updated_at < ?",
			[]string{string(domain.StatusCompleted), string(domain.StatusCancelled), string(domain.StatusExpired)},
			endedBefore).
		Delete(&SessionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("Failed to delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
