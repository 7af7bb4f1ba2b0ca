package knowledge

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// BestPracticeFilter narrows List. Zero values mean "no constraint".
type BestPracticeFilter struct {
	Category      string
	ProcessTypeID int64
	MinConfidence float64
	Limit         int
}

// ConfidenceUpdate is one entry of a bulk confidence adjustment.
type ConfidenceUpdate struct {
	ID         int64
	Confidence float64
}

type BestPracticeRepo interface {
	Create(dbc dbctx.Context, row *types.BestPractice) error
	GetByID(dbc dbctx.Context, id int64) (*types.BestPractice, error)
	List(dbc dbctx.Context, filter BestPracticeFilter) ([]*types.BestPractice, error)
	Update(dbc dbctx.Context, row *types.BestPractice) error
	Delete(dbc dbctx.Context, id int64) error
	BulkUpdateConfidence(dbc dbctx.Context, updates []ConfidenceUpdate) error
	Count(dbc dbctx.Context) (int64, error)
}

type bestPracticeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBestPracticeRepo(db *gorm.DB, baseLog *logger.Logger) BestPracticeRepo {
	return &bestPracticeRepo{db: db, log: baseLog.With("repo", "BestPracticeRepo")}
}

func (r *bestPracticeRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *bestPracticeRepo) Create(dbc dbctx.Context, row *types.BestPractice) error {
	if row == nil {
		return nil
	}
	if err := r.conn(dbc).Create(row).Error; err != nil {
		return fmt.Errorf("Failed to create best practice: %w", err)
	}
	return nil
}

func (r *bestPracticeRepo) GetByID(dbc dbctx.Context, id int64) (*types.BestPractice, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.BestPractice
	err := r.conn(dbc).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *bestPracticeRepo) List(dbc dbctx.Context, filter BestPracticeFilter) ([]*types.BestPractice, error) {
	q := r.conn(dbc).Model(&types.BestPractice{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ProcessTypeID > 0 {
		q = q.Where("process_type_id = ?", filter.ProcessTypeID)
	}
	if filter.MinConfidence > 0 {
		q = q.Where("confidence >= ?", filter.MinConfidence)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var out []*types.BestPractice
	if err := q.Order("confidence DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bestPracticeRepo) Update(dbc dbctx.Context, row *types.BestPractice) error {
	if row == nil || row.ID <= 0 {
		return nil
	}
	if err := r.conn(dbc).Save(row).Error; err != nil {
		return fmt.Errorf("Failed to update best practice: %w", err)
	}
	return nil
}

func (r *bestPracticeRepo) Delete(dbc dbctx.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	if err := r.conn(dbc).Where("id = ?", id).Delete(&types.BestPractice{}).Error; err != nil {
		return fmt.Errorf("Failed to delete best practice: %w", err)
	}
	return nil
}

// BulkUpdateConfidence applies every entry in one transaction. Entries whose
// id matches no row are skipped silently; the operation reports no per-entry
// outcome.
func (r *bestPracticeRepo) BulkUpdateConfidence(dbc dbctx.Context, updates []ConfidenceUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.conn(dbc).Transaction(func(txx *gorm.DB) error {
		for _, u := range updates {
			if err := txx.Model(&types.BestPractice{}).
				Where("id = ?", u.ID).
				Update("confidence", u.Confidence).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("Failed to bulk update confidence: %w", err)
	}
	return nil
}

func (r *bestPracticeRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.conn(dbc).Model(&types.BestPractice{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
