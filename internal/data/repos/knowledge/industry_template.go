package knowledge

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

type IndustryTemplateRepo interface {
	Create(dbc dbctx.Context, row *types.IndustryTemplate) error
	GetByID(dbc dbctx.Context, id int64) (*types.IndustryTemplate, error)
	ListByIndustry(dbc dbctx.Context, industry string, limit int) ([]*types.IndustryTemplate, error)
	Update(dbc dbctx.Context, row *types.IndustryTemplate) error
	Delete(dbc dbctx.Context, id int64) error
}

type industryTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndustryTemplateRepo(db *gorm.DB, baseLog *logger.Logger) IndustryTemplateRepo {
	return &industryTemplateRepo{db: db, log: baseLog.With("repo", "IndustryTemplateRepo")}
}

func (r *industryTemplateRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *industryTemplateRepo) Create(dbc dbctx.Context, row *types.IndustryTemplate) error {
	if row == nil {
		return nil
	}
	if err := r.conn(dbc).Create(row).Error; err != nil {
		return fmt.Errorf("Failed to create industry template: %w", err)
	}
	return nil
}

func (r *industryTemplateRepo) GetByID(dbc dbctx.Context, id int64) (*types.IndustryTemplate, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.IndustryTemplate
	err := r.conn(dbc).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *industryTemplateRepo) ListByIndustry(dbc dbctx.Context, industry string, limit int) ([]*types.IndustryTemplate, error) {
	q := r.conn(dbc).Model(&types.IndustryTemplate{})
	if industry != "" {
		q = q.Where("industry = ?", industry)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.IndustryTemplate
	if err := q.Order("confidence DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *industryTemplateRepo) Update(dbc dbctx.Context, row *types.IndustryTemplate) error {
	if row == nil || row.ID <= 0 {
		return nil
	}
	if err := r.conn(dbc).Save(row).Error; err != nil {
		return fmt.Errorf("Failed to update industry template: %w", err)
	}
	return nil
}

func (r *industryTemplateRepo) Delete(dbc dbctx.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	if err := r.conn(dbc).Where("id = ?", id).Delete(&types.IndustryTemplate{}).Error; err != nil {
		return fmt.Errorf("Failed to delete industry template: %w", err)
	}
	return nil
}
