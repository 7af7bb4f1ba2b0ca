package knowledge

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

type ProcessTypeRepo interface {
	Create(dbc dbctx.Context, row *types.ProcessType) error
	GetByName(dbc dbctx.Context, name string) (*types.ProcessType, error)
	ListByCategory(dbc dbctx.Context, category string) ([]*types.ProcessType, error)
	Count(dbc dbctx.Context) (int64, error)
}

type processTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessTypeRepo(db *gorm.DB, baseLog *logger.Logger) ProcessTypeRepo {
	return &processTypeRepo{db: db, log: baseLog.With("repo", "ProcessTypeRepo")}
}

func (r *processTypeRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *processTypeRepo) Create(dbc dbctx.Context, row *types.ProcessType) error {
	if row == nil {
		return nil
	}
	if err := r.conn(dbc).Create(row).Error; err != nil {
		return fmt.Errorf("Failed to create process type: %w", err)
	}
	return nil
}

func (r *processTypeRepo) GetByName(dbc dbctx.Context, name string) (*types.ProcessType, error) {
	if name == "" {
		return nil, nil
	}
	var row types.ProcessType
	err := r.conn(dbc).Where("name = ?", name).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *processTypeRepo) ListByCategory(dbc dbctx.Context, category string) ([]*types.ProcessType, error) {
	q := r.conn(dbc).Model(&types.ProcessType{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []*types.ProcessType
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *processTypeRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.conn(dbc).Model(&types.ProcessType{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
