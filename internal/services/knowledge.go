package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

// BulkConfidenceResult summarizes a bulk confidence update. The store applies
// entries without reporting per-row outcomes, so every submitted id is
// counted as updated.
type BulkConfidenceResult struct {
	Updated   int     `json:"updated"`
	FailedIDs []int64 `json:"failedIds"`
}

type KnowledgeService interface {
	CreateBestPractice(ctx context.Context, row *types.BestPractice) error
	GetBestPractice(ctx context.Context, id int64) (*types.BestPractice, error)
	ListBestPractices(ctx context.Context, filter repos.BestPracticeFilter) ([]*types.BestPractice, error)
	UpdateBestPractice(ctx context.Context, row *types.BestPractice) error
	DeleteBestPractice(ctx context.Context, id int64) error
	BulkUpdateConfidence(ctx context.Context, updates []repos.ConfidenceUpdate) (BulkConfidenceResult, error)

	CreateIndustryTemplate(ctx context.Context, row *types.IndustryTemplate) error
	ListIndustryTemplates(ctx context.Context, industry string, limit int) ([]*types.IndustryTemplate, error)

	ListProcessTypes(ctx context.Context, category string) ([]*types.ProcessType, error)
}

type knowledgeService struct {
	db            *gorm.DB
	log           *logger.Logger
	bestPractices repos.BestPracticeRepo
	templates     repos.IndustryTemplateRepo
	processTypes  repos.ProcessTypeRepo
}

func NewKnowledgeService(db *gorm.DB, baseLog *logger.Logger, bestPractices repos.BestPracticeRepo, templates repos.IndustryTemplateRepo, processTypes repos.ProcessTypeRepo) KnowledgeService {
	return &knowledgeService{
		db:            db,
		log:           baseLog.With("service", "KnowledgeService"),
		bestPractices: bestPractices,
		templates:     templates,
		processTypes:  processTypes,
	}
}

func validPracticeConfidence(v float64) error {
	if _, err := interview.NewConfidenceScore(v); err != nil {
		return err
	}
	return nil
}

func (s *knowledgeService) CreateBestPractice(ctx context.Context, row *types.BestPractice) error {
	if row == nil {
		return interview.ValidationError("Best practice payload must not be empty")
	}
	if row.Title == "" || row.Category == "" {
		return interview.ValidationError("Best practice requires a title and a category")
	}
	if err := validPracticeConfidence(row.Confidence); err != nil {
		return err
	}
	return s.bestPractices.Create(dbctx.Context{Ctx: ctx}, row)
}

func (s *knowledgeService) GetBestPractice(ctx context.Context, id int64) (*types.BestPractice, error) {
	row, err := s.bestPractices.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, interview.NotFoundError("Best practice not found")
	}
	return row, nil
}

func (s *knowledgeService) ListBestPractices(ctx context.Context, filter repos.BestPracticeFilter) ([]*types.BestPractice, error) {
	return s.bestPractices.List(dbctx.Context{Ctx: ctx}, filter)
}

func (s *knowledgeService) UpdateBestPractice(ctx context.Context, row *types.BestPractice) error {
	if row == nil || row.ID <= 0 {
		return interview.ValidationError("Best practice id must be set")
	}
	if err := validPracticeConfidence(row.Confidence); err != nil {
		return err
	}
	return s.bestPractices.Update(dbctx.Context{Ctx: ctx}, row)
}

func (s *knowledgeService) DeleteBestPractice(ctx context.Context, id int64) error {
	if id <= 0 {
		return interview.ValidationError("Best practice id must be set")
	}
	return s.bestPractices.Delete(dbctx.Context{Ctx: ctx}, id)
}

// BulkUpdateConfidence validates every entry, applies the batch, and reports
// all submitted ids as updated with an empty failure list. Ids matching no
// row are skipped by the store without surfacing here.
func (s *knowledgeService) BulkUpdateConfidence(ctx context.Context, updates []repos.ConfidenceUpdate) (BulkConfidenceResult, error) {
	if len(updates) == 0 {
		return BulkConfidenceResult{FailedIDs: []int64{}}, nil
	}
	for _, u := range updates {
		if u.ID <= 0 {
			return BulkConfidenceResult{}, interview.ValidationError("Confidence update id must be positive")
		}
		if err := validPracticeConfidence(u.Confidence); err != nil {
			return BulkConfidenceResult{}, err
		}
	}
	if err := s.bestPractices.BulkUpdateConfidence(dbctx.Context{Ctx: ctx}, updates); err != nil {
		return BulkConfidenceResult{}, err
	}
	s.log.Info("Bulk confidence update applied", "entries", len(updates))
	return BulkConfidenceResult{Updated: len(updates), FailedIDs: []int64{}}, nil
}

func (s *knowledgeService) CreateIndustryTemplate(ctx context.Context, row *types.IndustryTemplate) error {
	if row == nil || row.Name == "" || row.Industry == "" {
		return interview.ValidationError("Industry template requires a name and an industry")
	}
	if !interview.Complexity(row.Complexity).Valid() {
		return interview.ValidationError("Industry template complexity is invalid")
	}
	return s.templates.Create(dbctx.Context{Ctx: ctx}, row)
}

func (s *knowledgeService) ListIndustryTemplates(ctx context.Context, industry string, limit int) ([]*types.IndustryTemplate, error) {
	return s.templates.ListByIndustry(dbctx.Context{Ctx: ctx}, industry, limit)
}

func (s *knowledgeService) ListProcessTypes(ctx context.Context, category string) ([]*types.ProcessType, error) {
	return s.processTypes.ListByCategory(dbctx.Context{Ctx: ctx}, category)
}
