package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

const (
	maxPracticeSources  = 8
	practiceConfidence  = 0.5
	templateResultLimit = 3
)

type RecommendationService interface {
	Generate(ctx context.Context, sessionID string, userID int64) (*interview.Recommendation, error)
}

type recommendationService struct {
	db            *gorm.DB
	log           *logger.Logger
	sessions      repos.SessionRepo
	bestPractices repos.BestPracticeRepo
	templates     repos.IndustryTemplateRepo
}

func NewRecommendationService(db *gorm.DB, baseLog *logger.Logger, sessions repos.SessionRepo, bestPractices repos.BestPracticeRepo, templates repos.IndustryTemplateRepo) RecommendationService {
	return &recommendationService{
		db:            db,
		log:           baseLog.With("service", "RecommendationService"),
		sessions:      sessions,
		bestPractices: bestPractices,
		templates:     templates,
	}
}

// Generate assembles a template recommendation from the session's extracted
// requirements plus knowledge-base sources, attaches it to the session, and
// persists both. The session must be active and owned by userID.
func (s *recommendationService) Generate(ctx context.Context, sessionID string, userID int64) (*interview.Recommendation, error) {
	if _, err := interview.NewSessionID(sessionID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	sess, err := s.sessions.FindByID(dbc, sessionID)
	if err != nil {
		return nil, interview.Wrap("RecommendationService.Generate", err)
	}
	if sess == nil {
		return nil, interview.NotFoundError("Session not found")
	}
	if sess.UserID() != userID {
		return nil, interview.UnauthorizedError("Unauthorized session access")
	}
	reqs := sess.Requirements()
	if len(reqs) == 0 {
		return nil, interview.ValidationError("Session has no extracted requirements")
	}

	industry, _ := sess.Context()["industry"].(string)
	ranked := interview.SortByImportance(reqs)

	// KB fetches are independent; run them concurrently.
	var (
		practices []*types.BestPractice
		indTmpls  []*types.IndustryTemplate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		practices, err = s.bestPractices.List(dbctx.Context{Ctx: gctx}, repos.BestPracticeFilter{
			Category:      string(ranked[0].Category()),
			MinConfidence: practiceConfidence,
			Limit:         maxPracticeSources,
		})
		return err
	})
	g.Go(func() error {
		if industry == "" {
			return nil
		}
		var err error
		indTmpls, err = s.templates.ListByIndustry(dbctx.Context{Ctx: gctx}, industry, templateResultLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, interview.Wrap("RecommendationService.Generate", err)
	}

	rec, err := s.assemble(sess, ranked, practices, indTmpls)
	if err != nil {
		return nil, err
	}
	if err := sess.AttachTemplate(rec); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateGeneratedTemplate(dbc, sess); err != nil {
		return nil, interview.Wrap("RecommendationService.Generate", err)
	}
	s.log.Info("Template generated",
		"session_id", sessionID,
		"steps", len(rec.Steps()),
		"critical_path_days", rec.CriticalPathLength())
	return rec, nil
}

// assemble builds the recommendation deterministically: an industry template
// supplies the step skeleton when one matches, otherwise steps are derived
// one per ranked requirement as a sequential chain.
func (s *recommendationService) assemble(sess *interview.Session, ranked []interview.Requirement, practices []*types.BestPractice, indTmpls []*types.IndustryTemplate) (*interview.Recommendation, error) {
	var (
		steps      []interview.StepRecommendation
		name       string
		desc       string
		complexity interview.Complexity
		duration   int
		reasoning  []string
		sources    []string
	)

	confs := make([]interview.ConfidenceScore, 0, len(ranked))
	weights := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		confs = append(confs, r.Confidence())
		weights = append(weights, float64(r.Priority().Weight()))
	}
	confidence, err := interview.WeightedAverageConfidence(confs, weights)
	if err != nil {
		return nil, err
	}

	if len(indTmpls) > 0 {
		tmpl := indTmpls[0]
		if err := json.Unmarshal(tmpl.Steps, &steps); err != nil {
			return nil, interview.Wrap("RecommendationService.assemble", err)
		}
		name = tmpl.Name
		desc = tmpl.Description
		complexity = interview.Complexity(tmpl.Complexity)
		duration = tmpl.EstimatedDurationDays
		reasoning = append(reasoning, fmt.Sprintf("Based on the %q industry template", tmpl.Industry))
		sources = append(sources, fmt.Sprintf("industry_template:%d", tmpl.ID))
		for i := range steps {
			steps[i].Source = interview.SourceKnowledgeBase
		}
	} else {
		offset := 0
		for i, r := range ranked {
			step := interview.StepRecommendation{
				ID:             i + 1,
				Name:           fmt.Sprintf("Address %s requirement", r.Category()),
				Description:    r.Description(),
				EstimatedHours: 8 * float64(r.Priority().Weight()),
				OffsetDays:     offset,
				Basis:          interview.BasisGoal,
				Source:         interview.SourceAIGenerated,
				Confidence:     r.Confidence(),
			}
			if i > 0 {
				step.DependsOn = []int{i}
				step.Basis = interview.BasisPrev
			}
			steps = append(steps, step)
			offset += r.Priority().Weight()
		}
		name = "Process plan from interview requirements"
		desc = fmt.Sprintf("Sequential plan covering %d extracted requirements", len(ranked))
		duration = offset
		if duration == 0 {
			duration = 1
		}
		switch {
		case len(steps) <= 3:
			complexity = interview.ComplexitySimple
		case len(steps) <= 6:
			complexity = interview.ComplexityMedium
		case len(steps) <= 10:
			complexity = interview.ComplexityComplex
		default:
			complexity = interview.ComplexityVeryComplex
		}
		reasoning = append(reasoning, "Derived one step per extracted requirement, ordered by importance")
	}

	for _, p := range practices {
		sources = append(sources, fmt.Sprintf("best_practice:%d", p.ID))
		reasoning = append(reasoning, fmt.Sprintf("Informed by practice %q", p.Title))
	}

	return interview.NewRecommendation(interview.RecommendationParams{
		ID:                uuid.NewString(),
		Name:              name,
		Description:       desc,
		Steps:             steps,
		Confidence:        confidence,
		Reasoning:         strings.Join(reasoning, "; "),
		EstimatedDuration: duration,
		Complexity:        complexity,
		Sources:           sources,
	})
}
