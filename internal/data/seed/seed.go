package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	"github.com/toshikazuyokoi/process-interview-backend/internal/pkg/dbctx"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

type processTypeSeed struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

type bestPracticeSeed struct {
	Category    string   `yaml:"category"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Confidence  float64  `yaml:"confidence"`
	Source      string   `yaml:"source"`
	Tags        []string `yaml:"tags"`
}

type industryTemplateSeed struct {
	Industry              string             `yaml:"industry"`
	Name                  string             `yaml:"name"`
	Description           string             `yaml:"description"`
	Complexity            string             `yaml:"complexity"`
	EstimatedDurationDays int                `yaml:"estimatedDurationDays"`
	Confidence            float64            `yaml:"confidence"`
	Steps                 []templateStepSeed `yaml:"steps"`
}

// templateStepSeed serializes to the step-recommendation wire shape so the
// Steps JSONB column can be decoded straight into the domain type.
type templateStepSeed struct {
	ID             int      `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	Basis          string   `yaml:"basis" json:"basis"`
	OffsetDays     int      `yaml:"offsetDays" json:"offsetDays"`
	Confidence     float64  `yaml:"confidence" json:"confidence"`
	EstimatedHours float64  `yaml:"estimatedHours" json:"estimatedHours,omitempty"`
	DependsOn      []int    `yaml:"dependsOn" json:"dependsOn,omitempty"`
	SkillsRequired []string `yaml:"skillsRequired" json:"skillsRequired,omitempty"`
	Risks          []string `yaml:"risks" json:"risks,omitempty"`
}

type seedFile struct {
	ProcessTypes      []processTypeSeed      `yaml:"processTypes"`
	BestPractices     []bestPracticeSeed     `yaml:"bestPractices"`
	IndustryTemplates []industryTemplateSeed `yaml:"industryTemplates"`
}

// Loader populates the knowledge base from a YAML seed file when the KB is
// still empty. A non-existent seed file is not an error.
type Loader struct {
	log           *logger.Logger
	processTypes  repos.ProcessTypeRepo
	bestPractices repos.BestPracticeRepo
	templates     repos.IndustryTemplateRepo
}

func NewLoader(log *logger.Logger, processTypes repos.ProcessTypeRepo, bestPractices repos.BestPracticeRepo, templates repos.IndustryTemplateRepo) *Loader {
	return &Loader{
		log:           log.With("component", "SeedLoader"),
		processTypes:  processTypes,
		bestPractices: bestPractices,
		templates:     templates,
	}
}

func (l *Loader) Apply(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.Debug("No seed file found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("Failed to read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("Failed to parse seed file: %w", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	n, err := l.bestPractices.Count(dbc)
	if err != nil {
		return err
	}
	ptCount, err := l.processTypes.Count(dbc)
	if err != nil {
		return err
	}
	if n > 0 || ptCount > 0 {
		l.log.Debug("Knowledge base already populated, skipping seed")
		return nil
	}

	for _, pt := range file.ProcessTypes {
		keywords, err := json.Marshal(pt.Keywords)
		if err != nil {
			return err
		}
		row := &types.ProcessType{
			Name:        pt.Name,
			Category:    pt.Category,
			Description: pt.Description,
			Keywords:    datatypes.JSON(keywords),
		}
		if err := l.processTypes.Create(dbc, row); err != nil {
			return err
		}
	}
	for _, bp := range file.BestPractices {
		tags, err := json.Marshal(bp.Tags)
		if err != nil {
			return err
		}
		row := &types.BestPractice{
			Category:    bp.Category,
			Title:       bp.Title,
			Description: bp.Description,
			Confidence:  bp.Confidence,
			Source:      bp.Source,
			Tags:        datatypes.JSON(tags),
		}
		if err := l.bestPractices.Create(dbc, row); err != nil {
			return err
		}
	}
	for _, it := range file.IndustryTemplates {
		steps, err := json.Marshal(it.Steps)
		if err != nil {
			return err
		}
		row := &types.IndustryTemplate{
			Industry:              it.Industry,
			Name:                  it.Name,
			Description:           it.Description,
			Complexity:            it.Complexity,
			EstimatedDurationDays: it.EstimatedDurationDays,
			Steps:                 datatypes.JSON(steps),
			Confidence:            it.Confidence,
		}
		if err := l.templates.Create(dbc, row); err != nil {
			return err
		}
	}

	l.log.Info("Knowledge base seeded",
		"process_types", len(file.ProcessTypes),
		"best_practices", len(file.BestPractices),
		"industry_templates", len(file.IndustryTemplates))
	return nil
}
