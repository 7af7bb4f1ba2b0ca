package interview

import (
	"sort"
	"strings"
	"time"
)

// RequirementCategory classifies an extracted requirement.
type RequirementCategory string

const (
	CategoryGoal        RequirementCategory = "goal"
	CategoryConstraint  RequirementCategory = "constraint"
	CategoryStakeholder RequirementCategory = "stakeholder"
	CategoryDeliverable RequirementCategory = "deliverable"
	CategoryTimeline    RequirementCategory = "timeline"
	CategoryQuality     RequirementCategory = "quality"
	CategoryCompliance  RequirementCategory = "compliance"
	CategoryRisk        RequirementCategory = "risk"
)

func (c RequirementCategory) Valid() bool {
	switch c {
	case CategoryGoal, CategoryConstraint, CategoryStakeholder, CategoryDeliverable,
		CategoryTimeline, CategoryQuality, CategoryCompliance, CategoryRisk:
		return true
	}
	return false
}

// RequirementPriority carries an integer weight used for deterministic sorting.
type RequirementPriority string

const (
	PriorityCritical RequirementPriority = "critical"
	PriorityHigh     RequirementPriority = "high"
	PriorityMedium   RequirementPriority = "medium"
	PriorityLow      RequirementPriority = "low"
)

func (p RequirementPriority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Weight maps critical=4 … low=1.
func (p RequirementPriority) Weight() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Requirement is a classified, prioritized, confidence-scored fact extracted
// from the conversation. Immutable after construction.
type Requirement struct {
	id            string
	category      RequirementCategory
	description   string
	priority      RequirementPriority
	confidence    ConfidenceScore
	extractedFrom string
	entities      []string
	createdAt     time.Time
}

func NewRequirement(id string, category RequirementCategory, description string, priority RequirementPriority, confidence ConfidenceScore, extractedFrom string, entities []string) (Requirement, error) {
	return NewRequirementAt(id, category, description, priority, confidence, extractedFrom, entities, time.Now().UTC())
}

func NewRequirementAt(id string, category RequirementCategory, description string, priority RequirementPriority, confidence ConfidenceScore, extractedFrom string, entities []string, createdAt time.Time) (Requirement, error) {
	if strings.TrimSpace(id) == "" {
		return Requirement{}, ValidationError("Requirement id must not be empty")
	}
	if !category.Valid() {
		return Requirement{}, ValidationError("Requirement category is invalid")
	}
	if strings.TrimSpace(description) == "" {
		return Requirement{}, ValidationError("Requirement description must not be empty")
	}
	if !priority.Valid() {
		return Requirement{}, ValidationError("Requirement priority is invalid")
	}
	if strings.TrimSpace(extractedFrom) == "" {
		return Requirement{}, ValidationError("Requirement must reference the message it was extracted from")
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Requirement{
		id:            strings.TrimSpace(id),
		category:      category,
		description:   strings.TrimSpace(description),
		priority:      priority,
		confidence:    confidence,
		extractedFrom: strings.TrimSpace(extractedFrom),
		entities:      append([]string(nil), entities...),
		createdAt:     createdAt.UTC(),
	}, nil
}

func (r Requirement) ID() string                    { return r.id }
func (r Requirement) Category() RequirementCategory { return r.category }
func (r Requirement) Description() string           { return r.description }
func (r Requirement) Priority() RequirementPriority { return r.priority }
func (r Requirement) Confidence() ConfidenceScore   { return r.confidence }
func (r Requirement) ExtractedFrom() string         { return r.extractedFrom }
func (r Requirement) CreatedAt() time.Time          { return r.createdAt }

func (r Requirement) Entities() []string {
	return append([]string(nil), r.entities...)
}

// SortByImportance returns a new slice ordered by priority weight descending,
// then confidence descending. The sort is stable and the input is not aliased.
func SortByImportance(reqs []Requirement) []Requirement {
	out := append([]Requirement(nil), reqs...)
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := out[i].priority.Weight(), out[j].priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return out[i].confidence.Value() > out[j].confidence.Value()
	})
	return out
}

// GroupByCategory buckets requirements preserving original relative order.
func GroupByCategory(reqs []Requirement) map[RequirementCategory][]Requirement {
	out := make(map[RequirementCategory][]Requirement)
	for _, r := range reqs {
		out[r.category] = append(out[r.category], r)
	}
	return out
}

// RequirementSnapshot is the serialized form of a Requirement.
type RequirementSnapshot struct {
	ID            string              `json:"id"`
	Category      RequirementCategory `json:"category"`
	Description   string              `json:"description"`
	Priority      RequirementPriority `json:"priority"`
	Confidence    ConfidenceScore     `json:"confidence"`
	ExtractedFrom string              `json:"extractedFrom"`
	Entities      []string            `json:"entities,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func (r Requirement) Snapshot() RequirementSnapshot {
	return RequirementSnapshot{
		ID:            r.id,
		Category:      r.category,
		Description:   r.description,
		Priority:      r.priority,
		Confidence:    r.confidence,
		ExtractedFrom: r.extractedFrom,
		Entities:      append([]string(nil), r.entities...),
		CreatedAt:     r.createdAt,
	}
}

func RequirementFromSnapshot(sn RequirementSnapshot) (Requirement, error) {
	return NewRequirementAt(sn.ID, sn.Category, sn.Description, sn.Priority, sn.Confidence, sn.ExtractedFrom, sn.Entities, sn.CreatedAt)
}
