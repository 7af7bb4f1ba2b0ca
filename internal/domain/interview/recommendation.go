package interview

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Complexity grades a recommended template.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityMedium      Complexity = "medium"
	ComplexityComplex     Complexity = "complex"
	ComplexityVeryComplex Complexity = "very_complex"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityVeryComplex:
		return true
	}
	return false
}

// StepBasis anchors a step's offset either to the process goal or to the
// preceding step.
type StepBasis string

const (
	BasisGoal StepBasis = "goal"
	BasisPrev StepBasis = "prev"
)

// StepSource records where a step recommendation came from.
type StepSource string

const (
	SourceKnowledgeBase StepSource = "knowledge_base"
	SourceAIGenerated   StepSource = "ai_generated"
	SourceBestPractice  StepSource = "best_practice"
)

// StepRecommendation is one node of the recommended plan. DependsOn holds the
// ids of steps that must complete first.
type StepRecommendation struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Basis             StepBasis       `json:"basis"`
	OffsetDays        int             `json:"offsetDays"`
	Confidence        ConfidenceScore `json:"confidence"`
	Reasoning         string          `json:"reasoning"`
	RequiredArtifacts []string        `json:"requiredArtifacts,omitempty"`
	DependsOn         []int           `json:"dependsOn,omitempty"`
	Alternatives      []string        `json:"alternatives,omitempty"`
	Source            StepSource      `json:"source"`
	EstimatedHours    float64         `json:"estimatedHours,omitempty"`
	SkillsRequired    []string        `json:"skillsRequired,omitempty"`
	Risks             []string        `json:"risks,omitempty"`
}

// Recommendation is a generated, dependency-graphed plan of steps. The step
// graph is validated at construction: every dependency must reference an
// existing, non-self step and the relation must be acyclic.
type Recommendation struct {
	id                string
	name              string
	description       string
	steps             []StepRecommendation
	alternatives      []string
	confidence        ConfidenceScore
	reasoning         string
	estimatedDuration int
	complexity        Complexity
	sources           []string
	createdAt         time.Time

	memo *pathMemo
}

// pathMemo holds the lazily computed longest-path table. It sits behind a
// pointer so a Recommendation stays assignable; the once and its table travel
// together on copy.
type pathMemo struct {
	once sync.Once
	lens map[int]int
}

// RecommendationParams carries constructor input for a Recommendation.
type RecommendationParams struct {
	ID                string
	Name              string
	Description       string
	Steps             []StepRecommendation
	Alternatives      []string
	Confidence        ConfidenceScore
	Reasoning         string
	EstimatedDuration int
	Complexity        Complexity
	Sources           []string
	CreatedAt         time.Time
}

func NewRecommendation(p RecommendationParams) (*Recommendation, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, ValidationError("Template recommendation id must not be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, ValidationError("Template recommendation name must not be empty")
	}
	if len(p.Steps) == 0 {
		return nil, ValidationError("Template recommendation requires at least one step")
	}
	if p.EstimatedDuration <= 0 {
		return nil, ValidationError("Template recommendation duration must be positive")
	}
	if !p.Complexity.Valid() {
		return nil, ValidationError("Template recommendation complexity is invalid")
	}
	if err := validateStepGraph(p.Steps); err != nil {
		return nil, err
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	steps := make([]StepRecommendation, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = s
		steps[i].RequiredArtifacts = append([]string(nil), s.RequiredArtifacts...)
		steps[i].DependsOn = append([]int(nil), s.DependsOn...)
		steps[i].Alternatives = append([]string(nil), s.Alternatives...)
		steps[i].SkillsRequired = append([]string(nil), s.SkillsRequired...)
		steps[i].Risks = append([]string(nil), s.Risks...)
	}
	return &Recommendation{
		id:                strings.TrimSpace(p.ID),
		name:              strings.TrimSpace(p.Name),
		description:       strings.TrimSpace(p.Description),
		steps:             steps,
		alternatives:      append([]string(nil), p.Alternatives...),
		confidence:        p.Confidence,
		reasoning:         p.Reasoning,
		estimatedDuration: p.EstimatedDuration,
		complexity:        p.Complexity,
		sources:           append([]string(nil), p.Sources...),
		createdAt:         createdAt.UTC(),
		memo:              &pathMemo{},
	}, nil
}

// validateStepGraph rejects dangling or self-referential dependencies, then
// runs an iterative DFS with an explicit work stack to detect cycles. The
// recursion-free traversal keeps pathological inputs from blowing the stack.
func validateStepGraph(steps []StepRecommendation) error {
	byID := make(map[int]StepRecommendation, len(steps))
	for _, s := range steps {
		if _, dup := byID[s.ID]; dup {
			return GraphIntegrityError("Duplicate step id in step recommendations")
		}
		byID[s.ID] = s
	}
	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if dep == s.ID {
				return GraphIntegrityError("Step recommendations must not depend on themselves")
			}
			if _, ok := byID[dep]; !ok {
				return GraphIntegrityError("Step recommendations reference a missing dependency")
			}
		}
	}

	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[int]int, len(steps))
	for _, root := range steps {
		if state[root.ID] != unvisited {
			continue
		}
		// Each frame is revisited once after its dependencies to pop it off
		// the active stack.
		type frame struct {
			id       int
			expanded bool
		}
		work := []frame{{id: root.ID}}
		for len(work) > 0 {
			f := work[len(work)-1]
			work = work[:len(work)-1]
			if f.expanded {
				state[f.id] = done
				continue
			}
			if state[f.id] == done {
				continue
			}
			state[f.id] = onStack
			work = append(work, frame{id: f.id, expanded: true})
			for _, dep := range byID[f.id].DependsOn {
				switch state[dep] {
				case onStack:
					return GraphIntegrityError("Circular dependencies detected in step recommendations")
				case unvisited:
					work = append(work, frame{id: dep})
				}
			}
		}
	}
	return nil
}

func (r *Recommendation) ID() string                  { return r.id }
func (r *Recommendation) Name() string                { return r.name }
func (r *Recommendation) Description() string         { return r.description }
func (r *Recommendation) Confidence() ConfidenceScore { return r.confidence }
func (r *Recommendation) Reasoning() string           { return r.reasoning }
func (r *Recommendation) EstimatedDuration() int      { return r.estimatedDuration }
func (r *Recommendation) Complexity() Complexity      { return r.complexity }
func (r *Recommendation) CreatedAt() time.Time        { return r.createdAt }

func (r *Recommendation) Steps() []StepRecommendation {
	return append([]StepRecommendation(nil), r.steps...)
}

func (r *Recommendation) Alternatives() []string {
	return append([]string(nil), r.alternatives...)
}

func (r *Recommendation) Sources() []string {
	return append([]string(nil), r.sources...)
}

// pathLengths memoizes the longest dependency path ending at each step:
// len(step) = offsetDays + max(len(dep)). Computed once per recommendation;
// the graph is immutable after construction.
func (r *Recommendation) pathLengths() map[int]int {
	r.memo.once.Do(func() {
		byID := make(map[int]StepRecommendation, len(r.steps))
		for _, s := range r.steps {
			byID[s.ID] = s
		}
		lens := make(map[int]int, len(r.steps))
		resolved := make(map[int]bool, len(r.steps))
		for _, root := range r.steps {
			if resolved[root.ID] {
				continue
			}
			work := []int{root.ID}
			for len(work) > 0 {
				id := work[len(work)-1]
				if resolved[id] {
					work = work[:len(work)-1]
					continue
				}
				step := byID[id]
				pending := false
				maxDep := 0
				for _, dep := range step.DependsOn {
					if !resolved[dep] {
						work = append(work, dep)
						pending = true
						continue
					}
					if lens[dep] > maxDep {
						maxDep = lens[dep]
					}
				}
				if pending {
					continue
				}
				lens[id] = step.OffsetDays + maxDep
				resolved[id] = true
				work = work[:len(work)-1]
			}
		}
		r.memo.lens = lens
	})
	return r.memo.lens
}

// CriticalPath returns the longest dependency-respecting chain of steps in
// topological order. The terminal node is the step with the globally maximal
// path length; the chain is rebuilt dependencies-first.
func (r *Recommendation) CriticalPath() []StepRecommendation {
	lens := r.pathLengths()
	byID := make(map[int]StepRecommendation, len(r.steps))
	for _, s := range r.steps {
		byID[s.ID] = s
	}

	terminal := r.steps[0].ID
	for _, s := range r.steps[1:] {
		if lens[s.ID] > lens[terminal] {
			terminal = s.ID
		}
	}

	// Walk back from the terminal step following the dependency that carries
	// the maximal path length, then reverse into topological order.
	var reversed []StepRecommendation
	cur := terminal
	for {
		step := byID[cur]
		reversed = append(reversed, step)
		if len(step.DependsOn) == 0 {
			break
		}
		best := step.DependsOn[0]
		for _, dep := range step.DependsOn[1:] {
			if lens[dep] > lens[best] {
				best = dep
			}
		}
		cur = best
	}

	path := make([]StepRecommendation, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// CriticalPathLength is the total offset of the critical path in days.
func (r *Recommendation) CriticalPathLength() int {
	lens := r.pathLengths()
	max := 0
	for _, v := range lens {
		if v > max {
			max = v
		}
	}
	return max
}

// TotalEstimatedHours sums the per-step estimates.
func (r *Recommendation) TotalEstimatedHours() float64 {
	var sum float64
	for _, s := range r.steps {
		sum += s.EstimatedHours
	}
	return sum
}

// UniqueSkills is the set union of required skills, first-seen order.
func (r *Recommendation) UniqueSkills() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range r.steps {
		for _, skill := range s.SkillsRequired {
			if seen[skill] {
				continue
			}
			seen[skill] = true
			out = append(out, skill)
		}
	}
	return out
}

// AllRisks flattens step risks; duplicates are retained.
func (r *Recommendation) AllRisks() []string {
	var out []string
	for _, s := range r.steps {
		out = append(out, s.Risks...)
	}
	return out
}

// defaultHighConfidenceThreshold is used when no threshold is supplied.
const defaultHighConfidenceThreshold = 0.7

func (r *Recommendation) HasHighConfidence(threshold ...float64) bool {
	t := defaultHighConfidenceThreshold
	if len(threshold) > 0 {
		t = threshold[0]
	}
	return r.confidence.AtLeast(t)
}

// RecommendationSnapshot is the serialized form of a Recommendation.
type RecommendationSnapshot struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	Steps             []StepRecommendation `json:"stepRecommendations"`
	Alternatives      []string             `json:"alternatives,omitempty"`
	Confidence        ConfidenceScore      `json:"confidence"`
	Reasoning         string               `json:"reasoning,omitempty"`
	EstimatedDuration int                  `json:"estimatedDuration"`
	Complexity        Complexity           `json:"complexity"`
	Sources           []string             `json:"sources,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
}

func (r *Recommendation) Snapshot() RecommendationSnapshot {
	return RecommendationSnapshot{
		ID:                r.id,
		Name:              r.name,
		Description:       r.description,
		Steps:             r.Steps(),
		Alternatives:      r.Alternatives(),
		Confidence:        r.confidence,
		Reasoning:         r.reasoning,
		EstimatedDuration: r.estimatedDuration,
		Complexity:        r.complexity,
		Sources:           r.Sources(),
		CreatedAt:         r.createdAt,
	}
}

func (r *Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var sn RecommendationSnapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return err
	}
	restored, err := RecommendationFromSnapshot(sn)
	if err != nil {
		return err
	}
	*r = *restored
	return nil
}

// RecommendationFromSnapshot rebuilds the plan through the validating
// constructor so graph invariants hold on every deserialization path.
func RecommendationFromSnapshot(sn RecommendationSnapshot) (*Recommendation, error) {
	return NewRecommendation(RecommendationParams{
		ID:                sn.ID,
		Name:              sn.Name,
		Description:       sn.Description,
		Steps:             sn.Steps,
		Alternatives:      sn.Alternatives,
		Confidence:        sn.Confidence,
		Reasoning:         sn.Reasoning,
		EstimatedDuration: sn.EstimatedDuration,
		Complexity:        sn.Complexity,
		Sources:           sn.Sources,
		CreatedAt:         sn.CreatedAt,
	})
}
