package interview

import (
	"encoding/json"
	"strings"
	"testing"
)

func step(t *testing.T, id int, offset int, deps ...int) StepRecommendation {
	t.Helper()
	return StepRecommendation{
		ID:          id,
		Name:        "step",
		Description: "step",
		Basis:       BasisPrev,
		OffsetDays:  offset,
		Confidence:  mustScore(t, 0.8),
		DependsOn:   deps,
		Source:      SourceKnowledgeBase,
	}
}

func mustRecommendation(t *testing.T, steps ...StepRecommendation) *Recommendation {
	t.Helper()
	rec, err := NewRecommendation(RecommendationParams{
		ID:                "rec-1",
		Name:              "Plan",
		Steps:             steps,
		Confidence:        mustScore(t, 0.8),
		EstimatedDuration: 10,
		Complexity:        ComplexityMedium,
	})
	if err != nil {
		t.Fatalf("NewRecommendation: %v", err)
	}
	return rec
}

func TestRecommendationRequiresSteps(t *testing.T) {
	_, err := NewRecommendation(RecommendationParams{
		ID:                "rec-1",
		Name:              "Plan",
		Confidence:        mustScore(t, 0.8),
		EstimatedDuration: 10,
		Complexity:        ComplexityMedium,
	})
	if err == nil {
		t.Fatalf("zero steps should fail")
	}
}

func TestRecommendationRejectsDanglingDependency(t *testing.T) {
	_, err := NewRecommendation(RecommendationParams{
		ID:                "rec-1",
		Name:              "Plan",
		Steps:             []StepRecommendation{step(t, 1, 2, 99)},
		Confidence:        mustScore(t, 0.8),
		EstimatedDuration: 10,
		Complexity:        ComplexityMedium,
	})
	if err == nil {
		t.Fatalf("dangling dependency should fail")
	}
}

func TestRecommendationRejectsSelfDependency(t *testing.T) {
	_, err := NewRecommendation(RecommendationParams{
		ID:                "rec-1",
		Name:              "Plan",
		Steps:             []StepRecommendation{step(t, 1, 2, 1)},
		Confidence:        mustScore(t, 0.8),
		EstimatedDuration: 10,
		Complexity:        ComplexityMedium,
	})
	if err == nil {
		t.Fatalf("self dependency should fail")
	}
}

func TestRecommendationDetectsCycle(t *testing.T) {
	_, err := NewRecommendation(RecommendationParams{
		ID:                "rec-1",
		Name:              "Plan",
		Steps:             []StepRecommendation{step(t, 1, 2, 2), step(t, 2, 3, 1)},
		Confidence:        mustScore(t, 0.8),
		EstimatedDuration: 10,
		Complexity:        ComplexityMedium,
	})
	if err == nil {
		t.Fatalf("cycle should fail construction")
	}
	if !strings.Contains(err.Error(), "Circular dependencies detected in step recommendations") {
		t.Fatalf("unexpected error message: %v", err)
	}
	if !IsCode(err, CodeGraphIntegrity) {
		t.Fatalf("cycle should carry graph integrity code, got %v", CodeOf(err))
	}
}

func TestRecommendationDetectsLongCycle(t *testing.T) {
	_, err := NewRecommendation(RecommendationParams{
		ID:   "rec-1",
		Name: "Plan",
		Steps: []StepRecommendation{
			step(t, 1, 1),
			step(t, 2, 1, 1, 4),
			step(t, 3, 1, 2),
			step(t, 4, 1, 3),
		},
		Confidence:        mustScore(t, 0.8),
		EstimatedDuration: 10,
		Complexity:        ComplexityMedium,
	})
	if err == nil {
		t.Fatalf("indirect cycle should fail construction")
	}
}

func TestCriticalPath(t *testing.T) {
	// A(offset=2), B(offset=3, deps=[A]), C(offset=1, deps=[A]) → [A, B], length 5.
	a := step(t, 1, 2)
	b := step(t, 2, 3, 1)
	c := step(t, 3, 1, 1)
	rec := mustRecommendation(t, a, b, c)

	path := rec.CriticalPath()
	if len(path) != 2 {
		t.Fatalf("want path of 2 steps, got %d", len(path))
	}
	if path[0].ID != 1 || path[1].ID != 2 {
		t.Fatalf("want [A,B] = [1,2], got [%d,%d]", path[0].ID, path[1].ID)
	}
	if got := rec.CriticalPathLength(); got != 5 {
		t.Fatalf("want length 5, got %d", got)
	}
}

func TestCriticalPathDeepChain(t *testing.T) {
	// Chain long enough that a recursive traversal would be risky on
	// pathological inputs; the iterative walk must handle it.
	const n = 20000
	steps := make([]StepRecommendation, 0, n)
	steps = append(steps, step(t, 1, 1))
	for i := 2; i <= n; i++ {
		steps = append(steps, step(t, i, 1, i-1))
	}
	rec := mustRecommendation(t, steps...)
	if got := rec.CriticalPathLength(); got != n {
		t.Fatalf("want length %d, got %d", n, got)
	}
	path := rec.CriticalPath()
	if len(path) != n {
		t.Fatalf("want full chain, got %d steps", len(path))
	}
	if path[0].ID != 1 || path[n-1].ID != n {
		t.Fatalf("path must be topologically ordered")
	}
}

func TestRecommendationAggregations(t *testing.T) {
	a := step(t, 1, 2)
	a.EstimatedHours = 4
	a.SkillsRequired = []string{"analysis", "writing"}
	a.Risks = []string{"scope creep"}
	b := step(t, 2, 3, 1)
	b.EstimatedHours = 6
	b.SkillsRequired = []string{"writing", "review"}
	b.Risks = []string{"scope creep", "delay"}
	rec := mustRecommendation(t, a, b)

	if got := rec.TotalEstimatedHours(); got != 10 {
		t.Fatalf("want 10 hours, got %v", got)
	}
	skills := rec.UniqueSkills()
	if len(skills) != 3 {
		t.Fatalf("want 3 unique skills, got %v", skills)
	}
	risks := rec.AllRisks()
	if len(risks) != 3 {
		t.Fatalf("duplicate risks must be retained, got %v", risks)
	}
}

func TestHasHighConfidence(t *testing.T) {
	rec := mustRecommendation(t, step(t, 1, 1))
	if !rec.HasHighConfidence() {
		t.Fatalf("0.8 should clear the default 0.7 threshold")
	}
	if rec.HasHighConfidence(0.9) {
		t.Fatalf("0.8 should not clear 0.9")
	}
}

func TestRecommendationSnapshotRoundTrip(t *testing.T) {
	rec := mustRecommendation(t, step(t, 1, 2), step(t, 2, 3, 1))
	restored, err := RecommendationFromSnapshot(rec.Snapshot())
	if err != nil {
		t.Fatalf("RecommendationFromSnapshot: %v", err)
	}
	if restored.ID() != rec.ID() || len(restored.Steps()) != 2 {
		t.Fatalf("snapshot round trip lost data")
	}
	if restored.CriticalPathLength() != rec.CriticalPathLength() {
		t.Fatalf("snapshot round trip changed the graph")
	}
}

func TestUnmarshalResetsPathMemo(t *testing.T) {
	rec := mustRecommendation(t, step(t, 1, 2), step(t, 2, 3, 1))
	if got := rec.CriticalPathLength(); got != 5 {
		t.Fatalf("want length 5, got %d", got)
	}

	longer := mustRecommendation(t, step(t, 1, 4), step(t, 2, 4, 1), step(t, 3, 4, 2))
	raw, err := json.Marshal(longer)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := rec.CriticalPathLength(); got != 12 {
		t.Fatalf("stale path memo after unmarshal: got %d, want 12", got)
	}
}
