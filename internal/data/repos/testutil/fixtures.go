package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
)

func SeedProcessType(tb testing.TB, ctx context.Context, tx *gorm.DB, name, category string) *types.ProcessType {
	tb.Helper()
	pt := &types.ProcessType{
		Name:     name,
		Category: category,
		Keywords: datatypes.JSON([]byte(`["onboarding"]`)),
	}
	if err := tx.WithContext(ctx).Create(pt).Error; err != nil {
		tb.Fatalf("seed process type: %v", err)
	}
	return pt
}

func SeedBestPractice(tb testing.TB, ctx context.Context, tx *gorm.DB, category string, confidence float64) *types.BestPractice {
	tb.Helper()
	bp := &types.BestPractice{
		Category:   category,
		Title:      "practice",
		Confidence: confidence,
		Source:     "curated",
		Tags:       datatypes.JSON([]byte(`[]`)),
	}
	if err := tx.WithContext(ctx).Create(bp).Error; err != nil {
		tb.Fatalf("seed best practice: %v", err)
	}
	return bp
}

func SeedIndustryTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, industry string) *types.IndustryTemplate {
	tb.Helper()
	it := &types.IndustryTemplate{
		Industry:              industry,
		Name:                  industry + " baseline",
		Complexity:            "medium",
		EstimatedDurationDays: 14,
		Steps:                 datatypes.JSON([]byte(`[]`)),
		Confidence:            0.8,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed industry template: %v", err)
	}
	return it
}

func SeedFeedback(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID string, userID int64, typ types.FeedbackType, rating, priority int) *types.Feedback {
	tb.Helper()
	fb := &types.Feedback{
		SessionID:   sessionID,
		UserID:      userID,
		Type:        typ,
		Rating:      rating,
		Priority:    priority,
		SubmittedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(fb).Error; err != nil {
		tb.Fatalf("seed feedback: %v", err)
	}
	return fb
}
