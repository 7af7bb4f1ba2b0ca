// Package domain re-exports the persisted model types so the data layer and
// migrations can refer to one namespace.
package domain

import (
	"github.com/toshikazuyokoi/process-interview-backend/internal/domain/feedback"
	"github.com/toshikazuyokoi/process-interview-backend/internal/domain/knowledge"
)

type (
	ProcessType      = knowledge.ProcessType
	BestPractice     = knowledge.BestPractice
	IndustryTemplate = knowledge.IndustryTemplate

	Feedback     = feedback.Feedback
	FeedbackType = feedback.FeedbackType
)
