package repos

import (
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos/feedback"
	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos/knowledge"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

type SessionRepo = interview.SessionRepo
type SessionRecord = interview.SessionRecord

type BestPracticeRepo = knowledge.BestPracticeRepo
type BestPracticeFilter = knowledge.BestPracticeFilter
type ConfidenceUpdate = knowledge.ConfidenceUpdate
type IndustryTemplateRepo = knowledge.IndustryTemplateRepo
type ProcessTypeRepo = knowledge.ProcessTypeRepo

type FeedbackRepo = feedback.FeedbackRepo

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return interview.NewSessionRepo(db, baseLog)
}

func NewBestPracticeRepo(db *gorm.DB, baseLog *logger.Logger) BestPracticeRepo {
	return knowledge.NewBestPracticeRepo(db, baseLog)
}
func NewIndustryTemplateRepo(db *gorm.DB, baseLog *logger.Logger) IndustryTemplateRepo {
	return knowledge.NewIndustryTemplateRepo(db, baseLog)
}
func NewProcessTypeRepo(db *gorm.DB, baseLog *logger.Logger) ProcessTypeRepo {
	return knowledge.NewProcessTypeRepo(db, baseLog)
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return feedback.NewFeedbackRepo(db, baseLog)
}
