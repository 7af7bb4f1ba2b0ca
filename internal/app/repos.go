package app

import (
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
)

type Repos struct {
	Session          repos.SessionRepo
	BestPractice     repos.BestPracticeRepo
	IndustryTemplate repos.IndustryTemplateRepo
	ProcessType      repos.ProcessTypeRepo
	Feedback         repos.FeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Session:          repos.NewSessionRepo(db, log),
		BestPractice:     repos.NewBestPracticeRepo(db, log),
		IndustryTemplate: repos.NewIndustryTemplateRepo(db, log),
		ProcessType:      repos.NewProcessTypeRepo(db, log),
		Feedback:         repos.NewFeedbackRepo(db, log),
	}
}
