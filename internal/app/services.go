package app

import (
	"gorm.io/gorm"

	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime/bus"
	"github.com/toshikazuyokoi/process-interview-backend/internal/services"
)

type Services struct {
	Interview      services.InterviewService
	Recommendation services.RecommendationService
	Knowledge      services.KnowledgeService
	Feedback       services.FeedbackService

	Notifier services.SessionNotifier
	Bus      bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, rooms *realtime.RoomManager) (Services, error) {
	log.Info("Wiring services...")

	var b bus.Bus
	if cfg.RedisEnabled {
		rb, err := bus.NewRedisBus(log)
		if err != nil {
			return Services{}, err
		}
		b = rb
	}

	notifier := services.NewSessionNotifier(log, rooms, b)
	interview := services.NewInterviewService(db, log, repos.Session, notifier)
	recommendation := services.NewRecommendationService(db, log, repos.Session, repos.BestPractice, repos.IndustryTemplate)
	knowledge := services.NewKnowledgeService(db, log, repos.BestPractice, repos.IndustryTemplate, repos.ProcessType)
	feedback := services.NewFeedbackService(db, log, repos.Feedback, repos.Session)

	return Services{
		Interview:      interview,
		Recommendation: recommendation,
		Knowledge:      knowledge,
		Feedback:       feedback,
		Notifier:       notifier,
		Bus:            b,
	}, nil
}
