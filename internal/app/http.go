package app

import (
	"github.com/gin-gonic/gin"

	"github.com/toshikazuyokoi/process-interview-backend/internal/http"
	httpH "github.com/toshikazuyokoi/process-interview-backend/internal/http/handlers"
	httpMW "github.com/toshikazuyokoi/process-interview-backend/internal/http/middleware"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Session   *httpH.SessionHandler
	Realtime  *httpH.RealtimeHandler
	Knowledge *httpH.KnowledgeHandler
	Feedback  *httpH.FeedbackHandler
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireHandlers(log *logger.Logger, services Services, rooms *realtime.RoomManager) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Session:   httpH.NewSessionHandler(services.Interview, services.Recommendation),
		Realtime:  httpH.NewRealtimeHandler(log, rooms),
		Knowledge: httpH.NewKnowledgeHandler(services.Knowledge),
		Feedback:  httpH.NewFeedbackHandler(services.Feedback),
	}
}

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		HealthHandler:    handlers.Health,
		AuthMiddleware:   middleware.Auth,
		SessionHandler:   handlers.Session,
		RealtimeHandler:  handlers.Realtime,
		KnowledgeHandler: handlers.Knowledge,
		FeedbackHandler:  handlers.Feedback,
	})
}
