package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/toshikazuyokoi/process-interview-backend/internal/http/handlers"
	httpMW "github.com/toshikazuyokoi/process-interview-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware

	SessionHandler   *httpH.SessionHandler
	RealtimeHandler  *httpH.RealtimeHandler
	KnowledgeHandler *httpH.KnowledgeHandler
	FeedbackHandler  *httpH.FeedbackHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("process-interview-backend"))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Interview sessions
		if cfg.SessionHandler != nil {
			protected.POST("/sessions", cfg.SessionHandler.Start)
			protected.GET("/sessions/:id", cfg.SessionHandler.Get)
			protected.DELETE("/sessions/:id", cfg.SessionHandler.Delete)
			protected.GET("/sessions/:id/status", cfg.SessionHandler.Status)
			protected.POST("/sessions/:id/messages", cfg.SessionHandler.AddMessage)
			protected.POST("/sessions/:id/requirements", cfg.SessionHandler.AddRequirements)
			protected.PATCH("/sessions/:id/context", cfg.SessionHandler.UpdateContext)
			protected.POST("/sessions/:id/pause", cfg.SessionHandler.Pause)
			protected.POST("/sessions/:id/resume", cfg.SessionHandler.Resume)
			protected.POST("/sessions/:id/complete", cfg.SessionHandler.Complete)
			protected.POST("/sessions/:id/cancel", cfg.SessionHandler.Cancel)
			protected.POST("/sessions/:id/extend", cfg.SessionHandler.Extend)
			protected.POST("/sessions/:id/template", cfg.SessionHandler.GenerateTemplate)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sessions/:id/stream", cfg.RealtimeHandler.Stream)
			protected.POST("/sessions/:id/typing", cfg.RealtimeHandler.Typing)
		}

		// Knowledge base
		if cfg.KnowledgeHandler != nil {
			protected.GET("/knowledge/practices", cfg.KnowledgeHandler.ListBestPractices)
			protected.POST("/knowledge/practices", cfg.KnowledgeHandler.CreateBestPractice)
			protected.POST("/knowledge/practices/confidence", cfg.KnowledgeHandler.BulkUpdateConfidence)
			protected.GET("/knowledge/practices/:id", cfg.KnowledgeHandler.GetBestPractice)
			protected.PUT("/knowledge/practices/:id", cfg.KnowledgeHandler.UpdateBestPractice)
			protected.DELETE("/knowledge/practices/:id", cfg.KnowledgeHandler.DeleteBestPractice)
			protected.GET("/knowledge/templates", cfg.KnowledgeHandler.ListIndustryTemplates)
			protected.POST("/knowledge/templates", cfg.KnowledgeHandler.CreateIndustryTemplate)
			protected.GET("/knowledge/process-types", cfg.KnowledgeHandler.ListProcessTypes)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.POST("/feedback", cfg.FeedbackHandler.Submit)
			protected.GET("/feedback/queue", cfg.FeedbackHandler.Queue)
			protected.POST("/feedback/:id/processed", cfg.FeedbackHandler.MarkProcessed)
		}
	}

	return r
}
