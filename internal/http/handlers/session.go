package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	interview "github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
	"github.com/toshikazuyokoi/process-interview-backend/internal/http/response"
	"github.com/toshikazuyokoi/process-interview-backend/internal/requestdata"
	"github.com/toshikazuyokoi/process-interview-backend/internal/services"
)

type SessionHandler struct {
	interviews      services.InterviewService
	recommendations services.RecommendationService
}

func NewSessionHandler(interviews services.InterviewService, recommendations services.RecommendationService) *SessionHandler {
	return &SessionHandler{interviews: interviews, recommendations: recommendations}
}

// POST /api/sessions
func (h *SessionHandler) Start(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var req struct {
		Context map[string]any `json:"context"`
	}
	// An empty body is a valid way to start with no initial context.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	sess, err := h.interviews.Start(c.Request.Context(), userID, req.Context)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": sess})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	sess, err := h.interviews.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// POST /api/sessions/:id/messages
func (h *SessionHandler) AddMessage(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var in services.MessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sess, err := h.interviews.AddMessage(c.Request.Context(), c.Param("id"), userID, in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// POST /api/sessions/:id/requirements
func (h *SessionHandler) AddRequirements(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var req struct {
		Requirements []services.RequirementInput `json:"requirements"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sess, err := h.interviews.AddRequirements(c.Request.Context(), c.Param("id"), userID, req.Requirements)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// PATCH /api/sessions/:id/context
func (h *SessionHandler) UpdateContext(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var req struct {
		Context map[string]any `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sess, err := h.interviews.UpdateContext(c.Request.Context(), c.Param("id"), userID, req.Context)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

func (h *SessionHandler) transition(c *gin.Context, op func(ctx context.Context, sessionID string, userID int64) (*interview.Session, error)) {
	userID := requestdata.UserID(c.Request.Context())
	sess, err := op(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// POST /api/sessions/:id/pause
func (h *SessionHandler) Pause(c *gin.Context) {
	h.transition(c, h.interviews.Pause)
}

// POST /api/sessions/:id/resume
func (h *SessionHandler) Resume(c *gin.Context) {
	h.transition(c, h.interviews.Resume)
}

// POST /api/sessions/:id/complete
func (h *SessionHandler) Complete(c *gin.Context) {
	h.transition(c, h.interviews.Complete)
}

// POST /api/sessions/:id/cancel
func (h *SessionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.interviews.Cancel)
}

// POST /api/sessions/:id/extend
func (h *SessionHandler) Extend(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sess, err := h.interviews.Extend(c.Request.Context(), c.Param("id"), userID, req.Minutes)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": sess})
}

// DELETE /api/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if err := h.interviews.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/sessions/:id/status
func (h *SessionHandler) Status(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	status, err := h.interviews.SessionStatus(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessionId": c.Param("id"), "status": status})
}

// POST /api/sessions/:id/template
func (h *SessionHandler) GenerateTemplate(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	rec, err := h.recommendations.Generate(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"template": rec})
}
