package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/toshikazuyokoi/process-interview-backend/internal/http/response"
	"github.com/toshikazuyokoi/process-interview-backend/internal/requestdata"
	"github.com/toshikazuyokoi/process-interview-backend/internal/services"
)

type FeedbackHandler struct {
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var in services.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.feedback.Submit(c.Request.Context(), userID, in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"feedback": row})
}

// GET /api/feedback/queue
func (h *FeedbackHandler) Queue(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}
	rows, err := h.feedback.Queue(c.Request.Context(), limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": rows})
}

// POST /api/feedback/:id/processed
func (h *FeedbackHandler) MarkProcessed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.feedback.MarkProcessed(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"processed": true})
}
