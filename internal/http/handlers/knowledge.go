package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/toshikazuyokoi/process-interview-backend/internal/data/repos"
	types "github.com/toshikazuyokoi/process-interview-backend/internal/domain"
	"github.com/toshikazuyokoi/process-interview-backend/internal/http/response"
	"github.com/toshikazuyokoi/process-interview-backend/internal/services"
)

type KnowledgeHandler struct {
	knowledge services.KnowledgeService
}

func NewKnowledgeHandler(knowledge services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return 0, false
	}
	return id, true
}

// GET /api/knowledge/practices
func (h *KnowledgeHandler) ListBestPractices(c *gin.Context) {
	filter := repos.BestPracticeFilter{Category: c.Query("category")}
	if v := c.Query("minConfidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_min_confidence", err)
			return
		}
		filter.MinConfidence = f
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		filter.Limit = n
	}
	rows, err := h.knowledge.ListBestPractices(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bestPractices": rows})
}

// GET /api/knowledge/practices/:id
func (h *KnowledgeHandler) GetBestPractice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	row, err := h.knowledge.GetBestPractice(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bestPractice": row})
}

// POST /api/knowledge/practices
func (h *KnowledgeHandler) CreateBestPractice(c *gin.Context) {
	var row types.BestPractice
	if err := c.ShouldBindJSON(&row); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.knowledge.CreateBestPractice(c.Request.Context(), &row); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"bestPractice": row})
}

// PUT /api/knowledge/practices/:id
func (h *KnowledgeHandler) UpdateBestPractice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var row types.BestPractice
	if err := c.ShouldBindJSON(&row); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row.ID = id
	if err := h.knowledge.UpdateBestPractice(c.Request.Context(), &row); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bestPractice": row})
}

// DELETE /api/knowledge/practices/:id
func (h *KnowledgeHandler) DeleteBestPractice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.knowledge.DeleteBestPractice(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/knowledge/practices/confidence
func (h *KnowledgeHandler) BulkUpdateConfidence(c *gin.Context) {
	var req struct {
		Updates []repos.ConfidenceUpdate `json:"updates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := h.knowledge.BulkUpdateConfidence(c.Request.Context(), req.Updates)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": result.Updated, "failedIds": result.FailedIDs})
}

// GET /api/knowledge/templates
func (h *KnowledgeHandler) ListIndustryTemplates(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}
	rows, err := h.knowledge.ListIndustryTemplates(c.Request.Context(), c.Query("industry"), limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"industryTemplates": rows})
}

// POST /api/knowledge/templates
func (h *KnowledgeHandler) CreateIndustryTemplate(c *gin.Context) {
	var row types.IndustryTemplate
	if err := c.ShouldBindJSON(&row); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.knowledge.CreateIndustryTemplate(c.Request.Context(), &row); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"industryTemplate": row})
}

// GET /api/knowledge/process-types
func (h *KnowledgeHandler) ListProcessTypes(c *gin.Context) {
	rows, err := h.knowledge.ListProcessTypes(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"processTypes": rows})
}
