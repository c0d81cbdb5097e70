package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/http/handlers/common"
	"github.com/moricehq/morice-backend/internal/service"
)

// ReportHandler отдаёт анализ дела и итоговый отчёт.
type ReportHandler struct {
	analysis *service.AnalysisService
}

// NewReportHandler создаёт хэндлер.
func NewReportHandler(analysis *service.AnalysisService) *ReportHandler {
	return &ReportHandler{analysis: analysis}
}

// GetAnalysis обрабатывает GET /cases/:id/analysis.
func (h *ReportHandler) GetAnalysis(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de dossier invalide"})
		return
	}

	analysis, err := h.analysis.GetAnalysis(c.Request.Context(), caseID, userID)
	if err != nil {
		writeCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetFinalReport обрабатывает GET /cases/:id/report.
func (h *ReportHandler) GetFinalReport(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de dossier invalide"})
		return
	}

	report, err := h.analysis.GetFinalReport(c.Request.Context(), caseID, userID)
	if err != nil {
		writeCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
