package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/dto"
	"github.com/moricehq/morice-backend/internal/http/handlers/common"
	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/pkg/apperror"
	"github.com/moricehq/morice-backend/internal/repository"
	"github.com/moricehq/morice-backend/internal/service"
)

// CaseHandler предоставляет HTTP слой движка жизненного цикла дел.
type CaseHandler struct {
	lifecycle *service.LifecycleService
}

// NewCaseHandler создаёт хэндлер.
func NewCaseHandler(lifecycle *service.LifecycleService) *CaseHandler {
	return &CaseHandler{lifecycle: lifecycle}
}

// SubmitCase обрабатывает POST /cases.
func (h *CaseHandler) SubmitCase(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.SubmitCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	documents := make(models.DocumentRefList, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de document invalide"})
			return
		}
		documents = append(documents, models.DocumentRef{ID: id})
	}

	created, err := h.lifecycle.SubmitCase(c.Request.Context(), userID, service.SubmitCaseInput{
		CaseType:    req.CaseType,
		Description: req.Description,
		Amount:      req.Amount,
		Plaintiff:   req.Plaintiff,
		Defendant:   req.Defendant,
		Documents:   documents,
	})
	if err != nil {
		writeCaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListCases обрабатывает GET /cases.
func (h *CaseHandler) ListCases(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	cases, err := h.lifecycle.ListCases(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les dossiers"})
		return
	}

	if cases == nil {
		cases = []models.Case{}
	}

	c.JSON(http.StatusOK, cases)
}

// GetCase обрабатывает GET /cases/:id.
func (h *CaseHandler) GetCase(c *gin.Context) {
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

	found, err := h.lifecycle.GetCase(c.Request.Context(), userID, caseID)
	if err != nil {
		writeCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// AnswerQuestion обрабатывает POST /cases/:id/answers.
func (h *CaseHandler) AnswerQuestion(c *gin.Context) {
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

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.lifecycle.RecordAnswer(c.Request.Context(), userID, caseID, req.QuestionID, req.Answer)
	if err != nil {
		writeCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// writeCaseError мапит ошибки движка на HTTP статусы.
func writeCaseError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}

	if errors.Is(err, repository.ErrCaseNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dossier introuvable"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne du serveur"})
}
