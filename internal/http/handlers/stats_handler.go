package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moricehq/morice-backend/internal/dto"
	"github.com/moricehq/morice-backend/internal/http/handlers/common"
	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/repository"
	"github.com/moricehq/morice-backend/internal/service"
)

// StatsHandler отвечает за агрегаты дашборда.
type StatsHandler struct {
	cases         *repository.CaseRepository
	notifications *service.NotificationService
}

// NewStatsHandler создаёт хэндлер.
func NewStatsHandler(cases *repository.CaseRepository, notifications *service.NotificationService) *StatsHandler {
	return &StatsHandler{cases: cases, notifications: notifications}
}

// GetMyStats обрабатывает GET /stats.
func (h *StatsHandler) GetMyStats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	byStatus, err := h.cases.CountByStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de charger les statistiques"})
		return
	}

	total := 0
	for _, count := range byStatus {
		total += count
	}
	completed := byStatus[models.CaseStatusCompleted]

	unread, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		unread = 0
	}

	c.JSON(http.StatusOK, dto.DashboardStatsResponse{
		TotalCases:     total,
		ActiveCases:    total - completed,
		CompletedCases: completed,
		ByStatus:       byStatus,
		UnreadCount:    unread,
	})
}
