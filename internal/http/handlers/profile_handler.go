package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moricehq/morice-backend/internal/dto"
	"github.com/moricehq/morice-backend/internal/http/handlers/common"
	"github.com/moricehq/morice-backend/internal/service"
)

// ProfileHandler обслуживает маршруты профиля пользователя.
type ProfileHandler struct {
	auth *service.AuthService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

// GetMe обрабатывает GET /profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe обрабатывает PUT /profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		City:        req.City,
		Phone:       req.Phone,
		ProfileType: req.ProfileType,
		HasLawyer:   req.HasLawyer,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
