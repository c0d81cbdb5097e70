package dto

import (
	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/service"
)

// AuthResponse - ответ регистрации, входа и обновления токенов.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// NewAuthResponse собирает AuthResponse из результата сервиса.
func NewAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:   result.User,
		Tokens: result.TokenPair,
	}
}

// ChatMessageResponse - ответ ассистента.
type ChatMessageResponse struct {
	Reply string `json:"reply"`
}

// DashboardStatsResponse - агрегаты для дашборда пользователя.
type DashboardStatsResponse struct {
	TotalCases     int            `json:"total_cases"`
	ActiveCases    int            `json:"active_cases"`
	CompletedCases int            `json:"completed_cases"`
	ByStatus       map[string]int `json:"by_status"`
	UnreadCount    int            `json:"unread_notifications"`
}
