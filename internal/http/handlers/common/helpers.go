package common

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/http/middleware"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в контексте.
var ErrUserNotFound = errors.New("utilisateur absent du contexte")

// CurrentUserID извлекает userID из gin контекста.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// CurrentProfileType извлекает тип профиля пользователя из контекста.
func CurrentProfileType(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextProfileTypeKey)
	if !exists {
		return "", ErrUserNotFound
	}

	profileType, ok := raw.(string)
	if !ok {
		return "", ErrUserNotFound
	}

	return profileType, nil
}

// ParseIntQuery читает целочисленный query параметр с значением по умолчанию.
func ParseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
