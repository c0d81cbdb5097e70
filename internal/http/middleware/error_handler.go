package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/moricehq/morice-backend/internal/logger"
	"github.com/moricehq/morice-backend/internal/pkg/apperror"
	"github.com/moricehq/morice-backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно: AppError отдаются с их
// кодом и статусом, ошибки-сентинели репозиториев мапятся на 404, остальное
// маскируется как внутренняя ошибка.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request error")
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}

		switch {
		case errors.Is(err, repository.ErrCaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "dossier introuvable"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "utilisateur introuvable"})
		case errors.Is(err, repository.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "document introuvable"})
		case errors.Is(err, repository.ErrSessionNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expirée"})
		default:
			message := "erreur interne du serveur"
			if msg := err.Error(); msg != "" && !containsInternalKeywords(msg) {
				message = msg
				c.JSON(http.StatusBadRequest, gin.H{"error": message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": message})
		}
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
