package router

import (
	"github.com/gin-gonic/gin"

	"github.com/moricehq/morice-backend/internal/config"
	"github.com/moricehq/morice-backend/internal/http/handlers"
	"github.com/moricehq/morice-backend/internal/http/middleware"
	"github.com/moricehq/morice-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	caseHandler *handlers.CaseHandler,
	documentHandler *handlers.DocumentHandler,
	reportHandler *handlers.ReportHandler,
	notificationHandler *handlers.NotificationHandler,
	chatbotHandler *handlers.ChatbotHandler,
	paymentHandler *handlers.PaymentHandler,
	statsHandler *handlers.StatsHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/chatbot/greeting", chatbotHandler.Greeting)
	api.POST("/chatbot/messages", chatbotHandler.Message)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateMe)

		protected.POST("/cases", caseHandler.SubmitCase)
		protected.GET("/cases", caseHandler.ListCases)
		protected.GET("/cases/:id", middleware.UUIDValidator("id"), caseHandler.GetCase)
		protected.POST("/cases/:id/answers", middleware.UUIDValidator("id"), caseHandler.AnswerQuestion)
		protected.GET("/cases/:id/analysis", middleware.UUIDValidator("id"), reportHandler.GetAnalysis)
		protected.GET("/cases/:id/report", middleware.UUIDValidator("id"), reportHandler.GetFinalReport)

		protected.POST("/documents", documentHandler.Upload)
		protected.POST("/documents/:id/scan", middleware.UUIDValidator("id"), documentHandler.Scan)
		protected.DELETE("/documents/:id", middleware.UUIDValidator("id"), documentHandler.Delete)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		protected.POST("/payments/processing-fee", paymentHandler.ConfirmFee)

		protected.GET("/stats", statsHandler.GetMyStats)
	}

	return r
}
