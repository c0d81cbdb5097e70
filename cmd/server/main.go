package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/moricehq/morice-backend/internal/config"
	"github.com/moricehq/morice-backend/internal/db"
	"github.com/moricehq/morice-backend/internal/goroutine"
	httpHandlers "github.com/moricehq/morice-backend/internal/http/handlers"
	httpRouter "github.com/moricehq/morice-backend/internal/http/router"
	"github.com/moricehq/morice-backend/internal/logger"
	"github.com/moricehq/morice-backend/internal/repository"
	"github.com/moricehq/morice-backend/internal/service"
	"github.com/moricehq/morice-backend/internal/storage"
	"github.com/moricehq/morice-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	documentStorage, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	caseRepo := repository.NewCaseRepository(dbConn)
	documentRepo := repository.NewDocumentRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)

	// Периодическая чистка просроченных сессий.
	goroutine.SafeGo(func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := authService.PurgeExpiredSessions(ctx); err != nil {
					log.Printf("main: чистка просроченных сессий не удалась: %v", err)
				}
			}
		}
	})
	notificationService := service.NewNotificationService(notificationRepo, hub)
	lifecycleService := service.NewLifecycleService(ctx, caseRepo, userRepo, notificationService,
		service.NewTimerScheduler(), cfg.AnalysisDelay, cfg.ReportDelay)
	defer lifecycleService.Close()
	analysisService := service.NewAnalysisService(lifecycleService)
	chatbotService := service.NewChatbotService()
	paymentService := service.NewPaymentService()

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(authService)
	caseHandler := httpHandlers.NewCaseHandler(lifecycleService)
	documentHandler := httpHandlers.NewDocumentHandler(documentRepo, documentStorage)
	reportHandler := httpHandlers.NewReportHandler(analysisService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	chatbotHandler := httpHandlers.NewChatbotHandler(chatbotService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	statsHandler := httpHandlers.NewStatsHandler(caseRepo, notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, profileHandler, caseHandler, documentHandler,
		reportHandler, notificationHandler, chatbotHandler, paymentHandler, statsHandler, wsHandler,
		healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
