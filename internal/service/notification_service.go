package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/moricehq/morice-backend/internal/goroutine"
	"github.com/moricehq/morice-backend/internal/logger"
	"github.com/moricehq/morice-backend/internal/models"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationPusher доставляет событие в открытые подключения пользователя
// (WebSocket hub).
type NotificationPusher interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// NotificationService - диспетчер уведомлений жизненного цикла и CRUD для
// центра уведомлений. Доставка симулируется: e-mail всегда, WhatsApp - только
// если у владельца дела указан телефон.
type NotificationService struct {
	repo   NotificationRepository
	pusher NotificationPusher
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationRepository, pusher NotificationPusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// notificationPayload - полезная нагрузка, сохраняемая и отправляемая клиенту.
type notificationPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CaseID      string `json:"case_id"`
	CaseShortID string `json:"case_short_id"`
}

// Dispatch отправляет уведомление о событии дела. Fire-and-forget: выполняется
// в безопасной горутине, ошибки только логируются и никогда не доходят до
// вызвавшего перехода.
func (s *NotificationService) Dispatch(ctx context.Context, kind string, user *models.User, c *models.Case) {
	goroutine.SafeGo(func() {
		payload := buildPayload(kind, c)

		s.deliver(ctx, kind, models.NotificationChannelEmail, user, c, payload)
		if user.HasPhone() {
			s.deliver(ctx, kind, models.NotificationChannelWhatsApp, user, c, payload)
		}

		if s.pusher != nil {
			if err := s.pusher.BroadcastToUser(user.ID, kind, payload); err != nil {
				logger.Log.Errorf("notification service: push не доставлен: %v", err)
			}
		}
	})
}

// deliver сохраняет уведомление и пишет в лог симулированную доставку.
func (s *NotificationService) deliver(ctx context.Context, kind, channel string, user *models.User, c *models.Case, payload notificationPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("notification service: marshal payload: %v", err)
		return
	}

	caseID := c.ID
	notification := &models.Notification{
		UserID:  user.ID,
		CaseID:  &caseID,
		Kind:    kind,
		Channel: channel,
		Payload: raw,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		logger.Log.Errorf("notification service: уведомление не сохранено: %v", err)
		// Доставку всё равно симулируем: хранилище не является частью контракта.
	}

	recipient := user.Email
	if channel == models.NotificationChannelWhatsApp && user.Phone != nil {
		recipient = *user.Phone
	}

	logger.Log.WithFields(logrus.Fields{
		"kind":      kind,
		"channel":   channel,
		"recipient": recipient,
		"case_id":   c.ID.String(),
	}).Infof("notification (simulation): %s", payload.Description)
}

// buildPayload формирует пользовательский текст уведомления на французском.
func buildPayload(kind string, c *models.Case) notificationPayload {
	p := notificationPayload{
		CaseID:      c.ID.String(),
		CaseShortID: c.ShortID(),
	}

	switch kind {
	case models.NotificationKindSubmissionConfirmed:
		p.Title = "Dossier soumis avec succès"
		p.Description = fmt.Sprintf("Confirmation de soumission envoyée pour le dossier #%s.", c.ShortID())
	case models.NotificationKindAnalysisReady:
		p.Title = "Analyse des documents terminée"
		p.Description = fmt.Sprintf("Analyse initiale terminée pour le dossier #%s. Des questions de clarification sont disponibles.", c.ShortID())
	case models.NotificationKindFinalReportReady:
		p.Title = "Analyse finale terminée !"
		p.Description = fmt.Sprintf("Rapport final disponible pour le dossier #%s.", c.ShortID())
	default:
		p.Title = "Mise à jour du dossier"
		p.Description = fmt.Sprintf("Mise à jour du dossier #%s.", c.ShortID())
	}

	return p
}

// ListNotifications возвращает уведомления пользователя.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление как прочитанное.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
