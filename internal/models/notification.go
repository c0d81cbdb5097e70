package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Виды уведомлений жизненного цикла дела.
const (
	NotificationKindSubmissionConfirmed = "submission-confirmed"
	NotificationKindAnalysisReady       = "analysis-ready"
	NotificationKindFinalReportReady    = "final-report-ready"
)

// Каналы доставки (симуляция).
const (
	NotificationChannelEmail    = "email"
	NotificationChannelWhatsApp = "whatsapp"
)

// Notification описывает одно пользовательское уведомление о событии дела.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	CaseID    *uuid.UUID      `db:"case_id" json:"case_id,omitempty"`
	Kind      string          `db:"kind" json:"kind"`
	Channel   string          `db:"channel" json:"channel"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
