package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Статусы дела. Машина состояний строго линейная:
// submitted -> analysis_ready -> final_analysis -> completed.
const (
	CaseStatusSubmitted     = "submitted"
	CaseStatusAnalysisReady = "analysis_ready"
	CaseStatusFinalAnalysis = "final_analysis"
	CaseStatusCompleted     = "completed"
)

// Статусы шага таймлайна.
const (
	TimelineStatusPending   = "pending"
	TimelineStatusCurrent   = "current"
	TimelineStatusCompleted = "completed"
)

// Четыре фиксированных шага таймлайна, порядок не меняется.
const (
	TimelineStepSubmitted     = "Dossier soumis"
	TimelineStepDocAnalysis   = "Analyse des documents"
	TimelineStepClarification = "Questions de clarification"
	TimelineStepFinalAnalysis = "Analyse finale"
)

// Типы вопросов уточнения.
const (
	QuestionTypeBoolean = "boolean"
	QuestionTypeChoice  = "choice"
)

// Case описывает дело арбитража, центральную сущность платформы.
// Поля timeline, questions и documents хранятся в jsonb и всегда
// перезаписываются целиком вместе с остальной записью.
type Case struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	CaseType    string          `db:"case_type" json:"case_type"`
	Description string          `db:"description" json:"description"`
	Amount      *float64        `db:"amount" json:"amount,omitempty"`
	Plaintiff   string          `db:"plaintiff" json:"plaintiff"`
	Defendant   string          `db:"defendant" json:"defendant"`
	Status      string          `db:"status" json:"status"`
	Timeline    Timeline        `db:"timeline" json:"timeline"`
	Questions   QuestionSet     `db:"questions" json:"questions"`
	Documents   DocumentRefList `db:"documents" json:"documents"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ShortID возвращает усечённый идентификатор для отображения (последние 6 символов).
func (c *Case) ShortID() string {
	s := c.ID.String()
	return s[len(s)-6:]
}

// TimelineEntry описывает один шаг человекочитаемого таймлайна.
type TimelineEntry struct {
	Step        string     `json:"step"`
	Status      string     `json:"status"`
	Timestamp   *time.Time `json:"timestamp"`
	Description string     `json:"description"`
}

// Timeline хранит фиксированные четыре шага в фиксированном порядке.
// Записи мутируются на месте и никогда не переупорядочиваются.
type Timeline []TimelineEntry

// Complete помечает шаг завершённым с отметкой времени.
func (t Timeline) Complete(idx int, ts time.Time) {
	if idx < 0 || idx >= len(t) {
		return
	}
	t[idx].Status = TimelineStatusCompleted
	t[idx].Timestamp = &ts
}

// SetCurrent помечает шаг текущим.
func (t Timeline) SetCurrent(idx int) {
	if idx < 0 || idx >= len(t) {
		return
	}
	t[idx].Status = TimelineStatusCurrent
}

// CurrentIndex возвращает индекс текущего шага или -1.
func (t Timeline) CurrentIndex() int {
	for i := range t {
		if t[i].Status == TimelineStatusCurrent {
			return i
		}
	}
	return -1
}

// Question описывает один уточняющий вопрос дела.
// Answer равен nil, пока пользователь не ответил; повторный ответ перезаписывает значение.
type Question struct {
	ID      int             `json:"id"`
	Text    string          `json:"question"`
	Type    string          `json:"type"`
	Options []string        `json:"options,omitempty"`
	Answer  json.RawMessage `json:"answer"`
}

// Answered сообщает, дан ли ответ на вопрос.
func (q *Question) Answered() bool {
	return len(q.Answer) > 0 && string(q.Answer) != "null"
}

// QuestionSet - упорядоченный набор вопросов дела.
type QuestionSet []Question

// AllAnswered возвращает true, если набор непустой и на каждый вопрос дан ответ.
func (qs QuestionSet) AllAnswered() bool {
	if len(qs) == 0 {
		return false
	}
	for i := range qs {
		if !qs[i].Answered() {
			return false
		}
	}
	return true
}

// DocumentRef - непрозрачная ссылка на загруженный документ; движок жизненного
// цикла документы не обрабатывает.
type DocumentRef struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
}

// DocumentRefList - список ссылок на документы дела.
type DocumentRefList []DocumentRef

// Реализации sql.Scanner / driver.Valuer для jsonb колонок.

func (t Timeline) Value() (driver.Value, error)  { return json.Marshal(t) }
func (t *Timeline) Scan(src interface{}) error   { return scanJSON(src, t) }
func (qs QuestionSet) Value() (driver.Value, error) { return json.Marshal(qs) }
func (qs *QuestionSet) Scan(src interface{}) error  { return scanJSON(src, qs) }
func (d DocumentRefList) Value() (driver.Value, error) { return json.Marshal(d) }
func (d *DocumentRefList) Scan(src interface{}) error  { return scanJSON(src, d) }

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("models: неподдерживаемый тип jsonb колонки %T", src)
	}
}
