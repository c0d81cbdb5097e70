package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/logger"
	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/pkg/apperror"
	"github.com/moricehq/morice-backend/internal/validation"
)

// CaseStore описывает взаимодействие движка с хранилищем дел.
// Upsert всегда перезаписывает запись целиком.
type CaseStore interface {
	Upsert(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error)
	LoadByUser(ctx context.Context, userID uuid.UUID) ([]models.Case, error)
	LoadAll(ctx context.Context) ([]models.Case, error)
}

// UserProvider отдаёт владельца дела для резолва каналов уведомлений.
type UserProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier - fire-and-forget отправка уведомлений о событиях жизненного цикла.
// Ошибка доставки никогда не проваливает переход.
type Notifier interface {
	Dispatch(ctx context.Context, kind string, user *models.User, c *models.Case)
}

// SubmitCaseInput содержит данные формы подачи дела.
type SubmitCaseInput struct {
	CaseType    string
	Description string
	Amount      *float64
	Plaintiff   string
	Defendant   string
	Documents   models.DocumentRefList
}

// LifecycleService - движок жизненного цикла дела. Единственный владелец
// записи в поля status и timeline. Дело движется строго линейно:
// submitted -> analysis_ready -> final_analysis -> completed; два перехода
// срабатывают по таймеру (симуляция фоновой обработки), переход в
// final_analysis - когда отвечен последний уточняющий вопрос.
type LifecycleService struct {
	store     CaseStore
	users     UserProvider
	notifier  Notifier
	scheduler Scheduler

	analysisDelay time.Duration
	reportDelay   time.Duration

	// baseCtx живёт дольше любого HTTP-запроса: callbacks таймеров и
	// уведомления не должны умирать вместе с контекстом запроса.
	baseCtx context.Context

	// Пер-кейсовые мьютексы: одновременные ответы на вопросы и срабатывание
	// таймера не должны нарушить инвариант "ровно один current шаг".
	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	// Отложенные переходы, отменяемые при остановке сервиса.
	pendingMu sync.Mutex
	pending   map[uuid.UUID]func()
	closed    bool
}

// NewLifecycleService создаёт движок жизненного цикла.
func NewLifecycleService(ctx context.Context, store CaseStore, users UserProvider, notifier Notifier, scheduler Scheduler, analysisDelay, reportDelay time.Duration) *LifecycleService {
	if analysisDelay <= 0 {
		analysisDelay = 3 * time.Second
	}
	if reportDelay <= 0 {
		reportDelay = 3 * time.Second
	}

	return &LifecycleService{
		store:         store,
		users:         users,
		notifier:      notifier,
		scheduler:     scheduler,
		analysisDelay: analysisDelay,
		reportDelay:   reportDelay,
		baseCtx:       ctx,
		locks:         make(map[uuid.UUID]*sync.Mutex),
		pending:       make(map[uuid.UUID]func()),
	}
}

// SubmitCase валидирует форму, создаёт дело в статусе submitted с полностью
// заполненным таймлайном и вопросами, фиксирует его в хранилище и планирует
// завершение анализа документов.
func (s *LifecycleService) SubmitCase(ctx context.Context, userID uuid.UUID, in SubmitCaseInput) (*models.Case, error) {
	if err := validateSubmitInput(in); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &models.Case{
		ID:          uuid.New(),
		UserID:      userID,
		CaseType:    in.CaseType,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Plaintiff:   strings.TrimSpace(in.Plaintiff),
		Defendant:   strings.TrimSpace(in.Defendant),
		Status:      models.CaseStatusSubmitted,
		Timeline:    seedTimeline(now),
		Questions:   defaultQuestions(),
		Documents:   in.Documents,
		CreatedAt:   now,
	}
	if c.Documents == nil {
		c.Documents = models.DocumentRefList{}
	}

	if err := s.store.Upsert(ctx, c); err != nil {
		return nil, err
	}

	s.dispatch(models.NotificationKindSubmissionConfirmed, c)
	s.scheduleTransition(c.ID, s.analysisDelay, s.completeDocumentAnalysis)

	logger.WithCase(c.ID.String()).Info("lifecycle: dossier soumis")
	return c, nil
}

// RecordAnswer записывает ответ на уточняющий вопрос и, если отвечены все
// вопросы, переводит дело из analysis_ready в final_analysis. Повторная
// проверка guard-а на уже продвинувшемся деле - no-op: переход не должен
// сработать дважды.
func (s *LifecycleService) RecordAnswer(ctx context.Context, userID, caseID uuid.UUID, questionID int, answer json.RawMessage) (*models.Case, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	c, err := s.loadOwnedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	ensureQuestions(c)
	if err := applyAnswer(c, questionID, answer); err != nil {
		return nil, err
	}

	advanced := false
	if c.Questions.AllAnswered() {
		switch c.Status {
		case models.CaseStatusAnalysisReady:
			if err := advanceToFinalAnalysis(c); err != nil {
				return nil, err
			}
			advanced = true
		case models.CaseStatusFinalAnalysis, models.CaseStatusCompleted:
			// Дубликат события "все вопросы отвечены": ответ сохраняем,
			// переход и уведомления не повторяем.
		case models.CaseStatusSubmitted:
			// Анализ документов ещё не завершён; таймер анализа сам
			// проверит guard после перехода в analysis_ready.
		}
	}

	if err := s.store.Upsert(ctx, c); err != nil {
		return nil, err
	}

	if advanced {
		s.scheduleTransition(c.ID, s.reportDelay, s.completeFinalAnalysis)
		logger.WithCase(c.ID.String()).Info("lifecycle: questions terminées, analyse finale lancée")
	}

	return c, nil
}

// GetCase возвращает дело пользователя, лениво дозаполняя набор вопросов
// у записей, сохранённых без него. Дозаполнение перезаписывает запись целиком,
// поэтому чтение и запись держат пер-кейсовый мьютекс: иначе Upsert со
// устаревшим снимком затёр бы переход, зафиксированный таймером между ними.
func (s *LifecycleService) GetCase(ctx context.Context, userID, caseID uuid.UUID) (*models.Case, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	c, err := s.loadOwnedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	if ensureQuestions(c) {
		if err := s.store.Upsert(ctx, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ListCases возвращает все дела пользователя.
func (s *LifecycleService) ListCases(ctx context.Context, userID uuid.UUID) ([]models.Case, error) {
	return s.store.LoadByUser(ctx, userID)
}

// Close отменяет все отложенные переходы. Новые дела после Close не
// планируются.
func (s *LifecycleService) Close() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	s.closed = true
	for id, cancel := range s.pending {
		cancel()
		delete(s.pending, id)
	}
}

// completeDocumentAnalysis - таймерный переход submitted -> analysis_ready.
// Срабатывает один раз, без повторов; дело перечитывается свежим, чтобы не
// затереть состояние, изменившееся между планированием и срабатыванием.
func (s *LifecycleService) completeDocumentAnalysis(caseID uuid.UUID) {
	unlock := s.lockCase(caseID)
	defer unlock()

	ctx := s.baseCtx
	c, err := s.store.GetByID(ctx, caseID)
	if err != nil {
		logger.WithCase(caseID.String()).Errorf("lifecycle: завершение анализа: дело не прочитано: %v", err)
		return
	}

	if c.Status != models.CaseStatusSubmitted {
		logger.WithCase(caseID.String()).Warnf("lifecycle: завершение анализа пропущено, статус уже %s", c.Status)
		return
	}

	now := time.Now()
	c.Timeline.Complete(1, now)
	c.Timeline.SetCurrent(2)
	c.Status = models.CaseStatusAnalysisReady

	if err := s.store.Upsert(ctx, c); err != nil {
		// Fire once, без ретраев и компенсаций: фиксация не удалась,
		// переход считается потерянным.
		logger.WithCase(caseID.String()).Errorf("lifecycle: завершение анализа: запись не зафиксирована: %v", err)
		return
	}

	s.dispatch(models.NotificationKindAnalysisReady, c)
	logger.WithCase(caseID.String()).Info("lifecycle: analyse des documents terminée")

	// Если пользователь успел ответить на все вопросы до завершения анализа,
	// другого события для проверки guard-а не будет - продвигаем сразу,
	// сохраняя порядок переходов.
	if c.Questions.AllAnswered() {
		if err := advanceToFinalAnalysis(c); err != nil {
			logger.WithCase(caseID.String()).Warnf("lifecycle: %v", err)
			return
		}
		if err := s.store.Upsert(ctx, c); err != nil {
			logger.WithCase(caseID.String()).Errorf("lifecycle: переход к финальному анализу не зафиксирован: %v", err)
			return
		}
		s.scheduleTransition(c.ID, s.reportDelay, s.completeFinalAnalysis)
	}
}

// completeFinalAnalysis - таймерный переход final_analysis -> completed.
func (s *LifecycleService) completeFinalAnalysis(caseID uuid.UUID) {
	unlock := s.lockCase(caseID)
	defer unlock()

	ctx := s.baseCtx
	c, err := s.store.GetByID(ctx, caseID)
	if err != nil {
		logger.WithCase(caseID.String()).Errorf("lifecycle: завершение отчёта: дело не прочитано: %v", err)
		return
	}

	if c.Status != models.CaseStatusFinalAnalysis {
		logger.WithCase(caseID.String()).Warnf("lifecycle: завершение отчёта пропущено, статус уже %s", c.Status)
		return
	}

	c.Timeline.Complete(3, time.Now())
	c.Status = models.CaseStatusCompleted

	if err := s.store.Upsert(ctx, c); err != nil {
		logger.WithCase(caseID.String()).Errorf("lifecycle: завершение отчёта: запись не зафиксирована: %v", err)
		return
	}

	s.dispatch(models.NotificationKindFinalReportReady, c)
	logger.WithCase(caseID.String()).Info("lifecycle: rapport final disponible")
}

// advanceToFinalAnalysis выполняет переход analysis_ready -> final_analysis
// в памяти. Вызывающая сторона держит пер-кейсовый мьютекс и фиксирует
// результат в хранилище.
func advanceToFinalAnalysis(c *models.Case) error {
	if c.Status != models.CaseStatusAnalysisReady {
		return apperror.New(apperror.ErrCodeInvalidState,
			"переход к финальному анализу возможен только из analysis_ready, текущий статус "+c.Status)
	}

	c.Timeline.Complete(2, time.Now())
	c.Timeline.SetCurrent(3)
	c.Status = models.CaseStatusFinalAnalysis
	return nil
}

// dispatch резолвит владельца дела и отправляет уведомление. Любая ошибка
// только логируется: уведомления не влияют на переходы.
func (s *LifecycleService) dispatch(kind string, c *models.Case) {
	user, err := s.users.GetByID(s.baseCtx, c.UserID)
	if err != nil {
		logger.WithCase(c.ID.String()).Errorf("lifecycle: владелец дела не найден для уведомления %s: %v", kind, err)
		return
	}

	s.notifier.Dispatch(s.baseCtx, kind, user, c)
}

// scheduleTransition планирует таймерный переход и запоминает отмену.
func (s *LifecycleService) scheduleTransition(caseID uuid.UUID, d time.Duration, fn func(uuid.UUID)) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if s.closed {
		return
	}

	cancel := s.scheduler.Schedule(d, func() {
		s.pendingMu.Lock()
		delete(s.pending, caseID)
		s.pendingMu.Unlock()

		fn(caseID)
	})
	s.pending[caseID] = cancel
}

// lockCase возвращает функцию разблокировки пер-кейсового мьютекса.
func (s *LifecycleService) lockCase(caseID uuid.UUID) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[caseID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[caseID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// loadOwnedCase читает дело и проверяет, что оно принадлежит пользователю.
func (s *LifecycleService) loadOwnedCase(ctx context.Context, userID, caseID uuid.UUID) (*models.Case, error) {
	c, err := s.store.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return c, nil
}

// validateSubmitInput проверяет обязательные поля формы подачи.
func validateSubmitInput(in SubmitCaseInput) error {
	if _, ok := models.ValidCaseTypes[in.CaseType]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "le type de litige est obligatoire")
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePartyName("le nom du demandeur", in.Plaintiff); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePartyName("le nom du défendeur", in.Defendant); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount(in.Amount); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if len(in.Documents) > validation.MaxDocumentsPerCase {
		return apperror.New(apperror.ErrCodeValidation, "trop de documents joints")
	}
	return nil
}

// seedTimeline возвращает четыре фиксированных шага: первый завершён в момент
// подачи, второй активен, остальные ожидают.
func seedTimeline(now time.Time) models.Timeline {
	return models.Timeline{
		{
			Step:        models.TimelineStepSubmitted,
			Status:      models.TimelineStatusCompleted,
			Timestamp:   &now,
			Description: "Votre dossier a été reçu et enregistré",
		},
		{
			Step:        models.TimelineStepDocAnalysis,
			Status:      models.TimelineStatusCurrent,
			Description: "Traitement automatique en cours",
		},
		{
			Step:        models.TimelineStepClarification,
			Status:      models.TimelineStatusPending,
			Description: "Questions personnalisées selon votre cas",
		},
		{
			Step:        models.TimelineStepFinalAnalysis,
			Status:      models.TimelineStatusPending,
			Description: "Génération de l'analyse et recommandations",
		},
	}
}
