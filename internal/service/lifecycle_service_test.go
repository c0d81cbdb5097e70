package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/pkg/apperror"
)

// fakeScheduler копит отложенные задачи и срабатывает по команде теста.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	delay     time.Duration
	fn        func()
	fired     bool
	cancelled bool
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &fakeTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		task.cancelled = true
	}
}

// fireNext срабатывает самую раннюю несработавшую и неотменённую задачу.
func (s *fakeScheduler) fireNext(t *testing.T) {
	t.Helper()

	s.mu.Lock()
	var task *fakeTask
	for _, candidate := range s.tasks {
		if !candidate.fired && !candidate.cancelled {
			task = candidate
			break
		}
	}
	s.mu.Unlock()

	require.NotNil(t, task, "aucune tâche planifiée à déclencher")
	task.fired = true
	task.fn()
}

func (s *fakeScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.tasks {
		if !task.fired && !task.cancelled {
			n++
		}
	}
	return n
}

// memoryCaseStore хранит копии дел, как это делала бы база: мутации после
// Upsert не видны до следующей записи.
type memoryCaseStore struct {
	mu    sync.Mutex
	cases map[uuid.UUID]models.Case
}

func newMemoryCaseStore() *memoryCaseStore {
	return &memoryCaseStore{cases: make(map[uuid.UUID]models.Case)}
}

func (s *memoryCaseStore) Upsert(ctx context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.UpdatedAt = time.Now()
	s.cases[c.ID] = cloneCase(c)
	return nil
}

func (s *memoryCaseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cases[id]
	if !ok {
		return nil, apperror.ErrCaseNotFound
	}
	clone := cloneCase(&stored)
	return &clone, nil
}

func (s *memoryCaseStore) LoadByUser(ctx context.Context, userID uuid.UUID) ([]models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Case
	for _, stored := range s.cases {
		if stored.UserID == userID {
			out = append(out, cloneCase(&stored))
		}
	}
	return out, nil
}

func (s *memoryCaseStore) LoadAll(ctx context.Context) ([]models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Case
	for _, stored := range s.cases {
		out = append(out, cloneCase(&stored))
	}
	return out, nil
}

func cloneCase(c *models.Case) models.Case {
	clone := *c
	clone.Timeline = append(models.Timeline(nil), c.Timeline...)
	clone.Questions = append(models.QuestionSet(nil), c.Questions...)
	clone.Documents = append(models.DocumentRefList(nil), c.Documents...)
	return clone
}

// staticUserProvider всегда возвращает одного владельца.
type staticUserProvider struct {
	user *models.User
}

func (p *staticUserProvider) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return p.user, nil
}

// recordingNotifier запоминает порядок отправленных видов уведомлений.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *recordingNotifier) Dispatch(ctx context.Context, kind string, user *models.User, c *models.Case) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.kinds...)
}

type lifecycleFixture struct {
	svc       *LifecycleService
	store     *memoryCaseStore
	scheduler *fakeScheduler
	notifier  *recordingNotifier
	userID    uuid.UUID
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	userID := uuid.New()
	store := newMemoryCaseStore()
	scheduler := &fakeScheduler{}
	notifier := &recordingNotifier{}
	users := &staticUserProvider{user: &models.User{ID: userID, Email: "jean.tremblay@example.com"}}

	svc := NewLifecycleService(context.Background(), store, users, notifier, scheduler, 3*time.Second, 3*time.Second)
	t.Cleanup(svc.Close)

	return &lifecycleFixture{
		svc:       svc,
		store:     store,
		scheduler: scheduler,
		notifier:  notifier,
		userID:    userID,
	}
}

func validSubmitInput() SubmitCaseInput {
	amount := 2500.0
	return SubmitCaseInput{
		CaseType:    models.CaseTypeContract,
		Description: "Prestation de service livrée en retard et non conforme au contrat signé.",
		Amount:      &amount,
		Plaintiff:   "Jean Tremblay",
		Defendant:   "Construction Bélanger Inc.",
	}
}

/// checkTimelineInvariant проверяет структуру таймлайна: завершённые шаги
// строго в начале, не более одного текущего, остальные ожидают.
func checkTimelineInvariant(t *testing.T, timeline models.Timeline) {
	t.Helper()

	require.Len(t, timeline, 4)

	currentSeen := false
	pendingSeen := false
	for i, entry := range timeline {
		switch entry.Status {
		case models.TimelineStatusCompleted:
			assert.False(t, currentSeen || pendingSeen, "шаг %d завершён после незавершённого", i)
			assert.NotNil(t, entry.Timestamp, "завершённый шаг %d без отметки времени", i)
		case models.TimelineStatusCurrent:
			assert.False(t, currentSeen, "больше одного текущего шага")
			assert.False(t, pendingSeen, "текущий шаг после ожидающего")
			currentSeen = true
		case models.TimelineStatusPending:
			pendingSeen = true
		default:
			t.Fatalf("неизвестный статус шага: %q", entry.Status)
		}
	}
}

func TestLifecycleService_SubmitCase(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusSubmitted, c.Status)
	checkTimelineInvariant(t, c.Timeline)
	assert.Equal(t, models.TimelineStatusCompleted, c.Timeline[0].Status)
	assert.Equal(t, models.TimelineStatusCurrent, c.Timeline[1].Status)

	require.Len(t, c.Questions, 3)
	for _, q := range c.Questions {
		assert.False(t, q.Answered())
	}

	assert.Equal(t, []string{models.NotificationKindSubmissionConfirmed}, f.notifier.sent())
	assert.Equal(t, 1, f.scheduler.pendingCount(), "завершение анализа должно быть запланировано")

	stored, err := f.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusSubmitted, stored.Status)
}

func TestLifecycleService_SubmitCase_Validation(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	cases := map[string]func(*SubmitCaseInput){
		"type inconnu":       func(in *SubmitCaseInput) { in.CaseType = "divorce" },
		"description courte": func(in *SubmitCaseInput) { in.Description = "court" },
		"demandeur vide":     func(in *SubmitCaseInput) { in.Plaintiff = "  " },
		"défendeur vide":     func(in *SubmitCaseInput) { in.Defendant = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validSubmitInput()
			mutate(&in)

			_, err := f.svc.SubmitCase(ctx, f.userID, in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err), "attendu erreur de validation, reçu: %v", err)
		})
	}

	assert.Empty(t, f.notifier.sent())
	assert.Equal(t, 0, f.scheduler.pendingCount())
}

func TestLifecycleService_AnalysisTimerAdvancesCase(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	f.scheduler.fireNext(t)

	stored, err := f.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAnalysisReady, stored.Status)
	checkTimelineInvariant(t, stored.Timeline)
	assert.Equal(t, models.TimelineStatusCompleted, stored.Timeline[1].Status)
	assert.Equal(t, models.TimelineStatusCurrent, stored.Timeline[2].Status)

	assert.Equal(t, []string{
		models.NotificationKindSubmissionConfirmed,
		models.NotificationKindAnalysisReady,
	}, f.notifier.sent())
}

func TestLifecycleService_StaleAnalysisTimerIsNoop(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	// Таймер срабатывает дважды: повторное срабатывание не должно ни менять
	// статус, ни дублировать уведомление.
	f.svc.completeDocumentAnalysis(c.ID)
	f.svc.completeDocumentAnalysis(c.ID)

	stored, err := f.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAnalysisReady, stored.Status)
	assert.Equal(t, []string{
		models.NotificationKindSubmissionConfirmed,
		models.NotificationKindAnalysisReady,
	}, f.notifier.sent())
}

func TestLifecycleService_FullAnswerFlow(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	f.scheduler.fireNext(t)

	// Два ответа из трёх: переход ещё не должен сработать.
	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 1, json.RawMessage(`true`))
	require.NoError(t, err)
	updated, err := f.svc.RecordAnswer(ctx, f.userID, c.ID, 2, json.RawMessage(`false`))
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAnalysisReady, updated.Status)

	// Последний ответ закрывает guard: дело уходит в финальный анализ.
	updated, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 3, json.RawMessage(`"3 mois"`))
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusFinalAnalysis, updated.Status)
	checkTimelineInvariant(t, updated.Timeline)
	assert.Equal(t, models.TimelineStatusCurrent, updated.Timeline[3].Status)
	assert.Equal(t, 1, f.scheduler.pendingCount(), "завершение отчёта должно быть запланировано")

	// Переход в final_analysis не рассылает уведомление.
	assert.Equal(t, []string{
		models.NotificationKindSubmissionConfirmed,
		models.NotificationKindAnalysisReady,
	}, f.notifier.sent())

	f.scheduler.fireNext(t)

	stored, err := f.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusCompleted, stored.Status)
	checkTimelineInvariant(t, stored.Timeline)
	assert.Equal(t, -1, stored.Timeline.CurrentIndex())

	assert.Equal(t, []string{
		models.NotificationKindSubmissionConfirmed,
		models.NotificationKindAnalysisReady,
		models.NotificationKindFinalReportReady,
	}, f.notifier.sent())
}

func TestLifecycleService_AnswersBeforeAnalysisCompletes(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	// Пользователь отвечает на всё, пока анализ документов ещё идёт.
	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 1, json.RawMessage(`true`))
	require.NoError(t, err)
	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 2, json.RawMessage(`true`))
	require.NoError(t, err)
	updated, err := f.svc.RecordAnswer(ctx, f.userID, c.ID, 3, json.RawMessage(`"1 mois"`))
	require.NoError(t, err)

	// Ответы сохранены, но переход ждёт завершения анализа.
	assert.Equal(t, models.CaseStatusSubmitted, updated.Status)

	// Таймер анализа проверяет guard сам и выполняет оба перехода по порядку.
	f.scheduler.fireNext(t)

	stored, err := f.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusFinalAnalysis, stored.Status)
	checkTimelineInvariant(t, stored.Timeline)
	assert.Equal(t, 1, f.scheduler.pendingCount())

	f.scheduler.fireNext(t)

	stored, err = f.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusCompleted, stored.Status)
}

func TestLifecycleService_ReanswerAfterAdvanceDoesNotRepeat(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	f.scheduler.fireNext(t)

	for id, answer := range map[int]string{1: `true`, 2: `false`, 3: `"6 mois"`} {
		_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, id, json.RawMessage(answer))
		require.NoError(t, err)
	}

	pendingBefore := f.scheduler.pendingCount()

	// Перезапись ответа на уже продвинувшемся деле: значение меняется,
	// переход и планирование не повторяются.
	updated, err := f.svc.RecordAnswer(ctx, f.userID, c.ID, 1, json.RawMessage(`false`))
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusFinalAnalysis, updated.Status)
	assert.Equal(t, json.RawMessage(`false`), updated.Questions[0].Answer)
	assert.Equal(t, pendingBefore, f.scheduler.pendingCount())
}

func TestLifecycleService_RecordAnswer_Validation(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 99, json.RawMessage(`true`))
	assert.True(t, apperror.IsNotFound(err), "question inconnue: %v", err)

	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 1, json.RawMessage(`"oui"`))
	assert.True(t, apperror.IsValidation(err), "booléen attendu: %v", err)

	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 3, json.RawMessage(`"2 semaines"`))
	assert.True(t, apperror.IsValidation(err), "option hors liste: %v", err)

	_, err = f.svc.RecordAnswer(ctx, f.userID, c.ID, 1, json.RawMessage(`null`))
	assert.True(t, apperror.IsValidation(err), "réponse null: %v", err)
}

func TestLifecycleService_OwnershipEnforced(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	c, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)

	intruder := uuid.New()

	_, err = f.svc.GetCase(ctx, intruder, c.ID)
	assert.True(t, apperror.IsForbidden(err))

	_, err = f.svc.RecordAnswer(ctx, intruder, c.ID, 1, json.RawMessage(`true`))
	assert.True(t, apperror.IsForbidden(err))
}

func TestLifecycleService_CloseCancelsPendingTransitions(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)
	require.Equal(t, 1, f.scheduler.pendingCount())

	f.svc.Close()

	assert.Equal(t, 0, f.scheduler.pendingCount(), "Close должен отменить отложенные переходы")

	// После Close новые переходы не планируются.
	c2, err := f.svc.SubmitCase(ctx, f.userID, validSubmitInput())
	require.NoError(t, err)
	require.NotNil(t, c2)
	assert.Equal(t, 0, f.scheduler.pendingCount())
}

// hookCaseStore выполняет callback после первого чтения: тест подсовывает
// конкурирующий переход между чтением и записью дозаполнения.
type hookCaseStore struct {
	*memoryCaseStore
	mu       sync.Mutex
	afterGet func()
}

func (s *hookCaseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	c, err := s.memoryCaseStore.GetByID(ctx, id)

	s.mu.Lock()
	hook := s.afterGet
	s.afterGet = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	return c, err
}

// Дозаполнение вопросов в GetCase перезаписывает запись целиком; без
// пер-кейсового мьютекса таймер, сработавший между чтением и записью,
// терял свой переход.
func TestLifecycleService_GetCaseBackfillDoesNotClobberTimer(t *testing.T) {
	userID := uuid.New()
	store := &hookCaseStore{memoryCaseStore: newMemoryCaseStore()}
	scheduler := &fakeScheduler{}
	notifier := &recordingNotifier{}
	users := &staticUserProvider{user: &models.User{ID: userID, Email: "jean.tremblay@example.com"}}

	svc := NewLifecycleService(context.Background(), store, users, notifier, scheduler, 3*time.Second, 3*time.Second)
	t.Cleanup(svc.Close)

	ctx := context.Background()
	legacy := &models.Case{
		ID:        uuid.New(),
		UserID:    userID,
		CaseType:  models.CaseTypeConsumer,
		Status:    models.CaseStatusSubmitted,
		Timeline:  seedTimeline(time.Now()),
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Upsert(ctx, legacy))

	// Таймер анализа стартует между чтением GetCase и записью дозаполнения.
	var wg sync.WaitGroup
	store.afterGet = func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.completeDocumentAnalysis(legacy.ID)
		}()
		time.Sleep(50 * time.Millisecond)
	}

	_, err := svc.GetCase(ctx, userID, legacy.ID)
	require.NoError(t, err)
	wg.Wait()

	stored, err := store.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAnalysisReady, stored.Status, "переход таймера не должен быть затёрт")
	assert.Equal(t, models.TimelineStatusCompleted, stored.Timeline[1].Status)
	assert.Len(t, stored.Questions, 3, "дозаполненные вопросы должны пережить переход")
}

func TestLifecycleService_GetCaseBackfillsQuestions(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	// Дело, сохранённое без вопросов (исторические записи).
	legacy := &models.Case{
		ID:        uuid.New(),
		UserID:    f.userID,
		CaseType:  models.CaseTypeConsumer,
		Status:    models.CaseStatusSubmitted,
		Timeline:  seedTimeline(time.Now()),
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Upsert(ctx, legacy))

	c, err := f.svc.GetCase(ctx, f.userID, legacy.ID)
	require.NoError(t, err)
	require.Len(t, c.Questions, 3)

	stored, err := f.store.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Questions, 3, "дозаполненные вопросы должны быть сохранены")
}
