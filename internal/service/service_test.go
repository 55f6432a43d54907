package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"taskboard/internal/docstore"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// MockDocumentStore - мок хранилища документов
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Read(ctx context.Context, userID, resource string) (json.RawMessage, error) {
	args := m.Called(ctx, userID, resource)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockDocumentStore) Write(ctx context.Context, userID, resource string, doc json.RawMessage) error {
	args := m.Called(ctx, userID, resource, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStore) Close() {
	m.Called()
}

var _ docstore.DocumentStore = (*MockDocumentStore)(nil)

// memStore - хранилище в памяти для сквозных сценариев
type memStore struct {
	mtx  sync.Mutex
	docs map[string]json.RawMessage
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]json.RawMessage)}
}

func (m *memStore) Read(_ context.Context, userID, resource string) (json.RawMessage, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if doc, ok := m.docs[userID+"/"+resource]; ok {
		return doc, nil
	}
	return docstore.Default(resource), nil
}

func (m *memStore) Write(_ context.Context, userID, resource string, doc json.RawMessage) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.docs[userID+"/"+resource] = doc
	return nil
}

func (m *memStore) HealthCheck(context.Context) error { return nil }
func (m *memStore) Close()                            {}

var _ docstore.DocumentStore = (*memStore)(nil)

var testClock = func() time.Time {
	return time.Date(2025, 6, 18, 10, 0, 0, 0, time.Local)
}

func newTaskService(store docstore.DocumentStore) service.TaskService {
	analytics := service.NewAnalyticsService(store)
	analytics.SetNowFunc(testClock)
	svc := service.NewTaskService(store, analytics)
	svc.SetNowFunc(testClock)
	return svc
}

// TestTaskService_CreateTask тестирует создание задачи
func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTaskService(store)

	task, err := svc.CreateTask(ctx, "u", "Написать отчёт")
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Написать отчёт", task.Title)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.DefaultCategory, task.Category)
	assert.Equal(t, testClock(), task.CreatedAt)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)

	tasks, err := svc.GetTasks(ctx, "u")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
}

// TestTaskService_CreateTask_EmptyTitle тестирует валидацию названия
func TestTaskService_CreateTask_EmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(newMemStore())

	_, err := svc.CreateTask(ctx, "u", "")
	require.Error(t, err)

	var bizErr *service.BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "VALIDATION_ERROR", bizErr.Code)
}

// TestTaskService_CreateTask_WithOptions тестирует применение опций
func TestTaskService_CreateTask_WithOptions(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(newMemStore())

	deadline := testClock().Add(48 * time.Hour)
	task, err := svc.CreateTask(ctx, "u", "Подготовить презентацию",
		service.WithPriority(models.PriorityUrgent),
		service.WithCategory("work"),
		service.WithDeadline(&deadline),
		service.WithDuration(60),
		service.WithEnergy(models.EnergyHigh),
	)
	require.NoError(t, err)

	assert.Equal(t, models.PriorityUrgent, task.Priority)
	assert.Equal(t, "work", task.Category)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, deadline, *task.Deadline)
	assert.Equal(t, 60, task.Duration)
	assert.Equal(t, models.EnergyHigh, task.EnergyRequired)
}

// TestTaskService_CompletedAtInvariant тестирует инвариант completedAt:
// отметка проставляется при завершении и снимается при возврате в работу
func TestTaskService_CompletedAtInvariant(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(newMemStore())

	task, err := svc.CreateTask(ctx, "u", "Задача")
	require.NoError(t, err)

	// Завершаем — completedAt появляется
	updated, err := svc.UpdateTask(ctx, "u", task.ID, service.WithCompleted(true))
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, testClock(), *updated.CompletedAt)

	// Возвращаем в работу — completedAt снимается
	updated, err = svc.UpdateTask(ctx, "u", task.ID, service.WithCompleted(false))
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Nil(t, updated.CompletedAt)
}

// TestTaskService_UpdateTask_NotFound тестирует обновление несуществующей задачи
func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(newMemStore())

	_, err := svc.UpdateTask(ctx, "u", "no-such-id", service.WithTitle("x"))
	require.Error(t, err)

	var bizErr *service.BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "NOT_FOUND", bizErr.Code)
}

// TestTaskService_DeleteTask тестирует удаление задачи
func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(newMemStore())

	task, err := svc.CreateTask(ctx, "u", "Удалить меня")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, "u", task.ID))

	tasks, err := svc.GetTasks(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Повторное удаление — NOT_FOUND
	err = svc.DeleteTask(ctx, "u", task.ID)
	var bizErr *service.BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "NOT_FOUND", bizErr.Code)
}

// TestTaskService_GetTasks_Sorted тестирует порядок выдачи:
// активные раньше завершённых, внутри — по весу приоритета
func TestTaskService_GetTasks_Sorted(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(newMemStore())

	low, err := svc.CreateTask(ctx, "u", "Низкий", service.WithPriority(models.PriorityLow))
	require.NoError(t, err)
	urgent, err := svc.CreateTask(ctx, "u", "Срочный", service.WithPriority(models.PriorityUrgent))
	require.NoError(t, err)
	done, err := svc.CreateTask(ctx, "u", "Сделанный",
		service.WithPriority(models.PriorityUrgent), service.WithCompleted(true))
	require.NoError(t, err)

	tasks, err := svc.GetTasks(ctx, "u")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, urgent.ID, tasks[0].ID)
	assert.Equal(t, low.ID, tasks[1].ID)
	assert.Equal(t, done.ID, tasks[2].ID)
}

// TestTaskService_Optimize тестирует, что оптимизация сохраняет порядок
func TestTaskService_Optimize(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTaskService(store)

	_, err := svc.CreateTask(ctx, "u", "Низкий", service.WithPriority(models.PriorityLow))
	require.NoError(t, err)
	urgent, err := svc.CreateTask(ctx, "u", "Срочный", service.WithPriority(models.PriorityUrgent))
	require.NoError(t, err)

	ordered, energy, err := svc.Optimize(ctx, "u")
	require.NoError(t, err)
	// 10 утра — пик энергии
	assert.Equal(t, models.EnergyHigh, energy)
	require.Len(t, ordered, 2)
	assert.Equal(t, urgent.ID, ordered[0].ID)

	// Порядок сохранён в хранилище
	raw, err := store.Read(ctx, "u", docstore.ResourceTasks)
	require.NoError(t, err)
	var persisted []models.Task
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, urgent.ID, persisted[0].ID)
}

// TestTaskService_AnalyticsRecompute тестирует пересчёт снимка после мутаций
func TestTaskService_AnalyticsRecompute(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTaskService(store)

	task, err := svc.CreateTask(ctx, "u", "Задача")
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, "u", task.ID, service.WithCompleted(true))
	require.NoError(t, err)

	raw, err := store.Read(ctx, "u", docstore.ResourceAnalytics)
	require.NoError(t, err)
	var snapshot models.Analytics
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, 1, snapshot.TotalTasks)
	assert.Equal(t, 1, snapshot.CompletedToday)
}

// TestTaskService_AnalyticsFailureDoesNotFailMutation тестирует, что отказ
// пересчёта аналитики не роняет мутацию задач
func TestTaskService_AnalyticsFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockDocumentStore)

	// Документ задач читается и пишется успешно
	mockStore.On("Read", mock.Anything, "u", docstore.ResourceTasks).
		Return(json.RawMessage(`[]`), nil)
	mockStore.On("Write", mock.Anything, "u", docstore.ResourceTasks, mock.Anything).
		Return(nil)
	// Пересчёт аналитики спотыкается о журнал чата
	mockStore.On("Read", mock.Anything, "u", docstore.ResourceChat).
		Return(nil, fmt.Errorf("диск отвалился: %w", docstore.ErrStorage))

	svc := newTaskService(mockStore)
	task, err := svc.CreateTask(ctx, "u", "Задача")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	mockStore.AssertExpectations(t)
}

// TestTaskService_StorageError тестирует проброс ошибки хранилища
func TestTaskService_StorageError(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockDocumentStore)
	mockStore.On("Read", mock.Anything, "u", docstore.ResourceTasks).
		Return(nil, fmt.Errorf("нет доступа: %w", docstore.ErrStorage))

	svc := newTaskService(mockStore)
	_, err := svc.GetTasks(ctx, "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, docstore.ErrStorage))
}

// TestChatService_Send тестирует отправку сообщения и ответ ассистента
func TestChatService_Send(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newMemStore(), 10)
	svc.SetNowFunc(testClock)

	entry, err := svc.Send(ctx, "u", "How many tasks do I have?")
	require.NoError(t, err)
	assert.Equal(t, "How many tasks do I have?", entry.Message)
	assert.NotEmpty(t, entry.Response)
	assert.Equal(t, testClock(), entry.CreatedAt)

	history, err := svc.History(ctx, "u")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry.Message, history[0].Message)
}

// TestChatService_Send_EmptyMessage тестирует валидацию сообщения
func TestChatService_Send_EmptyMessage(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newMemStore(), 10)

	_, err := svc.Send(ctx, "u", "")
	require.Error(t, err)

	var bizErr *service.BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "VALIDATION_ERROR", bizErr.Code)
}

// TestChatService_DailyQuota тестирует дневную квоту: десятое сообщение
// проходит, одиннадцатое отклоняется
func TestChatService_DailyQuota(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newMemStore(), 10)
	svc.SetNowFunc(testClock)

	for i := 0; i < 10; i++ {
		_, err := svc.Send(ctx, "u", fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	_, err := svc.Send(ctx, "u", "одно лишнее")
	require.Error(t, err)

	var bizErr *service.BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "QUOTA_EXCEEDED", bizErr.Code)

	// Наутро квота обнуляется
	svc.SetNowFunc(func() time.Time { return testClock().Add(24 * time.Hour) })
	_, err = svc.Send(ctx, "u", "снова можно")
	require.NoError(t, err)
}

// TestChatService_LogCap тестирует усечение журнала: хранится не больше
// лимита записей, вытесняются старейшие
func TestChatService_LogCap(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	// Заполняем журнал почти до предела вчерашними записями,
	// чтобы не упереться в дневную квоту
	yesterday := testClock().Add(-24 * time.Hour)
	old := make([]models.ChatEntry, models.ChatLogLimit)
	for i := range old {
		old[i] = models.ChatEntry{
			Message:   fmt.Sprintf("old %d", i),
			Response:  "ok",
			CreatedAt: yesterday,
		}
	}
	raw, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, "u", docstore.ResourceChat, raw))

	svc := service.NewChatService(store, 10)
	svc.SetNowFunc(testClock)

	entry, err := svc.Send(ctx, "u", "newest")
	require.NoError(t, err)

	history, err := svc.History(ctx, "u")
	require.NoError(t, err)
	require.Len(t, history, models.ChatLogLimit)
	// Старейшая запись вытеснена, новая в хвосте
	assert.Equal(t, "old 1", history[0].Message)
	assert.Equal(t, entry.Message, history[models.ChatLogLimit-1].Message)
}

// TestChatService_Clear тестирует очистку журнала
func TestChatService_Clear(t *testing.T) {
	ctx := context.Background()
	svc := service.NewChatService(newMemStore(), 10)
	svc.SetNowFunc(testClock)

	_, err := svc.Send(ctx, "u", "hello")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u"))

	history, err := svc.History(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, history)
}

// TestPreferencesService_SaveOverwritesWhole тестирует перезапись настроек
// целиком, без слияния
func TestPreferencesService_SaveOverwritesWhole(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPreferencesService(newMemStore())
	svc.SetNowFunc(testClock)

	prefs, err := svc.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)

	prefs.WorkingHours = models.WorkingHours{Start: "10:00", End: "19:00"}
	prefs.WorkDays = []string{"monday"}
	saved, err := svc.Save(ctx, "u", prefs)
	require.NoError(t, err)
	assert.Equal(t, []string{"monday"}, saved.WorkDays)

	got, err := svc.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

// TestPreferencesService_OnboardingAt тестирует фиксацию момента онбординга
func TestPreferencesService_OnboardingAt(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPreferencesService(newMemStore())
	svc.SetNowFunc(testClock)

	prefs := models.DefaultPreferences()
	prefs.OnboardingDone = true

	saved, err := svc.Save(ctx, "u", prefs)
	require.NoError(t, err)
	require.NotNil(t, saved.OnboardingAt)
	assert.Equal(t, testClock(), *saved.OnboardingAt)

	// Повторное сохранение не сдвигает отметку
	svc.SetNowFunc(func() time.Time { return testClock().Add(time.Hour) })
	saved2, err := svc.Save(ctx, "u", saved)
	require.NoError(t, err)
	assert.Equal(t, *saved.OnboardingAt, *saved2.OnboardingAt)

	// Сброс онбординга снимает отметку
	saved2.OnboardingDone = false
	saved3, err := svc.Save(ctx, "u", saved2)
	require.NoError(t, err)
	assert.Nil(t, saved3.OnboardingAt)
}

// TestScheduleService_SaveGet тестирует сохранение расписания
func TestScheduleService_SaveGet(t *testing.T) {
	ctx := context.Background()
	svc := service.NewScheduleService(newMemStore())
	svc.SetNowFunc(testClock)

	saved, err := svc.Save(ctx, "u", models.Schedule{
		Events: []models.ScheduleEvent{
			{Start: "2025-06-18T12:00:00+03:00", Summary: "Встреча"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.UpdatedAt)
	assert.Equal(t, testClock(), *saved.UpdatedAt)

	got, err := svc.Get(ctx, "u")
	require.NoError(t, err)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "Встреча", got.Events[0].Summary)
}

// TestScheduleService_NilEvents тестирует нормализацию пустого расписания
func TestScheduleService_NilEvents(t *testing.T) {
	ctx := context.Background()
	svc := service.NewScheduleService(newMemStore())

	saved, err := svc.Save(ctx, "u", models.Schedule{})
	require.NoError(t, err)
	assert.NotNil(t, saved.Events)
	assert.Empty(t, saved.Events)
}

// TestAnalyticsService_Recompute тестирует построение снимка из документов
func TestAnalyticsService_Recompute(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	taskSvc := newTaskService(store)

	_, err := taskSvc.CreateTask(ctx, "u", "Активная", service.WithCategory("work"))
	require.NoError(t, err)
	_, err = taskSvc.CreateTask(ctx, "u", "Готовая",
		service.WithCategory("health"), service.WithCompleted(true), service.WithDuration(60))
	require.NoError(t, err)

	analyticsSvc := service.NewAnalyticsService(store)
	analyticsSvc.SetNowFunc(testClock)

	snapshot, err := analyticsSvc.Recompute(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalTasks)
	assert.Equal(t, 1, snapshot.CompletedToday)
	assert.InDelta(t, 1.0, snapshot.FocusTime, 0.001)
	assert.Len(t, snapshot.Weekly, 7)
	assert.Equal(t, testClock(), snapshot.UpdatedAt)
}
