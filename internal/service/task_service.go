package service

// здесь происходит проверка ошибок бизнес-логики

import (
	"context"
	"time"

	"taskboard/internal/docstore"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/ranking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	store     docstore.DocumentStore
	analytics *AnalyticsService
	now       func() time.Time
}

func NewTaskService(store docstore.DocumentStore, analytics *AnalyticsService) TaskService {
	return TaskService{
		store:     store,
		analytics: analytics,
		now:       time.Now,
	}
}

// SetNowFunc подменяет часы сервиса, nil возвращает time.Now.
func (s *TaskService) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// GetTasks возвращает задачи пользователя в порядке детерминированного
// компаратора: активные раньше завершённых, дальше приоритет и дедлайн.
func (s *TaskService) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return nil, err
	}
	return ranking.SortTasks(tasks), nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID, title string, options ...TaskOption) (*models.Task, error) {
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	task := models.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Priority:  models.PriorityMedium,
		Category:  models.DefaultCategory,
		CreatedAt: s.now(),
	}
	for _, opt := range options {
		opt(&task)
	}
	s.fixCompletedAt(&task)

	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return nil, err
	}
	tasks = append(tasks, task)

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceTasks, tasks); err != nil {
		return nil, err
	}

	s.recompute(ctx, userID)
	return &task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, userID, id string) (*models.Task, error) {
	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}

	logger.Info("Service: Задача не найдена", zap.String("target_id", id))
	return nil, NewNotFound("задача", id)
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, options ...TaskOption) (*models.Task, error) {
	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return nil, err
	}

	index := -1
	for i := range tasks {
		if tasks[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return nil, NewNotFound("задача", id)
	}

	task := &tasks[index]
	for _, opt := range options {
		opt(task)
	}
	if task.Title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	s.fixCompletedAt(task)

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceTasks, tasks); err != nil {
		return nil, err
	}

	s.recompute(ctx, userID)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return err
	}

	remaining := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, t)
	}
	if !found {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return NewNotFound("задача", id)
	}

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceTasks, remaining); err != nil {
		return err
	}

	s.recompute(ctx, userID)
	return nil
}

// Optimize переупорядочивает активные задачи по баллу
// приоритет × энергия × срочность и сохраняет новый порядок.
func (s *TaskService) Optimize(ctx context.Context, userID string) ([]models.Task, models.Energy, error) {
	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return nil, "", err
	}

	now := s.now()
	energy := ranking.EnergyAt(now.Hour())
	ordered := ranking.Optimize(tasks, energy, now)

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceTasks, ordered); err != nil {
		return nil, "", err
	}

	logger.Info("Service: Задачи оптимизированы",
		zap.String("user_id", userID),
		zap.String("energy", string(energy)),
		zap.Int("tasks", len(ordered)))
	return ordered, energy, nil
}

// fixCompletedAt восстанавливает инвариант: completedAt задан тогда и
// только тогда, когда задача завершена.
func (s *TaskService) fixCompletedAt(task *models.Task) {
	if task.Completed && task.CompletedAt == nil {
		now := s.now()
		task.CompletedAt = &now
	}
	if !task.Completed {
		task.CompletedAt = nil
	}
}

// recompute — аналитика пересчитывается после каждой мутации, но её отказ
// не должен ронять саму мутацию.
func (s *TaskService) recompute(ctx context.Context, userID string) {
	if s.analytics == nil {
		return
	}
	if _, err := s.analytics.Recompute(ctx, userID); err != nil {
		logger.Warn("Service: Пересчёт аналитики не удался",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
