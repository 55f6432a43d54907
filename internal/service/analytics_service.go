package service

import (
	"context"
	"time"

	"taskboard/internal/analytics"
	"taskboard/internal/docstore"
	"taskboard/internal/models"
)

type AnalyticsService struct {
	store docstore.DocumentStore
	now   func() time.Time
}

func NewAnalyticsService(store docstore.DocumentStore) *AnalyticsService {
	return &AnalyticsService{
		store: store,
		now:   time.Now,
	}
}

func (s *AnalyticsService) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Recompute строит свежий снимок из задач и журнала чата, сохраняет его
// как кеш и возвращает вызывающему.
func (s *AnalyticsService) Recompute(ctx context.Context, userID string) (models.Analytics, error) {
	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return models.Analytics{}, err
	}

	var chatLog []models.ChatEntry
	if err := readDoc(ctx, s.store, userID, docstore.ResourceChat, &chatLog); err != nil {
		return models.Analytics{}, err
	}

	var prev models.Analytics
	if err := readDoc(ctx, s.store, userID, docstore.ResourceAnalytics, &prev); err != nil {
		return models.Analytics{}, err
	}

	snapshot := analytics.Aggregate(tasks, chatLog, prev, s.now())

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceAnalytics, snapshot); err != nil {
		return models.Analytics{}, err
	}
	return snapshot, nil
}
