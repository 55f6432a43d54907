package service

import (
	"context"
	"time"

	"taskboard/internal/docstore"
	"taskboard/internal/models"
)

type ScheduleService struct {
	store docstore.DocumentStore
	now   func() time.Time
}

func NewScheduleService(store docstore.DocumentStore) ScheduleService {
	return ScheduleService{
		store: store,
		now:   time.Now,
	}
}

func (s *ScheduleService) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

func (s *ScheduleService) Get(ctx context.Context, userID string) (models.Schedule, error) {
	var schedule models.Schedule
	if err := readDoc(ctx, s.store, userID, docstore.ResourceSchedule, &schedule); err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

func (s *ScheduleService) Save(ctx context.Context, userID string, schedule models.Schedule) (models.Schedule, error) {
	now := s.now()
	schedule.UpdatedAt = &now
	if schedule.Events == nil {
		schedule.Events = []models.ScheduleEvent{}
	}

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceSchedule, schedule); err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}
