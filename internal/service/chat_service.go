package service

import (
	"context"
	"time"

	"taskboard/internal/assistant"
	"taskboard/internal/docstore"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/ranking"

	"go.uber.org/zap"
)

type ChatService struct {
	store    docstore.DocumentStore
	dayLimit int
	now      func() time.Time
}

func NewChatService(store docstore.DocumentStore, dayLimit int) ChatService {
	if dayLimit <= 0 {
		dayLimit = 10
	}
	return ChatService{
		store:    store,
		dayLimit: dayLimit,
		now:      time.Now,
	}
}

func (s *ChatService) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

func (s *ChatService) History(ctx context.Context, userID string) ([]models.ChatEntry, error) {
	var log []models.ChatEntry
	if err := readDoc(ctx, s.store, userID, docstore.ResourceChat, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// Send проверяет дневную квоту ДО вызова ответчика, добавляет запись и
// усекает журнал до лимита, вытесняя старейшие.
func (s *ChatService) Send(ctx context.Context, userID, message string) (models.ChatEntry, error) {
	if message == "" {
		return models.ChatEntry{}, NewValidationError("message", "сообщение не может быть пустым")
	}

	var log []models.ChatEntry
	if err := readDoc(ctx, s.store, userID, docstore.ResourceChat, &log); err != nil {
		return models.ChatEntry{}, err
	}

	now := s.now()
	if s.sentToday(log, now) >= s.dayLimit {
		logger.Info("Service: Квота чата исчерпана",
			zap.String("user_id", userID),
			zap.Int("limit", s.dayLimit))
		return models.ChatEntry{}, NewQuotaExceeded(s.dayLimit)
	}

	var tasks []models.Task
	if err := readDoc(ctx, s.store, userID, docstore.ResourceTasks, &tasks); err != nil {
		return models.ChatEntry{}, err
	}

	var prefs models.Preferences
	if err := readDoc(ctx, s.store, userID, docstore.ResourcePreferences, &prefs); err != nil {
		return models.ChatEntry{}, err
	}

	entry := models.ChatEntry{
		Message: message,
		Response: assistant.Respond(message, assistant.Context{
			Tasks:       tasks,
			Preferences: prefs,
			Now:         now,
			Energy:      ranking.EnergyAt(now.Hour()),
		}),
		CreatedAt: now,
	}

	log = append(log, entry)
	if len(log) > models.ChatLogLimit {
		log = log[len(log)-models.ChatLogLimit:]
	}

	if err := writeDoc(ctx, s.store, userID, docstore.ResourceChat, log); err != nil {
		return models.ChatEntry{}, err
	}
	return entry, nil
}

func (s *ChatService) Clear(ctx context.Context, userID string) error {
	return writeDoc(ctx, s.store, userID, docstore.ResourceChat, []models.ChatEntry{})
}

// день считается по локальной полуночи сервера
func (s *ChatService) sentToday(log []models.ChatEntry, now time.Time) int {
	count := 0
	for _, entry := range log {
		if entry.CreatedAt.Year() == now.Year() && entry.CreatedAt.YearDay() == now.YearDay() {
			count++
		}
	}
	return count
}
