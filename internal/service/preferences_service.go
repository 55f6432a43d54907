package service

import (
	"context"
	"time"

	"taskboard/internal/docstore"
	"taskboard/internal/models"
)

type PreferencesService struct {
	store docstore.DocumentStore
	now   func() time.Time
}

func NewPreferencesService(store docstore.DocumentStore) PreferencesService {
	return PreferencesService{
		store: store,
		now:   time.Now,
	}
}

func (s *PreferencesService) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Get отдаёт настройки пользователя; до первого сохранения это
// зашитые значения по умолчанию.
func (s *PreferencesService) Get(ctx context.Context, userID string) (models.Preferences, error) {
	var prefs models.Preferences
	if err := readDoc(ctx, s.store, userID, docstore.ResourcePreferences, &prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

// Save перезаписывает документ целиком, без слияния с предыдущим.
// Момент завершения онбординга фиксируется один раз.
func (s *PreferencesService) Save(ctx context.Context, userID string, prefs models.Preferences) (models.Preferences, error) {
	if prefs.OnboardingDone && prefs.OnboardingAt == nil {
		now := s.now()
		prefs.OnboardingAt = &now
	}
	if !prefs.OnboardingDone {
		prefs.OnboardingAt = nil
	}

	if err := writeDoc(ctx, s.store, userID, docstore.ResourcePreferences, prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}
