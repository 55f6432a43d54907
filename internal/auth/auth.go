// Пакет auth — регистрация, вход и реестр пользователей. Реестр лежит в
// хранилище документов под служебным пространством docstore.SystemUser,
// теми же механизмами, что и пользовательские документы.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/docstore"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type Service struct {
	store    docstore.DocumentStore
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(store docstore.DocumentStore, secret string, tokenTTL time.Duration) Service {
	return Service{
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *Service) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

func (s *Service) Register(ctx context.Context, email, password, name string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, "", service.NewValidationError("email", "некорректный адрес почты")
	}
	if len(password) < 6 {
		return models.User{}, "", service.NewValidationError("password", "пароль короче 6 символов")
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		return models.User{}, "", err
	}

	for _, u := range users {
		if u.Email == email {
			return models.User{}, "", service.NewEmailTaken(email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("хеширование пароля: %w", err)
	}

	user := models.StoredUser{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	users = append(users, user)

	if err := s.writeUsers(ctx, users); err != nil {
		return models.User{}, "", err
	}

	// профиль создаётся сразу, чтобы первый же запрос дашборда нашёл его
	if err := s.writeProfile(ctx, user); err != nil {
		logger.Warn("Auth: Не удалось записать профиль", zap.Error(err))
	}

	token, err := IssueToken(s.secret, user.ID, user.Email, s.tokenTTL, s.now())
	if err != nil {
		return models.User{}, "", err
	}

	logger.Info("Auth: Пользователь зарегистрирован", zap.String("user_id", user.ID))
	return user.Public(), token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := s.readUsers(ctx)
	if err != nil {
		return models.User{}, "", err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}

		token, err := IssueToken(s.secret, u.ID, u.Email, s.tokenTTL, s.now())
		if err != nil {
			return models.User{}, "", err
		}
		logger.Info("Auth: Успешный вход", zap.String("user_id", u.ID))
		return u.Public(), token, nil
	}

	// один ответ на «нет такого» и «пароль не подошёл»
	return models.User{}, "", service.NewUnauthorized("неверная почта или пароль")
}

func (s *Service) Verify(token string) (*Claims, error) {
	return ParseToken(s.secret, token)
}

func (s *Service) UserByID(ctx context.Context, id string) (models.StoredUser, error) {
	users, err := s.readUsers(ctx)
	if err != nil {
		return models.StoredUser{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.StoredUser{}, service.NewNotFound("пользователь", id)
}

// SaveCalendarToken прикрепляет OAuth-токен календаря к записи пользователя.
func (s *Service) SaveCalendarToken(ctx context.Context, userID string, token *oauth2.Token) error {
	users, err := s.readUsers(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == userID {
			users[i].CalendarToken = token
			return s.writeUsers(ctx, users)
		}
	}
	return service.NewNotFound("пользователь", userID)
}

func (s *Service) readUsers(ctx context.Context) ([]models.StoredUser, error) {
	raw, err := s.store.Read(ctx, docstore.SystemUser, docstore.ResourceUsers)
	if err != nil {
		return nil, err
	}
	var users []models.StoredUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("разбор реестра пользователей: %w (%w)", err, docstore.ErrStorage)
	}
	return users, nil
}

func (s *Service) writeUsers(ctx context.Context, users []models.StoredUser) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("сериализация реестра пользователей: %w", err)
	}
	return s.store.Write(ctx, docstore.SystemUser, docstore.ResourceUsers, raw)
}

func (s *Service) writeProfile(ctx context.Context, user models.StoredUser) error {
	raw, err := json.Marshal(user.Public())
	if err != nil {
		return fmt.Errorf("сериализация профиля: %w", err)
	}
	return s.store.Write(ctx, user.ID, docstore.ResourceProfile, raw)
}
