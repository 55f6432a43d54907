package handlers

import (
	"context"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/models"
	"taskboard/internal/service"

	"golang.org/x/oauth2"
)

type TaskService interface {
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, userID, title string, options ...service.TaskOption) (*models.Task, error)
	GetTaskByID(ctx context.Context, userID, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, userID, id string, options ...service.TaskOption) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	Optimize(ctx context.Context, userID string) ([]models.Task, models.Energy, error)
}

type ChatService interface {
	History(ctx context.Context, userID string) ([]models.ChatEntry, error)
	Send(ctx context.Context, userID, message string) (models.ChatEntry, error)
	Clear(ctx context.Context, userID string) error
}

type PreferencesService interface {
	Get(ctx context.Context, userID string) (models.Preferences, error)
	Save(ctx context.Context, userID string, prefs models.Preferences) (models.Preferences, error)
}

type ScheduleService interface {
	Get(ctx context.Context, userID string) (models.Schedule, error)
	Save(ctx context.Context, userID string, schedule models.Schedule) (models.Schedule, error)
}

type AnalyticsService interface {
	Recompute(ctx context.Context, userID string) (models.Analytics, error)
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
	Verify(token string) (*auth.Claims, error)
	UserByID(ctx context.Context, id string) (models.StoredUser, error)
	SaveCalendarToken(ctx context.Context, userID string, token *oauth2.Token) error
}

type CalendarClient interface {
	Enabled() bool
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Events(ctx context.Context, token *oauth2.Token, from time.Time, max int) ([]models.ScheduleEvent, error)
	CreateEvent(ctx context.Context, token *oauth2.Token, summary string, start time.Time) (models.ScheduleEvent, error)
}
