package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/calendar"
	"taskboard/internal/config"
	"taskboard/internal/docstore"
	"taskboard/internal/docstore/file"
	"taskboard/internal/docstore/postgres"
	"taskboard/internal/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	store     docstore.DocumentStore
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	store, err := a.newStore(ctx)
	if err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.store = store
	a.shutdowns = append(a.shutdowns, store.Close)

	analyticsService := service.NewAnalyticsService(store)
	taskService := service.NewTaskService(store, analyticsService)
	chatService := service.NewChatService(store, a.config.Limits.ChatPerDay)
	prefsService := service.NewPreferencesService(store)
	scheduleService := service.NewScheduleService(store)
	authService := auth.NewService(store, a.config.Auth.JWTSecret, a.config.Auth.TokenTTL)
	calendarClient := calendar.New(
		a.config.Calendar.ClientID,
		a.config.Calendar.ClientSecret,
		a.config.Calendar.RedirectURL,
	)

	taskHandler := handlers.NewTaskHandler(&taskService)
	chatHandler := handlers.NewChatHandler(&chatService)
	profileHandler := handlers.NewProfileHandler(&prefsService, &scheduleService, analyticsService)
	authHandler := handlers.NewAuthHandler(&authService)
	calendarHandler := handlers.NewCalendarHandler(&authService, calendarClient)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(a.config.Limits.RatePerMinute))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register) // POST /api/auth/register
			r.Post("/login", authHandler.Login)       // POST /api/auth/login
		})

		// callback приходит редиректом от Google, без bearer-токена
		r.Get("/calendar/callback", calendarHandler.Callback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(&authService))

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.GetTasks)               // GET /api/tasks
				r.Post("/", taskHandler.PostTask)              // POST /api/tasks
				r.Post("/optimize", taskHandler.OptimizeTasks) // POST /api/tasks/optimize

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.GetTaskByID)       // GET /api/tasks/{id}
					r.Put("/", taskHandler.UpdateTaskByID)    // PUT /api/tasks/{id}
					r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /api/tasks/{id}
				})
			})

			r.Route("/chat", func(r chi.Router) {
				r.Get("/", chatHandler.GetHistory)      // GET /api/chat
				r.Post("/", chatHandler.PostMessage)    // POST /api/chat
				r.Delete("/", chatHandler.ClearHistory) // DELETE /api/chat
			})

			r.Get("/preferences", profileHandler.GetPreferences)  // GET /api/preferences
			r.Put("/preferences", profileHandler.SavePreferences) // PUT /api/preferences
			r.Get("/analytics", profileHandler.GetAnalytics)      // GET /api/analytics
			r.Get("/schedule", profileHandler.GetSchedule)        // GET /api/schedule
			r.Put("/schedule", profileHandler.SaveSchedule)       // PUT /api/schedule

			r.Get("/calendar/url", calendarHandler.GetAuthURL)      // GET /api/calendar/url
			r.Get("/calendar/events", calendarHandler.GetEvents)    // GET /api/calendar/events
			r.Post("/calendar/events", calendarHandler.CreateEvent) // POST /api/calendar/events
		})
	})

	r.Get("/health", profileHandler.HealthCheck)

	a.router = r
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return nil
}

func (a *App) newStore(ctx context.Context) (docstore.DocumentStore, error) {
	switch a.config.Storage.Type {
	case "postgres":
		return postgres.New(ctx, a.config.Storage.URL)
	case "file", "":
		return file.New(a.config.Storage.Dir)
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", a.config.Storage.Type)
	}
}

// Run блокируется до отмены контекста, затем аккуратно гасит сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdown()
		return fmt.Errorf("работа сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
