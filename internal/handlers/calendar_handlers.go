package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"

	"go.uber.org/zap"
)

type CalendarHandler struct {
	AuthService AuthService
	Client      CalendarClient
}

func NewCalendarHandler(authService AuthService, client CalendarClient) CalendarHandler {
	return CalendarHandler{
		AuthService: authService,
		Client:      client,
	}
}

// GetAuthURL отдаёт ссылку на страницу согласия Google. Идентификатор
// пользователя едет в state и возвращается в callback.
func (h *CalendarHandler) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	if !h.Client.Enabled() {
		responseWithError(w, http.StatusNotImplemented, "интеграция с календарём не настроена")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("url", h.Client.AuthURL(userID)))
}

// Callback — редирект от Google после согласия. Запрос приходит без
// bearer-токена, пользователя определяет state.
func (h *CalendarHandler) Callback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		logger.Warn("HTTP: Неполный callback календаря",
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "отсутствует code или state")
		return
	}

	token, err := h.Client.Exchange(r.Context(), code)
	if err != nil {
		logger.Error("HTTP: Ошибка обмена кода", err,
			zap.String("operation", "calendar_callback"))
		responseWithError(w, http.StatusBadGateway, "не удалось обменять код на токен")
		return
	}

	if err := h.AuthService.SaveCalendarToken(r.Context(), state, token); err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "save_calendar_token"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Календарь подключён",
		zap.String("user_id", state),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("status", "connected"))
}

func (h *CalendarHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	user, err := h.AuthService.UserByID(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user.CalendarToken == nil {
		responseWithError(w, http.StatusBadRequest, "календарь не подключён")
		return
	}

	events, err := h.Client.Events(r.Context(), user.CalendarToken, time.Now(), 50)
	if err != nil {
		logger.Error("HTTP: Ошибка запроса календаря", err,
			zap.String("operation", "calendar_events"))
		responseWithError(w, http.StatusBadGateway, "не удалось получить события календаря")
		return
	}

	logger.Info("HTTP_OUT: События календаря получены",
		zap.Int("count", len(events)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, events)
}

func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	var request dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}
	if request.Summary == "" {
		responseWithError(w, http.StatusBadRequest, "summary не может быть пустым")
		return
	}

	user, err := h.AuthService.UserByID(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user.CalendarToken == nil {
		responseWithError(w, http.StatusBadRequest, "календарь не подключён")
		return
	}

	event, err := h.Client.CreateEvent(r.Context(), user.CalendarToken, request.Summary, request.Start)
	if err != nil {
		logger.Error("HTTP: Ошибка создания события", err,
			zap.String("operation", "calendar_create"))
		responseWithError(w, http.StatusBadGateway, "не удалось создать событие календаря")
		return
	}

	logger.Info("HTTP_OUT: Событие создано",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithValue(w, http.StatusCreated, event)
}
