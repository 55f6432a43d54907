package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/models"

	"go.uber.org/zap"
)

// ProfileHandler объединяет настройки, расписание и аналитику —
// персональные документы дашборда.
type ProfileHandler struct {
	Preferences PreferencesService
	Schedule    ScheduleService
	Analytics   AnalyticsService
}

func NewProfileHandler(prefs PreferencesService, schedule ScheduleService, analytics AnalyticsService) ProfileHandler {
	return ProfileHandler{
		Preferences: prefs,
		Schedule:    schedule,
		Analytics:   analytics,
	}
}

func (h *ProfileHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	prefs, err := h.Preferences.Get(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Настройки получены",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, prefs)
}

// SavePreferences перезаписывает документ настроек целиком.
func (h *ProfileHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	saved, err := h.Preferences.Save(r.Context(), userID, prefs)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "save_preferences"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Настройки сохранены",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, saved)
}

// GetAnalytics пересчитывает снимок и отдаёт его.
func (h *ProfileHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	snapshot, err := h.Analytics.Recompute(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "analytics"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Аналитика пересчитана",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, snapshot)
}

func (h *ProfileHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	schedule, err := h.Schedule.Get(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Расписание получено",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, schedule)
}

func (h *ProfileHandler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	var request dto.SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	saved, err := h.Schedule.Save(r.Context(), userID, models.Schedule{Events: request.Events})
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "save_schedule"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Расписание сохранено",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, saved)
}

func (h *ProfileHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
