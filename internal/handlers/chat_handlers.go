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

type ChatHandler struct {
	ChatService ChatService
}

func NewChatHandler(chatService ChatService) ChatHandler {
	return ChatHandler{
		ChatService: chatService,
	}
}

func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	history, err := h.ChatService.History(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: История чата получена",
		zap.Int("count", len(history)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, history)
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	entry, err := h.ChatService.Send(r.Context(), userID, request.Message)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "chat_send"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Ответ ассистента отправлен",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithValue(w, http.StatusCreated, entry)
}

func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	if err := h.ChatService.Clear(r.Context(), userID); err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "chat_clear"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: История чата очищена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
