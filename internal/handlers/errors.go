package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/docstore"
	"taskboard/internal/logger"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

// handleServiceError переводит типизированные отказы сервисного слоя в
// HTTP-ответ. Возвращает true, если ошибка обработана.
func handleServiceError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return true
	}

	if errors.Is(err, docstore.ErrStorage) {
		logger.Error("HTTP: Ошибка хранилища", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("error", "STORAGE_ERROR"),
			toPayload("message", "хранилище временно недоступно"),
		)
		return true
	}

	return false
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "QUOTA_EXCEEDED":
		return http.StatusTooManyRequests
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "EMAIL_TAKEN":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
