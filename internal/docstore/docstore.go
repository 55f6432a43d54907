// Пакет docstore — хранилище документов «ключ (userID, resource) → JSON».
// Чтение отсутствующего документа не ошибка: возвращается значение по
// умолчанию для ресурса (create-on-read). Запись всегда перезаписывает
// документ целиком.
package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"taskboard/internal/models"
)

type DocumentStore interface {
	Read(ctx context.Context, userID, resource string) (json.RawMessage, error)
	Write(ctx context.Context, userID, resource string, doc json.RawMessage) error
	HealthCheck(ctx context.Context) error
	Close()
}

// ErrStorage оборачивает любые отказы носителя: диск, права, соединение.
var ErrStorage = errors.New("хранилище недоступно")

// Ресурсы пользовательских документов.
const (
	ResourceProfile     = "profile"
	ResourceTasks       = "tasks"
	ResourceChat        = "aichat"
	ResourceSchedule    = "schedule"
	ResourcePreferences = "preferences"
	ResourceAnalytics   = "analytics"

	// ResourceUsers — служебный реестр пользователей, живёт в
	// зарезервированном пространстве SystemUser.
	ResourceUsers = "users"
)

// SystemUser — зарезервированный идентификатор для служебных документов.
const SystemUser = "_system"

// Default возвращает документ по умолчанию для ресурса. Именно его отдаёт
// Read, когда документа ещё нет.
func Default(resource string) json.RawMessage {
	switch resource {
	case ResourceTasks:
		return json.RawMessage(`[]`)
	case ResourceChat:
		return json.RawMessage(`[]`)
	case ResourceUsers:
		return json.RawMessage(`[]`)
	case ResourceSchedule:
		raw, _ := json.Marshal(models.Schedule{Events: []models.ScheduleEvent{}})
		return raw
	case ResourcePreferences:
		raw, _ := json.Marshal(models.DefaultPreferences())
		return raw
	case ResourceAnalytics:
		raw, _ := json.Marshal(models.ZeroAnalytics())
		return raw
	default:
		return json.RawMessage(`{}`)
	}
}
