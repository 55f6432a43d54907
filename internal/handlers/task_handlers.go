package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// GetTasks — список задач в порядке детерминированного компаратора.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	tasks, err := h.TaskService.GetTasks(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
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

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	options := []service.TaskOption{}
	if request.Description != "" {
		options = append(options, service.WithDescription(request.Description))
	}
	if request.Priority != "" {
		options = append(options, service.WithPriority(request.Priority))
	}
	if request.Category != "" {
		options = append(options, service.WithCategory(request.Category))
	}
	if request.Deadline != nil {
		options = append(options, service.WithDeadline(request.Deadline))
	}
	if request.Duration > 0 {
		options = append(options, service.WithDuration(request.Duration))
	}
	if request.EnergyRequired != "" {
		options = append(options, service.WithEnergy(request.EnergyRequired))
	}

	task, err := h.TaskService.CreateTask(r.Context(), userID, request.Title, options...)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}

		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithValue(w, http.StatusCreated, dto.FromTask(*task))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	task, err := h.TaskService.GetTaskByID(r.Context(), userID, id)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "get_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, dto.FromTask(*task))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	options := []service.TaskOption{}
	if request.Title != nil {
		options = append(options, service.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, service.WithDescription(*request.Description))
	}
	if request.Completed != nil {
		options = append(options, service.WithCompleted(*request.Completed))
	}
	if request.Priority != nil {
		options = append(options, service.WithPriority(*request.Priority))
	}
	if request.Category != nil {
		options = append(options, service.WithCategory(*request.Category))
	}
	if request.Deadline != nil {
		options = append(options, service.WithDeadline(request.Deadline))
	}
	if request.Duration != nil {
		options = append(options, service.WithDuration(*request.Duration))
	}
	if request.EnergyRequired != nil {
		options = append(options, service.WithEnergy(*request.EnergyRequired))
	}

	task, err := h.TaskService.UpdateTask(r.Context(), userID, id, options...)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, dto.FromTask(*task))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), userID, id); err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// OptimizeTasks — явная «AI»-оптимизация порядка задач.
func (h *TaskHandler) OptimizeTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	tasks, energy, err := h.TaskService.Optimize(r.Context(), userID)
	if err != nil {
		if handleServiceError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "optimize_tasks"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи оптимизированы",
		zap.Int("count", len(tasks)),
		zap.String("energy", string(energy)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, dto.OptimizeResponse{
		Tasks:  dto.FromTaskList(tasks),
		Energy: energy,
	})
}
