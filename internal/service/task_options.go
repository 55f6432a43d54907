package service

import (
	"time"

	"taskboard/internal/models"
)

// TaskOption — функция частичного обновления задачи. Хендлер собирает
// опции из непустых полей запроса, сервис применяет их к найденной задаче.
type TaskOption func(*models.Task)

func WithTitle(title string) TaskOption {
	return func(task *models.Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *models.Task) {
		task.Description = description
	}
}

func WithPriority(priority models.Priority) TaskOption {
	return func(task *models.Task) {
		task.Priority = priority
	}
}

func WithCategory(category string) TaskOption {
	return func(task *models.Task) {
		task.Category = category
	}
}

func WithDeadline(deadline *time.Time) TaskOption {
	return func(task *models.Task) {
		task.Deadline = deadline
	}
}

func WithDuration(minutes int) TaskOption {
	return func(task *models.Task) {
		task.Duration = minutes
	}
}

func WithEnergy(energy models.Energy) TaskOption {
	return func(task *models.Task) {
		task.EnergyRequired = energy
	}
}

// WithCompleted только переключает флаг; инвариант completedAt
// восстанавливает сервис после применения всех опций.
func WithCompleted(completed bool) TaskOption {
	return func(task *models.Task) {
		task.Completed = completed
	}
}
