package dto

import (
	"time"

	"taskboard/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type CreateTaskRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Priority       models.Priority `json:"priority,omitempty"`
	Category       string          `json:"category,omitempty"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
	Duration       int             `json:"duration,omitempty"`
	EnergyRequired models.Energy   `json:"energyRequired,omitempty"`
}

type UpdateTaskRequest struct {
	Title          *string          `json:"title,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Completed      *bool            `json:"completed,omitempty"`
	Priority       *models.Priority `json:"priority,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Deadline       *time.Time       `json:"deadline,omitempty"`
	Duration       *int             `json:"duration,omitempty"`
	EnergyRequired *models.Energy   `json:"energyRequired,omitempty"`
}

type TaskResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Completed      bool            `json:"completed"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
	Priority       models.Priority `json:"priority"`
	Category       string          `json:"category"`
	Duration       int             `json:"duration,omitempty"`
	EnergyRequired models.Energy   `json:"energyRequired,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	IsOverdue      bool            `json:"isOverdue"`
}

func FromTask(t models.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Completed:      t.Completed,
		CompletedAt:    t.CompletedAt,
		Deadline:       t.Deadline,
		Priority:       t.Priority,
		Category:       t.Category,
		Duration:       t.Duration,
		EnergyRequired: t.EnergyRequired,
		CreatedAt:      t.CreatedAt,
		IsOverdue:      !t.Completed && t.Deadline != nil && t.Deadline.Before(time.Now()),
	}
}

func FromTaskList(tasks []models.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type OptimizeResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Energy models.Energy  `json:"energy"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type SaveScheduleRequest struct {
	Events []models.ScheduleEvent `json:"events"`
}

type CreateEventRequest struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
}
