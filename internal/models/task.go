package models

import "time"

type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Priority       Priority   `json:"priority"`
	Category       string     `json:"category"`
	Duration       int        `json:"duration,omitempty"` // в минутах
	EnergyRequired Energy     `json:"energyRequired,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"
const PriorityUrgent Priority = "urgent"

type Energy string

const EnergyLow Energy = "low"
const EnergyMedium Energy = "medium"
const EnergyHigh Energy = "high"

const DefaultCategory = "general"

// DefaultDuration — оценка длительности задачи без явного указания, минуты.
const DefaultDuration = 30

// Weight возвращает числовой вес приоритета. Неизвестные значения
// считаются medium.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}
