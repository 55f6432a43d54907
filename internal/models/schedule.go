package models

import "time"

// Schedule — расписание пользователя. События календаря хранятся как
// непрозрачные элементы: нам важны только start и summary для отображения.
type Schedule struct {
	Events    []ScheduleEvent `json:"events"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

type ScheduleEvent struct {
	Start   string `json:"start"`
	Summary string `json:"summary"`
}
