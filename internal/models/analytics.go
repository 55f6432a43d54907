package models

import "time"

// Analytics — производный снимок статистики пользователя. Пересчитывается
// при каждой мутации задач и хранится как кеш, а не источник истины.
type Analytics struct {
	TotalTasks       int                      `json:"totalTasks"`
	CompletedToday   int                      `json:"completedToday"`
	FocusTime        float64                  `json:"focusTime"` // часы
	Trends           Trends                   `json:"trends"`
	TimeDistribution map[string]CategoryShare `json:"timeDistribution"`
	Weekly           []DayStat                `json:"weeklyData"`
	Baseline         *Baseline                `json:"baseline,omitempty"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// Trends — процентные изменения относительно Baseline.
type Trends struct {
	Completed  float64 `json:"completed"`
	Focus      float64 `json:"focus"`
	TotalTasks float64 `json:"totalTasks"`
	AIUsage    float64 `json:"aiUsage"`
}

type CategoryShare struct {
	Hours   float64 `json:"hours"`
	Percent int     `json:"percent"`
}

type DayStat struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
	Rate      int    `json:"rate"` // completed/created*100
}

// Baseline — снимок предыдущего дня, от которого считаются тренды.
type Baseline struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	TotalTasks     int     `json:"totalTasks"`
	CompletedToday int     `json:"completedToday"`
	FocusTime      float64 `json:"focusTime"`
	ChatCount      int     `json:"chatCount"`
}

func ZeroAnalytics() Analytics {
	return Analytics{
		TimeDistribution: map[string]CategoryShare{},
		Weekly:           []DayStat{},
	}
}
