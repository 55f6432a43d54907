package models

import "time"

type Preferences struct {
	WorkingHours   WorkingHours    `json:"workingHours"`
	WorkDays       []string        `json:"workDays"`
	EnergyPeaks    []string        `json:"energyPeaks"`
	BreakDuration  int             `json:"breakDuration"` // минуты
	FocusBlock     int             `json:"focusBlock"`    // минуты
	TaskCategories []string        `json:"taskCategories"`
	Notifications  map[string]bool `json:"notifications"`
	OnboardingDone bool            `json:"onboardingDone"`
	OnboardingAt   *time.Time      `json:"onboardingAt,omitempty"`
}

type WorkingHours struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00"
}

// DefaultPreferences — документ, который получает пользователь
// до первого сохранения настроек.
func DefaultPreferences() Preferences {
	return Preferences{
		WorkingHours:   WorkingHours{Start: "09:00", End: "18:00"},
		WorkDays:       []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		EnergyPeaks:    []string{"morning"},
		BreakDuration:  15,
		FocusBlock:     90,
		TaskCategories: []string{"work", "personal", "health", "learning"},
		Notifications: map[string]bool{
			"deadlines": true,
			"breaks":    true,
			"daily":     false,
		},
	}
}
