// Пакет ranking — упорядочивание задач. Два режима: детерминированный
// компаратор для списков и балльная оптимизация «AI optimize»
// (приоритет × совпадение энергии × срочность дедлайна).
package ranking

import (
	"sort"
	"time"

	"taskboard/internal/models"
)

// SortTasks возвращает копию списка, упорядоченную стабильным компаратором:
// незавершённые раньше завершённых, затем по убыванию веса приоритета,
// затем по возрастанию дедлайна. Задачи без дедлайна между собой равны.
func SortTasks(tasks []models.Task) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if a.Completed != b.Completed {
			return !a.Completed
		}

		if wa, wb := a.Priority.Weight(), b.Priority.Weight(); wa != wb {
			return wa > wb
		}

		if a.Deadline != nil && b.Deadline != nil {
			return a.Deadline.Before(*b.Deadline)
		}
		return false
	})

	return sorted
}

// Optimize сортирует активные задачи по убыванию балла, завершённые
// добавляет в конец в прежнем порядке. Сортировка стабильная: равные
// баллы сохраняют исходный относительный порядок.
func Optimize(tasks []models.Task, userEnergy models.Energy, now time.Time) []models.Task {
	var active, completed []models.Task
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return Score(active[i], userEnergy, now) > Score(active[j], userEnergy, now)
	})

	return append(active, completed...)
}

// Score — балл задачи для оптимизации.
func Score(t models.Task, userEnergy models.Energy, now time.Time) float64 {
	return t.Priority.Weight() * energyMatch(userEnergy, t.EnergyRequired) * deadlineUrgency(t.Deadline, now)
}

// Таблица совпадения энергии: (энергия пользователя, требуемая энергия
// задачи) → множитель. Неизвестные ключи дают нейтральную единицу.
var energyTable = map[models.Energy]map[models.Energy]float64{
	models.EnergyHigh: {
		models.EnergyHigh:   2,
		models.EnergyMedium: 1,
		models.EnergyLow:    0.5,
	},
	models.EnergyMedium: {
		models.EnergyHigh:   1.5,
		models.EnergyMedium: 2,
		models.EnergyLow:    1,
	},
	models.EnergyLow: {
		models.EnergyHigh:   0.5,
		models.EnergyMedium: 1,
		models.EnergyLow:    2,
	},
}

func energyMatch(user, required models.Energy) float64 {
	row, ok := energyTable[user]
	if !ok {
		return 1
	}
	score, ok := row[required]
	if !ok {
		return 1
	}
	return score
}

// deadlineUrgency: без дедлайна 1; меньше 2 часов до срока — 3; меньше
// суток — 2; иначе 1. Просроченные задачи (отрицательные часы) попадают
// в первую ветку и получают 3: просрочка не менее срочна, чем «вот-вот».
func deadlineUrgency(deadline *time.Time, now time.Time) float64 {
	if deadline == nil {
		return 1
	}

	hours := deadline.Sub(now).Hours()
	switch {
	case hours < 2:
		return 3
	case hours < 24:
		return 2
	default:
		return 1
	}
}

// EnergyAt — текущий уровень энергии пользователя по часу на стенных часах.
func EnergyAt(hour int) models.Energy {
	switch {
	case hour >= 9 && hour <= 11:
		return models.EnergyHigh
	case hour >= 14 && hour <= 16:
		return models.EnergyMedium
	case hour >= 20 || hour <= 6:
		return models.EnergyLow
	default:
		return models.EnergyMedium
	}
}
