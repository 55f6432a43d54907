// Пакет analytics — вывод снимка статистики из списка задач и журнала
// чата. Снимок всегда вычислим заново, хранится только как кеш.
package analytics

import (
	"math"
	"time"

	"taskboard/internal/models"
)

const dateLayout = "2006-01-02"

// Aggregate строит новый снимок. prev — предыдущий сохранённый снимок:
// из него переносится (и при смене календарного дня обновляется) базовая
// линия для трендов. Граница дня — локальная полночь сервера.
func Aggregate(tasks []models.Task, chatLog []models.ChatEntry, prev models.Analytics, now time.Time) models.Analytics {
	snapshot := models.Analytics{
		TotalTasks:       len(tasks),
		CompletedToday:   completedToday(tasks, now),
		FocusTime:        focusTime(tasks),
		TimeDistribution: timeDistribution(tasks),
		Weekly:           weekly(tasks, now),
		UpdatedAt:        now,
	}

	snapshot.Baseline = rollBaseline(prev, chatCountOn(chatLog, now), now)
	snapshot.Trends = trends(snapshot, chatCountOn(chatLog, now))
	return snapshot
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func completedToday(tasks []models.Task, now time.Time) int {
	count := 0
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil && sameDay(*t.CompletedAt, now) {
			count++
		}
	}
	return count
}

// focusTime — суммарные часы по завершённым задачам; задача без
// длительности оценивается в 30 минут.
func focusTime(tasks []models.Task) float64 {
	minutes := 0
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		if t.Duration > 0 {
			minutes += t.Duration
		} else {
			minutes += models.DefaultDuration
		}
	}
	return float64(minutes) / 60
}

func timeDistribution(tasks []models.Task) map[string]models.CategoryShare {
	dist := map[string]models.CategoryShare{}
	if len(tasks) == 0 {
		return dist
	}

	focus := focusTime(tasks)
	counts := map[string]int{}
	for _, t := range tasks {
		category := t.Category
		if category == "" {
			category = models.DefaultCategory
		}
		counts[category]++
	}

	total := len(tasks)
	if total < 1 {
		total = 1
	}
	for category, n := range counts {
		share := float64(n) / float64(total)
		dist[category] = models.CategoryShare{
			Hours:   share * focus,
			Percent: int(math.Round(share * 100)),
		}
	}
	return dist
}

// weekly — семь последних календарных дней, от старшего к сегодняшнему.
func weekly(tasks []models.Task, now time.Time) []models.DayStat {
	stats := make([]models.DayStat, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)

		created, completed := 0, 0
		for _, t := range tasks {
			if sameDay(t.CreatedAt, day) {
				created++
			}
			if t.Completed && t.CompletedAt != nil && sameDay(*t.CompletedAt, day) {
				completed++
			}
		}

		rate := 0
		if created > 0 {
			rate = completed * 100 / created
		}
		stats = append(stats, models.DayStat{
			Date:      day.Format(dateLayout),
			Created:   created,
			Completed: completed,
			Rate:      rate,
		})
	}
	return stats
}

func chatCountOn(chatLog []models.ChatEntry, day time.Time) int {
	count := 0
	for _, entry := range chatLog {
		if sameDay(entry.CreatedAt, day) {
			count++
		}
	}
	return count
}

// rollBaseline переносит базовую линию из предыдущего снимка. Первый же
// пересчёт в новом календарном дне фиксирует значения предыдущего снимка
// как новую базу, дальше в течение дня база не двигается.
func rollBaseline(prev models.Analytics, chatToday int, now time.Time) *models.Baseline {
	today := now.Format(dateLayout)

	if prev.Baseline != nil && prev.Baseline.Date == today {
		base := *prev.Baseline
		return &base
	}

	if prev.UpdatedAt.IsZero() {
		// первый пересчёт вообще: базой становится текущий день с нулями
		return &models.Baseline{Date: today}
	}

	return &models.Baseline{
		Date:           today,
		TotalTasks:     prev.TotalTasks,
		CompletedToday: prev.CompletedToday,
		FocusTime:      prev.FocusTime,
		ChatCount:      chatToday,
	}
}

func trends(snapshot models.Analytics, chatToday int) models.Trends {
	base := snapshot.Baseline
	if base == nil {
		return models.Trends{}
	}
	return models.Trends{
		Completed:  pctDelta(float64(snapshot.CompletedToday), float64(base.CompletedToday)),
		Focus:      pctDelta(snapshot.FocusTime, base.FocusTime),
		TotalTasks: pctDelta(float64(snapshot.TotalTasks), float64(base.TotalTasks)),
		AIUsage:    pctDelta(float64(chatToday), float64(base.ChatCount)),
	}
}

func pctDelta(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}
