// Пакет assistant — эвристический «AI»-собеседник. Никакой модели:
// сообщение приводится к нижнему регистру и проверяется по упорядоченному
// списку групп ключевых слов, побеждает первая совпавшая группа.
package assistant

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/models"
)

// Context — всё, что ответчику разрешено знать о пользователе.
type Context struct {
	Tasks       []models.Task
	Preferences models.Preferences
	Now         time.Time
	Energy      models.Energy
}

type matcher struct {
	keywords []string
	respond  func(Context) string
}

// Порядок групп — часть контракта: сообщение со словами «schedule» и
// «task» обязано попасть в ветку расписания.
var matchers = []matcher{
	{keywords: []string{"focus", "concentrate"}, respond: focusResponse},
	{keywords: []string{"productivity", "productive"}, respond: productivityResponse},
	{keywords: []string{"schedule", "calendar"}, respond: scheduleResponse},
	{keywords: []string{"task", "tasks"}, respond: taskResponse},
}

func Respond(message string, ctx Context) string {
	lowered := strings.ToLower(message)

	for _, m := range matchers {
		for _, keyword := range m.keywords {
			if strings.Contains(lowered, keyword) {
				return m.respond(ctx)
			}
		}
	}

	return defaultResponse(ctx)
}

// focusResponse предлагает первую активную задачу с приоритетом high или
// urgent; без таковой — общий совет с учётом уровня энергии.
func focusResponse(ctx Context) string {
	for _, t := range ctx.Tasks {
		if t.Completed {
			continue
		}
		if t.Priority == models.PriorityHigh || t.Priority == models.PriorityUrgent {
			return fmt.Sprintf(
				"Your best focus candidate right now is %q, it's %s priority. Silence notifications and give it one focused block.",
				t.Title, t.Priority)
		}
	}
	if ctx.Energy == models.EnergyLow {
		return "Your energy is low right now. Pick something light and save deep work for your peak hours."
	}
	return "No urgent tasks on the list. Pick the one task that matters most and start a focus block."
}

func productivityResponse(ctx Context) string {
	active := 0
	for _, t := range ctx.Tasks {
		if !t.Completed {
			active++
		}
	}
	if active > 5 {
		return fmt.Sprintf(
			"You have %d open tasks. Try batching the small ones and protecting one deep-work block of %d minutes.",
			active, ctx.Preferences.FocusBlock)
	}
	return "Work in focused blocks, take real breaks, and close your day by planning tomorrow's top three tasks."
}

// scheduleResponse считает задачи со сроком в ближайшие сутки.
func scheduleResponse(ctx Context) string {
	dueSoon := 0
	for _, t := range ctx.Tasks {
		if t.Completed || t.Deadline == nil {
			continue
		}
		left := t.Deadline.Sub(ctx.Now)
		if left > 0 && left < 24*time.Hour {
			dueSoon++
		}
	}

	if dueSoon == 0 {
		return fmt.Sprintf(
			"Your next 24 hours look clear. Working hours today: %s–%s.",
			ctx.Preferences.WorkingHours.Start, ctx.Preferences.WorkingHours.End)
	}
	return fmt.Sprintf(
		"You have %d task(s) due within the next 24 hours. Schedule them into your working hours (%s–%s) before anything else.",
		dueSoon, ctx.Preferences.WorkingHours.Start, ctx.Preferences.WorkingHours.End)
}

func taskResponse(ctx Context) string {
	active, done := 0, 0
	for _, t := range ctx.Tasks {
		if t.Completed {
			done++
		} else {
			active++
		}
	}
	return fmt.Sprintf(
		"You have %d active task(s) and %d completed. Want me to reorder the list? Use the optimize button.",
		active, done)
}

func defaultResponse(ctx Context) string {
	if len(ctx.Tasks) == 0 {
		return "Your task list is empty. Add a task and I can help you plan your day around it."
	}
	return "I can help with your tasks, schedule, focus, or productivity. Ask me about any of them."
}
