package services

import (
	"time"

	"taskmaster.app/taskmaster/pkg/constants"
	model "taskmaster.app/taskmaster/pkg/models"
)

const analyticsDays = 7

type DailyStat struct {
	Date           string  `json:"date"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type Summary struct {
	Total          int                        `json:"total"`
	Completed      int                        `json:"completed"`
	Pending        int                        `json:"pending"`
	Paused         int                        `json:"paused"`
	Overdue        int                        `json:"overdue"`
	CompletionRate float64                    `json:"completion_rate"`
	WeekTotal      int                        `json:"week_total"`
	WeekCompleted  int                        `json:"week_completed"`
	ByCategory     map[constants.Category]int `json:"by_category"`
	ByPriority     map[constants.Priority]int `json:"by_priority"`
	Daily          []DailyStat                `json:"daily"`
}

// Summarize derives dashboard figures from tasks. Daily covers the seven
// days ending on now, oldest first; the week starts on Monday.
func Summarize(tasks []model.Task, now time.Time) Summary {
	summary := Summary{
		ByCategory: make(map[constants.Category]int, len(constants.Categories)),
		ByPriority: make(map[constants.Priority]int, len(constants.Priorities)),
		Daily:      make([]DailyStat, analyticsDays),
	}
	for _, c := range constants.Categories {
		summary.ByCategory[c] = 0
	}
	for _, p := range constants.Priorities {
		summary.ByPriority[p] = 0
	}

	today := dayOf(now)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	firstDay := today.AddDate(0, 0, -(analyticsDays - 1))

	for i := range summary.Daily {
		summary.Daily[i].Date = firstDay.AddDate(0, 0, i).Format("2006-01-02")
	}

	for _, t := range tasks {
		summary.Total++
		if t.Completed {
			summary.Completed++
		} else {
			summary.Pending++
		}
		if t.Paused {
			summary.Paused++
		}
		summary.ByCategory[t.Category]++
		summary.ByPriority[t.Priority]++

		day := dayOf(t.Date)
		if !t.Completed && day.Before(today) {
			summary.Overdue++
		}
		if !day.Before(weekStart) && day.Before(weekStart.AddDate(0, 0, 7)) {
			summary.WeekTotal++
			if t.Completed {
				summary.WeekCompleted++
			}
		}
		if offset := int(day.Sub(firstDay).Hours() / 24); !day.Before(firstDay) && offset < analyticsDays {
			summary.Daily[offset].Total++
			if t.Completed {
				summary.Daily[offset].Completed++
			}
		}
	}

	summary.CompletionRate = percent(summary.Completed, summary.Total)
	for i := range summary.Daily {
		summary.Daily[i].CompletionRate = percent(summary.Daily[i].Completed, summary.Daily[i].Total)
	}

	return summary
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
