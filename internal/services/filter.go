package services

import (
	"strings"
	"time"

	"taskmaster.app/taskmaster/pkg/constants"
	model "taskmaster.app/taskmaster/pkg/models"
)

const (
	StatusAll       = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusPaused    = "paused"
)

// TaskFilter narrows a task list. Zero fields match everything.
type TaskFilter struct {
	Query    string
	Category constants.Category
	Priority constants.Priority
	Status   string
	Date     *time.Time
}

func (f TaskFilter) Match(task model.Task) bool {
	if q := strings.TrimSpace(f.Query); q != "" &&
		!strings.Contains(strings.ToLower(task.Name), strings.ToLower(q)) {
		return false
	}
	if f.Category != "" && task.Category != f.Category {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}

	switch f.Status {
	case StatusCompleted:
		if !task.Completed {
			return false
		}
	case StatusPending:
		if task.Completed {
			return false
		}
	case StatusPaused:
		if !task.Paused {
			return false
		}
	}

	if f.Date != nil && !sameDay(task.Date, *f.Date) {
		return false
	}
	return true
}

// Filter returns the local tasks matching f, in display order.
func (s *TaskService) Filter(f TaskFilter) []model.Task {
	out := make([]model.Task, 0)
	for _, task := range s.Tasks() {
		if f.Match(task) {
			out = append(out, task)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
