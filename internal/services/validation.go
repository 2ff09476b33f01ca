package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/pkg/constants"
	model "taskmaster.app/taskmaster/pkg/models"
)

type taskRules struct {
	StartTime string `validate:"required,datetime=15:04"`
	EndTime   string `validate:"required,datetime=15:04"`
	Category  string `validate:"task_category"`
	Priority  string `validate:"task_priority"`
}

func newTaskValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("task_category", func(fl validator.FieldLevel) bool {
		return constants.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("task_priority", func(fl validator.FieldLevel) bool {
		return constants.Priority(fl.Field().String()).Valid()
	})
	return v
}

func (s *TaskService) validateTask(task model.Task) error {
	if strings.TrimSpace(task.Name) == "" {
		return apperrors.ErrEmptyName
	}

	rules := taskRules{
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
		Category:  string(task.Category),
		Priority:  string(task.Priority),
	}
	if err := s.validate.Struct(rules); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidField, err)
	}

	return nil
}

// applyDefaults fills the required fields a draft or foreign payload may omit.
func applyDefaults(task *model.Task, today time.Time) {
	if task.Date.IsZero() {
		y, m, d := today.Date()
		task.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	if task.StartTime == "" {
		task.StartTime = constants.DefaultStartTime
	}
	if task.EndTime == "" {
		task.EndTime = constants.DefaultEndTime
	}
	if task.Category == "" {
		task.Category = constants.DefaultCategory
	}
	if task.Priority == "" {
		task.Priority = constants.DefaultPriority
	}
}
