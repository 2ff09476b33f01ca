package validators

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	dto "taskmaster.app/taskmaster/internal/data_models"
	"taskmaster.app/taskmaster/internal/services"
	"taskmaster.app/taskmaster/pkg/constants"
	model "taskmaster.app/taskmaster/pkg/models"
)

var validate = validator.New()

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// Struct validates a request DTO and reports the first failing field.
func Struct(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, describe(err))
	}
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err.Error()
}

func parseTime(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, field+" must be a date or date-time")
}

func parseDeadline(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseTime("deadline", *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TaskFromRequest validates r and converts it to a task without id or owner.
func TaskFromRequest(r *dto.TaskRequest) (model.Task, error) {
	if err := Struct(r); err != nil {
		return model.Task{}, err
	}
	if strings.TrimSpace(r.Name) == "" {
		return model.Task{}, echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	date, err := parseTime("date", r.Date)
	if err != nil {
		return model.Task{}, err
	}
	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return model.Task{}, err
	}

	return model.Task{
		Name:      r.Name,
		Date:      date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Category:  constants.Category(r.Category),
		Priority:  constants.Priority(r.Priority),
		Completed: r.Completed,
		Paused:    r.Paused,
		Reminder:  r.Reminder,
		Deadline:  deadline,
	}, nil
}

// TaskFromForeign converts an import payload, leaving missing fields empty
// for the store to default.
func TaskFromForeign(r *dto.ForeignTask) (model.Task, error) {
	if err := Struct(r); err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:        r.ID,
		Name:      r.Name,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Category:  constants.Category(r.Category),
		Priority:  constants.Priority(r.Priority),
		Completed: r.Completed,
		Paused:    r.Paused,
		Reminder:  r.Reminder,
	}

	if r.Date != "" {
		date, err := parseTime("date", r.Date)
		if err != nil {
			return model.Task{}, err
		}
		task.Date = date
	}

	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return model.Task{}, err
	}
	task.Deadline = deadline

	return task, nil
}

// TaskFilterFromQuery validates list query parameters. "all" is the same as
// leaving a parameter out.
func TaskFilterFromQuery(q *dto.TaskQuery) (services.TaskFilter, error) {
	if err := Struct(q); err != nil {
		return services.TaskFilter{}, err
	}

	filter := services.TaskFilter{Query: q.Q}
	if q.Category != "all" {
		filter.Category = constants.Category(q.Category)
	}
	if q.Priority != "all" {
		filter.Priority = constants.Priority(q.Priority)
	}
	if q.Status != "all" {
		filter.Status = q.Status
	}

	if q.Date != "" {
		date, err := parseTime("date", q.Date)
		if err != nil {
			return services.TaskFilter{}, err
		}
		filter.Date = &date
	}
	return filter, nil
}
