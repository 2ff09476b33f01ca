package gateway

import (
	"context"

	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/internal/identity"
	model "taskmaster.app/taskmaster/pkg/models"
)

// Fields is a partial task update keyed by column name.
type Fields map[string]interface{}

// TaskFields returns the editable columns of task. user_id never changes
// after creation and task_order is only written by BulkUpsert.
func TaskFields(task model.Task) Fields {
	return Fields{
		"name":       task.Name,
		"date":       task.Date,
		"start_time": task.StartTime,
		"end_time":   task.EndTime,
		"category":   task.Category,
		"completed":  task.Completed,
		"paused":     task.Paused,
		"reminder":   task.Reminder,
		"priority":   task.Priority,
		"deadline":   task.Deadline,
	}
}

// TaskGateway issues task calls against the external store. It never retries.
type TaskGateway struct {
	store TaskStore
}

func NewTaskGateway(store TaskStore) *TaskGateway {
	return &TaskGateway{store: store}
}

func (g *TaskGateway) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := g.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, Normalize(err)
	}
	return tasks, nil
}

func (g *TaskGateway) CreateTask(ctx context.Context, task model.Task) error {
	if !identity.IsValidID(task.ID) {
		return apperrors.ErrInvalidID
	}
	return Normalize(g.store.Insert(ctx, &task))
}

func (g *TaskGateway) UpdateTask(ctx context.Context, ownerID, id string, fields Fields) error {
	if !identity.IsValidID(id) {
		return apperrors.ErrInvalidID
	}
	return Normalize(g.store.Update(ctx, ownerID, id, fields))
}

func (g *TaskGateway) DeleteTask(ctx context.Context, ownerID, id string) error {
	if !identity.IsValidID(id) {
		return apperrors.ErrInvalidID
	}
	return Normalize(g.store.Delete(ctx, ownerID, id))
}

func (g *TaskGateway) BulkUpsert(ctx context.Context, ownerID string, tasks []model.Task) error {
	for _, task := range tasks {
		if !identity.IsValidID(task.ID) {
			return apperrors.ErrInvalidID
		}
	}
	return Normalize(g.store.Upsert(ctx, ownerID, tasks))
}
