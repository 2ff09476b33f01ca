package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "taskmaster.app/taskmaster/pkg/models"
)

// ErrOwnerMismatch is returned when a row exists but belongs to another user.
// It plays the role of a row-level policy rejection.
var ErrOwnerMismatch = errors.New("row is owned by another user")

// TaskRepository is the owner-scoped task table. Every statement carries a
// user_id predicate.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("task_order asc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) Update(ctx context.Context, ownerID, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return r.missing(ctx, id)
	}

	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Task{})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return r.missing(ctx, id)
	}

	return nil
}

// Upsert writes all tasks in one transaction. Rows already owned by another
// user reject the whole batch.
func (r *TaskRepository) Upsert(ctx context.Context, ownerID string, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.OwnerID != ownerID {
			return ErrOwnerMismatch
		}
		ids = append(ids, task.ID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var foreign int64
		if err := tx.Model(&model.Task{}).
			Where("id IN ? AND user_id <> ?", ids, ownerID).
			Count(&foreign).Error; err != nil {
			return err
		}
		if foreign > 0 {
			return ErrOwnerMismatch
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "date", "start_time", "end_time", "category", "completed",
				"paused", "reminder", "priority", "deadline", "task_order",
			}),
		}).Create(&tasks).Error
	})
}

func (r *TaskRepository) missing(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrOwnerMismatch
	}
	return gorm.ErrRecordNotFound
}
