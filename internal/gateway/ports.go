package gateway

import (
	"context"

	model "taskmaster.app/taskmaster/pkg/models"
)

// TaskStore is the owner-scoped task table of the external store.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	Insert(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, ownerID, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, ownerID, id string) error
	Upsert(ctx context.Context, ownerID string, tasks []model.Task) error
}

// UserStore is the profile table of the external store.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Insert(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// BlobStore is the external object store.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Remove(ctx context.Context, paths []string) error
}
