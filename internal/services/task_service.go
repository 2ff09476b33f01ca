package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"taskmaster.app/taskmaster/internal/audit"
	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/internal/gateway"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/identity"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/notifications"
	model "taskmaster.app/taskmaster/pkg/models"
)

const DefaultHistoryLimit = 10

// Actions label history versions, audit events and failure messages.
const (
	ActionCreate  = "create"
	ActionToggle  = "toggle"
	ActionPause   = "pause"
	ActionDelete  = "delete"
	ActionEdit    = "edit"
	ActionReorder = "reorder"
	ActionImport  = "import"
	ActionRestore = "restore"
	ActionShare   = "share"
)

// TaskGateway is the remote task capability the service mutates through.
type TaskGateway interface {
	ListTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	CreateTask(ctx context.Context, task model.Task) error
	UpdateTask(ctx context.Context, ownerID, id string, fields gateway.Fields) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	BulkUpsert(ctx context.Context, ownerID string, tasks []model.Task) error
}

type TaskServiceConfig struct {
	PublicHost   string
	HistoryLimit int
}

// TaskService holds the bound user's ordered task list. Every mutation calls
// the gateway first and touches the local list only after it succeeds.
type TaskService struct {
	gateway      TaskGateway
	log          *notifications.Log
	catalog      *i18n.Catalog
	audit        audit.Publisher
	validate     *validator.Validate
	locks        *keyedMutex
	publicHost   string
	historyLimit int
	now          func() time.Time

	mu      sync.RWMutex
	ownerID string
	tasks   []model.Task
	history map[string][]model.TaskVersion
}

func NewTaskService(
	gw TaskGateway,
	log *notifications.Log,
	catalog *i18n.Catalog,
	publisher audit.Publisher,
	cfg TaskServiceConfig,
) *TaskService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if publisher == nil {
		publisher = audit.NewNoopPublisher()
	}
	return &TaskService{
		gateway:      gw,
		log:          log,
		catalog:      catalog,
		audit:        publisher,
		validate:     newTaskValidator(),
		locks:        newKeyedMutex(),
		publicHost:   cfg.PublicHost,
		historyLimit: cfg.HistoryLimit,
		now:          time.Now,
		history:      make(map[string][]model.TaskVersion),
	}
}

// Bind replaces the local list with tasks fetched for ownerID.
func (s *TaskService) Bind(ownerID string, tasks []model.Task) {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownerID = ownerID
	s.tasks = sorted
	s.history = make(map[string][]model.TaskVersion)
}

func (s *TaskService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownerID = ""
	s.tasks = nil
	s.history = make(map[string][]model.TaskVersion)
}

func (s *TaskService) OwnerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownerID
}

func (s *TaskService) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskService) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// History returns the committed versions of a task, newest first.
func (s *TaskService) History(id string) ([]model.TaskVersion, error) {
	if !identity.IsValidID(id) {
		return nil, apperrors.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.history[id]
	out := make([]model.TaskVersion, len(versions))
	copy(out, versions)
	return out, nil
}

func (s *TaskService) Create(ctx context.Context, draft model.Task) (model.Task, error) {
	owner := s.OwnerID()
	if owner == "" {
		return model.Task{}, s.fail(ctx, ActionCreate, "", draft.Name, apperrors.ErrNotAuthenticated)
	}

	task := draft
	task.ID = identity.GenerateID()
	task.OwnerID = owner
	task.Name = strings.TrimSpace(task.Name)
	applyDefaults(&task, s.now())

	return s.insert(ctx, task, ActionCreate, notifications.KindCreated, i18n.TaskCreated)
}

// Import adopts a task payload from another context under a fresh id owned
// by the bound user.
func (s *TaskService) Import(ctx context.Context, foreign model.Task) (model.Task, error) {
	owner := s.OwnerID()
	if owner == "" {
		return model.Task{}, s.fail(ctx, ActionImport, "", foreign.Name, apperrors.ErrNotAuthenticated)
	}

	task := foreign
	task.ID = identity.GenerateID()
	task.OwnerID = owner
	task.Name = strings.TrimSpace(task.Name)
	task.Owner = nil
	applyDefaults(&task, s.now())

	return s.insert(ctx, task, ActionImport, notifications.KindImported, i18n.TaskImported)
}

// ImportFromLink imports a placeholder task for the id carried by a share link.
func (s *TaskService) ImportFromLink(ctx context.Context, link string) (model.Task, error) {
	id, err := identity.ParseShareLink(link)
	if err != nil {
		return model.Task{}, s.fail(ctx, ActionImport, "", link, apperrors.Wrap(apperrors.ErrInvalidShareLink, err))
	}

	return s.Import(ctx, model.Task{
		Name: s.catalog.T(i18n.SharedTaskName, "id", id[:8]),
	})
}

func (s *TaskService) insert(ctx context.Context, task model.Task, action, kind, messageKey string) (model.Task, error) {
	if err := s.validateTask(task); err != nil {
		return model.Task{}, s.fail(ctx, action, task.ID, task.Name, err)
	}

	s.mu.RLock()
	task.Order = len(s.tasks)
	s.mu.RUnlock()

	unlock := s.locks.Lock(task.ID)
	defer unlock()

	if err := s.gateway.CreateTask(ctx, task); err != nil {
		return model.Task{}, s.fail(ctx, action, task.ID, task.Name, err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.recordVersion(task, "created")
	s.mu.Unlock()

	s.succeed(ctx, action, kind, task, s.catalog.T(messageKey, "name", task.Name))
	return task, nil
}

func (s *TaskService) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	return s.flip(ctx, id, ActionToggle,
		func(t *model.Task) *bool { return &t.Completed },
		"completed",
		[2]string{notifications.KindReopened, notifications.KindCompleted},
		[2]string{i18n.TaskReopened, i18n.TaskCompleted},
	)
}

func (s *TaskService) TogglePause(ctx context.Context, id string) (model.Task, error) {
	return s.flip(ctx, id, ActionPause,
		func(t *model.Task) *bool { return &t.Paused },
		"paused",
		[2]string{notifications.KindResumed, notifications.KindPaused},
		[2]string{i18n.TaskResumed, i18n.TaskPaused},
	)
}

// flip negates one boolean column. kinds and keys are indexed by the
// resulting value (false, true).
func (s *TaskService) flip(
	ctx context.Context,
	id, action string,
	field func(*model.Task) *bool,
	column string,
	kinds, keys [2]string,
) (model.Task, error) {
	if !identity.IsValidID(id) {
		return model.Task{}, s.fail(ctx, action, id, id, apperrors.ErrInvalidID)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, ok := s.Get(id)
	if !ok {
		return model.Task{}, s.fail(ctx, action, id, id, apperrors.ErrTaskNotFound)
	}

	value := !*field(&current)

	if err := s.gateway.UpdateTask(ctx, current.OwnerID, id, gateway.Fields{column: value}); err != nil {
		return model.Task{}, s.fail(ctx, action, id, current.Name, err)
	}

	idx := 0
	if value {
		idx = 1
	}

	next := current
	*field(&next) = value

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		*field(&s.tasks[i]) = value
		next = s.tasks[i]
	}
	s.recordVersion(next, kinds[idx])
	s.mu.Unlock()

	s.succeed(ctx, action, kinds[idx], next, s.catalog.T(keys[idx], "name", next.Name))
	return next, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if !identity.IsValidID(id) {
		return s.fail(ctx, ActionDelete, id, id, apperrors.ErrInvalidID)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, ok := s.Get(id)
	if !ok {
		return s.fail(ctx, ActionDelete, id, id, apperrors.ErrTaskNotFound)
	}
	name := current.Name

	if err := s.gateway.DeleteTask(ctx, current.OwnerID, id); err != nil {
		return s.fail(ctx, ActionDelete, id, name, err)
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	delete(s.history, id)
	s.mu.Unlock()

	s.succeed(ctx, ActionDelete, notifications.KindDeleted, current, s.catalog.T(i18n.TaskDeleted, "name", name))
	return nil
}

// Edit writes every mutable field of updated. Owner and order are kept from
// the local entry; order only changes through Reorder.
func (s *TaskService) Edit(ctx context.Context, updated model.Task) (model.Task, error) {
	return s.replace(ctx, updated, ActionEdit, notifications.KindUpdated, i18n.TaskUpdated, "updated")
}

func (s *TaskService) RestoreFromHistory(ctx context.Context, version model.TaskVersion) (model.Task, error) {
	return s.replace(ctx, version.Task, ActionRestore, notifications.KindRestored, i18n.TaskRestored, "restored")
}

// RestoreVersion restores the version with versionID from the task's history.
func (s *TaskService) RestoreVersion(ctx context.Context, taskID, versionID string) (model.Task, error) {
	versions, err := s.History(taskID)
	if err != nil {
		return model.Task{}, s.fail(ctx, ActionRestore, taskID, taskID, err)
	}
	for _, v := range versions {
		if v.ID == versionID {
			return s.RestoreFromHistory(ctx, v)
		}
	}
	return model.Task{}, s.fail(ctx, ActionRestore, taskID, taskID, apperrors.ErrTaskNotFound)
}

func (s *TaskService) replace(ctx context.Context, updated model.Task, action, kind, messageKey, versionAction string) (model.Task, error) {
	if !identity.IsValidID(updated.ID) {
		return model.Task{}, s.fail(ctx, action, updated.ID, updated.Name, apperrors.ErrInvalidID)
	}

	updated.Name = strings.TrimSpace(updated.Name)
	if err := s.validateTask(updated); err != nil {
		return model.Task{}, s.fail(ctx, action, updated.ID, updated.Name, err)
	}

	unlock := s.locks.Lock(updated.ID)
	defer unlock()

	current, ok := s.Get(updated.ID)
	if !ok {
		return model.Task{}, s.fail(ctx, action, updated.ID, updated.Name, apperrors.ErrTaskNotFound)
	}

	next := updated
	next.OwnerID = current.OwnerID
	next.Order = current.Order
	next.Owner = nil

	if err := s.gateway.UpdateTask(ctx, current.OwnerID, next.ID, gateway.TaskFields(next)); err != nil {
		return model.Task{}, s.fail(ctx, action, next.ID, next.Name, err)
	}

	s.mu.Lock()
	if i := s.indexOf(next.ID); i >= 0 {
		next.Order = s.tasks[i].Order
		s.tasks[i] = next
	}
	s.recordVersion(next, versionAction)
	s.mu.Unlock()

	s.succeed(ctx, action, kind, next, s.catalog.T(messageKey, "name", next.Name))
	return next, nil
}

// Reorder renumbers ordered 0..N-1 by position and upserts the batch. ordered
// must name every local task exactly once. The local list becomes the
// renumbered list once the batch succeeds.
func (s *TaskService) Reorder(ctx context.Context, ordered []model.Task) ([]model.Task, error) {
	owner := s.OwnerID()
	if owner == "" {
		return nil, s.fail(ctx, ActionReorder, "", "", apperrors.ErrNotAuthenticated)
	}

	for _, task := range ordered {
		if !identity.IsValidID(task.ID) {
			return nil, s.fail(ctx, ActionReorder, task.ID, task.Name, apperrors.ErrInvalidID)
		}
	}
	if err := s.checkPermutation(ordered); err != nil {
		return nil, s.fail(ctx, ActionReorder, "", "", err)
	}

	renumbered := make([]model.Task, len(ordered))
	for i, task := range ordered {
		task.Order = i
		task.OwnerID = owner
		task.Owner = nil
		renumbered[i] = task
	}

	if err := s.gateway.BulkUpsert(ctx, owner, renumbered); err != nil {
		return nil, s.fail(ctx, ActionReorder, "", "", err)
	}

	s.mu.Lock()
	s.tasks = renumbered
	s.mu.Unlock()

	out := make([]model.Task, len(renumbered))
	copy(out, renumbered)

	s.succeed(ctx, ActionReorder, notifications.KindReordered, model.Task{OwnerID: owner}, s.catalog.T(i18n.TasksReordered))
	return out, nil
}

// checkPermutation reports whether ordered holds every local task exactly once.
func (s *TaskService) checkPermutation(ordered []model.Task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ordered) != len(s.tasks) {
		return apperrors.Wrap(apperrors.ErrInvalidField,
			fmt.Errorf("reorder lists %d tasks, %d are bound", len(ordered), len(s.tasks)))
	}

	seen := make(map[string]struct{}, len(ordered))
	for _, task := range ordered {
		if _, dup := seen[task.ID]; dup {
			return apperrors.Wrap(apperrors.ErrInvalidField, fmt.Errorf("task %s listed twice", task.ID))
		}
		if s.indexOf(task.ID) < 0 {
			return apperrors.Wrap(apperrors.ErrInvalidField, fmt.Errorf("task %s is not bound", task.ID))
		}
		seen[task.ID] = struct{}{}
	}
	return nil
}

// ReorderByID reorders the local tasks to match ids.
func (s *TaskService) ReorderByID(ctx context.Context, ids []string) ([]model.Task, error) {
	s.mu.RLock()
	byID := make(map[string]model.Task, len(s.tasks))
	for _, t := range s.tasks {
		byID[t.ID] = t
	}
	s.mu.RUnlock()

	ordered := make([]model.Task, len(ids))
	for i, id := range ids {
		task, ok := byID[id]
		if !ok {
			task = model.Task{ID: id}
		}
		ordered[i] = task
	}

	return s.Reorder(ctx, ordered)
}

// Share records that a task was shared with email and returns its link.
func (s *TaskService) Share(ctx context.Context, id, email string) (string, error) {
	if !identity.IsValidID(id) {
		return "", s.fail(ctx, ActionShare, id, id, apperrors.ErrInvalidID)
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", s.fail(ctx, ActionShare, id, id, apperrors.Wrap(apperrors.ErrInvalidField, err))
	}

	task, ok := s.Get(id)
	if !ok {
		return "", s.fail(ctx, ActionShare, id, id, apperrors.ErrTaskNotFound)
	}

	link, err := identity.ShareLink(s.publicHost, id)
	if err != nil {
		return "", s.fail(ctx, ActionShare, id, task.Name, apperrors.Wrap(apperrors.ErrInvalidShareLink, err))
	}

	message := s.catalog.T(i18n.TaskShared, "name", task.Name, "email", email)
	s.log.Append(ctx, notifications.Event{Kind: notifications.KindShared, SubjectID: id + ":" + email, Message: message})
	s.publish(ctx, audit.Event{
		Kind:      "task.shared",
		UserID:    task.OwnerID,
		SubjectID: id,
		Message:   message,
		Detail:    email,
	})

	return link, nil
}

func (s *TaskService) ShareLink(id string) (string, error) {
	if !identity.IsValidID(id) {
		return "", apperrors.ErrInvalidID
	}
	return identity.ShareLink(s.publicHost, id)
}

// Analytics summarizes the local list as of now.
func (s *TaskService) Analytics() Summary {
	return Summarize(s.Tasks(), s.now())
}

func (s *TaskService) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// recordVersion must be called with s.mu held.
func (s *TaskService) recordVersion(task model.Task, action string) {
	version := model.TaskVersion{
		ID:        identity.GenerateID(),
		Action:    action,
		Task:      task,
		Timestamp: s.now(),
	}

	versions := append([]model.TaskVersion{version}, s.history[task.ID]...)
	if len(versions) > s.historyLimit {
		versions = versions[:s.historyLimit]
	}
	s.history[task.ID] = versions
}

func (s *TaskService) succeed(ctx context.Context, action, kind string, task model.Task, message string) {
	s.log.Append(ctx, notifications.Event{Kind: kind, SubjectID: task.ID, Message: message})

	logger.InfoContext(ctx, "Task mutation committed", "action", action, "task_id", task.ID)

	s.publish(ctx, audit.Event{
		Kind:      "task." + kind,
		UserID:    task.OwnerID,
		SubjectID: task.ID,
		Message:   message,
	})
}

// fail records err as an error notification and returns it unchanged.
func (s *TaskService) fail(ctx context.Context, action, id, name string, err error) error {
	kind := apperrors.KindOf(err)
	message := s.catalog.T(i18n.OperationFailed,
		"action", s.catalog.T("action_"+action),
		"name", name,
		"reason", s.catalog.T("reason_"+string(kind)),
	)

	s.log.Append(ctx, notifications.Event{
		Kind:      notifications.KindError,
		SubjectID: action + ":" + id,
		Message:   message,
	})

	logger.WarnContext(ctx, "Task mutation failed", "action", action, "task_id", id, "kind", kind, "error", err)

	s.publish(ctx, audit.Event{
		Kind:      "task.error",
		UserID:    s.OwnerID(),
		SubjectID: id,
		Message:   message,
		Detail:    err.Error(),
	})

	return err
}

func (s *TaskService) publish(ctx context.Context, event audit.Event) {
	event.OccurredAt = s.now().UTC()
	if err := s.audit.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Audit publish failed", "kind", event.Kind, "error", err)
	}
}
