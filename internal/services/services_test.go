package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/internal/gateway"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/identity"
	"taskmaster.app/taskmaster/internal/notifications"
	"taskmaster.app/taskmaster/pkg/constants"
	model "taskmaster.app/taskmaster/pkg/models"
)

const testOwner = "6f1c3a52-7d0e-4c55-9b7a-2f0d6b1e9c01"

// fakeGateway records every call and fails with err when set.
type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	err      error
	delay    time.Duration
	inserted []model.Task
	updates  []gateway.Fields
	deletes  []string
	upserts  [][]model.Task
	onUpdate func()
}

func (f *fakeGateway) record() error {
	f.mu.Lock()
	f.calls++
	delay := f.delay
	err := f.err
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGateway) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	return nil, f.record()
}

func (f *fakeGateway) CreateTask(ctx context.Context, task model.Task) error {
	if err := f.record(); err != nil {
		return err
	}
	f.mu.Lock()
	f.inserted = append(f.inserted, task)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) UpdateTask(ctx context.Context, ownerID, id string, fields gateway.Fields) error {
	if f.onUpdate != nil {
		f.onUpdate()
	}
	if err := f.record(); err != nil {
		return err
	}
	f.mu.Lock()
	f.updates = append(f.updates, fields)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := f.record(); err != nil {
		return err
	}
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) BulkUpsert(ctx context.Context, ownerID string, tasks []model.Task) error {
	if err := f.record(); err != nil {
		return err
	}
	f.mu.Lock()
	f.upserts = append(f.upserts, tasks)
	f.mu.Unlock()
	return nil
}

func newTestService(t *testing.T, gw *fakeGateway) (*TaskService, *notifications.Log) {
	t.Helper()

	catalog, err := i18n.Load("en")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	log := notifications.NewLog(notifications.Config{Limit: notifications.DefaultLimit}, notifications.NewMemoryKeyTracker())
	svc := NewTaskService(gw, log, catalog, nil, TaskServiceConfig{PublicHost: "taskmaster.app"})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return svc, log
}

func seedTask(name string, order int) model.Task {
	return model.Task{
		ID:        identity.GenerateID(),
		OwnerID:   testOwner,
		Name:      name,
		Date:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		Category:  constants.CategoryWork,
		Priority:  constants.PriorityMedium,
		Order:     order,
	}
}

func TestTaskService_CreateWriteReport(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	svc.Bind(testOwner, nil)

	task, err := svc.Create(context.Background(), model.Task{
		Name:      "Write report",
		Date:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		Category:  constants.CategoryWork,
		Priority:  constants.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(gw.inserted) != 1 {
		t.Fatalf("expected 1 insert call, got %d", len(gw.inserted))
	}
	if gw.inserted[0].Order != 0 {
		t.Errorf("expected order 0, got %d", gw.inserted[0].Order)
	}
	if gw.inserted[0].OwnerID != testOwner {
		t.Errorf("expected owner %s, got %s", testOwner, gw.inserted[0].OwnerID)
	}
	if !identity.IsValidID(task.ID) {
		t.Errorf("created task has invalid id %q", task.ID)
	}

	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("expected local list [task], got %+v", tasks)
	}

	records := log.List()
	if len(records) != 1 || !strings.Contains(records[0].Message, `"Write report" created`) {
		t.Errorf("unexpected notifications: %+v", records)
	}
}

func TestTaskService_CreateOrderFollowsLength(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	svc.Bind(testOwner, []model.Task{seedTask("a", 0), seedTask("b", 1)})

	task, err := svc.Create(context.Background(), model.Task{Name: "c"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Order != 2 {
		t.Errorf("expected order 2, got %d", task.Order)
	}
	if got := len(svc.Tasks()); got != 3 {
		t.Errorf("expected 3 tasks, got %d", got)
	}
}

func TestTaskService_CreateFailureLeavesListUnchanged(t *testing.T) {
	gw := &fakeGateway{err: apperrors.ErrTransport}
	svc, log := newTestService(t, gw)
	svc.Bind(testOwner, []model.Task{seedTask("existing", 0)})

	if _, err := svc.Create(context.Background(), model.Task{Name: "new"}); !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if got := len(svc.Tasks()); got != 1 {
		t.Errorf("expected list length 1, got %d", got)
	}

	records := log.List()
	if len(records) != 1 || records[0].Kind != notifications.KindError {
		t.Errorf("expected one error notification, got %+v", records)
	}
}

func TestTaskService_RejectsEmptyNameAndMissingOwner(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()

	if _, err := svc.Create(ctx, model.Task{Name: "no owner"}); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Errorf("expected not authenticated, got %v", err)
	}

	svc.Bind(testOwner, nil)
	if _, err := svc.Create(ctx, model.Task{Name: "   "}); !errors.Is(err, apperrors.ErrEmptyName) {
		t.Errorf("expected empty name error, got %v", err)
	}
	if _, err := svc.Create(ctx, model.Task{Name: "bad time", StartTime: "9am"}); apperrors.KindOf(err) != apperrors.KindInvalidEntity {
		t.Errorf("expected invalid entity, got %v", err)
	}

	if gw.callCount() != 0 {
		t.Errorf("expected no gateway calls, got %d", gw.callCount())
	}
}

func TestTaskService_InvalidIDsNeverReachGateway(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	svc.Bind(testOwner, []model.Task{seedTask("a", 0)})
	ctx := context.Background()

	for _, id := range []string{"", "not-a-uuid", "123", "6f1c3a52-7d0e-4c55-9b7a-2f0d6b1e9c0"} {
		if _, err := svc.ToggleComplete(ctx, id); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("toggle %q: expected invalid id, got %v", id, err)
		}
		if _, err := svc.TogglePause(ctx, id); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("pause %q: expected invalid id, got %v", id, err)
		}
		if err := svc.Delete(ctx, id); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("delete %q: expected invalid id, got %v", id, err)
		}
		edited := seedTask("x", 0)
		edited.ID = id
		if _, err := svc.Edit(ctx, edited); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("edit %q: expected invalid id, got %v", id, err)
		}
		if _, err := svc.RestoreFromHistory(ctx, model.TaskVersion{Task: edited}); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("restore %q: expected invalid id, got %v", id, err)
		}
		if _, err := svc.Reorder(ctx, []model.Task{edited}); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("reorder %q: expected invalid id, got %v", id, err)
		}
		if _, err := svc.Share(ctx, id, "friend@example.com"); !errors.Is(err, apperrors.ErrInvalidID) {
			t.Errorf("share %q: expected invalid id, got %v", id, err)
		}
	}

	if gw.callCount() != 0 {
		t.Errorf("expected zero gateway calls, got %d", gw.callCount())
	}
}

func TestTaskService_ToggleTwiceRestoresValue(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	task := seedTask("Write report", 0)
	svc.Bind(testOwner, []model.Task{task})
	ctx := context.Background()

	if _, err := svc.ToggleComplete(ctx, task.ID); err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if _, err := svc.ToggleComplete(ctx, task.ID); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}

	got, ok := svc.Get(task.ID)
	if !ok || got.Completed != task.Completed {
		t.Errorf("expected completed=%v after two toggles, got %+v", task.Completed, got)
	}

	records := log.List()
	if len(records) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(records))
	}
	// newest first
	if records[1].Kind != notifications.KindCompleted || records[0].Kind != notifications.KindReopened {
		t.Errorf("expected completed then reopened, got %s then %s", records[1].Kind, records[0].Kind)
	}
}

func TestTaskService_PauseDoesNotTouchCompleted(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	task := seedTask("a", 0)
	task.Completed = true
	svc.Bind(testOwner, []model.Task{task})

	got, err := svc.TogglePause(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if !got.Paused || !got.Completed {
		t.Errorf("expected paused and completed, got %+v", got)
	}
	if v, ok := gw.updates[0]["paused"]; !ok || v != true || len(gw.updates[0]) != 1 {
		t.Errorf("expected single paused=true field, got %+v", gw.updates[0])
	}
}

func TestTaskService_ConcurrentTogglesSerializePerTask(t *testing.T) {
	gw := &fakeGateway{delay: 20 * time.Millisecond}
	svc, _ := newTestService(t, gw)
	task := seedTask("a", 0)
	svc.Bind(testOwner, []model.Task{task})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ToggleComplete(context.Background(), task.ID); err != nil {
				t.Errorf("toggle failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(gw.updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(gw.updates))
	}
	if gw.updates[0]["completed"] != true || gw.updates[1]["completed"] != false {
		t.Errorf("expected true then false, got %v then %v", gw.updates[0]["completed"], gw.updates[1]["completed"])
	}
	if got, _ := svc.Get(task.ID); got.Completed {
		t.Error("expected task back to not completed")
	}
}

func TestTaskService_DeleteTransportFailure(t *testing.T) {
	gw := &fakeGateway{err: apperrors.ErrTransport}
	svc, log := newTestService(t, gw)
	task := seedTask("Keep me", 0)
	svc.Bind(testOwner, []model.Task{task})

	if err := svc.Delete(context.Background(), task.ID); apperrors.KindOf(err) != apperrors.KindTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}

	if got := len(svc.Tasks()); got != 1 {
		t.Errorf("expected list unchanged, got %d tasks", got)
	}
	if _, ok := svc.Get(task.ID); !ok {
		t.Error("task no longer retrievable by id")
	}

	records := log.List()
	if len(records) != 1 || records[0].Kind != notifications.KindError {
		t.Errorf("expected one error notification, got %+v", records)
	}
	if !strings.Contains(records[0].Message, "Keep me") {
		t.Errorf("error message missing task name: %q", records[0].Message)
	}
}

func TestTaskService_DeleteUsesNameCapturedBeforeRemoval(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	task := seedTask("Old chores", 0)
	svc.Bind(testOwner, []model.Task{task, seedTask("b", 1)})

	if err := svc.Delete(context.Background(), task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := svc.Get(task.ID); ok {
		t.Error("task still present after delete")
	}
	if records := log.List(); !strings.Contains(records[0].Message, "Old chores") {
		t.Errorf("expected deleted message with name, got %q", records[0].Message)
	}
}

func TestTaskService_ReorderRoundTrip(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	a, b, c, d := seedTask("a", 0), seedTask("b", 1), seedTask("c", 2), seedTask("d", 3)
	svc.Bind(testOwner, []model.Task{a, b, c, d})

	permuted := []model.Task{c, a, d, b}
	if _, err := svc.Reorder(context.Background(), permuted); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	tasks := svc.Tasks()
	if len(tasks) != len(permuted) {
		t.Fatalf("expected %d tasks, got %d", len(permuted), len(tasks))
	}
	for i, task := range tasks {
		if task.ID != permuted[i].ID {
			t.Errorf("position %d: expected %s, got %s", i, permuted[i].Name, task.Name)
		}
		if task.Order != i {
			t.Errorf("position %d: expected order %d, got %d", i, i, task.Order)
		}
	}

	if len(gw.upserts) != 1 || len(gw.upserts[0]) != 4 {
		t.Errorf("expected one batch of 4, got %+v", gw.upserts)
	}
}

func TestTaskService_ReorderRejectsNonPermutations(t *testing.T) {
	a, b, c := seedTask("a", 0), seedTask("b", 1), seedTask("c", 2)
	stranger := seedTask("stranger", 0)

	cases := []struct {
		name    string
		ordered []model.Task
	}{
		{"subset", []model.Task{c}},
		{"duplicate", []model.Task{a, a, b, c}},
		{"repeated within length", []model.Task{a, a, c}},
		{"unknown task", []model.Task{a, b, stranger}},
		{"empty", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			svc, _ := newTestService(t, gw)
			svc.Bind(testOwner, []model.Task{a, b, c})

			_, err := svc.Reorder(context.Background(), tc.ordered)
			if apperrors.KindOf(err) != apperrors.KindInvalidEntity {
				t.Errorf("expected invalid entity, got %v", err)
			}
			if gw.callCount() != 0 {
				t.Errorf("expected no gateway calls, got %d", gw.callCount())
			}
			if got := svc.Tasks(); !reflect.DeepEqual(got, []model.Task{a, b, c}) {
				t.Errorf("local list changed: %+v", got)
			}
		})
	}
}

func TestTaskService_EditDoesNotWriteOrderBack(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	a, b := seedTask("a", 0), seedTask("b", 1)
	svc.Bind(testOwner, []model.Task{a, b})
	ctx := context.Background()

	gw.onUpdate = func() {
		gw.onUpdate = nil
		if _, err := svc.Reorder(ctx, []model.Task{b, a}); err != nil {
			t.Errorf("reorder failed: %v", err)
		}
	}

	edited := a
	edited.Name = "a2"
	got, err := svc.Edit(ctx, edited)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if _, ok := gw.updates[0]["task_order"]; ok {
		t.Errorf("edit wrote task_order: %+v", gw.updates[0])
	}
	if got.Order != 1 {
		t.Errorf("expected order from the committed reorder, got %d", got.Order)
	}
	if local, _ := svc.Get(a.ID); local.Order != 1 || local.Name != "a2" {
		t.Errorf("unexpected local entry %+v", local)
	}
}

func TestTaskService_GatewayFailureLeavesStateUnchanged(t *testing.T) {
	a, b := seedTask("a", 0), seedTask("b", 1)
	edited := a
	edited.Name = "renamed"

	cases := []struct {
		name string
		run  func(ctx context.Context, svc *TaskService) error
	}{
		{"toggle", func(ctx context.Context, svc *TaskService) error {
			_, err := svc.ToggleComplete(ctx, a.ID)
			return err
		}},
		{"pause", func(ctx context.Context, svc *TaskService) error {
			_, err := svc.TogglePause(ctx, a.ID)
			return err
		}},
		{"edit", func(ctx context.Context, svc *TaskService) error {
			_, err := svc.Edit(ctx, edited)
			return err
		}},
		{"restore", func(ctx context.Context, svc *TaskService) error {
			_, err := svc.RestoreFromHistory(ctx, model.TaskVersion{Task: edited})
			return err
		}},
		{"reorder", func(ctx context.Context, svc *TaskService) error {
			_, err := svc.Reorder(ctx, []model.Task{b, a})
			return err
		}},
		{"delete", func(ctx context.Context, svc *TaskService) error {
			return svc.Delete(ctx, a.ID)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{err: apperrors.ErrTransport}
			svc, log := newTestService(t, gw)
			svc.Bind(testOwner, []model.Task{a, b})

			err := tc.run(context.Background(), svc)
			if !errors.Is(err, apperrors.ErrTransport) {
				t.Errorf("expected transport error, got %v", err)
			}
			if gw.callCount() != 1 {
				t.Errorf("expected 1 gateway call, got %d", gw.callCount())
			}
			if got := svc.Tasks(); !reflect.DeepEqual(got, []model.Task{a, b}) {
				t.Errorf("local list changed: %+v", got)
			}
			if versions, _ := svc.History(a.ID); len(versions) != 0 {
				t.Errorf("failed mutation recorded history: %+v", versions)
			}

			records := log.List()
			if len(records) != 1 || records[0].Kind != notifications.KindError {
				t.Errorf("expected one error notification, got %+v", records)
			}
		})
	}
}

func TestTaskService_Filter(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)

	report := seedTask("Write report", 0)
	report.Priority = constants.PriorityHigh
	gym := seedTask("Gym", 1)
	gym.Category = constants.CategoryHealth
	gym.Completed = true
	gym.Date = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	review := seedTask("Review report", 2)
	review.Paused = true

	svc.Bind(testOwner, []model.Task{report, gym, review})

	may2 := time.Date(2024, 5, 2, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{"everything", TaskFilter{}, []string{"Write report", "Gym", "Review report"}},
		{"search is case insensitive", TaskFilter{Query: "REPORT"}, []string{"Write report", "Review report"}},
		{"category", TaskFilter{Category: constants.CategoryHealth}, []string{"Gym"}},
		{"priority", TaskFilter{Priority: constants.PriorityHigh}, []string{"Write report"}},
		{"completed", TaskFilter{Status: StatusCompleted}, []string{"Gym"}},
		{"pending", TaskFilter{Status: StatusPending}, []string{"Write report", "Review report"}},
		{"paused", TaskFilter{Status: StatusPaused}, []string{"Review report"}},
		{"day", TaskFilter{Date: &may2}, []string{"Gym"}},
		{"combined", TaskFilter{Query: "report", Status: StatusPending, Priority: constants.PriorityHigh}, []string{"Write report"}},
		{"no match", TaskFilter{Query: "nothing"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			names := make([]string, 0)
			for _, task := range svc.Filter(tc.filter) {
				names = append(names, task.Name)
			}
			if !reflect.DeepEqual(names, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, names)
			}
		})
	}
}

func TestTaskService_ReorderByIDRequiresPermutation(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	a, b := seedTask("a", 0), seedTask("b", 1)
	svc.Bind(testOwner, []model.Task{a, b})
	ctx := context.Background()

	if _, err := svc.ReorderByID(ctx, []string{a.ID}); apperrors.KindOf(err) != apperrors.KindInvalidEntity {
		t.Errorf("expected invalid entity for partial list, got %v", err)
	}
	if _, err := svc.ReorderByID(ctx, []string{a.ID, a.ID}); apperrors.KindOf(err) != apperrors.KindInvalidEntity {
		t.Errorf("expected invalid entity for repeated id, got %v", err)
	}
	if gw.callCount() != 0 {
		t.Fatalf("expected no gateway calls, got %d", gw.callCount())
	}

	tasks, err := svc.ReorderByID(ctx, []string{b.ID, a.ID})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if tasks[0].ID != b.ID || tasks[0].Order != 0 || tasks[1].Order != 1 {
		t.Errorf("unexpected order: %+v", tasks)
	}
}

func TestTaskService_ImportRegeneratesIDAndAppliesDefaults(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	svc.Bind(testOwner, nil)

	task, err := svc.Import(context.Background(), model.Task{
		ID:      "not-a-uuid",
		OwnerID: "someone-else",
		Name:    "Shared",
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if !identity.IsValidID(task.ID) || task.ID == "not-a-uuid" {
		t.Errorf("expected fresh id, got %q", task.ID)
	}
	if task.OwnerID != testOwner {
		t.Errorf("expected owner forced to %s, got %s", testOwner, task.OwnerID)
	}
	if task.StartTime != "09:00" || task.EndTime != "17:00" {
		t.Errorf("unexpected default times %s-%s", task.StartTime, task.EndTime)
	}
	if task.Category != constants.CategoryPersonal || task.Priority != constants.PriorityMedium {
		t.Errorf("unexpected defaults %s/%s", task.Category, task.Priority)
	}
	if !task.Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected date defaulted to today, got %v", task.Date)
	}
	if task.Completed || task.Paused || task.Reminder {
		t.Errorf("expected booleans false, got %+v", task)
	}

	if len(gw.inserted) != 1 || len(svc.Tasks()) != 1 {
		t.Errorf("expected one insert and one local task")
	}
	if records := log.List(); records[0].Kind != notifications.KindImported {
		t.Errorf("expected imported notification, got %s", records[0].Kind)
	}
}

func TestTaskService_ImportNotAppendedOnFailure(t *testing.T) {
	gw := &fakeGateway{err: apperrors.ErrConflict}
	svc, _ := newTestService(t, gw)
	svc.Bind(testOwner, nil)

	if _, err := svc.Import(context.Background(), model.Task{Name: "Shared"}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := len(svc.Tasks()); got != 0 {
		t.Errorf("expected empty list, got %d", got)
	}
}

func TestTaskService_ImportFromLink(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	svc.Bind(testOwner, nil)
	shared := "0f8fad5b-d9cb-469f-a165-70867728950e"

	task, err := svc.ImportFromLink(context.Background(), "https://taskmaster.app/shared/task/"+shared)
	if err != nil {
		t.Fatalf("import from link failed: %v", err)
	}
	if task.Name != "Shared Task 0f8fad5b" {
		t.Errorf("unexpected name %q", task.Name)
	}
	if task.ID == shared {
		t.Error("imported task reused the shared id")
	}

	if _, err := svc.ImportFromLink(context.Background(), "https://taskmaster.app/shared/task/nope"); apperrors.KindOf(err) != apperrors.KindInvalidEntity {
		t.Errorf("expected invalid entity for bad link, got %v", err)
	}
}

func TestTaskService_EditKeepsOwnerAndOrder(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	task := seedTask("draft", 3)
	svc.Bind(testOwner, []model.Task{task})

	edited := task
	edited.Name = "final"
	edited.OwnerID = "intruder"
	edited.Order = 0
	edited.Priority = constants.PriorityHigh

	got, err := svc.Edit(context.Background(), edited)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if got.OwnerID != testOwner || got.Order != 3 {
		t.Errorf("owner or order changed: %+v", got)
	}
	if local, _ := svc.Get(task.ID); local.Name != "final" || local.Priority != constants.PriorityHigh {
		t.Errorf("local entry not replaced: %+v", local)
	}
	if gw.updates[0]["name"] != "final" {
		t.Errorf("expected full update with name, got %+v", gw.updates[0])
	}
	if records := log.List(); records[0].Kind != notifications.KindUpdated {
		t.Errorf("expected updated notification, got %s", records[0].Kind)
	}
}

func TestTaskService_HistoryAndRestore(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	svc.Bind(testOwner, nil)
	ctx := context.Background()

	task, err := svc.Create(ctx, model.Task{Name: "v1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	task.Name = "v2"
	if _, err := svc.Edit(ctx, task); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	versions, err := svc.History(task.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(versions) != 2 || versions[0].Task.Name != "v2" || versions[1].Task.Name != "v1" {
		t.Fatalf("unexpected history: %+v", versions)
	}

	restored, err := svc.RestoreVersion(ctx, task.ID, versions[1].ID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.Name != "v1" {
		t.Errorf("expected v1 restored, got %q", restored.Name)
	}
	if records := log.List(); records[0].Kind != notifications.KindRestored {
		t.Errorf("expected restored notification, got %s", records[0].Kind)
	}
}

func TestTaskService_HistoryIsBounded(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	task := seedTask("a", 0)
	svc.Bind(testOwner, []model.Task{task})

	for i := 0; i < 15; i++ {
		if _, err := svc.TogglePause(context.Background(), task.ID); err != nil {
			t.Fatalf("pause %d failed: %v", i, err)
		}
	}

	versions, _ := svc.History(task.ID)
	if len(versions) != DefaultHistoryLimit {
		t.Errorf("expected %d versions, got %d", DefaultHistoryLimit, len(versions))
	}
}

func TestTaskService_Share(t *testing.T) {
	gw := &fakeGateway{}
	svc, log := newTestService(t, gw)
	task := seedTask("Plan trip", 0)
	svc.Bind(testOwner, []model.Task{task})
	ctx := context.Background()

	link, err := svc.Share(ctx, task.ID, "friend@example.com")
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if link != "https://taskmaster.app/shared/task/"+task.ID {
		t.Errorf("unexpected link %q", link)
	}
	if records := log.List(); !strings.Contains(records[0].Message, "friend@example.com") {
		t.Errorf("expected shared message, got %q", records[0].Message)
	}

	if _, err := svc.Share(ctx, task.ID, "not-an-email"); apperrors.KindOf(err) != apperrors.KindInvalidEntity {
		t.Errorf("expected invalid entity for bad email, got %v", err)
	}
	if gw.callCount() != 0 {
		t.Errorf("share should not call the gateway, got %d calls", gw.callCount())
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) // Wednesday
	day := func(d int) time.Time { return time.Date(2024, 4, d, 0, 0, 0, 0, time.UTC) }

	tasks := []model.Task{
		{Date: now, Completed: true, Category: constants.CategoryWork, Priority: constants.PriorityHigh},
		{Date: now, Category: constants.CategoryWork, Priority: constants.PriorityLow},
		{Date: day(29), Completed: true, Paused: true, Category: constants.CategoryStudy, Priority: constants.PriorityLow},
		{Date: day(20), Category: constants.CategoryLife, Priority: constants.PriorityMedium},
	}

	s := Summarize(tasks, now)

	if s.Total != 4 || s.Completed != 2 || s.Pending != 2 || s.Paused != 1 {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.CompletionRate != 50 {
		t.Errorf("expected 50%% completion, got %v", s.CompletionRate)
	}
	if s.Overdue != 1 {
		t.Errorf("expected 1 overdue, got %d", s.Overdue)
	}
	if s.WeekTotal != 3 || s.WeekCompleted != 2 {
		t.Errorf("unexpected week figures %d/%d", s.WeekCompleted, s.WeekTotal)
	}
	if s.ByCategory[constants.CategoryWork] != 2 || s.ByCategory[constants.CategoryHealth] != 0 {
		t.Errorf("unexpected category counts %+v", s.ByCategory)
	}
	if s.ByPriority[constants.PriorityLow] != 2 {
		t.Errorf("unexpected priority counts %+v", s.ByPriority)
	}

	if len(s.Daily) != 7 || s.Daily[6].Date != "2024-05-01" || s.Daily[0].Date != "2024-04-25" {
		t.Fatalf("unexpected daily window %+v", s.Daily)
	}
	if s.Daily[6].Total != 2 || s.Daily[6].CompletionRate != 50 {
		t.Errorf("unexpected today stat %+v", s.Daily[6])
	}
	if s.Daily[4].Total != 1 || s.Daily[4].Completed != 1 {
		t.Errorf("unexpected 2024-04-29 stat %+v", s.Daily[4])
	}
}
