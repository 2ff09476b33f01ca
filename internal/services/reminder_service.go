package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"taskmaster.app/taskmaster/internal/audit"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/notifications"
	model "taskmaster.app/taskmaster/pkg/models"
)

// ReminderTarget is a bound session whose in-memory tasks are scanned.
type ReminderTarget interface {
	Profile() (model.User, bool)
	Tasks() []model.Task
	Notify(ctx context.Context, event notifications.Event) bool
}

type TargetSource interface {
	Bound() []ReminderTarget
}

type ReminderConfig struct {
	Workers   int
	QueueSize int
	Interval  time.Duration
	Lookahead time.Duration
}

type reminderJob struct {
	key    string
	user   model.User
	task   model.Task
	target ReminderTarget
}

// ReminderService scans bound sessions on a schedule and hands due
// reminders to a fixed pool of workers.
type ReminderService struct {
	queue     chan reminderJob
	wg        sync.WaitGroup
	enqueued  sync.Map
	sent      sync.Map
	source    TargetSource
	catalog   *i18n.Catalog
	audit     audit.Publisher
	interval  time.Duration
	lookahead time.Duration
	scheduler *gocron.Scheduler
	now       func() time.Time
}

func NewReminderService(
	source TargetSource,
	catalog *i18n.Catalog,
	publisher audit.Publisher,
	cfg ReminderConfig,
) *ReminderService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if publisher == nil {
		publisher = audit.NewNoopPublisher()
	}

	p := &ReminderService{
		queue:     make(chan reminderJob, cfg.QueueSize),
		source:    source,
		catalog:   catalog,
		audit:     publisher,
		interval:  cfg.Interval,
		lookahead: cfg.Lookahead,
		now:       time.Now,
	}

	for i := 1; i <= cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

// Start schedules ScanOnce every configured interval.
func (p *ReminderService) Start() error {
	if p.interval <= 0 {
		return fmt.Errorf("reminder interval must be positive")
	}

	p.scheduler = gocron.NewScheduler(time.UTC)
	p.scheduler.SingletonModeAll()

	if _, err := p.scheduler.Every(p.interval).Do(p.ScanOnce); err != nil {
		return fmt.Errorf("failed to schedule reminder scan: %w", err)
	}

	p.scheduler.StartAsync()
	logger.Info("Reminder scan scheduled", "interval", p.interval.String())
	return nil
}

// ScanOnce enqueues every reminder that falls due inside the lookahead
// window and has not been delivered for its current deadline.
func (p *ReminderService) ScanOnce() {
	now := p.now()
	horizon := now.Add(p.lookahead)

	p.forgetPast(now)

	for _, target := range p.source.Bound() {
		user, ok := target.Profile()
		if !ok {
			continue
		}

		for _, task := range target.Tasks() {
			if !task.Reminder || task.Completed || task.Paused || task.Deadline == nil {
				continue
			}
			if task.Deadline.Before(now) || task.Deadline.After(horizon) {
				continue
			}

			key := fmt.Sprintf("%s:%d", task.ID, task.Deadline.Unix())
			if _, done := p.sent.Load(key); done {
				continue
			}

			enqueued, queueFull := p.enqueueIfNotPresent(reminderJob{key: key, user: user, task: task, target: target})
			if queueFull {
				logger.Warn("Reminder queue full, deferring to next scan")
				return
			}
			if enqueued {
				logger.Debug("Reminder enqueued", "task_id", task.ID, "user_id", user.ID)
			}
		}
	}
}

func (p *ReminderService) worker(workerID int) {
	defer p.wg.Done()

	logger.Debug("Reminder worker started", "worker", workerID)

	for job := range p.queue {
		p.handle(workerID, job)
	}

	logger.Debug("Reminder worker stopped", "worker", workerID)
}

func (p *ReminderService) handle(workerID int, job reminderJob) {
	ctx := context.Background()
	defer p.untrackEnqueued(job.key)

	message := p.catalog.T(i18n.TaskReminder,
		"name", job.task.Name,
		"time", job.task.Deadline.Local().Format("15:04"),
	)

	job.target.Notify(ctx, notifications.Event{
		Kind:      notifications.KindReminder,
		SubjectID: job.key,
		Message:   message,
	})
	p.sent.Store(job.key, *job.task.Deadline)

	if job.user.Preferences.EmailReminders {
		err := p.audit.Publish(ctx, audit.Event{
			Kind:       "reminder.email",
			UserID:     job.user.ID,
			SubjectID:  job.task.ID,
			Message:    message,
			Detail:     job.user.Email,
			OccurredAt: p.now().UTC(),
		})
		if err != nil {
			logger.Warn("Reminder email event failed", "worker", workerID, "task_id", job.task.ID, "error", err)
		}
	}

	logger.Info("Reminder delivered", "worker", workerID, "task_id", job.task.ID, "user_id", job.user.ID)
}

// forgetPast drops delivery records whose deadline has passed.
func (p *ReminderService) forgetPast(now time.Time) {
	p.sent.Range(func(key, value any) bool {
		if deadline, ok := value.(time.Time); ok && deadline.Before(now) {
			p.sent.Delete(key)
		}
		return true
	})
}

func (p *ReminderService) enqueueIfNotPresent(job reminderJob) (bool, bool) {
	if !p.trackEnqueued(job.key) {
		return false, false
	}

	select {
	case p.queue <- job:
		return true, false
	default:
		p.untrackEnqueued(job.key)
		return false, true
	}
}

func (p *ReminderService) trackEnqueued(key string) bool {
	_, loaded := p.enqueued.LoadOrStore(key, struct{}{})
	return !loaded
}

func (p *ReminderService) untrackEnqueued(key string) {
	p.enqueued.Delete(key)
}

func (p *ReminderService) Shutdown(ctx context.Context) {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Reminder workers shut down cleanly")
	case <-ctx.Done():
		logger.Warn("Reminder worker shutdown timed out")
	}
}
