package session

import (
	"context"
	"sync"

	"taskmaster.app/taskmaster/internal/audit"
	"taskmaster.app/taskmaster/internal/auth"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/notifications"
	"taskmaster.app/taskmaster/internal/services"
)

// Dependencies are shared by every binder the manager creates.
type Dependencies struct {
	Profiles      ProfileGateway
	Tasks         services.TaskGateway
	Catalog       *i18n.Catalog
	Audit         audit.Publisher
	Keys          notifications.KeyTracker
	Notifications notifications.Config
	TaskConfig    services.TaskServiceConfig
}

type entry struct {
	client *auth.Client
	binder *Binder
}

// Manager keeps one binder per signed-in user.
type Manager struct {
	deps Dependencies

	mu      sync.Mutex
	entries map[string]*entry
}

func NewManager(deps Dependencies) *Manager {
	if deps.Keys == nil {
		deps.Keys = notifications.NewMemoryKeyTracker()
	}
	if deps.Audit == nil {
		deps.Audit = audit.NewNoopPublisher()
	}
	return &Manager{
		deps:    deps,
		entries: make(map[string]*entry),
	}
}

// Attach hands s to its user's binder, creating and starting the binder on
// first sight. A changed session triggers a load through the auth client.
func (m *Manager) Attach(ctx context.Context, s auth.Session) (*Binder, error) {
	m.mu.Lock()
	e, ok := m.entries[s.UserID]
	if !ok {
		e = m.newEntry()
		m.entries[s.UserID] = e
	}
	m.mu.Unlock()

	if !ok {
		if err := e.binder.Start(context.Background()); err != nil {
			return e.binder, err
		}
		logger.Debug("Binder created", "user_id", s.UserID)
	}

	e.client.SetSession(s)

	return e.binder, e.binder.LastError()
}

func (m *Manager) newEntry() *entry {
	client := auth.NewClient()
	log := notifications.NewLog(m.deps.Notifications, m.deps.Keys)
	store := services.NewTaskService(m.deps.Tasks, log, m.deps.Catalog, m.deps.Audit, m.deps.TaskConfig)
	binder := NewBinder(client, m.deps.Profiles, m.deps.Tasks, store, log, m.deps.Catalog, m.deps.Audit)
	return &entry{client: client, binder: binder}
}

func (m *Manager) Lookup(userID string) (*Binder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	if !ok {
		return nil, false
	}
	return e.binder, true
}

// SignOut signs the user out and forgets their binder.
func (m *Manager) SignOut(ctx context.Context, userID string) error {
	m.mu.Lock()
	e, ok := m.entries[userID]
	delete(m.entries, userID)
	m.mu.Unlock()

	if !ok {
		return nil
	}

	err := e.binder.SignOut(ctx)
	e.binder.Close()
	return err
}

// Bound lists the binders currently in the Bound state.
func (m *Manager) Bound() []services.ReminderTarget {
	m.mu.Lock()
	binders := make([]*Binder, 0, len(m.entries))
	for _, e := range m.entries {
		binders = append(binders, e.binder)
	}
	m.mu.Unlock()

	out := make([]services.ReminderTarget, 0, len(binders))
	for _, b := range binders {
		if b.State() == StateBound {
			out = append(out, b)
		}
	}
	return out
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		e.binder.Close()
		delete(m.entries, id)
	}
}
