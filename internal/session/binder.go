// Package session binds an authenticated identity to its profile, task list
// and notification log.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"taskmaster.app/taskmaster/internal/audit"
	"taskmaster.app/taskmaster/internal/auth"
	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/notifications"
	"taskmaster.app/taskmaster/internal/services"
	model "taskmaster.app/taskmaster/pkg/models"
)

type State int

const (
	StateUnbound State = iota
	StateLoading
	StateBound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateBound:
		return "bound"
	default:
		return "unbound"
	}
}

// Auth is the identity provider capability.
type Auth interface {
	CurrentSession() (auth.Session, bool)
	OnSessionChange(fn func(auth.Session, bool)) func()
	SignOut(ctx context.Context) error
}

type ProfileGateway interface {
	FetchProfile(ctx context.Context, userID string) (*model.User, error)
	CreateProfile(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, user *model.User) error
	UploadAvatar(ctx context.Context, user *model.User, data []byte, contentType string) (string, error)
}

type profileRules struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// Binder walks Unbound -> Loading -> Bound and back to Unbound on sign-out.
// A failed load stays in Loading until Reload is called.
type Binder struct {
	auth     Auth
	profiles ProfileGateway
	gateway  services.TaskGateway
	store    *services.TaskService
	log      *notifications.Log
	catalog  *i18n.Catalog
	audit    audit.Publisher
	validate *validator.Validate
	now      func() time.Time

	loadMu sync.Mutex

	mu          sync.RWMutex
	state       State
	session     auth.Session
	user        *model.User
	lastErr     error
	unsubscribe func()
	base        context.Context
}

func NewBinder(
	authClient Auth,
	profiles ProfileGateway,
	gw services.TaskGateway,
	store *services.TaskService,
	log *notifications.Log,
	catalog *i18n.Catalog,
	publisher audit.Publisher,
) *Binder {
	if publisher == nil {
		publisher = audit.NewNoopPublisher()
	}
	return &Binder{
		auth:     authClient,
		profiles: profiles,
		gateway:  gw,
		store:    store,
		log:      log,
		catalog:  catalog,
		audit:    publisher,
		validate: validator.New(),
		now:      time.Now,
		base:     context.Background(),
	}
}

// Start subscribes to session changes and loads the current session, if any.
func (b *Binder) Start(ctx context.Context) error {
	b.mu.Lock()
	b.base = context.WithoutCancel(ctx)
	b.unsubscribe = b.auth.OnSessionChange(b.onSessionChange)
	b.mu.Unlock()

	if s, ok := b.auth.CurrentSession(); ok {
		return b.Load(ctx, s)
	}
	return nil
}

func (b *Binder) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

func (b *Binder) onSessionChange(s auth.Session, ok bool) {
	if !ok {
		b.unbind()
		return
	}

	b.mu.RLock()
	ctx := b.base
	sameUser := b.state == StateBound && b.session.UserID == s.UserID
	b.mu.RUnlock()

	if sameUser {
		b.mu.Lock()
		b.session = s
		b.mu.Unlock()
		return
	}

	if err := b.Load(ctx, s); err != nil {
		logger.Warn("Session load failed", "user_id", s.UserID, "error", err)
	}
}

// Load fetches the profile, provisioning it on first sign-in, then the task
// list. Both must succeed before the binder is Bound.
func (b *Binder) Load(ctx context.Context, s auth.Session) error {
	b.loadMu.Lock()
	defer b.loadMu.Unlock()

	b.mu.Lock()
	if b.session.UserID != "" && b.session.UserID != s.UserID {
		b.resetLocked()
	}
	b.state = StateLoading
	b.session = s
	b.lastErr = nil
	b.mu.Unlock()

	b.log.SetScope(s.UserID)
	logger.InfoContext(ctx, "Loading session", "user_id", s.UserID)

	user, err := b.fetchOrProvision(ctx, s)
	if err != nil {
		return b.loadFailed(ctx, s, err)
	}

	tasks, err := b.gateway.ListTasks(ctx, s.UserID)
	if err != nil {
		return b.loadFailed(ctx, s, err)
	}

	b.mu.Lock()
	if b.state != StateLoading || b.session.UserID != s.UserID {
		b.mu.Unlock()
		logger.InfoContext(ctx, "Session load superseded", "user_id", s.UserID)
		return apperrors.ErrNotAuthenticated
	}
	b.store.Bind(s.UserID, tasks)
	b.log.SetEnabled(user.Preferences.Notifications)
	b.user = user
	b.state = StateBound
	b.mu.Unlock()

	b.log.Append(ctx, notifications.Event{
		Kind:      notifications.KindWelcome,
		SubjectID: s.UserID,
		Message:   b.catalog.T(i18n.WelcomeBack, "name", user.Name),
	})
	logger.InfoContext(ctx, "Session bound", "user_id", s.UserID, "tasks", len(tasks))

	return nil
}

// Reload retries a load for the current session.
func (b *Binder) Reload(ctx context.Context) error {
	b.mu.RLock()
	s := b.session
	state := b.state
	b.mu.RUnlock()

	if state == StateUnbound || s.UserID == "" {
		return apperrors.ErrNotAuthenticated
	}
	return b.Load(ctx, s)
}

func (b *Binder) fetchOrProvision(ctx context.Context, s auth.Session) (*model.User, error) {
	user, err := b.profiles.FetchProfile(ctx, s.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrRowNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = strings.SplitN(s.Email, "@", 2)[0]
	}

	user = &model.User{
		ID:          s.UserID,
		Name:        name,
		Email:       s.Email,
		SignupDate:  b.now().UTC(),
		Preferences: model.DefaultPreferences(),
	}
	if err := b.profiles.CreateProfile(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Profile provisioned", "user_id", s.UserID)
	b.publish(ctx, "profile.created", s.UserID, "")
	return user, nil
}

func (b *Binder) loadFailed(ctx context.Context, s auth.Session, err error) error {
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()

	reason := b.catalog.T("reason_" + string(apperrors.KindOf(err)))
	b.log.Append(ctx, notifications.Event{
		Kind:      notifications.KindError,
		SubjectID: "session:" + s.UserID,
		Message:   b.catalog.T(i18n.SessionLoadFailed, "reason", reason),
	})
	logger.ErrorContext(ctx, "Session load failed", "user_id", s.UserID, "error", err)
	b.publish(ctx, "session.error", s.UserID, err.Error())

	return err
}

// SignOut ends the identity session and drops all bound state.
func (b *Binder) SignOut(ctx context.Context) error {
	b.mu.RLock()
	userID := b.session.UserID
	b.mu.RUnlock()

	if err := b.auth.SignOut(ctx); err != nil {
		return err
	}
	b.unbind()

	if userID != "" {
		logger.InfoContext(ctx, "Signed out", "user_id", userID)
		b.publish(ctx, "session.signed_out", userID, "")
	}
	return nil
}

func (b *Binder) unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked()
	b.state = StateUnbound
	b.session = auth.Session{}
}

func (b *Binder) resetLocked() {
	b.user = nil
	b.lastErr = nil
	b.store.Reset()
	b.log.Clear()
	b.log.SetEnabled(true)
}

func (b *Binder) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Binder) Session() (auth.Session, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session, b.session.UserID != ""
}

// LastError is the failure that left the binder in Loading, if any.
func (b *Binder) LastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

func (b *Binder) Profile() (model.User, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.state != StateBound || b.user == nil {
		return model.User{}, false
	}
	return *b.user, true
}

func (b *Binder) Preferences() model.Preferences {
	if user, ok := b.Profile(); ok {
		return user.Preferences
	}
	return model.DefaultPreferences()
}

func (b *Binder) Store() *services.TaskService {
	return b.store
}

func (b *Binder) Tasks() []model.Task {
	return b.store.Tasks()
}

func (b *Binder) Notifications() *notifications.Log {
	return b.log
}

// Notify appends event while the binder is Bound.
func (b *Binder) Notify(ctx context.Context, event notifications.Event) bool {
	if b.State() != StateBound {
		return false
	}
	_, ok := b.log.Append(ctx, event)
	return ok
}

// Ready returns the bound profile or the error describing why there is none.
func (b *Binder) Ready() (model.User, error) {
	switch b.State() {
	case StateBound:
		user, _ := b.Profile()
		return user, nil
	case StateLoading:
		return model.User{}, apperrors.ErrSessionNotReady
	default:
		return model.User{}, apperrors.ErrNotAuthenticated
	}
}

func (b *Binder) publish(ctx context.Context, kind, userID, detail string) {
	err := b.audit.Publish(ctx, audit.Event{
		Kind:       kind,
		UserID:     userID,
		SubjectID:  userID,
		Detail:     detail,
		OccurredAt: b.now().UTC(),
	})
	if err != nil {
		logger.WarnContext(ctx, "Audit publish failed", "kind", kind, "error", err)
	}
}
