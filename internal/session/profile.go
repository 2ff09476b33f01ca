package session

import (
	"context"
	"strings"

	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/notifications"
	model "taskmaster.app/taskmaster/pkg/models"
)

// ProfileUpdate carries the editable profile fields. Nil fields are kept.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	Avatar      *string
	Preferences *model.Preferences
}

func (b *Binder) UpdateProfile(ctx context.Context, update ProfileUpdate) (model.User, error) {
	current, err := b.Ready()
	if err != nil {
		return model.User{}, err
	}

	next := current
	if update.Name != nil {
		next.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		next.Email = strings.TrimSpace(*update.Email)
	}
	if update.Avatar != nil {
		next.Avatar = *update.Avatar
	}
	if update.Preferences != nil {
		next.Preferences = *update.Preferences
	}

	if err := b.validateProfile(next); err != nil {
		return model.User{}, b.profileFailed(ctx, current, err)
	}

	if err := b.profiles.UpdateProfile(ctx, &next); err != nil {
		return model.User{}, b.profileFailed(ctx, current, err)
	}

	b.commitProfile(next)
	b.log.Append(ctx, notifications.Event{
		Kind:      notifications.KindProfile,
		SubjectID: next.ID,
		Message:   b.catalog.T(i18n.ProfileUpdated),
	})
	logger.InfoContext(ctx, "Profile updated", "user_id", next.ID)
	b.publish(ctx, "profile.updated", next.ID, "")

	return next, nil
}

// UploadAvatar stores a new avatar image and points the profile at it.
func (b *Binder) UploadAvatar(ctx context.Context, data []byte, contentType string) (model.User, error) {
	current, err := b.Ready()
	if err != nil {
		return model.User{}, err
	}

	url, err := b.profiles.UploadAvatar(ctx, &current, data, contentType)
	if err != nil {
		return model.User{}, b.profileFailed(ctx, current, err)
	}

	next := current
	next.Avatar = url
	if err := b.profiles.UpdateProfile(ctx, &next); err != nil {
		return model.User{}, b.profileFailed(ctx, current, err)
	}

	b.commitProfile(next)
	b.log.Append(ctx, notifications.Event{
		Kind:      notifications.KindProfile,
		SubjectID: next.ID + ":avatar",
		Message:   b.catalog.T(i18n.AvatarUpdated),
	})
	logger.InfoContext(ctx, "Avatar updated", "user_id", next.ID)
	b.publish(ctx, "profile.avatar_updated", next.ID, url)

	return next, nil
}

func (b *Binder) validateProfile(user model.User) error {
	rules := profileRules{Name: user.Name, Email: user.Email}
	if err := b.validate.Struct(rules); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidProfile, err)
	}
	if !user.Preferences.Theme.Valid() {
		return apperrors.ErrInvalidProfile
	}
	return nil
}

// commitProfile stores user and applies its notification preference.
func (b *Binder) commitProfile(user model.User) {
	b.mu.Lock()
	b.user = &user
	b.mu.Unlock()
	b.log.SetEnabled(user.Preferences.Notifications)
}

func (b *Binder) profileFailed(ctx context.Context, user model.User, err error) error {
	b.log.Append(ctx, notifications.Event{
		Kind:      notifications.KindError,
		SubjectID: "profile:" + user.ID,
		Message: b.catalog.T(i18n.OperationFailed,
			"action", b.catalog.T("action_profile"),
			"name", user.Name,
			"reason", b.catalog.T("reason_"+string(apperrors.KindOf(err))),
		),
	})
	logger.WarnContext(ctx, "Profile update failed", "user_id", user.ID, "error", err)
	return err
}
