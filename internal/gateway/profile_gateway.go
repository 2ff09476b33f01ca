package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	apperrors "taskmaster.app/taskmaster/internal/errors"
	"taskmaster.app/taskmaster/internal/logger"
	model "taskmaster.app/taskmaster/pkg/models"
)

var avatarExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type ProfileGatewayConfig struct {
	UploadAttempts int
	UploadBackoff  time.Duration
}

// ProfileGateway reads and writes user profiles and their avatar blobs.
type ProfileGateway struct {
	users    UserStore
	blobs    BlobStore
	attempts int
	backoff  time.Duration
	now      func() time.Time
}

func NewProfileGateway(users UserStore, blobs BlobStore, cfg ProfileGatewayConfig) *ProfileGateway {
	if cfg.UploadAttempts <= 0 {
		cfg.UploadAttempts = 3
	}
	return &ProfileGateway{
		users:    users,
		blobs:    blobs,
		attempts: cfg.UploadAttempts,
		backoff:  cfg.UploadBackoff,
		now:      time.Now,
	}
}

func (g *ProfileGateway) FetchProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, Normalize(err)
	}
	return user, nil
}

func (g *ProfileGateway) CreateProfile(ctx context.Context, user *model.User) error {
	return Normalize(g.users.Insert(ctx, user))
}

func (g *ProfileGateway) UpdateProfile(ctx context.Context, user *model.User) error {
	return Normalize(g.users.Update(ctx, user))
}

// UploadAvatar stores data as the user's avatar and returns its URL. The
// upload is idempotent per object key, so it is retried with linear backoff.
// Older avatars under the user's prefix are removed once the new one lands.
func (g *ProfileGateway) UploadAvatar(ctx context.Context, user *model.User, data []byte, contentType string) (string, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok || len(data) == 0 {
		return "", apperrors.ErrInvalidProfile
	}
	if g.blobs == nil {
		return "", apperrors.Wrap(apperrors.ErrTransport, fmt.Errorf("no blob store configured"))
	}

	prefix := fmt.Sprintf("avatars/%s/", user.ID)
	name := slug.Make(user.Name)
	if name == "" {
		name = "avatar"
	}
	path := fmt.Sprintf("%s%s-%d.%s", prefix, name, g.now().Unix(), ext)

	var (
		url string
		err error
	)
	for attempt := 1; attempt <= g.attempts; attempt++ {
		url, err = g.blobs.Upload(ctx, path, data, contentType)
		if err == nil {
			break
		}

		logger.WarnContext(ctx, "Avatar upload failed", "user_id", user.ID, "attempt", attempt, "error", err)

		if attempt == g.attempts {
			break
		}

		timer := time.NewTimer(g.backoff * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", Normalize(ctx.Err())
		case <-timer.C:
		}
	}
	if err != nil {
		return "", Normalize(err)
	}

	g.removeStaleAvatars(ctx, prefix, path)

	return url, nil
}

func (g *ProfileGateway) removeStaleAvatars(ctx context.Context, prefix, keep string) {
	paths, err := g.blobs.List(ctx, prefix)
	if err != nil {
		logger.WarnContext(ctx, "Failed to list previous avatars", "prefix", prefix, "error", err)
		return
	}

	stale := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != keep {
			stale = append(stale, p)
		}
	}
	if len(stale) == 0 {
		return
	}

	if err := g.blobs.Remove(ctx, stale); err != nil {
		logger.WarnContext(ctx, "Failed to remove previous avatars", "count", len(stale), "error", err)
	}
}
