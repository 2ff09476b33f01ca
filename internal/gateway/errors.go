package gateway

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "taskmaster.app/taskmaster/internal/errors"
	repository "taskmaster.app/taskmaster/internal/repositories"
)

// Normalize converts whatever the store, driver or transport returned into
// the fixed taxonomy. Errors already in the taxonomy pass through.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrOwnerMismatch):
		return apperrors.Wrap(apperrors.ErrPermissionDenied, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrRowNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrTransport, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01":
			return apperrors.Wrap(apperrors.ErrTableNotFound, err)
		case pgErr.Code == "42501":
			return apperrors.Wrap(apperrors.ErrPermissionDenied, err)
		case strings.HasPrefix(pgErr.Code, "23"):
			return apperrors.Wrap(apperrors.ErrConflict, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.Wrap(apperrors.ErrTransport, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"),
		strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return apperrors.Wrap(apperrors.ErrTableNotFound, err)
	case strings.Contains(msg, "row-level security"),
		strings.Contains(msg, "permission denied"):
		return apperrors.Wrap(apperrors.ErrPermissionDenied, err)
	case strings.Contains(msg, "constraint failed"),
		strings.Contains(msg, "violates"):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}

	return apperrors.Wrap(apperrors.ErrTransport, err)
}
