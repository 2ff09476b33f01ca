package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmaster.app/taskmaster/internal/data_models"
	apperrors "taskmaster.app/taskmaster/internal/errors"
	middleware "taskmaster.app/taskmaster/internal/http/middlewares"
	"taskmaster.app/taskmaster/internal/session"
)

const maxAvatarBytes = 5 << 20

type Handler struct {
	sessions *session.Manager
}

func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
	}
}

// toHTTPError maps the error taxonomy onto status codes.
func toHTTPError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func (h *Handler) binder(c echo.Context) (*session.Binder, error) {
	b, ok := middleware.Binder(c)
	if !ok {
		return nil, toHTTPError(apperrors.ErrNotAuthenticated)
	}
	return b, nil
}

// bound returns the caller's binder only when it is Bound.
func (h *Handler) bound(c echo.Context) (*session.Binder, error) {
	b, err := h.binder(c)
	if err != nil {
		return nil, err
	}
	if _, err := b.Ready(); err != nil {
		return nil, toHTTPError(err)
	}
	return b, nil
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func sessionResponse(b *session.Binder) dto.SessionResponse {
	resp := dto.SessionResponse{State: b.State().String()}
	if user, ok := b.Profile(); ok {
		resp.User = &user
	}
	if err := b.LastError(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (h *Handler) GetSession(c echo.Context) error {
	b, err := h.binder(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse(b))
}

func (h *Handler) ReloadSession(c echo.Context) error {
	b, err := h.binder(c)
	if err != nil {
		return err
	}
	if err := b.Reload(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse(b))
}

func (h *Handler) SignOut(c echo.Context) error {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if err := h.sessions.SignOut(c.Request().Context(), userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	b, err := h.binder(c)
	if err != nil {
		return err
	}
	records := b.Notifications().List()
	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(records),
		"notifications": records,
	})
}

func (h *Handler) ClearNotifications(c echo.Context) error {
	b, err := h.binder(c)
	if err != nil {
		return err
	}
	b.Notifications().Clear()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Analytics(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b.Store().Analytics())
}
