package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmaster.app/taskmaster/internal/data_models"
	"taskmaster.app/taskmaster/internal/http/validators"
	"taskmaster.app/taskmaster/internal/session"
	"taskmaster.app/taskmaster/pkg/constants"
	model "taskmaster.app/taskmaster/pkg/models"
)

func (h *Handler) GetProfile(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	user, _ := b.Profile()
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.Struct(&req); err != nil {
		return err
	}

	update := session.ProfileUpdate{Name: req.Name, Email: req.Email}
	if req.Preferences != nil {
		update.Preferences = &model.Preferences{
			Theme:          constants.Theme(req.Preferences.Theme),
			Notifications:  req.Preferences.Notifications,
			EmailReminders: req.Preferences.EmailReminders,
		}
	}

	user, err := b.UpdateProfile(c.Request().Context(), update)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UploadAvatar(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	if file.Size > maxAvatarBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "avatar is too large")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read avatar")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxAvatarBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read avatar")
	}

	contentType := http.DetectContentType(data)
	user, err := b.UploadAvatar(c.Request().Context(), data, contentType)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}
