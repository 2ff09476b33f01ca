package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmaster.app/taskmaster/internal/data_models"
	"taskmaster.app/taskmaster/internal/http/validators"
)

func (h *Handler) ListTasks(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var q dto.TaskQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	filter, err := validators.TaskFilterFromQuery(&q)
	if err != nil {
		return err
	}

	tasks := b.Store().Filter(filter)
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	draft, err := validators.TaskFromRequest(&req)
	if err != nil {
		return err
	}

	task, err := b.Store().Create(c.Request().Context(), draft)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	updated, err := validators.TaskFromRequest(&req)
	if err != nil {
		return err
	}
	updated.ID = c.Param("id")

	task, err := b.Store().Edit(c.Request().Context(), updated)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	if err := b.Store().Delete(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	task, err := b.Store().ToggleComplete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) PauseTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	task, err := b.Store().TogglePause(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ReorderTasks(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.ReorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.Struct(&req); err != nil {
		return err
	}

	tasks, err := b.Store().ReorderByID(c.Request().Context(), req.IDs)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) ImportTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.ImportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.Struct(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.Task == nil {
		task, err := b.Store().ImportFromLink(ctx, req.Link)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusCreated, task)
	}

	foreign, err := validators.TaskFromForeign(req.Task)
	if err != nil {
		return err
	}
	task, err := b.Store().Import(ctx, foreign)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) TaskHistory(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	versions, err := b.Store().History(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(versions),
		"versions": versions,
	})
}

func (h *Handler) RestoreTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.RestoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.Struct(&req); err != nil {
		return err
	}

	task, err := b.Store().RestoreVersion(c.Request().Context(), c.Param("id"), req.VersionID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ShareLink(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}
	link, err := b.Store().ShareLink(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ShareResponse{Link: link})
}

func (h *Handler) ShareTask(c echo.Context) error {
	b, err := h.bound(c)
	if err != nil {
		return err
	}

	var req dto.ShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.Struct(&req); err != nil {
		return err
	}

	link, err := b.Store().Share(c.Request().Context(), c.Param("id"), req.Email)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ShareResponse{Link: link})
}
