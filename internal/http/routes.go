package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"taskmaster.app/taskmaster/internal/auth"
	middleware "taskmaster.app/taskmaster/internal/http/middlewares"
	"taskmaster.app/taskmaster/internal/session"
)

func Register(e *echo.Echo, h *Handler, verifier *auth.Verifier, sessions *session.Manager, rateLimitPerMinute int) {
	e.Use(middleware.RequestLogger())

	e.GET("/healthz", h.Health)

	api := e.Group("",
		middleware.Authenticate(verifier, sessions),
		middleware.RateLimiter(rateLimitPerMinute, time.Minute),
	)

	api.GET("/session", h.GetSession)
	api.POST("/session/reload", h.ReloadSession)
	api.POST("/auth/signout", h.SignOut)

	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.POST("/tasks/reorder", h.ReorderTasks)
	api.POST("/tasks/import", h.ImportTask)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.POST("/tasks/:id/toggle", h.ToggleTask)
	api.POST("/tasks/:id/pause", h.PauseTask)
	api.GET("/tasks/:id/history", h.TaskHistory)
	api.POST("/tasks/:id/restore", h.RestoreTask)
	api.GET("/tasks/:id/share", h.ShareLink)
	api.POST("/tasks/:id/share", h.ShareTask)

	api.GET("/notifications", h.ListNotifications)
	api.DELETE("/notifications", h.ClearNotifications)

	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.UpdateProfile)
	api.POST("/profile/avatar", h.UploadAvatar)

	api.GET("/analytics", h.Analytics)
}
