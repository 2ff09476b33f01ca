package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"taskmaster.app/taskmaster/internal/audit"
	"taskmaster.app/taskmaster/internal/auth"
	config "taskmaster.app/taskmaster/internal/configs"
	"taskmaster.app/taskmaster/internal/gateway"
	httpapi "taskmaster.app/taskmaster/internal/http"
	"taskmaster.app/taskmaster/internal/i18n"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/notifications"
	repository "taskmaster.app/taskmaster/internal/repositories"
	"taskmaster.app/taskmaster/internal/services"
	"taskmaster.app/taskmaster/internal/session"
	"taskmaster.app/taskmaster/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task HTTP API, the reminder workers and their scan schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		keys, closeKeys, err := newKeyTracker(cfg)
		if err != nil {
			return err
		}
		defer closeKeys()

		blobs, err := newBlobStore(cfg)
		if err != nil {
			return err
		}

		publisher, closePublisher, err := newPublisher(cfg)
		if err != nil {
			return err
		}
		defer closePublisher()

		catalog, err := i18n.Load(cfg.Language)
		if err != nil {
			return err
		}

		sessions := session.NewManager(session.Dependencies{
			Profiles: gateway.NewProfileGateway(
				repository.NewUserRepository(db),
				blobs,
				gateway.ProfileGatewayConfig{
					UploadAttempts: cfg.AvatarUploadAttempts,
					UploadBackoff:  cfg.AvatarUploadBackoff,
				},
			),
			Tasks:   gateway.NewTaskGateway(repository.NewTaskRepository(db)),
			Catalog: catalog,
			Audit:   publisher,
			Keys:    keys,
			Notifications: notifications.Config{
				Limit:       cfg.NotificationLimit,
				DedupWindow: cfg.NotificationDedup,
			},
			TaskConfig: services.TaskServiceConfig{PublicHost: cfg.PublicHost},
		})
		defer sessions.Close()

		reminders := services.NewReminderService(sessions, catalog, publisher, services.ReminderConfig{
			Workers:   cfg.ReminderWorkers,
			QueueSize: cfg.ReminderQueueSize,
			Interval:  cfg.ReminderInterval,
			Lookahead: cfg.ReminderLookahead,
		})
		if err := reminders.Start(); err != nil {
			return err
		}

		e := echo.New()
		e.HideBanner = true
		if cfg.Storage.Type == "local" {
			e.Static("/files", cfg.Storage.LocalPath)
		}

		verifier := auth.NewVerifier(cfg.JWTSecret, "taskmaster")
		handler := httpapi.NewHandler(sessions)
		httpapi.Register(e, handler, verifier, sessions, cfg.RateLimit)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Server stopped", "error", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		reminders.Shutdown(shutdownCtx)

		logger.Info("HTTP server and reminder workers shut down gracefully")
		return nil
	},
}

// newKeyTracker shares notification idempotency keys through Redis when it
// is configured and keeps them in process otherwise.
func newKeyTracker(cfg config.Config) (notifications.KeyTracker, func(), error) {
	if cfg.RedisAddr == "" {
		return notifications.NewMemoryKeyTracker(), func() {}, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("redis connect failed: %w", err)
	}

	logger.Info("Notification dedup backed by Redis", "addr", cfg.RedisAddr)
	return notifications.NewRedisKeyTracker(client, "taskmaster:"), client.Close, nil
}

func newBlobStore(cfg config.Config) (gateway.BlobStore, error) {
	if cfg.Storage.Type == "s3" {
		return storage.NewS3Storage(storage.S3StorageConfig{
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Bucket:    cfg.Storage.S3.Bucket,
			UseSSL:    cfg.Storage.S3.UseSSL,
			Region:    cfg.Storage.S3.Region,
			PublicURL: cfg.Storage.S3.PublicURL,
		})
	}
	return storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
}

func newPublisher(cfg config.Config) (audit.Publisher, func(), error) {
	if cfg.NATSURL == "" {
		return audit.NewNoopPublisher(), func() {}, nil
	}

	nc, err := audit.Connect(cfg.NATSURL)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Audit events published to NATS", "url", cfg.NATSURL, "prefix", cfg.AuditSubjectPrefix)
	return audit.NewNATSPublisher(nc, cfg.AuditSubjectPrefix), func() { _ = nc.Drain() }, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
