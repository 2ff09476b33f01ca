package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppURL                 string
	PublicHost             string
	DatabaseDriver         string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	JWTSecret              string
	Language               string
	NotificationLimit      int
	NotificationDedup      time.Duration
	Storage                StorageConfig
	AvatarUploadAttempts   int
	AvatarUploadBackoff    time.Duration
	NATSURL                string
	AuditSubjectPrefix     string
	ReminderWorkers        int
	ReminderQueueSize      int
	ReminderInterval       time.Duration
	ReminderLookahead      time.Duration
	Log                    LogConfig
	ShutdownTimeoutSeconds int
}

type StorageConfig struct {
	Type      string
	LocalPath string
	BaseURL   string
	S3        S3Config
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	redisAddr := ""
	if redisHost := getEnv("REDIS_HOST", ""); redisHost != "" {
		redisAddr = fmt.Sprintf("%s:%s", redisHost, getEnv("REDIS_PORT", "6379"))
	}

	cfg := Config{
		AppURL:            fmt.Sprintf("%s:%s", appHost, appPort),
		PublicHost:        getEnv("PUBLIC_HOST", "taskmaster.app"),
		DatabaseDriver:    getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "taskmaster.db"),
		RateLimit:         getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RedisAddr:         redisAddr,
		JWTSecret:         getEnv("JWT_SECRET", ""),
		Language:          getEnv("LANGUAGE", "en"),
		NotificationLimit: getEnvAsInt("NOTIFICATION_LIMIT", 10),
		NotificationDedup: getEnvAsDuration("NOTIFICATION_DEDUP_WINDOW", 2*time.Second),
		Storage: StorageConfig{
			Type:      getEnv("STORAGE_TYPE", "local"),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:   getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://%s:%s/files", appHost, appPort)),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Bucket:    getEnv("S3_BUCKET", "taskmaster"),
				UseSSL:    getEnvAsBool("S3_USE_SSL", false),
				Region:    getEnv("S3_REGION", "us-east-1"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		AvatarUploadAttempts: getEnvAsInt("AVATAR_UPLOAD_ATTEMPTS", 3),
		AvatarUploadBackoff:  getEnvAsDuration("AVATAR_UPLOAD_BACKOFF", time.Second),
		NATSURL:              getEnv("NATS_URL", ""),
		AuditSubjectPrefix:   getEnv("AUDIT_SUBJECT_PREFIX", "taskmaster.audit"),
		ReminderWorkers:      getEnvAsInt("REMINDER_WORKERS", 2),
		ReminderQueueSize:    getEnvAsInt("REMINDER_QUEUE_SIZE", 100),
		ReminderInterval:     getEnvAsDuration("REMINDER_INTERVAL", time.Minute),
		ReminderLookahead:    getEnvAsDuration("REMINDER_LOOKAHEAD", 30*time.Minute),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/taskmaster.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 30),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_HOST/APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		log.Fatal("DATABASE_DRIVER must be sqlite or postgres")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.NotificationLimit <= 0 {
		log.Fatal("NOTIFICATION_LIMIT must be greater than 0")
	}
	if cfg.Storage.Type != "local" && cfg.Storage.Type != "s3" {
		log.Fatal("STORAGE_TYPE must be local or s3")
	}
	if cfg.Storage.Type == "s3" && cfg.Storage.S3.Endpoint == "" {
		log.Fatal("S3_ENDPOINT must not be empty when STORAGE_TYPE=s3")
	}
	if cfg.AvatarUploadAttempts <= 0 {
		log.Fatal("AVATAR_UPLOAD_ATTEMPTS must be greater than 0")
	}
	if cfg.ReminderWorkers <= 0 {
		log.Fatal("REMINDER_WORKERS must be greater than 0")
	}
	if cfg.ReminderQueueSize <= 0 {
		log.Fatal("REMINDER_QUEUE_SIZE must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Fatalf("invalid boolean value for %s", key)
		}
		return b
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid duration value for %s", key)
		}
		return d
	}
	return defaultVal
}
