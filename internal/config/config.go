package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Catalog
		Remote
		Tasks
		Security
		Announcement
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string // Empty serves the embedded templates
		StaticPath    string // Directory with the PDFs and assets, empty to disable
	}
	Catalog struct {
		Source         string // Local JSON file or http(s) URL
		Locale         string // BCP 47 tag used by the name sort
		ReloadEnabled  bool
		ReloadSchedule string // Cron format: "*/30 * * * *" = every 30 minutes
		ReloadOnVisit  bool   // Refetch the source on every full page load
	}
	Remote struct {
		LoginEnabled bool   // Remote favorites mirror, off by default
		Token        string // Falls back to the userToken key of local storage
		BaseURL      string
		Timeout      time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Security struct {
		CSRFSecret    string // Enables CSRF protection when set (32 bytes)
		SecureCookies bool   // Set to false for local dev without HTTPS
	}
	Announcement struct {
		Path string // Empty disables the daily notice
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "./static")

	// Catalog defaults
	v.SetDefault("catalog_source", DefaultCatalogSource)
	v.SetDefault("catalog_locale", "en")
	v.SetDefault("catalog_reload_enabled", false)
	v.SetDefault("catalog_reload_schedule", "*/30 * * * *")
	v.SetDefault("catalog_reload_on_visit", false)

	// Remote favorites defaults
	v.SetDefault("remote_login_enabled", false)
	v.SetDefault("remote_token", "")
	v.SetDefault("remote_base_url", "")
	v.SetDefault("remote_timeout", "10s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", true)

	v.SetDefault("announcement_path", DefaultAnnouncementPath)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Catalog: Catalog{
			Source:         v.GetString("CATALOG_SOURCE"),
			Locale:         v.GetString("CATALOG_LOCALE"),
			ReloadEnabled:  v.GetBool("CATALOG_RELOAD_ENABLED"),
			ReloadSchedule: v.GetString("CATALOG_RELOAD_SCHEDULE"),
			ReloadOnVisit:  v.GetBool("CATALOG_RELOAD_ON_VISIT"),
		},
		Remote: Remote{
			LoginEnabled: v.GetBool("REMOTE_LOGIN_ENABLED"),
			Token:        v.GetString("REMOTE_TOKEN"),
			BaseURL:      v.GetString("REMOTE_BASE_URL"),
			Timeout:      v.GetDuration("REMOTE_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Security: Security{
			CSRFSecret:    v.GetString("CSRF_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Announcement: Announcement{
			Path: v.GetString("ANNOUNCEMENT_PATH"),
		},
	}
}
