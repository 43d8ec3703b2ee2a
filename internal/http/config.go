package http

import (
	"github.com/techwave/datastation/internal/database"
	"github.com/techwave/datastation/internal/favorites"
	"github.com/techwave/datastation/internal/scheduler"
	"github.com/techwave/datastation/internal/station"
	"github.com/techwave/datastation/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Station   *station.Controller
	Favorites *favorites.Store
	Database  *database.Database

	// UI paths; an empty TemplatesPath serves the embedded templates
	TemplatesPath string
	StaticPath    string

	// CSRF protection of the HTML surface, disabled when the secret is empty
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Scheduled catalog reloads (optional)
	ReloadScheduler *scheduler.CatalogReloadScheduler
}
