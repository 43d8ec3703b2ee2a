package http

import (
	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/security"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(security.SecurityHeadersMiddleware())

	// Apply CSRF protection if a secret is configured. JSON API calls are
	// exempt, form posts to any route need the token.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Station, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	uiController := NewUIController(cfg.Station)
	documentsController := NewDocumentsController(cfg.Station, cfg.ReloadScheduler)
	favoritesController := NewFavoritesController(cfg.Station)
	announcementController := NewAnnouncementController(cfg.Station)

	// HTML surface
	router.GET("/", uiController.Page)
	router.GET("/ui/documents", uiController.Documents)
	router.GET("/ui/favorites", favoritesController.Panel)
	router.POST("/ui/favorites/toggle", favoritesController.ToggleUI)
	router.POST("/ui/favorites/:id/remove", favoritesController.RemoveUI)
	router.POST("/ui/favorites/refresh", favoritesController.RefreshUI)

	// Documents API
	router.GET("/api/documents", documentsController.List)
	router.GET("/api/documents/categories", documentsController.Categories)
	router.GET("/api/documents/rank", documentsController.Rank)
	router.GET("/api/documents/updates", documentsController.Updates)
	router.GET("/api/catalog", documentsController.Status)
	router.POST("/api/catalog/reload", documentsController.Reload)

	// Favorites API
	router.GET("/api/favorites", favoritesController.List)
	router.POST("/api/favorites/toggle", favoritesController.Toggle)
	router.DELETE("/api/favorites/:id", favoritesController.Remove)
	router.PUT("/api/favorites", favoritesController.Replace)
	router.POST("/api/favorites/refresh", favoritesController.Refresh)

	router.GET("/api/announcement", announcementController.Get)

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.Favorites)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router, nil
}
