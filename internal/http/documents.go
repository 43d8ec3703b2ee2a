package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/render"
	"github.com/techwave/datastation/internal/scheduler"
	"github.com/techwave/datastation/internal/station"
)

// DocumentsResponse is the JSON view of a catalog query.
type DocumentsResponse struct {
	Items       []render.DocumentItem `json:"items"`
	Total       int                   `json:"total"`
	TotalLabel  string                `json:"total_label"`
	Header      *render.Header        `json:"header,omitempty"`
	Placeholder render.Placeholder    `json:"placeholder,omitempty"`
	Message     string                `json:"message,omitempty"`
	LoadFailed  bool                  `json:"load_failed"`
}

// CatalogStatusResponse reports the last load and the reload schedule.
type CatalogStatusResponse struct {
	catalog.Status
	ReloadScheduled bool       `json:"reload_scheduled"`
	NextReload      *time.Time `json:"next_reload,omitempty"`
}

type DocumentsController struct {
	station   *station.Controller
	scheduler *scheduler.CatalogReloadScheduler
}

func NewDocumentsController(station *station.Controller, scheduler *scheduler.CatalogReloadScheduler) *DocumentsController {
	return &DocumentsController{station: station, scheduler: scheduler}
}

// List returns the catalog filtered by category, then keyword, in the given order.
// GET /api/documents?q=&category=&sort=
func (dc *DocumentsController) List(c *gin.Context) {
	category := entities.CategoryAll
	if value := strings.TrimSpace(c.Query("category")); value != "" {
		category = entities.Category(value)
	}

	var criterion catalog.Criterion
	if value := c.Query("sort"); value != "" {
		parsed, err := catalog.ParseCriterion(value)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error(), "unknown_sort")
			return
		}
		criterion = parsed
	}

	view := dc.station.Query(c.Query("q"), category, criterion)
	c.JSON(http.StatusOK, DocumentsResponse{
		Items:       view.List.Items,
		Total:       view.List.Total,
		TotalLabel:  view.List.TotalLabel,
		Header:      view.Header,
		Placeholder: view.List.Placeholder,
		Message:     view.List.PlaceholderText,
		LoadFailed:  view.List.Placeholder == render.PlaceholderLoadError,
	})
}

// Categories returns the per-category counts.
// GET /api/documents/categories?active=
func (dc *DocumentsController) Categories(c *gin.Context) {
	active := entities.CategoryAll
	if value := strings.TrimSpace(c.Query("active")); value != "" {
		active = entities.Category(value)
	}
	respondHTMXOrJSON(c, http.StatusOK, "category-list", dc.station.Categories(active))
}

// Rank returns the most downloaded documents.
// GET /api/documents/rank
func (dc *DocumentsController) Rank(c *gin.Context) {
	respondHTMXOrJSON(c, http.StatusOK, "download-rank", dc.station.DownloadRank())
}

// Updates returns the recently updated documents.
// GET /api/documents/updates
func (dc *DocumentsController) Updates(c *gin.Context) {
	respondHTMXOrJSON(c, http.StatusOK, "recent-updates", dc.station.RecentUpdates())
}

// Status reports the catalog load state.
// GET /api/catalog
func (dc *DocumentsController) Status(c *gin.Context) {
	response := CatalogStatusResponse{Status: dc.station.CatalogStatus()}
	if dc.scheduler != nil && dc.scheduler.IsRunning() {
		response.ReloadScheduled = true
		response.NextReload = dc.scheduler.NextRun()
	}
	c.JSON(http.StatusOK, response)
}

// Reload refetches the catalog source.
// POST /api/catalog/reload
func (dc *DocumentsController) Reload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	status, err := dc.station.ReloadCatalog(ctx)
	if err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  "catalog reload failed",
				"code":   "load_failed",
				"status": status,
			})
			return
		}
		respondInternalError(c, err, "reload catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "catalog reloaded",
		"status":  status,
	})
}
