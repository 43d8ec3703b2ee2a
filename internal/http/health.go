package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// CatalogStatus reports the state of the catalog load.
type CatalogStatus interface {
	CatalogStatus() catalog.Status
}

type HealthController struct {
	db      *database.Database
	catalog CatalogStatus
	version string
}

func NewHealthController(db *database.Database, catalog CatalogStatus, version string) *HealthController {
	return &HealthController{
		db:      db,
		catalog: catalog,
		version: version,
	}
}

// Status reports local storage connectivity and the catalog state. A failed
// catalog load degrades the status but keeps the service available, since the
// page still renders its load-error state.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.catalog != nil {
		catalogStatus := h.catalog.CatalogStatus()
		switch {
		case catalogStatus.Failed:
			checks["catalog"] = "error: " + catalogStatus.Error
			if status == "healthy" {
				status = "degraded"
			}
		case catalogStatus.Loaded:
			checks["catalog"] = "ok"
		default:
			checks["catalog"] = "not loaded"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
