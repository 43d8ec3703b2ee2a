package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/security"
	"github.com/techwave/datastation/internal/station"
)

type UIController struct {
	station *station.Controller
}

func NewUIController(station *station.Controller) *UIController {
	return &UIController{station: station}
}

// Page renders the full data station page.
// GET /
func (uc *UIController) Page(c *gin.Context) {
	page := uc.station.Page(c.Request.Context())

	c.HTML(http.StatusOK, "index", gin.H{
		"Page":      page,
		"CSRFToken": security.GetCSRFToken(c),
	})
}

// Documents re-renders the document list for one user action. Each control
// sends only its own parameter: sort wins over category, category over search.
// GET /ui/documents?q=&sort=&category=
func (uc *UIController) Documents(c *gin.Context) {
	var view station.ListView
	switch {
	case c.Query("sort") != "":
		criterion, err := catalog.ParseCriterion(c.Query("sort"))
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		view = uc.station.Sort(criterion)

	case c.Query("category") != "":
		view = uc.station.SelectCategory(entities.Category(strings.TrimSpace(c.Query("category"))))

	default:
		view = uc.station.Search(c.Query("q"))
	}

	respondHTMXOrJSON(c, http.StatusOK, "document-list-update", view)
}
