package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/station"
)

type AnnouncementController struct {
	station *station.Controller
}

func NewAnnouncementController(station *station.Controller) *AnnouncementController {
	return &AnnouncementController{station: station}
}

// Get returns today's notice without marking it shown; only the page does that.
// GET /api/announcement
func (ac *AnnouncementController) Get(c *gin.Context) {
	notice, err := ac.station.PeekAnnouncement()
	if err != nil {
		respondInternalError(c, err, "check announcement")
		return
	}
	respondHTMXOrJSON(c, http.StatusOK, "announcement", notice)
}
