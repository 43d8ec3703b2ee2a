package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/favorites"
	"github.com/techwave/datastation/internal/remote"
	"github.com/techwave/datastation/internal/station"
)

// ToggleFavoriteRequest is the body of a toggle. Title and URL default to the catalog record.
type ToggleFavoriteRequest struct {
	ID    string `json:"id" form:"id"`
	Title string `json:"title" form:"title"`
	URL   string `json:"url" form:"url"`
}

// ReplaceFavoritesRequest is the body of PUT /api/favorites.
type ReplaceFavoritesRequest struct {
	Favorites []entities.FavoriteEntry `json:"favorites"`
}

type FavoritesController struct {
	station *station.Controller
}

func NewFavoritesController(station *station.Controller) *FavoritesController {
	return &FavoritesController{station: station}
}

// List returns the favorites panel.
// GET /api/favorites
func (fc *FavoritesController) List(c *gin.Context) {
	c.JSON(http.StatusOK, fc.station.Favorites())
}

// Panel renders the favorites panel.
// GET /ui/favorites
func (fc *FavoritesController) Panel(c *gin.Context) {
	c.HTML(http.StatusOK, "favorites-panel", fc.station.Favorites())
}

// Toggle flips the favorite state of a document.
// POST /api/favorites/toggle
func (fc *FavoritesController) Toggle(c *gin.Context) {
	view, ok := fc.toggle(c)
	if !ok {
		return
	}
	respondHTMXOrJSON(c, http.StatusOK, "favorite-toggle", view)
}

// ToggleUI flips the favorite state and returns the new button plus the panel.
// POST /ui/favorites/toggle
func (fc *FavoritesController) ToggleUI(c *gin.Context) {
	view, ok := fc.toggle(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "favorite-toggle", view)
}

func (fc *FavoritesController) toggle(c *gin.Context) (station.FavoriteView, bool) {
	var req ToggleFavoriteRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return station.FavoriteView{}, false
	}

	view, err := fc.station.ToggleFavorite(req.ID, req.Title, req.URL)
	if err != nil {
		fc.respondFavoritesError(c, err, "toggle favorite")
		return station.FavoriteView{}, false
	}
	return view, true
}

// Remove drops a favorite. Removing an unknown id succeeds.
// DELETE /api/favorites/:id
func (fc *FavoritesController) Remove(c *gin.Context) {
	id, ok := requiredParam(c, "id")
	if !ok {
		return
	}

	view, err := fc.station.RemoveFavorite(id)
	if err != nil {
		fc.respondFavoritesError(c, err, "remove favorite")
		return
	}
	respondHTMXOrJSON(c, http.StatusOK, "favorite-remove", view)
}

// RemoveUI drops a favorite from the panel.
// POST /ui/favorites/:id/remove
func (fc *FavoritesController) RemoveUI(c *gin.Context) {
	id, ok := requiredParam(c, "id")
	if !ok {
		return
	}

	view, err := fc.station.RemoveFavorite(id)
	if err != nil {
		fc.respondFavoritesError(c, err, "remove favorite")
		return
	}
	c.HTML(http.StatusOK, "favorite-remove", view)
}

// Replace swaps the whole favorites list.
// PUT /api/favorites
func (fc *FavoritesController) Replace(c *gin.Context) {
	var req ReplaceFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Favorites == nil {
		respondBadRequest(c, "favorites is required")
		return
	}

	view, err := fc.station.ReplaceFavorites(req.Favorites)
	if err != nil {
		fc.respondFavoritesError(c, err, "replace favorites")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Refresh replaces the local favorites with the remote account's list.
// POST /api/favorites/refresh
func (fc *FavoritesController) Refresh(c *gin.Context) {
	view, err := fc.station.RefreshFavorites(c.Request.Context())
	if err != nil {
		fc.respondFavoritesError(c, err, "refresh favorites")
		return
	}
	respondHTMXOrJSON(c, http.StatusOK, "favorites-panel", view)
}

// RefreshUI is Refresh for the page's sync button.
// POST /ui/favorites/refresh
func (fc *FavoritesController) RefreshUI(c *gin.Context) {
	view, err := fc.station.RefreshFavorites(c.Request.Context())
	if err != nil {
		fc.respondFavoritesError(c, err, "refresh favorites")
		return
	}
	c.HTML(http.StatusOK, "favorites-panel", view)
}

func (fc *FavoritesController) respondFavoritesError(c *gin.Context, err error, context string) {
	var syncErr *remote.SyncError
	switch {
	case errors.Is(err, favorites.ErrInvalidEntry):
		respondError(c, http.StatusBadRequest, err.Error(), "invalid_entry")
	case errors.Is(err, favorites.ErrNotAuthenticated):
		respondError(c, http.StatusForbidden, err.Error(), "not_authenticated")
	case errors.As(err, &syncErr):
		respondError(c, http.StatusBadGateway, "remote favorites unavailable", "remote_failed")
	default:
		respondInternalError(c, err, context)
	}
}
