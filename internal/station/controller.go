// Package station implements the user interactions of the data station page:
// search, sort, category selection and favorites. Each action works on the
// full catalog. Sort resets any filter, while search and category selection
// do not reset each other.
package station

import (
	"context"
	"log"

	"github.com/techwave/datastation/internal/announcement"
	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/favorites"
	"github.com/techwave/datastation/internal/render"
)

// Announcer decides whether today's notice is shown. Check marks it seen,
// Peek only looks.
type Announcer interface {
	Check() (announcement.Notice, error)
	Peek() (announcement.Notice, error)
}

type Options struct {
	// ReloadOnVisit refetches the catalog source before every full page render.
	ReloadOnVisit bool
	Announcer     Announcer
}

type Controller struct {
	catalog       *catalog.Store
	favorites     *favorites.Store
	announcer     Announcer
	reloadOnVisit bool
}

func NewController(catalogStore *catalog.Store, favoritesStore *favorites.Store, opts Options) *Controller {
	return &Controller{
		catalog:       catalogStore,
		favorites:     favoritesStore,
		announcer:     opts.Announcer,
		reloadOnVisit: opts.ReloadOnVisit,
	}
}

// PageView is everything the full page renders.
type PageView struct {
	List          render.CatalogView     `json:"list"`
	Header        render.Header          `json:"header"`
	Categories    []render.CategoryCount `json:"categories"`
	RecentUpdates render.LogView         `json:"recent_updates"`
	DownloadRank  render.RankView        `json:"download_rank"`
	Favorites     render.FavoritesView   `json:"favorites"`
	Announcement  announcement.Notice    `json:"announcement"`
	Catalog       catalog.Status         `json:"catalog"`
	Authenticated bool                   `json:"authenticated"`
	Criteria      []catalog.Criterion    `json:"-"`
	Active        entities.Category      `json:"-"`
}

// ListView is the result of a list action. Header and Categories are only
// set by SelectCategory.
type ListView struct {
	List       render.CatalogView     `json:"list"`
	Header     *render.Header         `json:"header,omitempty"`
	Categories []render.CategoryCount `json:"categories,omitempty"`
}

// FavoriteView is the result of a favorites mutation: the button of the
// affected document and the favorites panel, rendered from the same state.
type FavoriteView struct {
	ID        string                `json:"id"`
	Favorited bool                  `json:"favorited"`
	Button    render.FavoriteButton `json:"button"`
	Favorites render.FavoritesView  `json:"favorites"`
}

// Page renders the initial page state with the "all" category selected.
func (c *Controller) Page(ctx context.Context) PageView {
	if c.reloadOnVisit {
		// Failures are reflected by the load-error placeholder.
		_ = c.catalog.Reload(ctx)
	}

	all := c.catalog.All()
	view := PageView{
		List:          c.list(all),
		Header:        render.HeaderFor(entities.CategoryAll, len(all)),
		Categories:    render.CategoryCounts(all, entities.CategoryAll),
		RecentUpdates: render.RecentUpdates(all),
		DownloadRank:  render.DownloadRank(all),
		Favorites:     render.Favorites(c.favorites.List()),
		Catalog:       c.catalog.Status(),
		Authenticated: c.favorites.Authenticated(),
		Criteria:      catalog.Criteria,
		Active:        entities.CategoryAll,
	}

	notice, err := c.Announcement()
	if err != nil {
		log.Printf("[STATION] Announcement check failed: %v", err)
	}
	view.Announcement = notice
	return view
}

// Announcement returns today's notice, shown at most once per day.
func (c *Controller) Announcement() (announcement.Notice, error) {
	if c.announcer == nil {
		return announcement.Notice{}, nil
	}
	return c.announcer.Check()
}

// PeekAnnouncement reports today's notice without marking it shown, so
// polling it never hides the notice from the page.
func (c *Controller) PeekAnnouncement() (announcement.Notice, error) {
	if c.announcer == nil {
		return announcement.Notice{}, nil
	}
	return c.announcer.Peek()
}

// Search matches the keyword against the full catalog. The header is left as is.
func (c *Controller) Search(keyword string) ListView {
	return ListView{List: c.list(c.catalog.Search(keyword))}
}

// Sort orders the full catalog, dropping any active search or category filter.
func (c *Controller) Sort(criterion catalog.Criterion) ListView {
	return ListView{List: c.list(c.catalog.SortedBy(criterion))}
}

// SelectCategory filters the full catalog and updates the header and the active marker.
func (c *Controller) SelectCategory(category entities.Category) ListView {
	records := c.catalog.ByCategory(category)
	header := render.HeaderFor(category, len(records))
	return ListView{
		List:       c.list(records),
		Header:     &header,
		Categories: render.CategoryCounts(c.catalog.All(), category),
	}
}

// Query combines the filters for API clients: category, then keyword, then order.
func (c *Controller) Query(keyword string, category entities.Category, criterion catalog.Criterion) ListView {
	records := catalog.Search(c.catalog.ByCategory(category), keyword)
	if criterion != "" {
		records = catalog.Sort(records, criterion, c.catalog.Locale())
	}
	header := render.HeaderFor(category, len(records))
	return ListView{List: c.list(records), Header: &header}
}

// ToggleFavorite flips the favorite state of id. Missing title or url are
// taken from the catalog record.
func (c *Controller) ToggleFavorite(id, title, url string) (FavoriteView, error) {
	if doc, ok := c.catalog.Get(id); ok {
		if title == "" {
			title = doc.Title
		}
		if url == "" {
			url = doc.URL
		}
	}

	favorited, err := c.favorites.Toggle(id, title, url)
	if err != nil {
		return FavoriteView{}, err
	}
	return FavoriteView{
		ID:        id,
		Favorited: favorited,
		Button:    render.Button(id, title, url, favorited),
		Favorites: render.Favorites(c.favorites.List()),
	}, nil
}

// RemoveFavorite drops id from the favorites panel.
func (c *Controller) RemoveFavorite(id string) (FavoriteView, error) {
	if err := c.favorites.Remove(id); err != nil {
		return FavoriteView{}, err
	}

	var title, url string
	if doc, ok := c.catalog.Get(id); ok {
		title, url = doc.Title, doc.URL
	}
	return FavoriteView{
		ID:        id,
		Button:    render.Button(id, title, url, false),
		Favorites: render.Favorites(c.favorites.List()),
	}, nil
}

// ReplaceFavorites swaps the whole favorites list.
func (c *Controller) ReplaceFavorites(entries []entities.FavoriteEntry) (render.FavoritesView, error) {
	if err := c.favorites.ReplaceAll(entries); err != nil {
		return render.FavoritesView{}, err
	}
	return render.Favorites(c.favorites.List()), nil
}

func (c *Controller) Favorites() render.FavoritesView {
	return render.Favorites(c.favorites.List())
}

// RefreshFavorites replaces the local list with the remote one.
func (c *Controller) RefreshFavorites(ctx context.Context) (render.FavoritesView, error) {
	entries, err := c.favorites.FetchRemote(ctx)
	if err != nil {
		return render.FavoritesView{}, err
	}
	return render.Favorites(entries), nil
}

func (c *Controller) Categories(active entities.Category) []render.CategoryCount {
	return render.CategoryCounts(c.catalog.All(), active)
}

func (c *Controller) RecentUpdates() render.LogView {
	return render.RecentUpdates(c.catalog.All())
}

func (c *Controller) DownloadRank() render.RankView {
	return render.DownloadRank(c.catalog.All())
}

// ReloadCatalog refetches the source and reports the resulting status.
func (c *Controller) ReloadCatalog(ctx context.Context) (catalog.Status, error) {
	err := c.catalog.Reload(ctx)
	return c.catalog.Status(), err
}

func (c *Controller) CatalogStatus() catalog.Status {
	return c.catalog.Status()
}

func (c *Controller) list(records []entities.Document) render.CatalogView {
	if c.catalog.Failed() {
		return render.CatalogLoadFailed()
	}
	return render.Catalog(records, c.favorites.Snapshot())
}
