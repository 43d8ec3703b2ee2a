// Package render projects catalog and favorites state into view models for
// the HTML templates and the JSON API. Nothing here mutates a store.
package render

import (
	"fmt"

	"github.com/techwave/datastation/internal/entities"
)

const DocumentIcon = "📄"

// Placeholder identifies why a list has no items.
type Placeholder string

const (
	PlaceholderNone      Placeholder = ""
	PlaceholderNoData    Placeholder = "no-data"
	PlaceholderLoadError Placeholder = "load-error"
)

const (
	NoDataText         = "No matching documents"
	LoadErrorText      = "Failed to load documents, please refresh and try again"
	FavoritesEmptyText = `No favorites yet. Click "Favorite" next to a document to add it`

	favoriteLabel  = "Favorite"
	favoritedLabel = "Favorited"
	favoriteStyle  = "background-color: #f1faff; color: #567cb2;"
	favoritedStyle = "background-color: #567cb2; color: #fff;"
)

// FavoriteButton is the per-document favorite toggle.
type FavoriteButton struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Favorited bool   `json:"favorited"`
	Label     string `json:"label"`
	Style     string `json:"style"`
}

// Button builds the toggle for a document in the given favorite state.
func Button(id, title, url string, favorited bool) FavoriteButton {
	b := FavoriteButton{ID: id, Title: title, URL: url, Favorited: favorited, Label: favoriteLabel, Style: favoriteStyle}
	if favorited {
		b.Label = favoritedLabel
		b.Style = favoritedStyle
	}
	return b
}

type DocumentItem struct {
	ID            string         `json:"id"`
	Icon          string         `json:"icon"`
	Title         string         `json:"title"`
	Desc          string         `json:"desc"`
	Category      string         `json:"category"`
	CategoryLabel string         `json:"category_label"`
	UpdateLine    string         `json:"update_line"`
	DownloadLine  string         `json:"download_line"`
	URL           string         `json:"url"`
	Favorite      FavoriteButton `json:"favorite"`
}

type CatalogView struct {
	Items           []DocumentItem `json:"items"`
	Placeholder     Placeholder    `json:"placeholder,omitempty"`
	PlaceholderText string         `json:"placeholder_text,omitempty"`
	Total           int            `json:"total"`
	TotalLabel      string         `json:"total_label"`
}

// Catalog renders one item per record; favorited holds the ids currently favorited.
func Catalog(records []entities.Document, favorited map[string]bool) CatalogView {
	view := CatalogView{
		Items:      make([]DocumentItem, 0, len(records)),
		Total:      len(records),
		TotalLabel: TotalLabel(len(records)),
	}
	if len(records) == 0 {
		view.Placeholder = PlaceholderNoData
		view.PlaceholderText = NoDataText
		return view
	}

	for _, doc := range records {
		view.Items = append(view.Items, DocumentItem{
			ID:            doc.ID,
			Icon:          DocumentIcon,
			Title:         doc.Title,
			Desc:          doc.Desc,
			Category:      string(doc.Category),
			CategoryLabel: doc.Category.Label(),
			UpdateLine:    doc.UpdateTime + " updated",
			DownloadLine:  fmt.Sprintf("Downloads: %d", doc.DownloadCount),
			URL:           doc.URL,
			Favorite:      Button(doc.ID, doc.Title, doc.URL, favorited[doc.ID]),
		})
	}
	return view
}

// CatalogLoadFailed is the list shown when the catalog source could not be loaded.
func CatalogLoadFailed() CatalogView {
	return CatalogView{
		Items:           []DocumentItem{},
		Placeholder:     PlaceholderLoadError,
		PlaceholderText: LoadErrorText,
		TotalLabel:      TotalLabel(0),
	}
}

// TotalLabel is the "(N in total)" counter next to the list header.
func TotalLabel(n int) string {
	return fmt.Sprintf("(%d in total)", n)
}

// Header is the list title; it only changes on category selection.
type Header struct {
	Category   string `json:"category"`
	Label      string `json:"label"`
	Total      int    `json:"total"`
	TotalLabel string `json:"total_label"`
}

func HeaderFor(category entities.Category, total int) Header {
	return Header{
		Category:   string(category),
		Label:      category.Label(),
		Total:      total,
		TotalLabel: TotalLabel(total),
	}
}

type FavoritesView struct {
	Entries   []entities.FavoriteEntry `json:"entries"`
	Empty     bool                     `json:"empty"`
	EmptyText string                   `json:"empty_text,omitempty"`
}

// Favorites renders the favorites panel.
func Favorites(entries []entities.FavoriteEntry) FavoritesView {
	if len(entries) == 0 {
		return FavoritesView{Entries: []entities.FavoriteEntry{}, Empty: true, EmptyText: FavoritesEmptyText}
	}
	return FavoritesView{Entries: entries}
}
