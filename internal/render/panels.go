package render

import (
	"fmt"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/entities"
)

// PanelSize is how many entries the recent-updates and download-rank panels show.
const PanelSize = 5

const (
	NoUpdatesText   = "No update records"
	NoDownloadsText = "No download data"
)

type LogView struct {
	Lines       []string `json:"lines"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// RecentUpdates renders the most recently updated documents as "<date>: added <title>".
func RecentUpdates(records []entities.Document) LogView {
	top := catalog.TopByRecency(records, PanelSize)
	if len(top) == 0 {
		return LogView{Lines: []string{}, Placeholder: NoUpdatesText}
	}
	lines := make([]string, 0, len(top))
	for _, doc := range top {
		lines = append(lines, fmt.Sprintf("%s: added %s", doc.UpdateTime, doc.Title))
	}
	return LogView{Lines: lines}
}

type RankLine struct {
	Rank  int    `json:"rank"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
	Text  string `json:"text"`
}

type RankView struct {
	Lines       []RankLine `json:"lines"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// DownloadRank renders the most downloaded documents as "<rank>. <title> — <count>".
func DownloadRank(records []entities.Document) RankView {
	top := catalog.TopByDownloads(records, PanelSize)
	if len(top) == 0 {
		return RankView{Lines: []RankLine{}, Placeholder: NoDownloadsText}
	}
	lines := make([]RankLine, 0, len(top))
	for i, doc := range top {
		lines = append(lines, RankLine{
			Rank:  i + 1,
			ID:    doc.ID,
			Title: doc.Title,
			Count: doc.DownloadCount,
			Text:  fmt.Sprintf("%d. %s — %d", i+1, doc.Title, doc.DownloadCount),
		})
	}
	return RankView{Lines: lines}
}

type CategoryCount struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Active   bool   `json:"active"`
}

// CategoryCounts renders the sidebar entries, "all" first, with active marking the current filter.
func CategoryCounts(records []entities.Document, active entities.Category) []CategoryCount {
	counts := catalog.CountByCategory(records)
	out := make([]CategoryCount, 0, len(entities.KnownCategories))
	for _, category := range entities.KnownCategories {
		out = append(out, CategoryCount{
			Category: string(category),
			Label:    category.Label(),
			Count:    counts[category],
			Active:   category == active,
		})
	}
	return out
}
