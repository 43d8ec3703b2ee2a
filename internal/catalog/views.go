package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/techwave/datastation/internal/entities"
)

// Criterion is the active sort key.
type Criterion string

const (
	CriterionNewest Criterion = "newest"
	CriterionHot    Criterion = "hot"
	CriterionName   Criterion = "name"
)

// Criteria lists the sort selector options in display order.
var Criteria = []Criterion{CriterionNewest, CriterionHot, CriterionName}

// ParseCriterion validates a sort selector value.
func ParseCriterion(value string) (Criterion, error) {
	switch c := Criterion(strings.TrimSpace(value)); c {
	case CriterionNewest, CriterionHot, CriterionName:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCriterion, value)
	}
}

// FilterByCategory returns the documents of one category. The "all" sentinel returns a copy of docs.
func FilterByCategory(docs []entities.Document, category entities.Category) []entities.Document {
	if category == entities.CategoryAll {
		return clone(docs)
	}
	out := make([]entities.Document, 0)
	for _, doc := range docs {
		if doc.Category == category {
			out = append(out, doc)
		}
	}
	return out
}

// Search matches the keyword case-insensitively against title or description.
// A blank keyword returns a copy of docs.
func Search(docs []entities.Document, keyword string) []entities.Document {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return clone(docs)
	}
	out := make([]entities.Document, 0)
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Title), keyword) ||
			strings.Contains(strings.ToLower(doc.Desc), keyword) {
			out = append(out, doc)
		}
	}
	return out
}

// Sort returns a stably sorted copy of docs. Unknown criteria keep source order.
func Sort(docs []entities.Document, criterion Criterion, locale language.Tag) []entities.Document {
	out := clone(docs)
	switch criterion {
	case CriterionNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	case CriterionHot:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DownloadCount > out[j].DownloadCount
		})
	case CriterionName:
		// Collators keep internal buffers, so each sort gets its own.
		col := collate.New(locale)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	}
	return out
}

// TopByRecency returns the n most recently updated documents.
func TopByRecency(docs []entities.Document, n int) []entities.Document {
	return head(Sort(docs, CriterionNewest, language.Und), n)
}

// TopByDownloads returns the n most downloaded documents.
func TopByDownloads(docs []entities.Document, n int) []entities.Document {
	return head(Sort(docs, CriterionHot, language.Und), n)
}

// CountByCategory counts documents for every known category, "all" included.
func CountByCategory(docs []entities.Document) map[entities.Category]int {
	counts := make(map[entities.Category]int, len(entities.KnownCategories))
	for _, category := range entities.KnownCategories {
		counts[category] = 0
	}
	counts[entities.CategoryAll] = len(docs)
	for _, doc := range docs {
		if doc.Category != entities.CategoryAll && doc.Category.IsKnown() {
			counts[doc.Category]++
		}
	}
	return counts
}

func head(docs []entities.Document, n int) []entities.Document {
	if n <= 0 {
		return []entities.Document{}
	}
	if n > len(docs) {
		n = len(docs)
	}
	return docs[:n]
}

func clone(docs []entities.Document) []entities.Document {
	out := make([]entities.Document, len(docs))
	copy(out, docs)
	return out
}
