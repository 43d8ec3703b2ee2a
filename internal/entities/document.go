package entities

import (
	"time"
)

type Category string

const (
	CategoryAll       Category = "all"
	CategoryHardware  Category = "hardware"
	CategoryTech      Category = "tech"
	CategoryIndustry  Category = "industry"
	CategoryAgent     Category = "agent"
	CategoryAftersale Category = "aftersale"
	CategoryOther     Category = "other"
)

// KnownCategories lists the categories shown in the sidebar, in display order.
// CategoryAll is the sentinel and always comes first.
var KnownCategories = []Category{
	CategoryAll,
	CategoryHardware,
	CategoryTech,
	CategoryIndustry,
	CategoryAgent,
	CategoryAftersale,
}

var categoryLabels = map[Category]string{
	CategoryAll:       "All Documents",
	CategoryHardware:  "Hardware Knowledge",
	CategoryTech:      "Tech Tutorials",
	CategoryIndustry:  "Industry Reports",
	CategoryAgent:     "Agent Handbook",
	CategoryAftersale: "After-sales Guide",
}

// Label returns the display name of the category. Unmapped categories read "Other".
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Other"
}

// IsKnown reports whether the category is one of the fixed set (the "all" sentinel included).
func (c Category) IsKnown() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Document is a single PDF entry of the catalog. Values are never mutated after load.
type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Desc          string    `json:"desc"`
	Category      Category  `json:"category"`
	URL           string    `json:"url"`
	UpdateTime    string    `json:"updateTime"`
	DownloadCount int       `json:"downloadCount"`
	UpdatedAt     time.Time `json:"-"` // parsed UpdateTime, zero when unparseable
}

// FavoriteEntry is a snapshot of a document taken when it was favorited.
// It is not kept in sync with later catalog updates.
type FavoriteEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
