package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/techwave/datastation/internal/entities"
)

var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseUpdateTime parses the update timestamp of a record. Unparseable values
// yield the zero time, which orders as the oldest.
func ParseUpdateTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Decode parses and validates a catalog document.
func Decode(data []byte) ([]entities.Document, error) {
	var docs []entities.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("malformed catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(docs))
	for i := range docs {
		doc := &docs[i]
		if doc.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrInvalidRecord, i)
		}
		if _, dup := seen[doc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidRecord, doc.ID)
		}
		if doc.DownloadCount < 0 {
			return nil, fmt.Errorf("%w: record %q has negative download count", ErrInvalidRecord, doc.ID)
		}
		seen[doc.ID] = struct{}{}
		doc.UpdatedAt = ParseUpdateTime(doc.UpdateTime)
	}

	if docs == nil {
		docs = []entities.Document{}
	}
	return docs, nil
}
