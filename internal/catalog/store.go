package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/techwave/datastation/internal/entities"
)

// Status describes the outcome of the most recent load.
type Status struct {
	Loaded   bool      `json:"loaded"`
	Failed   bool      `json:"failed"`
	Error    string    `json:"error,omitempty"`
	Count    int       `json:"count"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// Store holds the catalog loaded from a Source. The document set is only ever
// replaced as a whole; readers always receive copies.
type Store struct {
	source Source
	locale language.Tag

	mu       sync.RWMutex
	docs     []entities.Document
	loaded   bool
	lastErr  error
	loadedAt time.Time

	group singleflight.Group
}

type Option func(*Store)

// WithLocale sets the collation locale used by the name sort.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) {
		s.locale = tag
	}
}

func NewStore(source Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		locale: language.Und,
		docs:   []entities.Document{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and decodes the source. On failure the store is emptied, so
// views render the load-error state and never stale data. A load abandoned
// because ctx ended leaves the store untouched and returns ctx.Err().
func (s *Store) Load(ctx context.Context) ([]entities.Document, error) {
	docs, err := s.fetch(ctx)
	if err != nil && ctx.Err() != nil {
		log.Printf("[CATALOG] Load from %s abandoned: %v", s.source, ctx.Err())
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.docs = []entities.Document{}
		s.loaded = false
		s.lastErr = err
		log.Printf("[CATALOG] %v", err)
		return nil, err
	}

	s.docs = docs
	s.loaded = true
	s.lastErr = nil
	s.loadedAt = time.Now()
	log.Printf("[CATALOG] Loaded %d documents from %s", len(docs), s.source)
	return clone(docs), nil
}

// Reload is Load with concurrent callers sharing a single fetch. The shared
// fetch is detached from the caller that started it, so one caller going away
// neither fails the others nor empties the store.
func (s *Store) Reload(ctx context.Context) error {
	result := s.group.DoChan("load", func() (any, error) {
		_, err := s.Load(context.WithoutCancel(ctx))
		return nil, err
	})

	select {
	case res := <-result:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) fetch(ctx context.Context) ([]entities.Document, error) {
	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: s.source.String(), Err: err}
	}
	docs, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Source: s.source.String(), Err: err}
	}
	return docs, nil
}

// Failed reports whether the last load attempt failed.
func (s *Store) Failed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr != nil
}

// LastError returns the error of the last load attempt, nil after a success.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Loaded:   s.loaded,
		Failed:   s.lastErr != nil,
		Count:    len(s.docs),
		Source:   s.source.String(),
		LoadedAt: s.loadedAt,
	}
	if s.lastErr != nil {
		status.Error = s.lastErr.Error()
	}
	return status
}

// Locale returns the collation locale of the name sort.
func (s *Store) Locale() language.Tag {
	return s.locale
}

// All returns the full catalog in source order.
func (s *Store) All() []entities.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.docs)
}

// Get looks a document up by id.
func (s *Store) Get(id string) (entities.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if doc.ID == id {
			return doc, true
		}
	}
	return entities.Document{}, false
}

func (s *Store) ByCategory(category entities.Category) []entities.Document {
	return FilterByCategory(s.All(), category)
}

func (s *Store) Search(keyword string) []entities.Document {
	return Search(s.All(), keyword)
}

func (s *Store) SortedBy(criterion Criterion) []entities.Document {
	return Sort(s.All(), criterion, s.locale)
}

func (s *Store) TopByRecency(n int) []entities.Document {
	return TopByRecency(s.All(), n)
}

func (s *Store) TopByDownloads(n int) []entities.Document {
	return TopByDownloads(s.All(), n)
}

func (s *Store) CategoryCounts() map[entities.Category]int {
	return CountByCategory(s.All())
}
