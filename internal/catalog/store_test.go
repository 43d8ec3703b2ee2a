package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techwave/datastation/internal/entities"
)

const scenarioCatalog = `[
	{"id":"a","title":"Foo","desc":"first","category":"tech","url":"/a.pdf","updateTime":"2024-01-01","downloadCount":5},
	{"id":"b","title":"Bar","desc":"second","category":"hardware","url":"/b.pdf","updateTime":"2024-02-01","downloadCount":10}
]`

const mixedCatalog = `[
	{"id":"1","title":"Router Setup","desc":"Wiring the edge ROUTER","category":"hardware","url":"/1.pdf","updateTime":"2024-03-01","downloadCount":7},
	{"id":"2","title":"API Tutorial","desc":"REST basics","category":"tech","url":"/2.pdf","updateTime":"2024-03-01","downloadCount":7},
	{"id":"3","title":"market report","desc":"Quarterly numbers","category":"industry","url":"/3.pdf","updateTime":"2023-12-24","downloadCount":30},
	{"id":"4","title":"Agent Handbook","desc":"How to resell","category":"agent","url":"/4.pdf","updateTime":"2024-05-10","downloadCount":2},
	{"id":"5","title":"Warranty","desc":"Returns and repairs","category":"aftersale","url":"/5.pdf","updateTime":"not a date","downloadCount":7},
	{"id":"6","title":"Misc","desc":"Unfiled","category":"legacy","url":"/6.pdf","updateTime":"2024-01-15","downloadCount":0}
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdf-list.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadedStore(t *testing.T, content string) *Store {
	t.Helper()
	store := NewStore(FileSource{Path: writeCatalog(t, content)})
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store
}

func ids(docs []entities.Document) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = doc.ID
	}
	return out
}

func titles(docs []entities.Document) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = doc.Title
	}
	return out
}

func TestStore_Scenario(t *testing.T) {
	store := loadedStore(t, scenarioCatalog)

	assert.Equal(t, []string{"b"}, ids(store.TopByDownloads(1)))
	assert.Equal(t, []string{"b"}, ids(store.TopByRecency(1)))
	assert.Equal(t, []string{"Bar", "Foo"}, titles(store.SortedBy(CriterionName)))
}

func TestStore_All(t *testing.T) {
	store := loadedStore(t, mixedCatalog)

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(store.All()))

	t.Run("returns a copy", func(t *testing.T) {
		docs := store.All()
		docs[0].Title = "changed"
		assert.Equal(t, "Router Setup", store.All()[0].Title)
	})
}

func TestStore_ByCategory(t *testing.T) {
	store := loadedStore(t, mixedCatalog)

	t.Run("all sentinel returns everything", func(t *testing.T) {
		assert.Equal(t, store.All(), store.ByCategory(entities.CategoryAll))
	})

	t.Run("exact match", func(t *testing.T) {
		assert.Equal(t, []string{"2"}, ids(store.ByCategory(entities.CategoryTech)))
	})

	t.Run("unknown category is empty", func(t *testing.T) {
		assert.Empty(t, store.ByCategory("nope"))
	})

	t.Run("partition sums to total", func(t *testing.T) {
		store := loadedStore(t, scenarioCatalog)
		total := 0
		for _, category := range entities.KnownCategories[1:] {
			total += len(store.ByCategory(category))
		}
		assert.Equal(t, len(store.All()), total)
	})
}

func TestStore_Search(t *testing.T) {
	store := loadedStore(t, mixedCatalog)

	t.Run("blank keyword is identity", func(t *testing.T) {
		assert.Equal(t, store.All(), store.Search(""))
		assert.Equal(t, store.All(), store.Search("   "))
	})

	t.Run("case-insensitive on title", func(t *testing.T) {
		assert.Equal(t, []string{"3"}, ids(store.Search("MARKET")))
	})

	t.Run("matches description", func(t *testing.T) {
		assert.Equal(t, []string{"1"}, ids(store.Search("router")))
		assert.Equal(t, []string{"5"}, ids(store.Search("repairs")))
	})

	t.Run("keyword is trimmed", func(t *testing.T) {
		assert.Equal(t, []string{"2"}, ids(store.Search("  rest ")))
	})

	t.Run("only matching records", func(t *testing.T) {
		for _, doc := range store.Search("an") {
			hit := strings.Contains(strings.ToLower(doc.Title), "an") ||
				strings.Contains(strings.ToLower(doc.Desc), "an")
			assert.True(t, hit, doc.ID)
		}
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, store.Search("zzz"))
	})
}

func TestStore_SortedBy(t *testing.T) {
	store := loadedStore(t, mixedCatalog)

	t.Run("newest is descending and stable", func(t *testing.T) {
		// 1 and 2 share a date; 5 has an unparseable date and sorts last.
		assert.Equal(t, []string{"4", "1", "2", "6", "3", "5"}, ids(store.SortedBy(CriterionNewest)))
	})

	t.Run("hot is descending and stable", func(t *testing.T) {
		assert.Equal(t, []string{"3", "1", "2", "5", "4", "6"}, ids(store.SortedBy(CriterionHot)))
	})

	t.Run("name is ascending", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Agent Handbook", "API Tutorial", "market report", "Misc", "Router Setup", "Warranty"},
			titles(store.SortedBy(CriterionName)))
	})

	t.Run("unknown criterion keeps source order", func(t *testing.T) {
		assert.Equal(t, ids(store.All()), ids(store.SortedBy("random")))
	})

	t.Run("does not reorder the store", func(t *testing.T) {
		store.SortedBy(CriterionHot)
		assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(store.All()))
	})
}

func TestStore_SortedBy_NameIsStable(t *testing.T) {
	store := loadedStore(t, `[
		{"id":"x","title":"Same","updateTime":"2024-01-01","downloadCount":1},
		{"id":"y","title":"Alpha","updateTime":"2024-01-01","downloadCount":1},
		{"id":"z","title":"Same","updateTime":"2024-01-01","downloadCount":1}
	]`)

	assert.Equal(t, []string{"y", "x", "z"}, ids(store.SortedBy(CriterionName)))
}

func TestStore_Top(t *testing.T) {
	store := loadedStore(t, mixedCatalog)

	assert.Len(t, store.TopByRecency(5), 5)
	assert.Len(t, store.TopByDownloads(100), 6)
	assert.Empty(t, store.TopByDownloads(0))
	assert.Empty(t, store.TopByRecency(-1))
}

func TestStore_CategoryCounts(t *testing.T) {
	store := loadedStore(t, mixedCatalog)

	counts := store.CategoryCounts()
	assert.Equal(t, 6, counts[entities.CategoryAll])
	assert.Equal(t, 1, counts[entities.CategoryHardware])
	assert.Equal(t, 1, counts[entities.CategoryTech])
	assert.Equal(t, 1, counts[entities.CategoryIndustry])
	assert.Equal(t, 1, counts[entities.CategoryAgent])
	assert.Equal(t, 1, counts[entities.CategoryAftersale])
	_, hasLegacy := counts["legacy"]
	assert.False(t, hasLegacy)
}

func TestStore_Load_Failures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := NewStore(FileSource{Path: filepath.Join(t.TempDir(), "missing.json")})

		docs, err := store.Load(context.Background())
		require.Error(t, err)
		assert.Nil(t, docs)
		assert.True(t, errors.Is(err, ErrLoad))

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.True(t, store.Failed())
		assert.Empty(t, store.All())
	})

	t.Run("malformed json", func(t *testing.T) {
		store := NewStore(FileSource{Path: writeCatalog(t, `{"not":"a list"`)})
		_, err := store.Load(context.Background())
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		store := NewStore(FileSource{Path: writeCatalog(t, `[{"id":"a"},{"id":"a"}]`)})
		_, err := store.Load(context.Background())
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("negative download count", func(t *testing.T) {
		store := NewStore(FileSource{Path: writeCatalog(t, `[{"id":"a","downloadCount":-1}]`)})
		_, err := store.Load(context.Background())
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("failure drops previously loaded data", func(t *testing.T) {
		path := writeCatalog(t, scenarioCatalog)
		store := NewStore(FileSource{Path: path})
		_, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, store.All(), 2)

		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
		_, err = store.Load(context.Background())
		require.Error(t, err)

		assert.Empty(t, store.All())
		assert.Equal(t, 0, store.CategoryCounts()[entities.CategoryAll])
		assert.True(t, store.Status().Failed)
	})

	t.Run("success clears the failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "later.json")
		store := NewStore(FileSource{Path: path})
		_, err := store.Load(context.Background())
		require.Error(t, err)

		require.NoError(t, os.WriteFile(path, []byte(scenarioCatalog), 0644))
		_, err = store.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, store.Failed())
		assert.NoError(t, store.LastError())
	})
}

func TestHTTPSource(t *testing.T) {
	t.Run("loads catalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(scenarioCatalog))
		}))
		defer server.Close()

		store := NewStore(NewHTTPSource(server.URL, server.Client()))
		docs, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("404 is a load error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		store := NewStore(NewHTTPSource(server.URL, server.Client()))
		_, err := store.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLoad)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestNewSource(t *testing.T) {
	_, isHTTP := NewSource("https://example.com/pdf-list.json").(*HTTPSource)
	assert.True(t, isHTTP)

	_, isFile := NewSource("./pdf-list.json").(FileSource)
	assert.True(t, isFile)
}

func TestStore_Reload_CollapsesConcurrentCalls(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(scenarioCatalog))
	}))
	defer server.Close()

	store := NewStore(NewHTTPSource(server.URL, server.Client()))

	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		go func() { errs <- store.Reload(context.Background()) }()
	}
	// Let the goroutines join the in-flight call before the server answers.
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 2*time.Second, time.Millisecond)
	close(release)

	for i := 0; i < 3; i++ {
		require.NoError(t, <-errs)
	}
	assert.LessOrEqual(t, hits.Load(), int32(3))
	assert.Len(t, store.All(), 2)
}

// gatedSource blocks every fetch until release is closed or ctx ends.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
	data    string
}

func (s *gatedSource) Fetch(ctx context.Context) ([]byte, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
		return []byte(s.data), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *gatedSource) String() string { return "gated" }

func TestStore_Reload_CallerCancellation(t *testing.T) {
	source := &gatedSource{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		data:    scenarioCatalog,
	}
	close(source.release)
	store := NewStore(source)
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	source.release = make(chan struct{})
	<-source.started

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- store.Reload(ctx) }()
	<-source.started

	other := make(chan error, 1)
	go func() { other <- store.Reload(context.Background()) }()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(source.release)
	require.NoError(t, <-other)
	assert.False(t, store.Failed())
	assert.Len(t, store.All(), 2)
}

func TestStore_Load_CancelledKeepsCatalog(t *testing.T) {
	source := &gatedSource{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		data:    scenarioCatalog,
	}
	close(source.release)
	store := NewStore(source)
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	source.release = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrLoad))
	assert.False(t, store.Failed())
	assert.Equal(t, []string{"a", "b"}, ids(store.All()))
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("hot")
	require.NoError(t, err)
	assert.Equal(t, CriterionHot, c)

	_, err = ParseCriterion("oldest")
	assert.ErrorIs(t, err, ErrUnknownCriterion)
}

func TestParseUpdateTime(t *testing.T) {
	assert.Equal(t, 2024, ParseUpdateTime("2024-02-01").Year())
	assert.Equal(t, 15, ParseUpdateTime("2024-02-01 15:04:05").Hour())
	assert.True(t, ParseUpdateTime("yesterday").IsZero())
}
