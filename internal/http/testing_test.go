package http

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/database"
	"github.com/techwave/datastation/internal/favorites"
	"github.com/techwave/datastation/internal/station"
)

const testCatalogJSON = `[
	{"id":"a","title":"Foo","desc":"router basics","category":"tech","url":"/static/a.pdf","updateTime":"2024-01-01","downloadCount":5},
	{"id":"b","title":"Bar","desc":"switch wiring","category":"hardware","url":"/static/b.pdf","updateTime":"2024-02-01","downloadCount":10},
	{"id":"c","title":"Qux","desc":"market outlook","category":"industry","url":"/static/c.pdf","updateTime":"2023-05-01","downloadCount":2}
]`

type testEnv struct {
	router    *gin.Engine
	db        *database.Database
	station   *station.Controller
	favorites *favorites.Store
	catalog   *catalog.Store
}

type envOption func(*RouterConfig)

func withCSRF(secret []byte) envOption {
	return func(cfg *RouterConfig) {
		cfg.CSRFSecret = secret
		cfg.SecureCookies = false
	}
}

// setupTestEnv wires a router over a temporary catalog file and database.
func setupTestEnv(t *testing.T, catalogJSON string, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.NewQuietDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	source := catalog.Source(catalog.FileSource{Path: filepath.Join(dir, "missing.json")})
	if catalogJSON != "" {
		path := filepath.Join(dir, "pdf-list.json")
		require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o644))
		source = catalog.FileSource{Path: path}
	}
	catalogStore := catalog.NewStore(source)
	_, _ = catalogStore.Load(context.Background())

	favoritesStore, err := favorites.NewStore(db.Settings(), favorites.Options{})
	require.NoError(t, err)

	controller := station.NewController(catalogStore, favoritesStore, station.Options{})

	cfg := RouterConfig{
		Station:   controller,
		Favorites: favoritesStore,
		Database:  db,
		Version:   "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)

	return &testEnv{
		router:    router,
		db:        db,
		station:   controller,
		favorites: favoritesStore,
		catalog:   catalogStore,
	}
}
