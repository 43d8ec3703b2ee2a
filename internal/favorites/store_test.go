package favorites

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techwave/datastation/internal/database"
	"github.com/techwave/datastation/internal/database/settings"
	"github.com/techwave/datastation/internal/entities"
)

func setupStorage(t *testing.T) *settings.Repository {
	t.Helper()
	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.Settings()
}

func persisted(t *testing.T, storage Storage) (string, bool) {
	t.Helper()
	raw, ok, err := storage.GetValue(entities.SettingKeyFavorites)
	require.NoError(t, err)
	return raw, ok
}

type recordingSyncer struct {
	mu     sync.Mutex
	pushes [][]entities.FavoriteEntry
	err    error
}

func (r *recordingSyncer) Push(entries []entities.FavoriteEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, entries)
	return r.err
}

func (r *recordingSyncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pushes)
}

type fakeRemote struct {
	entries []entities.FavoriteEntry
	err     error
	token   string
}

func (f *fakeRemote) FetchFavorites(ctx context.Context, token string) ([]entities.FavoriteEntry, error) {
	f.token = token
	return f.entries, f.err
}

type failingStorage struct {
	Storage
	fail bool
}

func (f *failingStorage) SetSetting(key, value string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Storage.SetSetting(key, value)
}

func TestStore_Toggle(t *testing.T) {
	t.Run("adds to empty favorites", func(t *testing.T) {
		storage := setupStorage(t)
		store, err := NewStore(storage, Options{})
		require.NoError(t, err)

		added, err := store.Toggle("a", "Foo", "u")
		require.NoError(t, err)

		assert.True(t, added)
		assert.True(t, store.IsFavorited("a"))
		assert.Equal(t, []entities.FavoriteEntry{{ID: "a", Title: "Foo", URL: "u"}}, store.List())

		raw, ok := persisted(t, storage)
		assert.True(t, ok)
		assert.JSONEq(t, `[{"id":"a","title":"Foo","url":"u"}]`, raw)
	})

	t.Run("is its own inverse", func(t *testing.T) {
		storage := setupStorage(t)
		store, err := NewStore(storage, Options{})
		require.NoError(t, err)
		_, err = store.Toggle("x", "Existing", "/x.pdf")
		require.NoError(t, err)

		before, _ := persisted(t, storage)
		beforeList := store.List()

		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)
		added, err := store.Toggle("a", "Foo", "u")
		require.NoError(t, err)

		assert.False(t, added)
		assert.False(t, store.IsFavorited("a"))
		assert.Equal(t, beforeList, store.List())
		after, _ := persisted(t, storage)
		assert.Equal(t, before, after)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		store, err := NewStore(setupStorage(t), Options{})
		require.NoError(t, err)

		for _, id := range []string{"c", "a", "b"} {
			_, err := store.Toggle(id, id, id)
			require.NoError(t, err)
		}
		_, err = store.Toggle("a", "a", "a")
		require.NoError(t, err)

		list := store.List()
		require.Len(t, list, 2)
		assert.Equal(t, "c", list[0].ID)
		assert.Equal(t, "b", list[1].ID)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		store, err := NewStore(setupStorage(t), Options{})
		require.NoError(t, err)

		_, err = store.Toggle("", "t", "u")
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("rolls back when persistence fails", func(t *testing.T) {
		storage := &failingStorage{Storage: setupStorage(t)}
		store, err := NewStore(storage, Options{})
		require.NoError(t, err)

		storage.fail = true
		_, err = store.Toggle("a", "Foo", "u")
		require.Error(t, err)
		assert.False(t, store.IsFavorited("a"))
	})
}

func TestStore_Remove(t *testing.T) {
	t.Run("removes a member", func(t *testing.T) {
		storage := setupStorage(t)
		store, err := NewStore(storage, Options{})
		require.NoError(t, err)
		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)

		require.NoError(t, store.Remove("a"))

		assert.False(t, store.IsFavorited("a"))
		raw, _ := persisted(t, storage)
		assert.JSONEq(t, `[]`, raw)
	})

	t.Run("non-member is a no-op", func(t *testing.T) {
		storage := &failingStorage{Storage: setupStorage(t)}
		store, err := NewStore(storage, Options{})
		require.NoError(t, err)
		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)
		before, _ := persisted(t, storage)

		// Any write would fail, so a nil error proves nothing was written.
		storage.fail = true
		require.NoError(t, store.Remove("missing"))

		after, _ := persisted(t, storage)
		assert.Equal(t, before, after)
		assert.Len(t, store.List(), 1)
	})
}

func TestStore_ReplaceAll(t *testing.T) {
	storage := setupStorage(t)
	store, err := NewStore(storage, Options{})
	require.NoError(t, err)
	_, err = store.Toggle("old", "Old", "/old.pdf")
	require.NoError(t, err)

	err = store.ReplaceAll([]entities.FavoriteEntry{
		{ID: "a", Title: "Foo", URL: "u"},
		{ID: "b", Title: "Bar", URL: "v"},
		{ID: "a", Title: "Duplicate", URL: "w"},
	})
	require.NoError(t, err)

	assert.False(t, store.IsFavorited("old"))
	assert.Equal(t, []entities.FavoriteEntry{
		{ID: "a", Title: "Foo", URL: "u"},
		{ID: "b", Title: "Bar", URL: "v"},
	}, store.List())

	raw, _ := persisted(t, storage)
	assert.JSONEq(t, `[{"id":"a","title":"Foo","url":"u"},{"id":"b","title":"Bar","url":"v"}]`, raw)

	assert.ErrorIs(t, store.ReplaceAll([]entities.FavoriteEntry{{Title: "no id"}}), ErrInvalidEntry)
}

func TestNewStore_LoadsPersistedFavorites(t *testing.T) {
	storage := setupStorage(t)
	require.NoError(t, storage.SetSetting(entities.SettingKeyFavorites, `[{"id":"a","title":"Foo","url":"u"}]`))

	store, err := NewStore(storage, Options{})
	require.NoError(t, err)
	assert.True(t, store.IsFavorited("a"))

	t.Run("corrupt value starts empty", func(t *testing.T) {
		storage := setupStorage(t)
		require.NoError(t, storage.SetSetting(entities.SettingKeyFavorites, `{broken`))

		store, err := NewStore(storage, Options{})
		require.NoError(t, err)
		assert.Empty(t, store.List())
	})
}

func TestStore_Sync(t *testing.T) {
	t.Run("pushes after each mutation when authenticated", func(t *testing.T) {
		syncer := &recordingSyncer{}
		store, err := NewStore(setupStorage(t), Options{
			Auth:   Auth{LoggedIn: true, Token: "tok"},
			Syncer: syncer,
		})
		require.NoError(t, err)

		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)
		require.NoError(t, store.Remove("a"))

		require.Equal(t, 2, syncer.count())
		assert.Len(t, syncer.pushes[0], 1)
		assert.Empty(t, syncer.pushes[1])
	})

	t.Run("skipped when logged out", func(t *testing.T) {
		syncer := &recordingSyncer{}
		store, err := NewStore(setupStorage(t), Options{
			Auth:   Auth{LoggedIn: false, Token: "tok"},
			Syncer: syncer,
		})
		require.NoError(t, err)

		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)
		assert.Equal(t, 0, syncer.count())
	})

	t.Run("skipped without token", func(t *testing.T) {
		syncer := &recordingSyncer{}
		store, err := NewStore(setupStorage(t), Options{
			Auth:   Auth{LoggedIn: true},
			Syncer: syncer,
		})
		require.NoError(t, err)

		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)
		assert.Equal(t, 0, syncer.count())
	})

	t.Run("sync failure keeps local mutation", func(t *testing.T) {
		syncer := &recordingSyncer{err: errors.New("queue closed")}
		store, err := NewStore(setupStorage(t), Options{
			Auth:   Auth{LoggedIn: true, Token: "tok"},
			Syncer: syncer,
		})
		require.NoError(t, err)

		added, err := store.Toggle("a", "Foo", "u")
		require.NoError(t, err)
		assert.True(t, added)
		assert.True(t, store.IsFavorited("a"))
	})

	t.Run("token falls back to local storage", func(t *testing.T) {
		storage := setupStorage(t)
		require.NoError(t, storage.SetSetting(entities.SettingKeyUserToken, "stored-token"))

		store, err := NewStore(storage, Options{Auth: Auth{LoggedIn: true}})
		require.NoError(t, err)
		assert.True(t, store.Authenticated())
	})
}

func TestStore_FetchRemote(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		store, err := NewStore(setupStorage(t), Options{Remote: &fakeRemote{}})
		require.NoError(t, err)

		_, err = store.FetchRemote(context.Background())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("success replaces local favorites", func(t *testing.T) {
		storage := setupStorage(t)
		remote := &fakeRemote{entries: []entities.FavoriteEntry{{ID: "r", Title: "Remote", URL: "/r.pdf"}}}
		store, err := NewStore(storage, Options{
			Auth:   Auth{LoggedIn: true, Token: "tok"},
			Remote: remote,
		})
		require.NoError(t, err)
		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)

		list, err := store.FetchRemote(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "tok", remote.token)
		assert.Equal(t, remote.entries, list)
		assert.False(t, store.IsFavorited("a"))
		raw, _ := persisted(t, storage)
		assert.JSONEq(t, `[{"id":"r","title":"Remote","url":"/r.pdf"}]`, raw)
	})

	t.Run("failure leaves local state untouched", func(t *testing.T) {
		store, err := NewStore(setupStorage(t), Options{
			Auth:   Auth{LoggedIn: true, Token: "tok"},
			Remote: &fakeRemote{err: errors.New("offline")},
		})
		require.NoError(t, err)
		_, err = store.Toggle("a", "Foo", "u")
		require.NoError(t, err)

		_, err = store.FetchRemote(context.Background())
		require.Error(t, err)
		assert.True(t, store.IsFavorited("a"))
	})
}
