// Package favorites keeps the user's favorited documents.
//
// Local storage (the settings table) is the source of truth. Every mutation is
// persisted before the call returns, so the next render sees it. When the
// station is logged in to a remote account, each mutation is also pushed to a
// Syncer, which mirrors the list in the background; mirror failures are only
// logged and never roll back local state.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/techwave/datastation/internal/entities"
)

var (
	// ErrNotAuthenticated is returned by FetchRemote when no login/token is configured.
	ErrNotAuthenticated = errors.New("remote favorites require login")

	// ErrInvalidEntry is returned for entries without an id.
	ErrInvalidEntry = errors.New("favorite entry requires an id")
)

// Storage is durable key/value storage. Implemented by settings.Repository.
type Storage interface {
	GetValue(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Remote reads the remote copy of the favorites list.
type Remote interface {
	FetchFavorites(ctx context.Context, token string) ([]entities.FavoriteEntry, error)
}

// Syncer mirrors a snapshot of the list remotely. Push must not wait on the network.
type Syncer interface {
	Push(entries []entities.FavoriteEntry) error
}

// Auth is the login capability. Both fields are required for remote calls.
type Auth struct {
	LoggedIn bool
	Token    string
}

func (a Auth) Authenticated() bool {
	return a.LoggedIn && a.Token != ""
}

type Options struct {
	Auth   Auth
	Remote Remote
	Syncer Syncer
}

type Store struct {
	storage Storage
	remote  Remote
	syncer  Syncer
	auth    Auth

	mu      sync.Mutex
	entries []entities.FavoriteEntry
}

// NewStore loads the persisted list. A corrupt value is logged and treated as empty.
// When opts.Auth has no token, the userToken key of local storage is used.
func NewStore(storage Storage, opts Options) (*Store, error) {
	s := &Store{
		storage: storage,
		remote:  opts.Remote,
		syncer:  opts.Syncer,
		auth:    opts.Auth,
		entries: []entities.FavoriteEntry{},
	}

	token, err := ResolveToken(storage, s.auth.Token)
	if err != nil {
		return nil, err
	}
	s.auth.Token = token

	raw, ok, err := storage.GetValue(entities.SettingKeyFavorites)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	if ok && raw != "" {
		var entries []entities.FavoriteEntry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			log.Printf("[FAVORITES] Ignoring corrupt stored favorites: %v", err)
		} else {
			s.entries = dedupe(entries)
		}
	}

	return s, nil
}

// ResolveToken returns configured when set, else the userToken key of local storage.
func ResolveToken(storage Storage, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	token, _, err := storage.GetValue(entities.SettingKeyUserToken)
	if err != nil {
		return "", fmt.Errorf("failed to read user token: %w", err)
	}
	return token, nil
}

// Authenticated reports whether remote sync and fetch are enabled.
func (s *Store) Authenticated() bool {
	return s.auth.Authenticated()
}

func (s *Store) IsFavorited(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// List returns the favorites in insertion order.
func (s *Store) List() []entities.FavoriteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.entries)
}

// Snapshot returns the set of favorited ids, for rendering.
func (s *Store) Snapshot() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]bool, len(s.entries))
	for _, entry := range s.entries {
		set[entry.ID] = true
	}
	return set
}

// Toggle removes id when present and adds {id, title, url} otherwise.
// It reports whether the entry is favorited afterwards.
func (s *Store) Toggle(id, title, url string) (bool, error) {
	if id == "" {
		return false, ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.entries
	var added bool
	if i := s.indexOf(id); i >= 0 {
		s.entries = without(s.entries, i)
	} else {
		s.entries = append(snapshot(s.entries), entities.FavoriteEntry{ID: id, Title: title, URL: url})
		added = true
	}

	if err := s.persist(); err != nil {
		s.entries = previous
		return false, err
	}
	s.sync()
	return added, nil
}

// Remove drops id. Removing a non-member writes nothing.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	previous := s.entries
	s.entries = without(s.entries, i)
	if err := s.persist(); err != nil {
		s.entries = previous
		return err
	}
	s.sync()
	return nil
}

// ReplaceAll swaps the whole list, keeping the first entry per id.
func (s *Store) ReplaceAll(entries []entities.FavoriteEntry) error {
	for _, entry := range entries {
		if entry.ID == "" {
			return ErrInvalidEntry
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.entries
	s.entries = dedupe(entries)
	if err := s.persist(); err != nil {
		s.entries = previous
		return err
	}
	return nil
}

// FetchRemote pulls the remote list and, on success, replaces the local one.
// On failure local state is untouched.
func (s *Store) FetchRemote(ctx context.Context) ([]entities.FavoriteEntry, error) {
	if !s.auth.Authenticated() || s.remote == nil {
		return nil, ErrNotAuthenticated
	}

	entries, err := s.remote.FetchFavorites(ctx, s.auth.Token)
	if err != nil {
		log.Printf("[FAVORITES] Fetching remote favorites failed: %v", err)
		return nil, err
	}

	if err := s.ReplaceAll(entries); err != nil {
		return nil, err
	}
	log.Printf("[FAVORITES] Replaced local favorites with %d remote entries", len(entries))
	return s.List(), nil
}

// persist writes the list to local storage. Caller holds mu.
func (s *Store) persist() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.storage.SetSetting(entities.SettingKeyFavorites, string(data)); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

// sync hands the current list to the mirror. Caller holds mu.
func (s *Store) sync() {
	if s.syncer == nil || !s.auth.Authenticated() {
		return
	}
	if err := s.syncer.Push(snapshot(s.entries)); err != nil {
		log.Printf("[FAVORITES] Favorites sync failed: %v", err)
	}
}

func (s *Store) indexOf(id string) int {
	for i, entry := range s.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func without(entries []entities.FavoriteEntry, i int) []entities.FavoriteEntry {
	out := make([]entities.FavoriteEntry, 0, len(entries)-1)
	out = append(out, entries[:i]...)
	return append(out, entries[i+1:]...)
}

func snapshot(entries []entities.FavoriteEntry) []entities.FavoriteEntry {
	out := make([]entities.FavoriteEntry, len(entries))
	copy(out, entries)
	return out
}

func dedupe(entries []entities.FavoriteEntry) []entities.FavoriteEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]entities.FavoriteEntry, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		out = append(out, entry)
	}
	return out
}
