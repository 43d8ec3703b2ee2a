package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/techwave/datastation/internal/entities"
)

// FavoritesReplacer overwrites the remote favorites list.
type FavoritesReplacer interface {
	ReplaceFavorites(ctx context.Context, token string, entries []entities.FavoriteEntry) error
}

// SyncFavoritesTask carries a snapshot of the local favorites to mirror remotely.
type SyncFavoritesTask struct {
	Favorites []entities.FavoriteEntry `json:"favorites"`
}

// Config returns the queue configuration for favorites sync tasks.
// A failed sync is not retried: the next mutation pushes a fresh snapshot anyway.
func (t SyncFavoritesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_favorites",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncFavoritesProcessor creates a processor function for SyncFavoritesTask.
func SyncFavoritesProcessor(replacer FavoritesReplacer, token string) backlite.QueueProcessor[SyncFavoritesTask] {
	return func(ctx context.Context, task SyncFavoritesTask) error {
		if replacer == nil {
			return fmt.Errorf("favorites remote not configured")
		}

		if err := replacer.ReplaceFavorites(ctx, token, task.Favorites); err != nil {
			log.Printf("[TASK] Favorites sync failed: %v", err)
			return fmt.Errorf("sync favorites: %w", err)
		}

		log.Printf("[TASK] Synced %d favorites", len(task.Favorites))
		return nil
	}
}

// NewSyncFavoritesQueue creates a backlite queue for favorites sync tasks.
func NewSyncFavoritesQueue(replacer FavoritesReplacer, token string) backlite.Queue {
	return backlite.NewQueue(SyncFavoritesProcessor(replacer, token))
}

// FavoritesSyncer enqueues a SyncFavoritesTask per mutation. It satisfies favorites.Syncer.
type FavoritesSyncer struct {
	client *Client
}

func NewFavoritesSyncer(client *Client) *FavoritesSyncer {
	return &FavoritesSyncer{client: client}
}

// Push stores the task and returns without waiting for the network.
func (s *FavoritesSyncer) Push(entries []entities.FavoriteEntry) error {
	if _, err := s.client.EnqueueSync(context.Background(), entries); err != nil {
		return fmt.Errorf("enqueue favorites sync: %w", err)
	}
	return nil
}
