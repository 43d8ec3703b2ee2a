package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CatalogReloader reloads the catalog from its source.
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// ReloadCatalogTask replaces the in-memory catalog with a fresh copy of the source.
type ReloadCatalogTask struct{}

// Config returns the queue configuration for catalog reload tasks.
func (t ReloadCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reload_catalog",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReloadCatalogProcessor creates a processor function for ReloadCatalogTask.
func ReloadCatalogProcessor(reloader CatalogReloader) backlite.QueueProcessor[ReloadCatalogTask] {
	return func(ctx context.Context, task ReloadCatalogTask) error {
		if reloader == nil {
			return fmt.Errorf("catalog reloader not configured")
		}

		if err := reloader.Reload(ctx); err != nil {
			return fmt.Errorf("reload catalog: %w", err)
		}

		log.Printf("[TASK] Catalog reloaded")
		return nil
	}
}

// NewReloadCatalogQueue creates a backlite queue for catalog reload tasks.
func NewReloadCatalogQueue(reloader CatalogReloader) backlite.Queue {
	return backlite.NewQueue(ReloadCatalogProcessor(reloader))
}

// QueuedReloader hands catalog reloads to the task queue instead of running them inline.
type QueuedReloader struct {
	client *Client
}

func NewQueuedReloader(client *Client) *QueuedReloader {
	return &QueuedReloader{client: client}
}

// Reload enqueues a ReloadCatalogTask. The context only bounds the enqueue.
func (r *QueuedReloader) Reload(ctx context.Context) error {
	if _, err := r.client.EnqueueReload(ctx); err != nil {
		return fmt.Errorf("enqueue catalog reload: %w", err)
	}
	return nil
}
