package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/techwave/datastation/internal/entities"
)

// State is how a queued task is reported over the API.
type State string

const (
	StatePending  State = "pending"
	StateRunning  State = "running"
	StateSuccess  State = "success"
	StateFailure  State = "failure"
	StateNotFound State = "not_found"
	StateUnknown  State = "unknown"
)

func stateOf(status backlite.TaskStatus) State {
	switch status {
	case backlite.TaskStatusPending:
		return StatePending
	case backlite.TaskStatusRunning:
		return StateRunning
	case backlite.TaskStatusSuccess:
		return StateSuccess
	case backlite.TaskStatusFailure:
		return StateFailure
	case backlite.TaskStatusNotFound:
		return StateNotFound
	default:
		return StateUnknown
	}
}

// Client is the station's background queue. It owns a SQLite file next to
// the main database and runs catalog reloads and favorites mirroring.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int

	mu      sync.Mutex
	running bool
}

// TasksDBPath derives the queue database path from the main one:
// ./datastation.db becomes ./datastation-tasks.db.
func TasksDBPath(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"-tasks"+filepath.Ext(base))
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	// One connection per worker plus headroom for enqueues from handlers.
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, workers: cfg.Workers}, nil
}

// Register adds queues; call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start runs the workers until ctx ends or Stop is called. It does not block.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true

	log.Printf("[TASK] Queue started with %d workers", c.workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks. It reports false when ctx ended first; queued
// favorites syncs are then dropped, the next mutation pushes a fresh snapshot.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return true
	}
	c.running = false

	if !c.queue.Stop(ctx) {
		log.Println("[TASK] Queue stop timed out, unfinished tasks stay queued")
		return false
	}
	log.Println("[TASK] Queue stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// EnqueueReload queues a catalog reload and returns the task id.
func (c *Client) EnqueueReload(ctx context.Context) (string, error) {
	return c.enqueue(ctx, ReloadCatalogTask{})
}

// EnqueueSync queues a mirror of the given favorites snapshot.
func (c *Client) EnqueueSync(ctx context.Context, entries []entities.FavoriteEntry) (string, error) {
	if entries == nil {
		entries = []entities.FavoriteEntry{}
	}
	return c.enqueue(ctx, SyncFavoritesTask{Favorites: entries})
}

func (c *Client) enqueue(ctx context.Context, task backlite.Task) (string, error) {
	ids, err := c.queue.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// State looks up a task enqueued earlier.
func (c *Client) State(ctx context.Context, taskID string) (State, error) {
	status, err := c.queue.Status(ctx, taskID)
	if err != nil {
		return StateUnknown, err
	}
	return stateOf(status), nil
}

// queueLogger routes backlite's logs through the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
