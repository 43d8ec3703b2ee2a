package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reloader refreshes the catalog. Either the catalog store itself or a
// tasks.QueuedReloader that defers the work to the task queue.
type Reloader interface {
	Reload(ctx context.Context) error
}

// CatalogReloadScheduler periodically reloads the document catalog from its source
type CatalogReloadScheduler struct {
	reloader Reloader
	schedule string
	enabled  bool
	timeout  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	lastRun    time.Time
	lastErr    error
}

func NewCatalogReloadScheduler(reloader Reloader, enabled bool, schedule string) *CatalogReloadScheduler {
	return &CatalogReloadScheduler{
		reloader: reloader,
		schedule: schedule,
		enabled:  enabled,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if reloads are enabled
func (s *CatalogReloadScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Catalog reload scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runReload(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule catalog reload: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule, time.Now())
	log.Printf("Catalog reload scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule, CronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running reload and stops the scheduler
func (s *CatalogReloadScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Catalog reload scheduler: stopped")
}

// RunNow triggers an immediate reload in the background
func (s *CatalogReloadScheduler) RunNow(ctx context.Context) {
	go s.runReload(ctx)
}

func (s *CatalogReloadScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next reload will occur, nil when stopped.
func (s *CatalogReloadScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastRun returns the time and outcome of the latest reload.
func (s *CatalogReloadScheduler) LastRun() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}

func (s *CatalogReloadScheduler) runReload(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	startTime := time.Now()
	err := s.reloader.Reload(ctx)

	s.mu.Lock()
	s.lastRun = startTime
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		log.Printf("Catalog reload: failed: %v", err)
		return
	}
	log.Printf("Catalog reload: done in %v", time.Since(startTime).Round(time.Millisecond))
}
