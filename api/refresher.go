/*
refresher.go - Background snapshot refresh

PURPOSE:
  Periodically reloads the snapshot from the store so the in-memory view
  tracks upstream syncs without requiring a manual POST /api/refresh.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Each tick is an independent full reload + cache invalidation;
    "last call wins", there is nothing to cancel mid-flight
  - Interval <= 0 disables the refresher entirely

USAGE:
  refresher := NewRefresher(handler, 10*time.Minute)
  refresher.Start()
  // ... later
  refresher.Stop()
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// Refresher reloads the handler's snapshot on an interval.
type Refresher struct {
	Handler  *Handler
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRefresher creates a refresher; an interval <= 0 disables it.
func NewRefresher(h *Handler, interval time.Duration) *Refresher {
	return &Refresher{
		Handler:  h,
		Interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the background refresh loop.
func (rf *Refresher) Start() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.Interval <= 0 {
		log.Println("[Refresher] Disabled, not starting")
		return
	}

	rf.ticker = time.NewTicker(rf.Interval)
	rf.wg.Add(1)
	go rf.run()

	log.Printf("[Refresher] Started with interval: %v", rf.Interval)
}

// Stop stops the refresh loop and waits for an in-flight reload to finish.
func (rf *Refresher) Stop() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.ticker != nil {
		rf.ticker.Stop()
		close(rf.stop)
		rf.wg.Wait()
		log.Println("[Refresher] Stopped")
	}
}

func (rf *Refresher) run() {
	defer rf.wg.Done()

	for {
		select {
		case <-rf.ticker.C:
			if _, err := rf.Handler.Refresh(context.Background()); err != nil {
				log.Printf("[Refresher] refresh failed: %v", err)
			}
		case <-rf.stop:
			return
		}
	}
}
