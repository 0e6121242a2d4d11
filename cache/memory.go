/*
Package cache provides a small TTL key-value store.

The reports engine only consumes the get/set/ttl contract; this memory
implementation is what a single-node deployment plugs in. A clustered
deployment would satisfy the same contract with a shared store.
*/
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a mutex-guarded in-process TTL cache. Expired entries are
// dropped lazily on read and swept by an optional janitor.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry

	stopJanitor chan struct{}
	janitorDone chan struct{}
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry)}
}

// Get returns the stored payload, expiring it on the way out if its TTL
// has lapsed.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(m.items, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Size returns the number of live (possibly expired, not yet swept)
// entries.
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// CleanExpired sweeps expired entries and returns how many were removed.
func (m *Memory) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range m.items {
		if now.After(e.expiresAt) {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired entries on an interval until StopJanitor.
func (m *Memory) StartJanitor(interval time.Duration) {
	m.stopJanitor = make(chan struct{})
	m.janitorDone = make(chan struct{})

	go func() {
		defer close(m.janitorDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CleanExpired()
			case <-m.stopJanitor:
				return
			}
		}
	}()
}

// StopJanitor stops the sweep loop and waits for it to exit.
func (m *Memory) StopJanitor() {
	if m.stopJanitor != nil {
		close(m.stopJanitor)
		<-m.janitorDone
	}
}
