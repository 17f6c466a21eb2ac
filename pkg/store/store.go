// Package store implements an in-memory keyed store with per-entry
// absolute expiry and a background sweeper.
//
// The store is the shared substrate for transfer metadata and file
// blocks. Values are stored by copy and returned as snapshots.
//
// Expiry is enforced by the sweeper only: Get does not check expiry
// inline, so an entry may be observable for up to one sweep interval
// past its expiry.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/fileflow/fileflow/internal/logger"
)

// DefaultSweepInterval is how often the sweeper drops expired entries.
const DefaultSweepInterval = time.Second

// Entry is a stored value together with its absolute expiry instant.
type Entry[V any] struct {
	Value V
	Exp   time.Time
}

// Store is a concurrent mapping from string key to Entry[V].
//
// All operations are safe for concurrent use. A single sweeper
// goroutine runs from construction until Close.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a store and starts its sweeper at DefaultSweepInterval.
func New[V any]() *Store[V] {
	return NewWithInterval[V](DefaultSweepInterval)
}

// NewWithInterval creates a store with a custom sweep interval.
// Intended for tests that need fast expiry.
func NewWithInterval[V any](interval time.Duration) *Store[V] {
	s := &Store[V]{
		entries: make(map[string]Entry[V]),
		done:    make(chan struct{}),
	}
	go s.sweepLoop(interval)
	return s
}

// Insert stores value under key with the given TTL, overwriting any
// prior entry. The expiry is computed as now + ttl.
func (s *Store[V]) Insert(key string, value V, ttl time.Duration) error {
	entry := Entry[V]{Value: value, Exp: time.Now().Add(ttl)}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// InsertIfAbsent stores value under key only if the key is not already
// present. Returns false without modifying the store when the key
// exists. Used by ID issuance to make collision detection race-free.
func (s *Store[V]) InsertIfAbsent(key string, value V, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		return false
	}
	s.entries[key] = Entry[V]{Value: value, Exp: time.Now().Add(ttl)}
	return true
}

// Update stores value under key with a caller-supplied absolute expiry.
// Callers pass the expiry from a previous Get to mutate a value while
// preserving its original TTL.
func (s *Store[V]) Update(key string, value V, exp time.Time) error {
	s.mu.Lock()
	s.entries[key] = Entry[V]{Value: value, Exp: exp}
	s.mu.Unlock()
	return nil
}

// Get returns a snapshot of the entry under key. Expiry is not checked
// here; the sweeper is authoritative.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	return entry, ok
}

// Remove deletes the entry under key and returns the removed snapshot.
func (s *Store[V]) Remove(key string) (Entry[V], bool) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return entry, ok
}

// CountPrefix counts keys starting with prefix, stopping early once
// limit is reached. A limit <= 0 counts all matches.
func (s *Store[V]) CountPrefix(prefix string, limit int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			count++
			if limit > 0 && count >= limit {
				break
			}
		}
	}
	return count
}

// Len returns the number of resident entries, expired or not.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the sweeper. The store remains usable afterwards but no
// longer expires entries. Safe to call multiple times.
func (s *Store[V]) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Store[V]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed, remaining := s.sweep(); removed > 0 {
				logger.Debug("store sweep",
					"removed", removed,
					"remaining", remaining,
				)
			}
		case <-s.done:
			return
		}
	}
}

// sweep drops every entry whose expiry has passed.
func (s *Store[V]) sweep() (removed, remaining int) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if !entry.Exp.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, len(s.entries)
}
