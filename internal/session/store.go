// Package session keeps per-browser review state and the signed cookie that
// identifies a browser.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/review"
)

// Store is a get/set capability over review sessions keyed by browser
// session id.
type Store interface {
	Get(ctx context.Context, key string) (*review.Session, bool, error)
	Set(ctx context.Context, key string, s *review.Session) error
	Delete(ctx context.Context, key string) error
}

type entry struct {
	session  *review.Session
	lastSeen time.Time
}

// MemoryStore is an in-process Store. Entries idle for longer than the TTL
// are dropped by the janitor started with Start.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryStore creates a store whose entries expire after ttl of
// inactivity. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (m *MemoryStore) expired(e entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, key string) (*review.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.entries, key)
		return nil, false, nil
	}
	e.lastSeen = now
	m.entries[key] = e
	return e.session.Clone(), true, nil
}

// Set stores a copy of s. Setting nil is the same as Delete.
func (m *MemoryStore) Set(ctx context.Context, key string, s *review.Session) error {
	if s == nil {
		return m.Delete(ctx, key)
	}
	m.mu.Lock()
	m.entries[key] = entry{session: s.Clone(), lastSeen: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep drops every expired entry and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Start runs the janitor until ctx is cancelled or Stop is called. It is a
// no-op when expiry is disabled.
func (m *MemoryStore) Start(ctx context.Context) {
	if m.ttl <= 0 {
		close(m.done)
		return
	}
	log := logger.FromContext(ctx).WithPrefix("session_store")
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Debug("janitor started: ttl=%s, interval=%s", m.ttl, interval)
		for {
			select {
			case <-ctx.Done():
				log.Debug("janitor stopping: context cancelled")
				return
			case <-m.stop:
				log.Debug("janitor stopping")
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					log.Debug("expired %d review sessions", n)
				}
			}
		}
	}()
}

// Stop signals the janitor to exit and waits for it. Start must have been
// called first.
func (m *MemoryStore) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}
