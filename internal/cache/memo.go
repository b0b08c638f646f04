package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"StockTrends/internal/metrics"
)

// Store is an optional shared tier behind the in-process map.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type entry[V any] struct {
	value   V
	expires time.Time // zero means never
}

// Memo caches loader results per key with a TTL. Concurrent misses on the same
// key share one load. Errors are never cached.
type Memo[V any] struct {
	name  string
	ttl   time.Duration
	store Store
	log   logrus.FieldLogger
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[V]
	group   singleflight.Group
}

// NewMemo creates a memo cache. ttl <= 0 keeps entries until purged explicitly.
// store may be nil.
func NewMemo[V any](name string, ttl time.Duration, store Store, log logrus.FieldLogger) *Memo[V] {
	return &Memo[V]{
		name:    name,
		ttl:     ttl,
		store:   store,
		log:     log,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, calling load on a miss.
func (m *Memo[V]) Get(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := m.lookup(key); ok {
		metrics.CacheLookups.WithLabelValues(m.name, "hit").Inc()
		return v, nil
	}

	res, err, shared := m.group.Do(key, func() (any, error) {
		// A caller going away must not fail the others waiting on this key.
		loadCtx := context.WithoutCancel(ctx)

		if m.store != nil {
			var v V
			found, err := m.store.Get(loadCtx, m.storeKey(key), &v)
			if err != nil {
				m.log.WithError(err).WithField("key", key).Warn("shared cache read failed")
			} else if found {
				m.put(key, v)
				return v, nil
			}
		}

		v, err := load(loadCtx)
		if err != nil {
			return v, err
		}
		m.put(key, v)
		if m.store != nil {
			if err := m.store.Set(loadCtx, m.storeKey(key), v, m.ttl); err != nil {
				m.log.WithError(err).WithField("key", key).Warn("shared cache write failed")
			}
		}
		return v, nil
	})
	if shared {
		metrics.CacheLookups.WithLabelValues(m.name, "shared").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues(m.name, "miss").Inc()
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (m *Memo[V]) lookup(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || m.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (m *Memo[V]) put(key string, v V) {
	e := entry[V]{value: v}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

func (m *Memo[V]) expired(e entry[V]) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *Memo[V]) storeKey(key string) string {
	return m.name + ":" + key
}

// Invalidate drops key from the in-process map.
func (m *Memo[V]) Invalidate(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Purge removes expired entries and returns how many were dropped.
func (m *Memo[V]) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Flush removes every entry.
func (m *Memo[V]) Flush() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[string]entry[V])
	return n
}

// Len returns the number of entries, expired ones included.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memo[V]) Name() string { return m.name }
