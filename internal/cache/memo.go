package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Memo is a bounded in-memory LRU in front of slower lookups. Concurrent
// Do calls for the same key share one computation, and only its result
// is stored.
type Memo[V any] struct {
	// nil when storage is disabled
	store *lru.Cache[Key, V]
	group singleflight.Group
}

type flight[V any] struct {
	value V
	fresh bool
}

// NewMemo returns a memo holding at most capacity values; capacity below
// one disables storage but still collapses concurrent calls.
func NewMemo[V any](capacity int) *Memo[V] {
	m := &Memo[V]{}
	if capacity > 0 {
		// lru.New only fails for a non-positive size
		m.store, _ = lru.New[Key, V](capacity)
	}
	return m
}

func (m *Memo[V]) Get(key Key) (V, bool) {
	if m.store == nil {
		var zero V
		return zero, false
	}
	return m.store.Get(key)
}

func (m *Memo[V]) Set(key Key, value V) {
	if m.store == nil {
		return
	}
	m.store.Add(key, value)
}

// Do returns the memoized value for key or runs fn once for all
// concurrent callers. fn reports whether it produced the value itself
// rather than reading it from a slower cache; every caller sharing the
// flight gets that flag, and a memo hit reports false. Errors are
// returned but not memoized.
func (m *Memo[V]) Do(key Key, fn func() (V, bool, error)) (V, bool, error) {
	if v, ok := m.Get(key); ok {
		return v, false, nil
	}
	res, err, _ := m.group.Do(string(key), func() (any, error) {
		if v, ok := m.Get(key); ok {
			return flight[V]{value: v}, nil
		}
		v, fresh, err := fn()
		if err != nil {
			return flight[V]{value: v, fresh: fresh}, err
		}
		m.Set(key, v)
		return flight[V]{value: v, fresh: fresh}, nil
	})
	out, _ := res.(flight[V])
	return out.value, out.fresh, err
}

func (m *Memo[V]) Len() int {
	if m.store == nil {
		return 0
	}
	return m.store.Len()
}

func (m *Memo[V]) Reset() {
	if m.store != nil {
		m.store.Purge()
	}
}
