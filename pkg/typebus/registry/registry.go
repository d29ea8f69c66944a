package registry

import "sync"

// Registry is a thread-safe ordered multimap: each key owns a sequence of
// values kept in insertion order. Values are never deduplicated or removed.
// Keys are remembered in the order they were first appended to.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K][]V
	order   []K
	total   int
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K][]V),
	}
}

// Append adds value to the end of the sequence for key, creating the
// sequence on first use. It returns the sequence length after the append.
func (r *Registry[K, V]) Append(key K, value V) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		r.order = append(r.order, key)
	}
	r.entries[key] = append(r.entries[key], value)
	r.total++
	return len(r.entries[key])
}

// Get returns a copy of the sequence for key, or nil if nothing was ever
// appended under it. The copy is safe to iterate while the registry grows.
func (r *Registry[K, V]) Get(key K) []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values := r.entries[key]
	if len(values) == 0 {
		return nil
	}
	out := make([]V, len(values))
	copy(out, values)
	return out
}

// Count returns the number of values stored under key.
func (r *Registry[K, V]) Count(key K) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[key])
}

// Has returns true if at least one value is stored under key.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns all keys in the order they were first appended to.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]K(nil), r.order...)
}

// Total returns the number of values across all keys.
func (r *Registry[K, V]) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Range calls fn for each key and its sequence, in first-append order.
// If fn returns false, iteration stops.
//
// Range iterates over a snapshot, so fn may call Append without
// affecting the current iteration.
func (r *Registry[K, V]) Range(fn func(K, []V) bool) {
	r.mu.RLock()
	keys := append([]K(nil), r.order...)
	values := make([][]V, len(keys))
	for i, k := range keys {
		values[i] = append([]V(nil), r.entries[k]...)
	}
	r.mu.RUnlock()

	for i, k := range keys {
		if !fn(k, values[i]) {
			return
		}
	}
}
