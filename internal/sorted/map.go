// Package sorted implements a small ordered map kept as a pair of parallel
// sorted slices. It is meant for short per-node edge lists where a binary search
// over a contiguous key slice beats hashing.
package sorted

import (
	"cmp"
	"iter"
)

// Map keeps keys unique and in ascending order.
// The zero value is an empty map ready to use.
type Map[K cmp.Ordered, V any] struct {
	keys []K
	vals []V
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// LowerBound returns the position of the first key that is not less than key
// and whether that key equals key.
func (m *Map[K, V]) LowerBound(key K) (int, bool) {
	lo, hi := 0, len(m.keys)

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)

		if m.keys[mid] < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo, lo < len(m.keys) && m.keys[lo] == key
}

// EmplaceAt inserts a key-value pair at pos, which must come from LowerBound
// for the same key. Inserting out of order breaks the map.
func (m *Map[K, V]) EmplaceAt(pos int, key K, val V) {
	var (
		total   = len(m.keys)
		newKeys = append(m.keys, key)
		newVals = append(m.vals, val)
	)

	if pos < total {
		// shift the tail right by one
		copy(newKeys[pos+1:], newKeys[pos:total])
		copy(newVals[pos+1:], newVals[pos:total])
		newKeys[pos] = key
		newVals[pos] = val
	}

	m.keys, m.vals = newKeys, newVals
}

// Get returns a value associated with the key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if pos, ok := m.LowerBound(key); ok {
		return m.vals[pos], true
	}

	var zero V

	return zero, false
}

// Value returns the value at pos.
func (m *Map[K, V]) Value(pos int) V {
	return m.vals[pos]
}

// Set replaces the value at pos keeping its key.
func (m *Map[K, V]) Set(pos int, val V) {
	m.vals[pos] = val
}

// All iterates over the entries in ascending key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, key := range m.keys {
			if !yield(key, m.vals[i]) {
				return
			}
		}
	}
}

// Backward iterates over the entries in descending key order.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := len(m.keys) - 1; i >= 0; i-- {
			if !yield(m.keys[i], m.vals[i]) {
				return
			}
		}
	}
}
