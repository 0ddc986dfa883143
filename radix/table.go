package radix

import (
	"strings"

	"github.com/aglyzov/go-trie/internal/byteset"
	"github.com/aglyzov/go-trie/label"
)

const noFan int32 = -1

// flatNode is a node of an index table: its edges are
// edges[edgeOff : edgeOff+edgeCnt].
type flatNode struct {
	edgeOff uint32
	edgeCnt uint32
	payload int32 // index in payloads or -1
	fan     int32 // index in fans or -1
}

// flatEdge is an edge of an index table: its label is
// labels[off : off+size] and the first unit is labels[off : off+first].
type flatEdge struct {
	off    uint32
	size   uint32
	first  uint32
	target uint32
}

// ptrNode is a node of a pointer table.
type ptrNode[V any] struct {
	edges   []ptrEdge[V]
	payload *V
	fan     *byteset.Set
}

type ptrEdge[V any] struct {
	first string
	label string
	next  *ptrNode[V]
}

// Table is the immutable storage of a compiled trie. It is safe to share
// between goroutines and Automaton values.
type Table[V any] struct {
	scheme      label.Scheme
	strategy    Strategy
	denseFanout int

	// IndexStrategy
	nodes  []flatNode
	edges  []flatEdge
	labels string

	// PointerStrategy (allocated once, never resized)
	ptrNodes []ptrNode[V]

	payloads []V
	fans     []byteset.Set
	stats    Stats
}

// Scheme returns the unit scheme of the keys.
func (t *Table[V]) Scheme() label.Scheme {
	return t.scheme
}

// Strategy returns the storage layout of the table.
func (t *Table[V]) Strategy() Strategy {
	return t.strategy
}

// Len returns the number of keys.
func (t *Table[V]) Len() int {
	return len(t.payloads)
}

// Automaton returns a new matcher over the table.
func (t *Table[V]) Automaton() Automaton[V] {
	return NewAutomaton(t)
}

// Get returns a value associated with the key.
func (t *Table[V]) Get(key string) (V, bool) {
	a := NewAutomaton(t)

	if !a.Find(key) {
		var zero V
		return zero, false
	}

	return a.Payload()
}

func (t *Table[V]) label(e *flatEdge) string {
	return t.labels[e.off : e.off+e.size]
}

func (t *Table[V]) first(e *flatEdge) string {
	return t.labels[e.off : e.off+e.first]
}

// findEdge looks up an edge of an index node by the first unit.
func (t *Table[V]) findEdge(n *flatNode, first string) *flatEdge {
	edges := t.edges[n.edgeOff : n.edgeOff+n.edgeCnt]

	if n.fan != noFan {
		// byte-wise dense node: rank the first byte in the bitmap
		fan := &t.fans[n.fan]

		if !fan.Has(first[0]) {
			return nil
		}

		return &edges[fan.Rank(first[0])]
	}

	lo, hi := 0, len(edges)

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)

		if t.first(&edges[mid]) < first {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo < len(edges) && t.first(&edges[lo]) == first {
		return &edges[lo]
	}

	return nil
}

// findPtrEdge looks up an edge of a pointer node by the first unit.
func findPtrEdge[V any](n *ptrNode[V], first string) *ptrEdge[V] {
	if n.fan != nil {
		if !n.fan.Has(first[0]) {
			return nil
		}

		return &n.edges[n.fan.Rank(first[0])]
	}

	lo, hi := 0, len(n.edges)

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)

		if n.edges[mid].first < first {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo < len(n.edges) && n.edges[lo].first == first {
		return &n.edges[lo]
	}

	return nil
}

// Walk calls a handler for all keys in ascending unit order.
// The handler can continue the process by returning true or abort with false.
// Returns whether all keys were visited.
func (t *Table[V]) Walk(handler func(key string, val V) bool) bool {
	if t.strategy == PointerStrategy {
		return t.walkPointer(handler)
	}

	return t.walkIndex(handler)
}

func (t *Table[V]) walkIndex(handler func(key string, val V) bool) bool {
	type frame struct {
		idx    uint32
		prefix string
	}

	toVisit := []frame{{idx: 0}}

	for l := len(toVisit); l > 0; l = len(toVisit) {
		cur := toVisit[l-1]
		toVisit = toVisit[:l-1]

		n := &t.nodes[cur.idx]

		if n.payload >= 0 && !handler(cur.prefix, t.payloads[n.payload]) {
			return false
		}

		for i := n.edgeOff + n.edgeCnt; i > n.edgeOff; i-- {
			e := &t.edges[i-1]
			toVisit = append(toVisit, frame{idx: e.target, prefix: cur.prefix + t.label(e)})
		}
	}

	return true
}

func (t *Table[V]) walkPointer(handler func(key string, val V) bool) bool {
	type frame struct {
		node   *ptrNode[V]
		prefix string
	}

	toVisit := []frame{{node: &t.ptrNodes[0]}}

	for l := len(toVisit); l > 0; l = len(toVisit) {
		cur := toVisit[l-1]
		toVisit = toVisit[:l-1]

		if p := cur.node.payload; p != nil && !handler(cur.prefix, *p) {
			return false
		}

		for i := len(cur.node.edges) - 1; i >= 0; i-- {
			e := &cur.node.edges[i]
			toVisit = append(toVisit, frame{node: e.next, prefix: cur.prefix + e.label})
		}
	}

	return true
}

// Keys returns all keys in ascending unit order.
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, t.Len())

	t.Walk(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}

// String returns a short description of the table.
func (t *Table[V]) String() string {
	var b strings.Builder

	b.WriteString("<radix.Table|")
	b.WriteString(t.strategy.String())
	b.WriteByte('|')
	b.WriteString(t.scheme.String())
	b.WriteString("|" + t.stats.String())
	b.WriteByte('>')

	return b.String()
}
