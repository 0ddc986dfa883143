package radix

import (
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/aglyzov/go-trie/internal/byteset"
	"github.com/aglyzov/go-trie/label"
)

// Compile snapshots the builder into an immutable Table and returns an
// Automaton over it. The builder stays valid: later Adds do not affect the
// compiled table. An empty builder compiles to a root-only table.
//
// Advance follows whole edges, so unit-by-unit streaming needs a builder made
// with WithCompression(false).
func (b *Builder[V]) Compile() Automaton[V] {
	return NewAutomaton(b.CompileTable())
}

// CompileTable is like Compile but returns the table itself.
func (b *Builder[V]) CompileTable() *Table[V] {
	var tab *Table[V]

	switch b.cfg.strategy {
	case PointerStrategy:
		tab = b.compilePointer()
	default:
		tab = b.compileIndex()
	}

	tab.stats = tab.collectStats()

	b.log.Debug("trie compiled",
		zap.Stringer("strategy", tab.strategy),
		zap.Stringer("scheme", tab.scheme),
		zap.Int("nodes", tab.stats.Nodes),
		zap.Int("edges", tab.stats.Edges),
		zap.Int("payloads", tab.stats.Payloads),
		zap.Int("label_bytes", tab.stats.LabelBytes),
		zap.Int("dense_nodes", tab.stats.DenseNodes),
	)

	return tab
}

// denseFanout returns the edge count from which a node gets a bitmap index,
// or 0 when bitmap indexes don't apply.
func (b *Builder[V]) denseFanout() int {
	if b.cfg.scheme.Kind != label.KindBytes {
		return 0
	}

	return b.cfg.denseFanout
}

// compileIndex lays the builder out as flat node and edge slices.
//
// Builder node indices are already stable, so a node keeps its index and edge
// targets are copied as they are. Labels are gathered in a single arena.
func (b *Builder[V]) compileIndex() *Table[V] {
	var (
		numNodes = b.pool.len()
		numEdges = numNodes - 1 // a tree: every node but the root has one incoming edge
		arena    strings.Builder
		tab      = &Table[V]{
			scheme:      b.cfg.scheme,
			strategy:    IndexStrategy,
			denseFanout: b.denseFanout(),
			nodes:       make([]flatNode, numNodes),
			edges:       make([]flatEdge, 0, numEdges),
			payloads:    append([]V(nil), b.payloads...),
		}
	)

	for i := range b.pool.nodes {
		var (
			n    = &b.pool.nodes[i]
			flat = &tab.nodes[i]
		)

		flat.edgeOff = uint32(len(tab.edges))
		flat.edgeCnt = uint32(n.edges.Len())
		flat.payload = int32(n.payload)
		flat.fan = noFan

		for first, e := range n.edges.All() {
			tab.edges = append(tab.edges, flatEdge{
				off:    uint32(arena.Len()),
				size:   uint32(len(e.label)),
				first:  uint32(len(first)),
				target: uint32(e.target),
			})
			arena.WriteString(e.label)
		}

		if fan, ok := tab.buildFan(n.edges.All()); ok {
			flat.fan = int32(len(tab.fans))
			tab.fans = append(tab.fans, fan)
		}
	}

	tab.labels = arena.String()

	return tab
}

// compilePointer lays the builder out as a node slice that is never resized
// afterwards, so edges can point straight at its elements.
func (b *Builder[V]) compilePointer() *Table[V] {
	var (
		numNodes = b.pool.len()
		tab      = &Table[V]{
			scheme:      b.cfg.scheme,
			strategy:    PointerStrategy,
			denseFanout: b.denseFanout(),
			ptrNodes:    make([]ptrNode[V], numNodes),
			payloads:    append([]V(nil), b.payloads...),
		}
		edges = make([]ptrEdge[V], 0, numNodes-1) // shared backing array for all nodes
	)

	// every node has its final address before any edge is resolved
	for i := range b.pool.nodes {
		var (
			n   = &b.pool.nodes[i]
			ptr = &tab.ptrNodes[i]
			off = len(edges)
		)

		for first, e := range n.edges.All() {
			edges = append(edges, ptrEdge[V]{
				first: first,
				label: e.label,
				next:  &tab.ptrNodes[e.target],
			})
		}

		ptr.edges = edges[off:len(edges):len(edges)]

		if n.payload != NoPayload {
			ptr.payload = &tab.payloads[n.payload]
		}

		if fan, ok := tab.buildFan(n.edges.All()); ok {
			ptr.fan = &fan
		}
	}

	return tab
}

// buildFan returns a bitmap of the first bytes of a dense node's edges.
func (t *Table[V]) buildFan(edges iter.Seq2[string, edge]) (byteset.Set, bool) {
	var (
		fan byteset.Set
		num int
	)

	if t.denseFanout == 0 {
		return fan, false
	}

	for first := range edges {
		fan.Add(first[0])
		num++
	}

	return fan, num >= t.denseFanout
}
