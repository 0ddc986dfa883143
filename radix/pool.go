package radix

import (
	"github.com/aglyzov/go-trie/internal/sorted"
)

// PayloadRef is an index of a payload in the builder's payload slice.
type PayloadRef int32

// NoPayload marks a pure branch node.
const NoPayload PayloadRef = -1

const rootIdx int32 = 0

type edge struct {
	label  string
	target int32 // node index in the pool
}

// node holds edges sorted by the first unit of their labels.
type node struct {
	edges   sorted.Map[string, edge]
	payload PayloadRef
}

// nodePool is an arena of nodes addressed by stable indices. Nodes are never
// freed one by one, only all together on reset.
//
// NOTE: a *node is only valid until the next get() call.
type nodePool struct {
	nodes []node
}

func newNodePool(preAlloc int) nodePool {
	if preAlloc <= 0 {
		preAlloc = 64
	}

	pool := nodePool{
		nodes: make([]node, 0, preAlloc),
	}
	pool.get() // root

	return pool
}

// get allocates a new node and returns its index.
func (p *nodePool) get() int32 {
	p.nodes = append(p.nodes, node{payload: NoPayload})

	return int32(len(p.nodes) - 1)
}

func (p *nodePool) at(idx int32) *node {
	return &p.nodes[idx]
}

func (p *nodePool) len() int {
	return len(p.nodes)
}

// reset forgets about all nodes but the root (not freeing the memory).
func (p *nodePool) reset() {
	clear(p.nodes)
	p.nodes = p.nodes[:0]
	p.get()
}
