package radix

import (
	"fmt"

	"go.uber.org/zap"
)

// InsertResult reports where a payload was stored and whether the key is new.
type InsertResult struct {
	Ref      PayloadRef
	Inserted bool
}

// Builder is a mutable radix trie. It is not safe for concurrent use.
type Builder[V any] struct {
	cfg      settings
	pool     nodePool
	payloads []V
	log      *zap.Logger
}

// NewBuilder returns an empty Builder.
func NewBuilder[V any](opts ...Option) *Builder[V] {
	cfg := defaultSettings()

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Builder[V]{
		cfg:  cfg,
		pool: newNodePool(0),
		log:  cfg.logger,
	}
}

// Len returns the number of keys.
func (b *Builder[V]) Len() int {
	return len(b.payloads)
}

// Nodes returns the number of nodes including the root.
func (b *Builder[V]) Nodes() int {
	return b.pool.len()
}

// Payload returns the payload stored under ref. It panics on a foreign ref.
func (b *Builder[V]) Payload(ref PayloadRef) V {
	return b.payloads[ref]
}

// Reset removes all keys keeping the allocated memory.
func (b *Builder[V]) Reset() {
	b.pool.reset()
	clear(b.payloads)
	b.payloads = b.payloads[:0]
}

// Add associates val with a non-empty key. A key that is already present is
// handled according to the duplicate policy.
func (b *Builder[V]) Add(key string, val V) (InsertResult, error) {
	if key == "" {
		return InsertResult{Ref: NoPayload}, ErrEmptyKey
	}

	var (
		scheme = b.cfg.scheme
		cur    = rootIdx
		rest   = key // unconsumed key suffix
	)

	for {
		var (
			first, _   = scheme.First(rest)
			edges      = &b.pool.at(cur).edges
			pos, found = edges.LowerBound(first)
		)

		if !found {
			// no edge shares the first unit - hang the whole suffix off the node
			return b.attach(cur, pos, first, rest, val), nil
		}

		var (
			e         = edges.Value(pos)
			common    = scheme.CommonPrefix(rest, e.label) // > 0: first units match
			remaining = len(e.label) - common
		)

		switch {
		case remaining == 0 && common < len(rest):
			// the edge is fully consumed - descend
			cur, rest = e.target, rest[common:]

		case remaining == 0:
			// the edge leads exactly to the key
			return b.store(e.target, key, val)

		case common == len(rest):
			// the key ends inside the edge - split it and put the payload on the branch
			branch := b.split(cur, pos, common)
			ref := b.newPayload(val)

			b.pool.at(branch).payload = ref

			return InsertResult{Ref: ref, Inserted: true}, nil

		default:
			// the key and the edge diverge - split the edge and add a sibling
			var (
				branch       = b.split(cur, pos, common)
				tail         = rest[common:]
				tailFirst, _ = scheme.First(tail)
				tailPos, _   = b.pool.at(branch).edges.LowerBound(tailFirst)
			)

			return b.attach(branch, tailPos, tailFirst, tail, val), nil
		}
	}
}

// attach adds an edge for suffix at pos of the parent's edges and puts a new
// payload at its end. Without compression the suffix becomes a chain of
// single-unit edges.
func (b *Builder[V]) attach(parent int32, pos int, first, suffix string, val V) InsertResult {
	label := suffix

	if !b.cfg.compression {
		label = first
	}

	child := b.pool.get()
	b.pool.at(parent).edges.EmplaceAt(pos, first, edge{label: label, target: child})

	for rest := suffix[len(label):]; rest != ""; {
		var unit string

		unit, rest = b.cfg.scheme.First(rest)
		parent, child = child, b.pool.get()
		b.pool.at(parent).edges.EmplaceAt(0, unit, edge{label: unit, target: child})
	}

	ref := b.newPayload(val)
	b.pool.at(child).payload = ref

	return InsertResult{Ref: ref, Inserted: true}
}

// split cuts the edge at pos of the parent's edges after common bytes:
//
//	parent --[head+tail]--> target   >>>   parent --[head]--> branch --[tail]--> target
//
// Returns the index of the new branch node.
func (b *Builder[V]) split(parent int32, pos int, common int) int32 {
	var (
		branch       = b.pool.get()
		e            = b.pool.at(parent).edges.Value(pos)
		tail         = e.label[common:]
		tailFirst, _ = b.cfg.scheme.First(tail)
	)

	b.pool.at(branch).edges.EmplaceAt(0, tailFirst, edge{label: tail, target: e.target})

	// the head keeps the same first unit, so the edge stays in place
	e.label, e.target = e.label[:common], branch
	b.pool.at(parent).edges.Set(pos, e)

	return branch
}

// store puts a payload on a node that exactly represents key.
func (b *Builder[V]) store(target int32, key string, val V) (InsertResult, error) {
	ref := b.pool.at(target).payload

	if ref == NoPayload {
		// a branch node becomes a key
		ref = b.newPayload(val)
		b.pool.at(target).payload = ref

		return InsertResult{Ref: ref, Inserted: true}, nil
	}

	switch b.cfg.duplicates {
	case KeepFirst:
		// keep the first value
	case Reject:
		b.log.Debug("duplicate key rejected", zap.String("key", key))

		return InsertResult{Ref: ref}, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	default:
		b.payloads[ref] = val
	}

	return InsertResult{Ref: ref}, nil
}

func (b *Builder[V]) newPayload(val V) PayloadRef {
	b.payloads = append(b.payloads, val)

	return PayloadRef(len(b.payloads) - 1)
}

// Get returns a value associated with the key.
func (b *Builder[V]) Get(key string) (V, bool) {
	var (
		zero   V
		scheme = b.cfg.scheme
		cur    = rootIdx
	)

	if key == "" {
		return zero, false
	}

	for rest := key; rest != ""; {
		var (
			first, _ = scheme.First(rest)
			e, ok    = b.pool.at(cur).edges.Get(first)
		)

		if !ok || !scheme.HasPrefix(rest, e.label) {
			return zero, false
		}

		cur, rest = e.target, rest[len(e.label):]
	}

	if ref := b.pool.at(cur).payload; ref != NoPayload {
		return b.payloads[ref], true
	}

	return zero, false
}

// Walk calls a handler for all keys in ascending unit order.
// The handler can continue the process by returning true or abort with false.
// Returns whether all keys were visited.
func (b *Builder[V]) Walk(handler func(key string, val V) bool) bool {
	type frame struct {
		idx    int32
		prefix string
	}

	// walk the tree without function recursion
	toVisit := []frame{{idx: rootIdx}}

	for l := len(toVisit); l > 0; l = len(toVisit) {
		cur := toVisit[l-1]
		toVisit = toVisit[:l-1]

		n := b.pool.at(cur.idx)

		if n.payload != NoPayload && !handler(cur.prefix, b.payloads[n.payload]) {
			return false
		}

		// push the children in reverse to pop them in order
		for _, e := range n.edges.Backward() {
			toVisit = append(toVisit, frame{idx: e.target, prefix: cur.prefix + e.label})
		}
	}

	return true
}

// Keys returns all keys in ascending unit order.
func (b *Builder[V]) Keys() []string {
	keys := make([]string, 0, b.Len())

	b.Walk(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}
