package radix

// deadState is the absorbing state reached on any failed edge lookup.
const deadState int32 = -1

// Automaton is a matcher over a compiled Table. Its only mutable state is the
// current node, so copies are independent matchers sharing the same table.
//
// States are {root, node(n), dead}; dead is left only by Reset.
type Automaton[V any] struct {
	tab  *Table[V]
	cur  int32       // IndexStrategy: node index or deadState
	node *ptrNode[V] // PointerStrategy: current node or nil when dead
}

// NewAutomaton returns a matcher over the table at the root state.
func NewAutomaton[V any](tab *Table[V]) Automaton[V] {
	a := Automaton[V]{tab: tab}
	a.Reset()

	return a
}

// Table returns the shared table of the automaton.
func (a *Automaton[V]) Table() *Table[V] {
	return a.tab
}

// Reset moves the automaton to the root state.
func (a *Automaton[V]) Reset() {
	switch {
	case a.tab == nil:
		a.cur, a.node = deadState, nil
	case a.tab.strategy == PointerStrategy:
		a.cur, a.node = deadState, &a.tab.ptrNodes[0]
	default:
		a.cur, a.node = 0, nil
	}
}

// Dead reports whether the automaton is in the dead state.
func (a *Automaton[V]) Dead() bool {
	return a.tab == nil || (a.cur == deadState && a.node == nil)
}

// Find resets the automaton, consumes the whole key and reports whether the key
// was inserted. After a successful Find the payload is available via Payload.
func (a *Automaton[V]) Find(key string) bool {
	a.Reset()

	if key == "" {
		return false
	}

	return a.Advance(key) && a.HasPayload()
}

// Advance consumes a fragment of a key following whole edges. It moves to the
// dead state when the fragment diverges from the trie or ends inside an edge
// label (including an end that is not on a unit boundary of the label). With
// compression off every edge is a single unit, so a key can be streamed unit
// by unit.
//
// Returns false when the automaton is dead.
func (a *Automaton[V]) Advance(fragment string) bool {
	if a.tab == nil {
		return false
	}

	if a.node != nil {
		a.node = a.advancePointer(a.node, fragment)
	} else if a.cur != deadState {
		a.cur = a.advanceIndex(uint32(a.cur), fragment)
	}

	return !a.Dead()
}

func (a *Automaton[V]) advanceIndex(cur uint32, rest string) int32 {
	var (
		tab    = a.tab
		scheme = tab.scheme
	)

	for rest != "" {
		var (
			first, _ = scheme.First(rest)
			e        = tab.findEdge(&tab.nodes[cur], first)
		)

		if e == nil {
			return deadState
		}

		lbl := tab.label(e)

		if !scheme.HasPrefix(rest, lbl) {
			// partial match of a label or a misaligned unit
			return deadState
		}

		cur, rest = e.target, rest[len(lbl):]
	}

	return int32(cur)
}

func (a *Automaton[V]) advancePointer(cur *ptrNode[V], rest string) *ptrNode[V] {
	scheme := a.tab.scheme

	for rest != "" {
		var (
			first, _ = scheme.First(rest)
			e        = findPtrEdge(cur, first)
		)

		if e == nil || !scheme.HasPrefix(rest, e.label) {
			return nil
		}

		cur, rest = e.next, rest[len(e.label):]
	}

	return cur
}

// HasPayload reports whether the current node represents an inserted key.
func (a *Automaton[V]) HasPayload() bool {
	if a.Dead() {
		return false
	}

	switch {
	case a.node != nil:
		return a.node.payload != nil
	case a.cur != deadState:
		return a.tab.nodes[a.cur].payload >= 0
	}

	return false
}

// Payload returns the payload of the current node.
func (a *Automaton[V]) Payload() (V, bool) {
	switch {
	case a.Dead():
		// no payload
	case a.node != nil:
		if p := a.node.payload; p != nil {
			return *p, true
		}
	case a.cur != deadState:
		if p := a.tab.nodes[a.cur].payload; p >= 0 {
			return a.tab.payloads[p], true
		}
	}

	var zero V

	return zero, false
}

// Visit calls fn with the payload of the current node if there is one.
func (a *Automaton[V]) Visit(fn func(V)) {
	if val, ok := a.Payload(); ok {
		fn(val)
	}
}

// WalkPath calls a handler for every inserted key that is a unit-aligned prefix
// of key (the key itself included), shortest first. The handler can continue
// the process by returning true or abort with false.
//
// The automaton state is left untouched.
func (a *Automaton[V]) WalkPath(key string, handler func(prefix string, val V) bool) {
	m := *a // a private matcher over the same table
	m.Reset()

	if m.Dead() {
		return
	}

	scheme := m.tab.scheme

	for rest := key; rest != ""; {
		var (
			first, _ = scheme.First(rest)
			lbl      string
		)

		if m.node != nil {
			e := findPtrEdge(m.node, first)
			if e == nil || !scheme.HasPrefix(rest, e.label) {
				return
			}
			lbl, m.node = e.label, e.next
		} else {
			e := m.tab.findEdge(&m.tab.nodes[m.cur], first)
			if e == nil || !scheme.HasPrefix(rest, m.tab.label(e)) {
				return
			}
			lbl, m.cur = m.tab.label(e), int32(e.target)
		}

		rest = rest[len(lbl):]

		if val, ok := m.Payload(); ok && !handler(key[:len(key)-len(rest)], val) {
			return
		}
	}
}
