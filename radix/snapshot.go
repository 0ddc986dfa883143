package radix

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/aglyzov/go-trie/internal/byteset"
	"github.com/aglyzov/go-trie/label"
)

const snapshotVersion = 1

// Words per record in a snapshot.
const (
	nodeWords = 2 // edgeCnt, payload+1
	edgeWords = 4 // off, size, first, target
)

// snapshot is the CBOR form of an index table. Node edge offsets are implied by
// the running sum of edge counts; payload references are shifted by one so that
// 0 means no payload.
type snapshot[V any] struct {
	_ struct{} `cbor:",toarray"`

	Version     uint8
	Scheme      string
	DenseFanout int
	Nodes       []uint32
	Edges       []uint32
	Labels      []byte // a byte string: labels may split UTF-8 sequences
	Payloads    []V
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalCBOR encodes an index table. Pointer tables return ErrNotRelocatable.
func (t *Table[V]) MarshalCBOR() ([]byte, error) {
	if t.strategy != IndexStrategy {
		return nil, ErrNotRelocatable
	}

	snap := snapshot[V]{
		Version:     snapshotVersion,
		Scheme:      t.scheme.String(),
		DenseFanout: t.denseFanout,
		Nodes:       make([]uint32, 0, len(t.nodes)*nodeWords),
		Edges:       make([]uint32, 0, len(t.edges)*edgeWords),
		Labels:      []byte(t.labels),
		Payloads:    t.payloads,
	}

	for _, n := range t.nodes {
		snap.Nodes = append(snap.Nodes, n.edgeCnt, uint32(n.payload+1))
	}

	for _, e := range t.edges {
		snap.Edges = append(snap.Edges, e.off, e.size, e.first, e.target)
	}

	return encMode.Marshal(snap)
}

// UnmarshalCBOR decodes an index table and checks its structure.
func (t *Table[V]) UnmarshalCBOR(data []byte) error {
	var snap snapshot[V]

	if err := cbor.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	tab, err := fromSnapshot(&snap)
	if err != nil {
		return err
	}

	*t = *tab

	return nil
}

// UnmarshalTable decodes a table saved with MarshalCBOR.
func UnmarshalTable[V any](data []byte) (*Table[V], error) {
	tab := new(Table[V])

	if err := tab.UnmarshalCBOR(data); err != nil {
		return nil, err
	}

	return tab, nil
}

func fromSnapshot[V any](snap *snapshot[V]) (*Table[V], error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, snap.Version)
	}

	scheme, err := label.ParseScheme(snap.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	if len(snap.Nodes) == 0 || len(snap.Nodes)%nodeWords != 0 || len(snap.Edges)%edgeWords != 0 {
		return nil, fmt.Errorf("%w: bad record sizes", ErrBadSnapshot)
	}

	if snap.DenseFanout < 0 || (snap.DenseFanout > 0 && scheme.Kind != label.KindBytes) {
		return nil, fmt.Errorf("%w: bad dense fanout %d", ErrBadSnapshot, snap.DenseFanout)
	}

	var (
		numNodes = len(snap.Nodes) / nodeWords
		numEdges = len(snap.Edges) / edgeWords
		tab      = &Table[V]{
			scheme:      scheme,
			strategy:    IndexStrategy,
			denseFanout: snap.DenseFanout,
			nodes:       make([]flatNode, numNodes),
			edges:       make([]flatEdge, numEdges),
			labels:      string(snap.Labels),
			payloads:    snap.Payloads,
		}
		edgeOff uint32
		parents = make([]bool, numNodes)
	)

	for i := range tab.edges {
		rec := snap.Edges[i*edgeWords : (i+1)*edgeWords]
		e := flatEdge{off: rec[0], size: rec[1], first: rec[2], target: rec[3]}

		if err := tab.checkEdge(&e); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %w", ErrBadSnapshot, i, err)
		}

		if parents[e.target] {
			return nil, fmt.Errorf("%w: node %d has two parents", ErrBadSnapshot, e.target)
		}

		parents[e.target] = true
		tab.edges[i] = e
	}

	for i := range tab.nodes {
		var (
			rec     = snap.Nodes[i*nodeWords : (i+1)*nodeWords]
			edgeCnt = rec[0]
			payload = int64(rec[1]) - 1
			n       = &tab.nodes[i]
		)

		if uint64(edgeOff)+uint64(edgeCnt) > uint64(numEdges) || payload >= int64(len(tab.payloads)) {
			return nil, fmt.Errorf("%w: node %d out of bounds", ErrBadSnapshot, i)
		}

		n.edgeOff, n.edgeCnt, n.payload, n.fan = edgeOff, edgeCnt, int32(payload), noFan
		edgeOff += edgeCnt

		if err := tab.checkOrder(n); err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", ErrBadSnapshot, i, err)
		}

		if tab.denseFanout > 0 && int(edgeCnt) >= tab.denseFanout {
			var fan byteset.Set

			for j := n.edgeOff; j < n.edgeOff+n.edgeCnt; j++ {
				fan.Add(tab.first(&tab.edges[j])[0])
			}

			n.fan = int32(len(tab.fans))
			tab.fans = append(tab.fans, fan)
		}
	}

	if int(edgeOff) != numEdges {
		return nil, fmt.Errorf("%w: %d edges are not owned by any node", ErrBadSnapshot, numEdges-int(edgeOff))
	}

	tab.stats = tab.collectStats()

	return tab, nil
}

func (t *Table[V]) checkEdge(e *flatEdge) error {
	switch {
	case uint64(e.off)+uint64(e.size) > uint64(len(t.labels)):
		return errors.New("label out of bounds")
	case e.size == 0 || e.first == 0 || e.first > e.size:
		return errors.New("bad label size")
	case int(e.target) == 0 || int(e.target) >= len(t.nodes):
		return fmt.Errorf("target %d out of bounds", e.target)
	}

	if unit, _ := t.scheme.First(t.label(e)); len(unit) != int(e.first) {
		return errors.New("first unit mismatch")
	}

	return nil
}

// checkOrder verifies that sibling edges are sorted by unique first units.
func (t *Table[V]) checkOrder(n *flatNode) error {
	for j := n.edgeOff + 1; j < n.edgeOff+n.edgeCnt; j++ {
		if t.first(&t.edges[j-1]) >= t.first(&t.edges[j]) {
			return errors.New("edges are not sorted")
		}
	}

	return nil
}
