package radix

import "fmt"

// Stats describes the shape of a compiled table.
type Stats struct {
	Strategy   Strategy
	Nodes      int // including the root
	Edges      int
	Payloads   int
	LabelBytes int // total size of all edge labels
	MaxFanout  int // largest number of edges of a single node
	DenseNodes int // nodes with a bitmap index
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes:%d|edges:%d|payloads:%d|labels:%dB|fanout:%d|dense:%d",
		s.Nodes, s.Edges, s.Payloads, s.LabelBytes, s.MaxFanout, s.DenseNodes)
}

// Stats returns the shape of the table.
func (t *Table[V]) Stats() Stats {
	return t.stats
}

func (t *Table[V]) collectStats() Stats {
	stats := Stats{
		Strategy: t.strategy,
		Payloads: len(t.payloads),
	}

	switch t.strategy {
	case PointerStrategy:
		stats.Nodes = len(t.ptrNodes)

		for i := range t.ptrNodes {
			n := &t.ptrNodes[i]

			stats.Edges += len(n.edges)
			stats.MaxFanout = max(stats.MaxFanout, len(n.edges))

			if n.fan != nil {
				stats.DenseNodes++
			}

			for j := range n.edges {
				stats.LabelBytes += len(n.edges[j].label)
			}
		}

	default:
		stats.Nodes = len(t.nodes)
		stats.Edges = len(t.edges)
		stats.LabelBytes = len(t.labels)
		stats.DenseNodes = len(t.fans)

		for i := range t.nodes {
			stats.MaxFanout = max(stats.MaxFanout, int(t.nodes[i].edgeCnt))
		}
	}

	return stats
}
